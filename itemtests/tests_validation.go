package itemtests

import (
	"net/http"

	"github.com/contract-tests/items-contract-tests/servicedef"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// emptyTitlePayload has an empty title and a null description.
func emptyTitlePayload() servicedef.ItemPayload {
	return servicedef.ItemPayload{Title: ldvalue.NewOptionalString("")}
}

func DoValidationTests(t *T) {
	t.Run("create with empty title", func(t *T) {
		resp := t.requireResponse(t.Session().CreateItem(t.Context(), emptyTitlePayload()))
		t.cleanupIfCreated(resp)
		t.RequireStatus(resp, http.StatusUnprocessableEntity)
		t.RequireErrorDetail(resp)
	})

	t.Run("update with empty title", func(t *T) {
		item := t.CreateRandomItem()

		resp := t.requireResponse(t.Session().UpdateItem(t.Context(), item.ID, emptyTitlePayload()))
		t.RequireStatus(resp, http.StatusUnprocessableEntity)
		t.RequireErrorDetail(resp)
		t.RequireReadBack(item.ID, servicedef.ItemPayload{
			Title:       ldvalue.NewOptionalString(item.Title),
			Description: item.Description,
		})
	})

	t.Run("no 500 on null fields", func(t *T) {
		resp := t.requireResponse(t.Session().CreateItem(t.Context(), servicedef.ItemPayload{}))
		t.cleanupIfCreated(resp)
		t.AssertNotServerError(resp)
	})
}
