package itemtests

import (
	"fmt"
	"net/http"

	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const updatedSuffix = " Updated"

func DoCRUDTests(t *T) {
	t.Run("create item", func(t *T) {
		payload := t.Data().ItemPayload()
		resp := t.requireResponse(t.Session().CreateItem(t.Context(), payload))
		t.cleanupIfCreated(resp)
		t.RequireStatus(resp, http.StatusOK)
		item := t.requireItemBody(resp)

		assert.Equal(t, payload.Title.StringValue(), item.Title)
		t.AssertItemFields(payload, item.ID, resp)
		t.RequireReadBack(item.ID, payload)
	})

	t.Run("list items", func(t *T) {
		resp := t.requireResponse(t.Session().ListItems(t.Context(), servicedef.ListParams{
			Limit:  ldvalue.NewOptionalInt(5),
			Offset: ldvalue.NewOptionalInt(0),
		}))
		t.RequireStatus(resp, http.StatusOK)
		t.RequireSchema(itemsPageSchema, resp, "items page")

		var page servicedef.ItemsPage
		require.NoError(t, resp.JSON(&page))
		assert.LessOrEqual(t, len(page.Data), 5)
	})

	t.Run("list respects limit", func(t *T) {
		for _, limit := range []int{1, 3} {
			t.Run(fmt.Sprint(limit), func(t *T) {
				t.CreateRandomItems(limit + 1)

				resp := t.requireResponse(t.Session().ListItems(t.Context(), servicedef.ListParams{
					Limit:  ldvalue.NewOptionalInt(limit),
					Offset: ldvalue.NewOptionalInt(0),
				}))
				t.RequireStatus(resp, http.StatusOK)
				t.RequireSchema(itemsPageSchema, resp, "items page")

				var page servicedef.ItemsPage
				require.NoError(t, resp.JSON(&page))
				assert.LessOrEqual(t, len(page.Data), limit, "page has more items than the limit")
				assert.GreaterOrEqual(t, page.Count, limit+1, "count does not include all items")
			})
		}
	})

	t.Run("read item", func(t *T) {
		item := t.CreateRandomItem()

		resp := t.requireResponse(t.Session().GetItem(t.Context(), item.ID))
		t.RequireStatus(resp, http.StatusOK)
		t.RequireSchema(itemSchema, resp, "item")
		t.AssertItemFields(servicedef.ItemPayload{
			Title:       ldvalue.NewOptionalString(item.Title),
			Description: item.Description,
		}, item.ID, resp)
	})

	t.Run("update item", func(t *T) {
		item := t.CreateRandomItem()
		payload := servicedef.NewItemPayload(
			item.Title+updatedSuffix,
			item.Description.StringValue()+updatedSuffix,
		)

		resp := t.requireResponse(t.Session().UpdateItem(t.Context(), item.ID, payload))
		t.RequireStatus(resp, http.StatusOK)
		t.RequireSchema(itemSchema, resp, "item")
		t.AssertItemFields(payload, item.ID, resp)
		t.RequireReadBack(item.ID, payload)
	})

	t.Run("delete item", func(t *T) {
		item := t.CreateRandomItem()

		resp := t.requireResponse(t.Session().DeleteItem(t.Context(), item.ID))
		t.RequireStatus(resp, http.StatusOK)
		t.RequireItemAbsent(item.ID)
	})
}
