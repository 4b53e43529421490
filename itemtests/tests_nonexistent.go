package itemtests

import (
	"net/http"
)

func DoNonexistentItemTests(t *T) {
	t.Run("update nonexistent", func(t *T) {
		resp := t.requireResponse(t.Session().UpdateItem(t.Context(), nonexistentItemID, t.Data().ItemPayload()))
		t.RequireStatus(resp, http.StatusUnprocessableEntity)
	})

	t.Run("delete nonexistent", func(t *T) {
		resp := t.requireResponse(t.Session().DeleteItem(t.Context(), nonexistentItemID))
		t.RequireStatus(resp, http.StatusUnprocessableEntity)
	})

	t.Run("double delete", func(t *T) {
		item := t.CreateRandomItem()

		resp := t.requireResponse(t.Session().DeleteItem(t.Context(), item.ID))
		t.RequireStatus(resp, http.StatusOK)

		resp = t.requireResponse(t.Session().DeleteItem(t.Context(), item.ID))
		t.RequireStatus(resp, http.StatusNotFound)
	})
}
