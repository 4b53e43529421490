package itemtests

import (
	"encoding/json"
	"net/http"

	"github.com/contract-tests/items-contract-tests/client"
	"github.com/contract-tests/items-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// nonexistentItemID is an ID that no item has. The reference service uses UUIDs, so it rejects
// this one as malformed before looking for it.
const nonexistentItemID servicedef.ItemID = "9999999"

// requireResponse fails the test immediately if the request did not get any response.
func (t *T) requireResponse(resp *client.Response, err error) *client.Response {
	require.NoError(t, err, "request failed")
	return resp
}

// RequireStatus fails the test immediately unless the response has one of the expected statuses.
func (t *T) RequireStatus(resp *client.Response, expected ...int) {
	if !t.AssertStatus(resp, expected...) {
		t.FailNow()
	}
}

// AssertStatus fails the test, without exiting, unless the response has one of the expected
// statuses.
func (t *T) AssertStatus(resp *client.Response, expected ...int) bool {
	for _, status := range expected {
		if resp.StatusCode == status {
			return true
		}
	}
	if len(expected) == 1 {
		return assert.Fail(t, "unexpected status code", "expected %d, got %s", expected[0], resp)
	}
	return assert.Fail(t, "unexpected status code", "expected one of %v, got %s", expected, resp)
}

// AssertNotServerError fails the test if the service reported an internal error. A 5xx status
// is never an acceptable answer to a well-formed request.
func (t *T) AssertNotServerError(resp *client.Response) bool {
	return assert.Less(t, resp.StatusCode, 500, "service returned a server error: %s", resp)
}

// RequireErrorDetail checks that an error response has the service's error body.
func (t *T) RequireErrorDetail(resp *client.Response) {
	t.RequireSchema(errorSchema, resp, "error response")
}

// CreateItem creates an item that is deleted again when the test ends.
func (t *T) CreateItem(payload servicedef.ItemPayload) servicedef.Item {
	resp := t.requireResponse(t.session.CreateItem(t.Context(), payload))
	t.cleanupIfCreated(resp)
	t.RequireStatus(resp, http.StatusOK)
	return t.requireItemBody(resp)
}

func (t *T) CreateRandomItem() servicedef.Item {
	return t.CreateItem(t.Data().ItemPayload())
}

func (t *T) CreateRandomItems(count int) []servicedef.Item {
	items := make([]servicedef.Item, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, t.CreateRandomItem())
	}
	return items
}

// ReadItem gets an item that must exist.
func (t *T) ReadItem(id servicedef.ItemID) servicedef.Item {
	resp := t.requireResponse(t.session.GetItem(t.Context(), id))
	t.RequireStatus(resp, http.StatusOK)
	return t.requireItemBody(resp)
}

// RequireItemAbsent checks that reading an item gets a 404.
func (t *T) RequireItemAbsent(id servicedef.ItemID) {
	resp := t.requireResponse(t.session.GetItem(t.Context(), id))
	t.RequireStatus(resp, http.StatusNotFound)
}

// AssertItemFields compares the title and description in an item body with the ones that were
// sent, showing a diff if they differ.
func (t *T) AssertItemFields(expected servicedef.ItemPayload, id servicedef.ItemID, resp *client.Response) bool {
	expectedFields, err := toJSONObject(expected)
	require.NoError(t, err)
	expectedFields["id"] = string(id)

	actualFields, err := toJSONObject(resp.Body)
	require.NoError(t, err, "item body is not a JSON object")
	if rawID, ok := actualFields["id"]; ok {
		actualFields["id"] = normalizeID(rawID)
	}

	diff, err := diffJSON(expectedFields, actualFields)
	require.NoError(t, err)
	if diff != "" {
		return assert.Fail(t, "item does not have the expected fields", "diff (expected vs. actual):\n%s", diff)
	}
	return true
}

// RequireReadBack reads an item and checks that it has the expected fields.
func (t *T) RequireReadBack(id servicedef.ItemID, expected servicedef.ItemPayload) {
	resp := t.requireResponse(t.session.GetItem(t.Context(), id))
	t.RequireStatus(resp, http.StatusOK)
	t.RequireSchema(itemSchema, resp, "item")
	if !t.AssertItemFields(expected, id, resp) {
		t.FailNow()
	}
}

func (t *T) requireItemBody(resp *client.Response) servicedef.Item {
	t.RequireSchema(itemSchema, resp, "item")
	var item servicedef.Item
	require.NoError(t, resp.JSON(&item))
	require.NotEmpty(t, item.ID, "item has no id")
	return item
}

// cleanupIfCreated schedules deletion of the item in a response, if it is a successful response
// with an id. Tests call it even when they expect the service to refuse, so that a service that
// wrongly accepts the request is not left holding the item.
func (t *T) cleanupIfCreated(resp *client.Response) {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return
	}
	var item servicedef.Item
	if resp.JSON(&item) == nil && item.ID != "" {
		t.cleanupItem(item.ID)
	}
}

// cleanupItem deletes an item when the test ends. It is fine if the item is already gone.
func (t *T) cleanupItem(id servicedef.ItemID) {
	session, ctx := t.session, t.Context()
	t.Defer(func() {
		resp, err := session.DeleteItem(ctx, id)
		switch {
		case err != nil:
			t.Debug("could not delete item %s: %s", id, err)
		case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound:
			t.Debug("deleting item %s returned unexpected status: %s", id, resp)
		}
	})
}

func normalizeID(raw interface{}) interface{} {
	var id servicedef.ItemID
	data, err := json.Marshal(raw)
	if err != nil || id.UnmarshalJSON(data) != nil {
		return raw
	}
	return string(id)
}
