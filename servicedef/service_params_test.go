package servicedef

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func TestItemIDAcceptsStringOrNumber(t *testing.T) {
	for _, tc := range []struct {
		json     string
		expected ItemID
	}{
		{`"6f1c2a7e-5b1d-4c3e-9d39-0a6f3c2b1e77"`, "6f1c2a7e-5b1d-4c3e-9d39-0a6f3c2b1e77"},
		{`42`, "42"},
		{`null`, ""},
	} {
		t.Run(tc.json, func(t *testing.T) {
			var id ItemID
			require.NoError(t, json.Unmarshal([]byte(tc.json), &id))
			assert.Equal(t, tc.expected, id)
		})
	}
}

func TestItemIDRejectsOtherTypes(t *testing.T) {
	var id ItemID
	assert.Error(t, json.Unmarshal([]byte(`{"id":1}`), &id))
	assert.Error(t, json.Unmarshal([]byte(`true`), &id))
}

func TestItemPayloadSendsNullForUndefinedFields(t *testing.T) {
	data, err := json.Marshal(ItemPayload{Title: ldvalue.NewOptionalString("")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"","description":null}`, string(data))

	data, err = json.Marshal(NewItemPayload("Banana", "A quick test sentence."))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Banana","description":"A quick test sentence."}`, string(data))
}

func TestItemDecodesNullDescription(t *testing.T) {
	var item Item
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc","title":"T","description":null,"owner_id":"u"}`), &item))
	assert.Equal(t, Item{ID: "abc", Title: "T", OwnerID: "u"}, item)
	assert.False(t, item.Description.IsDefined())
}

func TestListParamsQuery(t *testing.T) {
	assert.Equal(t, "", ListParams{}.Query().Encode())
	assert.Equal(t, "limit=5&offset=0",
		ListParams{Limit: ldvalue.NewOptionalInt(5), Offset: ldvalue.NewOptionalInt(0)}.Query().Encode())
}

func TestItemPath(t *testing.T) {
	assert.Equal(t, "/api/v1/items/9999999", DefaultPaths().Item("9999999"))
	assert.Equal(t, "/api/v1/items/a%2Fb", DefaultPaths().Item("a/b"))
}
