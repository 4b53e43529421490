package itemtests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiffJSONIgnoresExtraProperties(t *testing.T) {
	diff, err := diffJSON(
		map[string]interface{}{"id": "a", "title": "T"},
		map[string]interface{}{"id": "a", "title": "T", "owner_id": "u"},
	)
	require.NoError(t, err)
	assert.Equal(t, "", diff)
}

func TestDiffJSONShowsChangedProperties(t *testing.T) {
	diff, err := diffJSON(
		map[string]interface{}{"id": "a", "title": "Banana Updated", "description": nil},
		map[string]interface{}{"id": "a", "title": "Banana", "description": nil},
	)
	require.NoError(t, err)
	assert.Contains(t, diff, `"Banana Updated"`)
	assert.Contains(t, diff, `"Banana"`)
	assert.NotContains(t, diff, "owner_id")
}

func TestDiffJSONReportsMissingProperties(t *testing.T) {
	diff, err := diffJSON(
		map[string]interface{}{"id": "a", "description": "d"},
		map[string]interface{}{"id": "a"},
	)
	require.NoError(t, err)
	assert.Contains(t, diff, `"description"`)
}

func TestToJSONObject(t *testing.T) {
	obj, err := toJSONObject([]byte(`{"id":42}`))
	require.NoError(t, err)
	assert.Equal(t, float64(42), obj["id"])
	assert.Equal(t, "42", normalizeID(obj["id"]))

	_, err = toJSONObject([]byte(`[1]`))
	assert.Error(t, err)
	_, err = toJSONObject([]byte(`null`))
	assert.Error(t, err)
}

func TestSchemas(t *testing.T) {
	assert.Empty(t, schemaProblems(itemSchema, []byte(`{"id":"a","title":"T","description":null}`)))
	assert.Empty(t, schemaProblems(itemSchema, []byte(`{"id":1,"title":"T"}`)))
	assert.NotEmpty(t, schemaProblems(itemSchema, []byte(`{"title":"T"}`)))
	assert.NotEmpty(t, schemaProblems(itemSchema, []byte(`{"id":null,"title":"T"}`)))

	assert.Empty(t, schemaProblems(itemsPageSchema, []byte(`{"data":[],"count":0}`)))
	assert.NotEmpty(t, schemaProblems(itemsPageSchema, []byte(`{"data":[],"count":1.5}`)))
	assert.NotEmpty(t, schemaProblems(itemsPageSchema, []byte(`{"data":{},"count":0}`)))

	assert.Empty(t, schemaProblems(tokenSchema, []byte(`{"access_token":"x","token_type":"bearer"}`)))
	assert.NotEmpty(t, schemaProblems(tokenSchema, []byte(`{"access_token":""}`)))

	assert.Empty(t, schemaProblems(errorSchema, []byte(`{"detail":"Not authenticated"}`)))
	assert.Empty(t, schemaProblems(errorSchema, []byte(`{"detail":[{"msg":"x"}]}`)))
	assert.NotEmpty(t, schemaProblems(errorSchema, []byte(`{"message":"x"}`)))
	assert.NotEmpty(t, schemaProblems(errorSchema, []byte(`not json`)))
}
