package itemtests

import (
	"fmt"
	"strings"

	"github.com/contract-tests/items-contract-tests/client"

	"github.com/stretchr/testify/require"
	"github.com/xeipuuv/gojsonschema"
)

const itemSchemaJSON = `{
	"type": "object",
	"required": ["id", "title"],
	"properties": {
		"id": {"type": ["string", "integer"]},
		"title": {"type": "string"},
		"description": {"type": ["string", "null"]},
		"owner_id": {"type": ["string", "integer", "null"]}
	}
}`

var (
	itemSchema = mustCompileSchema(itemSchemaJSON)

	itemsPageSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["data", "count"],
		"properties": {
			"data": {"type": "array", "items": ` + itemSchemaJSON + `},
			"count": {"type": "integer", "minimum": 0}
		}
	}`)

	tokenSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["access_token"],
		"properties": {
			"access_token": {"type": "string", "minLength": 1},
			"token_type": {"type": "string"}
		}
	}`)

	errorSchema = mustCompileSchema(`{
		"type": "object",
		"required": ["detail"],
		"properties": {
			"detail": {"type": ["string", "array"]}
		}
	}`)
)

func mustCompileSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Errorf("invalid JSON schema: %w", err))
	}
	return schema
}

// schemaProblems returns a description of each way the body fails to match the schema.
func schemaProblems(schema *gojsonschema.Schema, body []byte) []string {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return []string{fmt.Sprintf("body is not valid JSON: %s", err)}
	}
	var problems []string
	for _, e := range result.Errors() {
		problems = append(problems, e.String())
	}
	return problems
}

// RequireSchema fails the test immediately if the response body does not match the schema.
func (t *T) RequireSchema(schema *gojsonschema.Schema, resp *client.Response, what string) {
	if problems := schemaProblems(schema, resp.Body); len(problems) != 0 {
		require.Fail(t, what+" does not have the expected shape",
			"%s\nresponse was: %s", strings.Join(problems, "\n"), resp)
	}
}
