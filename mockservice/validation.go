package mockservice

import (
	"encoding/json"
	"fmt"
	"strconv"
	"unicode/utf8"

	"github.com/contract-tests/items-contract-tests/servicedef"
)

const maxFieldLength = 255

// itemFields is a decoded item body. A nil pointer means the field was null or absent.
type itemFields struct {
	title              *string
	description        *string
	descriptionPresent bool
	hasNull            bool
}

func missingField(field string) servicedef.ValidationError {
	return servicedef.ValidationError{
		Type: "missing",
		Loc:  []interface{}{"body", field},
		Msg:  "Field required",
	}
}

// decodeItemFields validates a create or update body. For a create, title is required; for an
// update, every field is optional but a title that is present must still be a valid string.
func decodeItemFields(body []byte, requireTitle bool, minTitleLength int) (itemFields, []servicedef.ValidationError) {
	var ret itemFields
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return ret, []servicedef.ValidationError{{
			Type: "json_invalid",
			Loc:  []interface{}{"body"},
			Msg:  "JSON decode error",
		}}
	}

	var problems []servicedef.ValidationError
	if rawTitle, ok := raw["title"]; ok {
		value, isNull, problem := decodeString("title", rawTitle, minTitleLength)
		ret.hasNull = isNull
		switch {
		case isNull && !requireTitle:
		case problem != nil:
			problems = append(problems, *problem)
		default:
			ret.title = &value
		}
	} else if requireTitle {
		problems = append(problems, missingField("title"))
	}
	if rawDescription, ok := raw["description"]; ok {
		ret.descriptionPresent = true
		value, isNull, problem := decodeString("description", rawDescription, 0)
		ret.hasNull = ret.hasNull || isNull
		switch {
		case isNull:
		case problem != nil:
			problems = append(problems, *problem)
		default:
			ret.description = &value
		}
	}
	return ret, problems
}

func decodeString(field string, data json.RawMessage, minLength int) (string, bool, *servicedef.ValidationError) {
	loc := []interface{}{"body", field}
	var value interface{}
	_ = json.Unmarshal(data, &value)
	s, ok := value.(string)
	if !ok {
		return "", value == nil, &servicedef.ValidationError{
			Type: "string_type", Loc: loc, Msg: "Input should be a valid string", Input: value,
		}
	}
	length := utf8.RuneCountInString(s)
	if length < minLength {
		return "", false, &servicedef.ValidationError{
			Type:  "string_too_short",
			Loc:   loc,
			Msg:   fmt.Sprintf("String should have at least %d character", minLength),
			Input: s,
		}
	}
	if length > maxFieldLength {
		return "", false, &servicedef.ValidationError{
			Type:  "string_too_long",
			Loc:   loc,
			Msg:   fmt.Sprintf("String should have at most %d characters", maxFieldLength),
			Input: s,
		}
	}
	return s, false, nil
}

// queryInt parses an optional non-negative integer query parameter.
func queryInt(name, value string, defaultValue int) (int, *servicedef.ValidationError) {
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, &servicedef.ValidationError{
			Type:  "int_parsing",
			Loc:   []interface{}{"query", name},
			Msg:   "Input should be a valid non-negative integer",
			Input: value,
		}
	}
	return n, nil
}
