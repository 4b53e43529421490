package itemtests

import (
	"encoding/json"
	"fmt"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"
)

// diffJSON compares two JSON objects and returns a readable diff, or "" if they are equal.
// Properties that only exist in actual are ignored, since services may add fields of their own.
func diffJSON(expected, actual map[string]interface{}) (string, error) {
	pruned := make(map[string]interface{}, len(expected))
	for k, v := range actual {
		if _, ok := expected[k]; ok {
			pruned[k] = v
		}
	}
	expectedBytes, err := json.Marshal(expected)
	if err != nil {
		return "", err
	}
	actualBytes, err := json.Marshal(pruned)
	if err != nil {
		return "", err
	}

	diff, err := gojsondiff.New().Compare(expectedBytes, actualBytes)
	if err != nil {
		return "", fmt.Errorf("JSON comparison failed: %w", err)
	}
	if !diff.Modified() {
		return "", nil
	}

	var left map[string]interface{}
	_ = json.Unmarshal(expectedBytes, &left)
	f := formatter.NewAsciiFormatter(left, formatter.AsciiFormatterConfig{ShowArrayIndex: true})
	return f.Format(diff)
}

// toJSONObject converts a value to the generic form that encoding/json decodes objects into.
func toJSONObject(v interface{}) (map[string]interface{}, error) {
	data, ok := v.([]byte)
	if !ok {
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}
	var ret map[string]interface{}
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, fmt.Errorf("not a JSON object: %s", string(data))
	}
	return ret, nil
}
