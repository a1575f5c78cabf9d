package codec

import "encoding/json"

// --------------------------------------------------------------------------
// JSON string layer
// --------------------------------------------------------------------------
//
// JSON objects and arrays are serialized to their canonical string form
// before storage and parsed back on read. Decoding never returns an error:
// a malformed or mismatched document resolves to the caller's fallback,
// which the decode functions signal with a false return.

// EncodeJSONObject serializes a JSON object to its string form.
func EncodeJSONObject(obj map[string]any) (string, error) {
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeJSONObject parses a string as a JSON object.
// Returns false if the string is empty, malformed, or not an object.
func DecodeJSONObject(text string) (map[string]any, bool) {
	if text == "" {
		return nil, false
	}
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

// EncodeJSONArray serializes a JSON array to its string form.
func EncodeJSONArray(arr []any) (string, error) {
	data, err := json.Marshal(arr)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DecodeJSONArray parses a string as a JSON array.
// Returns false if the string is empty, malformed, or not an array.
func DecodeJSONArray(text string) ([]any, bool) {
	if text == "" {
		return nil, false
	}
	var arr []any
	if err := json.Unmarshal([]byte(text), &arr); err != nil || arr == nil {
		return nil, false
	}
	return arr, true
}
