package codec

import (
	"reflect"
	"testing"
)

// TestJSONObjectRoundTrip verifies encode/decode of a JSON object
func TestJSONObjectRoundTrip(t *testing.T) {
	obj := map[string]any{
		"name":   "ann",
		"score":  float64(10),
		"active": true,
		"tags":   []any{"a", "b"},
	}

	text, err := EncodeJSONObject(obj)
	if err != nil {
		t.Fatalf("EncodeJSONObject failed: %v", err)
	}

	decoded, ok := DecodeJSONObject(text)
	if !ok {
		t.Fatal("DecodeJSONObject rejected its own encoding")
	}
	if !reflect.DeepEqual(obj, decoded) {
		t.Errorf("Round trip mismatch: expected %v, got %v", obj, decoded)
	}
}

// TestJSONArrayRoundTrip verifies encode/decode of a JSON array
func TestJSONArrayRoundTrip(t *testing.T) {
	arr := []any{"x", float64(1), false, map[string]any{"k": "v"}}

	text, err := EncodeJSONArray(arr)
	if err != nil {
		t.Fatalf("EncodeJSONArray failed: %v", err)
	}

	decoded, ok := DecodeJSONArray(text)
	if !ok {
		t.Fatal("DecodeJSONArray rejected its own encoding")
	}
	if !reflect.DeepEqual(arr, decoded) {
		t.Errorf("Round trip mismatch: expected %v, got %v", arr, decoded)
	}
}

// TestDecodeObjectRejects verifies that decoding signals fallback instead of
// erroring on unusable input.
func TestDecodeObjectRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"malformed", "{broken"},
		{"null", "null"},
		{"array", `["not", "an", "object"]`},
		{"scalar", "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := DecodeJSONObject(tt.text); ok {
				t.Errorf("DecodeJSONObject(%q) should report false", tt.text)
			}
		})
	}
}

// TestDecodeArrayRejects mirrors TestDecodeObjectRejects for arrays
func TestDecodeArrayRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"malformed", "[broken"},
		{"null", "null"},
		{"object", `{"not": "an array"}`},
		{"scalar", "true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := DecodeJSONArray(tt.text); ok {
				t.Errorf("DecodeJSONArray(%q) should report false", tt.text)
			}
		})
	}
}

// TestDecodeEmptyContainers verifies that empty (but valid) documents decode
func TestDecodeEmptyContainers(t *testing.T) {
	obj, ok := DecodeJSONObject("{}")
	if !ok || len(obj) != 0 {
		t.Errorf("DecodeJSONObject(\"{}\") should yield an empty object, got %v %v", obj, ok)
	}

	arr, ok := DecodeJSONArray("[]")
	if !ok || len(arr) != 0 {
		t.Errorf("DecodeJSONArray(\"[]\") should yield an empty array, got %v %v", arr, ok)
	}
}
