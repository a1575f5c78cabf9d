package codec

import "testing"

// TestConstructorsAndExtraction verifies that each constructor produces a
// value of the right kind and that the matching accessor returns the payload.
func TestConstructorsAndExtraction(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		kind  Kind
	}{
		{"float", Float(3.14), KindFloat},
		{"int", Int(-42), KindInt},
		{"long", Long(1 << 40), KindLong},
		{"string", String("hello"), KindString},
		{"bool", Bool(true), KindBool},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.Kind() != tt.kind {
				t.Errorf("Expected kind %s, got %s", tt.kind, tt.value.Kind())
			}
			if !tt.value.Valid() {
				t.Errorf("Value %v should be valid", tt.value)
			}
		})
	}

	if f, ok := Float(3.14).Float(); !ok || f != 3.14 {
		t.Errorf("Float extraction failed, got %v %v", f, ok)
	}
	if i, ok := Int(-42).Int(); !ok || i != -42 {
		t.Errorf("Int extraction failed, got %v %v", i, ok)
	}
	if l, ok := Long(1 << 40).Long(); !ok || l != 1<<40 {
		t.Errorf("Long extraction failed, got %v %v", l, ok)
	}
	if s, ok := String("hello").Text(); !ok || s != "hello" {
		t.Errorf("Text extraction failed, got %v %v", s, ok)
	}
	if b, ok := Bool(true).Bool(); !ok || !b {
		t.Errorf("Bool extraction failed, got %v %v", b, ok)
	}
}

// TestKindMismatch verifies that accessing a value through the wrong typed
// accessor reports a mismatch instead of converting.
func TestKindMismatch(t *testing.T) {
	v := Int(5)

	if _, ok := v.Float(); ok {
		t.Error("Float accessor should not match an Int value")
	}
	if _, ok := v.Long(); ok {
		t.Error("Long accessor should not match an Int value")
	}
	if _, ok := v.Text(); ok {
		t.Error("Text accessor should not match an Int value")
	}
	if _, ok := v.Bool(); ok {
		t.Error("Bool accessor should not match an Int value")
	}
}

// TestEquality verifies that the kind is part of equality
func TestEquality(t *testing.T) {
	if !Int(5).Equal(Int(5)) {
		t.Error("Int(5) should equal Int(5)")
	}
	if Int(5).Equal(Long(5)) {
		t.Error("Int(5) should not equal Long(5): same payload, different kind")
	}
	if Int(5).Equal(Int(6)) {
		t.Error("Int(5) should not equal Int(6)")
	}
	if String("1").Equal(Int(1)) {
		t.Error("String(\"1\") should not equal Int(1)")
	}
	if !Bool(false).Equal(Bool(false)) {
		t.Error("Bool(false) should equal Bool(false)")
	}
}

// TestZeroValue verifies the zero Value is invalid
func TestZeroValue(t *testing.T) {
	var v Value
	if v.Valid() {
		t.Error("Zero Value should be invalid")
	}
	if v.Kind() != KindInvalid {
		t.Errorf("Zero Value kind should be KindInvalid, got %s", v.Kind())
	}
	if _, ok := v.Text(); ok {
		t.Error("Zero Value should not extract as a string")
	}
}

// TestPayloadSize verifies the size accounting used by the store statistics
func TestPayloadSize(t *testing.T) {
	tests := []struct {
		value Value
		size  int
	}{
		{Float(1.5), 4},
		{Int(1), 4},
		{Long(1), 8},
		{String("abcde"), 5},
		{String(""), 0},
		{Bool(true), 1},
		{Value{}, 0},
	}

	for _, tt := range tests {
		if got := tt.value.PayloadSize(); got != tt.size {
			t.Errorf("PayloadSize of %v: expected %d, got %d", tt.value, tt.size, got)
		}
	}
}

// TestStringer verifies the fmt.Stringer output used in CLI and logs
func TestStringer(t *testing.T) {
	tests := []struct {
		value Value
		want  string
	}{
		{Float(2.5), "2.5"},
		{Int(-7), "-7"},
		{Long(1 << 33), "8589934592"},
		{String("hi"), "hi"},
		{Bool(false), "false"},
		{Value{}, "<invalid>"},
	}

	for _, tt := range tests {
		if got := tt.value.String(); got != tt.want {
			t.Errorf("String of kind %s: expected %q, got %q", tt.value.Kind(), tt.want, got)
		}
	}
}
