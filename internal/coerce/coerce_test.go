package coerce

import (
	"testing"
	"time"
)

func TestFloat(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"none literal", "None", 0},
		{"plain number", "42.5", 42.5},
		{"thousands separator", "1,234.50", 1234.5},
		{"garbage", "abc", 0},
		{"native float", 3.25, 3.25},
		{"native int", 7, 7},
		{"negative", "-12.5", -12.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Float(tt.input); got != tt.want {
				t.Errorf("Float(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFloatIdempotent(t *testing.T) {
	// Re-coercing an already coerced value must not change it.
	inputs := []string{"1,234.50", "0", "99.99", "abc"}
	for _, in := range inputs {
		once := Float(in)
		twice := Float(once)
		if once != twice {
			t.Errorf("Float not idempotent for %q: %v != %v", in, once, twice)
		}
	}
}

func TestInt(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  int
	}{
		{"nil", nil, 0},
		{"empty string", "", 0},
		{"none literal", "None", 0},
		{"decimal string", "3.000", 3},
		{"truncation", "2.9", 2},
		{"thousands separator", "1,000", 1000},
		{"garbage", "xyz", 0},
		{"native float", 4.0, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Int(tt.input); got != tt.want {
				t.Errorf("Int(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDateString(t *testing.T) {
	ts := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"nil", nil, Missing},
		{"none literal", "None", Missing},
		{"empty string", "", Missing},
		{"native time", ts, "2024-03-15"},
		{"string passthrough", "15/03/2024", "15/03/2024"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DateString(tt.input); got != tt.want {
				t.Errorf("DateString(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestString(t *testing.T) {
	if got := String(nil, Missing); got != Missing {
		t.Errorf("String(nil) = %q, want %q", got, Missing)
	}
	if got := String("  ", Missing); got != Missing {
		t.Errorf("String(blank) = %q, want %q", got, Missing)
	}
	if got := String("  Alice ", Missing); got != "Alice" {
		t.Errorf("String = %q, want Alice", got)
	}
	if got := String(42, "n/a"); got != "42" {
		t.Errorf("String(42) = %q, want 42", got)
	}
}
