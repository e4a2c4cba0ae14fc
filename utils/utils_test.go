package utils

import "testing"

func TestParseNumber(t *testing.T) {
	cases := map[string]float64{
		"0":      0,
		"42":     42,
		"3.5":    3.5,
		".5":     0.5,
		"3e2":    300,
		"1E-2":   0.01,
		"0x10":   16,
		"0XfF":   255,
		"-0x10":  -16,
		"  7  ":  7,
	}
	for src, want := range cases {
		got, ok := ParseNumber(src)
		if !ok || got != want {
			t.Errorf("ParseNumber(%q) = %v, %v; want %v", src, got, ok, want)
		}
	}

	for _, bad := range []string{"", "x", "0x", "1.2.3", "--3"} {
		if _, ok := ParseNumber(bad); ok {
			t.Errorf("ParseNumber(%q) should fail", bad)
		}
	}
}

func TestFloatToInteger(t *testing.T) {
	if i, ok := FloatToInteger(42.0); !ok || i != 42 {
		t.Errorf("42.0: got %d, %v", i, ok)
	}
	if _, ok := FloatToInteger(42.5); ok {
		t.Errorf("42.5 has no integer representation")
	}
}

// tostring(tonumber(s)) == s for canonical decimal representations
func TestNumberToStringRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "1", "-1", "42", "3.5", "-0.25", "1e+20"} {
		f, ok := ParseNumber(s)
		if !ok {
			t.Fatalf("ParseNumber(%q) failed", s)
		}
		if got := NumberToString(f); got != s {
			t.Errorf("NumberToString(ParseNumber(%q)) = %q", s, got)
		}
	}
}
