package util

import "testing"

func TestRomanToInt(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"I", 1},
		{"II", 2},
		{"III", 3},
		{"IV", 4},
		{"IX", 9},
		{"XIV", 14},
		{"", 0},
		{"AB", 0},
	}
	for _, c := range cases {
		if got := RomanToInt(c.in); got != c.want {
			t.Errorf("RomanToInt(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestExtractRoman(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"ETAPA III", "III"},
		{"FASE IV ZONA X", "IV"}, // longest run wins over the shorter
		{"sin romano", ""},
	}
	for _, c := range cases {
		if got := ExtractRoman(c.in); got != c.want {
			t.Errorf("ExtractRoman(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
