package util

import "testing"

func TestNormalizeDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"15/03/2024", "15/03/2024"},
		{"2024-03-15", "15/03/2024"},
		{"15-03-2024", "15/03/2024"},
		{"2024/03/15", "15/03/2024"},
		{"2024-03-15 00:00:00", "15/03/2024"},
		{"", ""},
		{"nan", ""},
		{"sin fecha", "sin fecha"},
	}
	for _, c := range cases {
		if got := NormalizeDate(c.in); got != c.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
