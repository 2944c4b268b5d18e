package util

import "testing"

func TestCleanCell(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"  P1021  ", "P1021"},
		{"nan", ""},
		{"NaN", ""},
		{"None", ""},
		{"null", ""},
		{"", ""},
		{"CONCRETO", "CONCRETO"},
	}
	for _, c := range cases {
		if got := CleanCell(c.in); got != c.want {
			t.Errorf("CleanCell(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeWholeNumber(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"200067.0", "200067"},
		{"200067", "200067"},
		{"200067.5", "200067.5"},
		{"10.000", "10"},
		{"", ""},
		{"abc", "abc"},
	}
	for _, c := range cases {
		if got := NormalizeWholeNumber(c.in); got != c.want {
			t.Errorf("NormalizeWholeNumber(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Código\nFID_rep", "codigo fid rep"},
		{"AÑO ENTRADA  OPERACIÓN", "ano entrada operacion"},
		{"Unidad-Constructiva", "unidad constructiva"},
	}
	for _, c := range cases {
		if got := NormalizeKey(c.in); got != c.want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStripAccents(t *testing.T) {
	if got := StripAccents("RETENCIÓN"); got != "RETENCION" {
		t.Errorf("StripAccents = %q", got)
	}
	if got := StripAccents("SUSPENSIÓN"); got != "SUSPENSION" {
		t.Errorf("StripAccents = %q", got)
	}
}

func TestCleanFieldValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"POSTE|DE\nCONCRETO", "POSTE DE CONCRETO"},
		{"a;b\tc", "a b c"},
		{"  plano  ", "plano"},
	}
	for _, c := range cases {
		if got := CleanFieldValue(c.in); got != c.want {
			t.Errorf("CleanFieldValue(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestNormalizeQuantity(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.0", "10"},
		{"10", "10"},
		{"", "1"},
		{"nan", "1"},
		{"2.5", "2.5"},
	}
	for _, c := range cases {
		if got := NormalizeQuantity(c.in); got != c.want {
			t.Errorf("NormalizeQuantity(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
