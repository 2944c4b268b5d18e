package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cargue/internal"
)

func TestWriteTXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nuevos.txt")
	columns := []string{"A", "B", "C"}
	rows := [][]string{
		{"uno", "dos|tres", "linea\ncortada"},
	}

	warnings, err := WriteTXT(path, columns, rows)
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings: %v", warnings)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "\uFEFF") {
		t.Error("missing BOM")
	}
	content := strings.TrimPrefix(string(data), "\uFEFF")
	lines := strings.Split(strings.TrimRight(content, "\n"), "\n")
	if lines[0] != "A|B|C" {
		t.Errorf("header = %q", lines[0])
	}
	// Separators inside values become spaces so arity holds.
	if lines[1] != "uno|dos tres|linea cortada" {
		t.Errorf("row = %q", lines[1])
	}
}

func TestWriteTXTArityWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bajas.txt")
	warnings, err := WriteTXT(path, []string{"A", "B"}, [][]string{{"solo"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(warnings) != 1 {
		t.Fatalf("warnings = %v, want one arity mismatch", warnings)
	}
	if !strings.Contains(warnings[0], "linea 2") {
		t.Errorf("warning = %q", warnings[0])
	}
}

func TestNewAssetRowOrder(t *testing.T) {
	r := &internal.Record{CoordX: "-72.5", OwnershipPct: "100", Grupo: "ESTRUCTURAS EYT"}
	row := NewAssetRow(r)
	if len(row) != len(NewAssetColumns) {
		t.Fatalf("row length = %d", len(row))
	}
	if row[0] != "-72.5" {
		t.Errorf("first column = %q", row[0])
	}
	if row[len(row)-1] != "100" {
		t.Errorf("last column = %q", row[len(row)-1])
	}
}

func TestNormRowUsesNormGroup(t *testing.T) {
	r := &internal.Record{Grupo: "ESTRUCTURAS EYT", NormGrupo: "G1", Norma: "N-101"}
	row := NormRow(r)
	if row[1] != "G1" {
		t.Errorf("norm group column = %q, must not be the classification group", row[1])
	}
}
