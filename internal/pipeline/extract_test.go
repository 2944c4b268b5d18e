package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"cargue/internal"
)

func buildStructuresWorkbook(t *testing.T) *excelize.File {
	t.Helper()
	f := excelize.NewFile()
	sheet := preferredSheet
	idx, err := f.NewSheet(sheet)
	if err != nil {
		t.Fatal(err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	headers := []interface{}{
		"Enlace", "Unidad Constructiva", "Longitud", "Latitud", "Poblacion",
		"Material", "Fecha Instalacion", "Proyecto", "Propietario",
		"Estado de salud", "Codigo de marcación", "Código FID_rep", "Norma", "Cantidad",
	}
	_ = f.SetSheetRow(sheet, "A1", &headers)
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{
		"P1001", "N1L1", "-72.50", "7.90", "CUCUTA",
		"200067.0", "15/03/2024", "ETAPA III", "CENS S.A.",
		"1", "Z-238163", "", "N-101", "10.0",
	})
	_ = f.SetSheetRow(sheet, "A3", &[]interface{}{
		"", "", "-72.51", "7.91", "CUCUTA",
		"", "15/03/2024", "", "nan",
		"nan", "Z-238164", "5551234", "", "",
	})
	return f
}

func TestExtractPreferredSheet(t *testing.T) {
	f := buildStructuresWorkbook(t)
	ex, err := extractFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if ex.Sheet != preferredSheet {
		t.Errorf("Sheet = %q", ex.Sheet)
	}
	if ex.HeaderRow != 0 {
		t.Errorf("HeaderRow = %d", ex.HeaderRow)
	}
	if len(ex.Rows) != 2 {
		t.Fatalf("Rows = %d, want 2", len(ex.Rows))
	}
	if ex.Rows[0]["Enlace"] != "P1001" {
		t.Errorf("Enlace = %q", ex.Rows[0]["Enlace"])
	}
	// NaN-like markers collapse to the empty string.
	if ex.Rows[1]["Propietario"] != "" {
		t.Errorf("Propietario = %q", ex.Rows[1]["Propietario"])
	}
}

func TestExtractWorkbookFromDisk(t *testing.T) {
	f := buildStructuresWorkbook(t)
	path := filepath.Join(t.TempDir(), "entrada.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	ex, err := ExtractWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(ex.Rows) != 2 {
		t.Errorf("Rows = %d", len(ex.Rows))
	}
}

func TestSelectSheetByScore(t *testing.T) {
	f := excelize.NewFile()
	sheet := "Datos 2024"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		t.Fatal(err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")

	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"INVENTARIO DE ESTRUCTURAS"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{
		"Norma", "Poblacion", "Unidad Constructiva", "Material", "Altura", "Enlace",
	})
	_ = f.SetSheetRow(sheet, "A3", &[]interface{}{
		"N-101", "CUCUTA", "N1L1", "200067", "12", "P1001",
	})

	ex, err := extractFile(f)
	if err != nil {
		t.Fatal(err)
	}
	if ex.Sheet != sheet {
		t.Errorf("Sheet = %q", ex.Sheet)
	}
	if ex.HeaderRow != 1 {
		t.Errorf("HeaderRow = %d, want the row after the title", ex.HeaderRow)
	}
	if len(ex.Rows) != 1 {
		t.Errorf("Rows = %d", len(ex.Rows))
	}
}

func TestDetectHeaderRow(t *testing.T) {
	cases := []struct {
		name string
		rows [][]string
		want int
	}{
		{"first row", [][]string{{"A", "B", "C", "D"}}, 0},
		{"after title", [][]string{{"titulo"}, {"A", "B", "C", "D"}}, 1},
		{"unnamed filler ignored", [][]string{{"Unnamed: 0", "Unnamed: 1", "nan", "X"}, {"A", "B", "C", "D"}}, 1},
		{"none in first three", [][]string{{"a"}, {"b"}, {"c"}, {"A", "B", "C", "D"}}, -1},
	}
	for _, c := range cases {
		if got := detectHeaderRow(c.rows); got != c.want {
			t.Errorf("%s: detectHeaderRow = %d, want %d", c.name, got, c.want)
		}
	}
}

func TestCollectOpCodes(t *testing.T) {
	rows := [][]string{
		{"P1001", "algo", "Z-238163"},
		{"P1002", "sin codigo"},
		{"sin enlace", "Z-238165"},
	}
	out := map[string]string{}
	collectOpCodes(rows, out)

	if out["P1001"] != "Z238163" {
		t.Errorf("P1001 = %q", out["P1001"])
	}
	if _, ok := out["P1002"]; ok {
		t.Errorf("P1002 mapped without a code")
	}
	if len(out) != 1 {
		t.Errorf("out = %v", out)
	}
}

func TestBuildRecords(t *testing.T) {
	f := buildStructuresWorkbook(t)
	ex, err := extractFile(f)
	if err != nil {
		t.Fatal(err)
	}
	records := BuildRecords(ex)
	if len(records) != 2 {
		t.Fatalf("records = %d", len(records))
	}

	r := records[0]
	if r.Enlace != "P1001" || r.UC != "N1L1" {
		t.Errorf("record = %+v", r)
	}
	if r.Ubicacion != "CUCUTA" {
		t.Errorf("Ubicacion = %q", r.Ubicacion)
	}
	if !r.MaterialFromSheet || r.Material != "200067.0" {
		t.Errorf("Material = %q fromSheet=%v", r.Material, r.MaterialFromSheet)
	}
	if r.Marcacion != "Z-238163" {
		t.Errorf("Marcacion = %q", r.Marcacion)
	}

	// The second row is a retirement: reference without UC.
	d := records[1]
	if d.PrevRef != "5551234" || d.UC != "" {
		t.Errorf("retirement record = %+v", d)
	}
}

func TestFieldValueFuzzy(t *testing.T) {
	row := internal.RawRow{
		"AÑO ENTRADA OPERACIÓN_REP": "2015",
		"Código FID":                "123",
	}
	got, ok := fieldValue(row, colInServiceYear)
	if !ok || got != "2015" {
		t.Errorf("year = %q ok=%v", got, ok)
	}

	// The replacement reference never matches fuzzily.
	if _, ok := fieldValue(row, colFIDRep); ok {
		t.Error("fid_rep matched a non-literal header")
	}
}

func TestFieldValueFuzzyDeterministic(t *testing.T) {
	row := internal.RawRow{
		"Circuito principal": "A",
		"Circuito alterno":   "B",
	}
	// Neither header matches literally; the first in sorted order wins
	// on every run.
	for i := 0; i < 10; i++ {
		got, ok := fieldValue(row, colCircuito)
		if !ok || got != "B" {
			t.Fatalf("circuito = %q ok=%v, want stable pick of sorted-first header", got, ok)
		}
	}
}
