package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"cargue/internal"
	"cargue/internal/config"
	"cargue/internal/refdb"
	"cargue/internal/storage"
)

func writeBatchWorkbook(t *testing.T, rows ...[]interface{}) string {
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
		"Estado de salud", "Codigo Marcacion", "Código FID_rep",
	}
	_ = f.SetSheetRow(sheet, "A1", &headers)
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		r := row
		_ = f.SetSheetRow(sheet, cell, &r)
	}

	path := filepath.Join(t.TempDir(), "entrada.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func newTestService(t *testing.T, store Lookup) (*ProcessingService, config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{
		DBPath:           filepath.Join(dir, "cargue.db"),
		OutputDir:        filepath.Join(dir, "out"),
		ReviewExport:     true,
		InServiceYearMin: 1900,
	}
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewProcessingService(db, store, cfg, zap.NewNop()), cfg
}

func openTestRefDB(t *testing.T) *refdb.Store {
	t.Helper()
	store, err := refdb.Open(filepath.Join(t.TempDir(), "refdb.db"), 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestProcessFileEndToEnd(t *testing.T) {
	store := openTestRefDB(t)
	if err := store.SeedAsset("900100", "Z238163", "", internal.AssetFields{Tipo: "PRIMARIO"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SeedAsset("900200", "", "P1001", internal.AssetFields{}); err != nil {
		t.Fatal(err)
	}
	if err := store.SeedNorm("900200", internal.NormFields{Norma: "N-101", Grupo: "G1", Circuito: "CIR-7", Cantidad: "2"}); err != nil {
		t.Fatal(err)
	}
	if err := store.SeedNorm("900100", internal.NormFields{Norma: "N-202", Grupo: "G2", Circuito: "CIR-8"}); err != nil {
		t.Fatal(err)
	}

	path := writeBatchWorkbook(t,
		[]interface{}{"P1001", "N1L1", "-72.50", "7.90", "CUCUTA", "200067.0", "15/03/2024", "ETAPA III", "CENS S.A.", "1", "", ""},
		[]interface{}{"", "", "", "", "", "", "", "", "", "", "Z-238163", "5551234"},
	)

	svc, _ := newTestService(t, store)
	res, err := svc.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("validation errors: %+v", res.Errors)
	}
	if res.Counts.New != 1 || res.Counts.Decommission != 1 {
		t.Fatalf("counts = %+v", res.Counts)
	}
	if res.Counts.Reconciled != 2 {
		t.Errorf("Reconciled = %d, want both rows resolved", res.Counts.Reconciled)
	}

	kinds := map[string]string{}
	for _, f := range res.Files {
		kinds[f.Kind] = f.Path
		if len(f.Warnings) != 0 {
			t.Errorf("%s warnings: %v", f.Kind, f.Warnings)
		}
	}
	for _, kind := range []string{"nuevos", "configuracion", "bajas", "configuracion_bajas", "normas", "configuracion_normas", "revision"} {
		if kinds[kind] == "" {
			t.Errorf("missing generated file %s in %v", kind, kinds)
		}
	}

	nuevos, err := os.ReadFile(kinds["nuevos"])
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(strings.TrimPrefix(string(nuevos), "\uFEFF"), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("nuevos lines = %d", len(lines))
	}
	if got := strings.Count(lines[1], "|"); got != 25 {
		t.Errorf("nuevos row has %d separators, want 25", got)
	}
	if !strings.Contains(lines[1], "ESTRUCTURAS EYT") || !strings.Contains(lines[1], "161") {
		t.Errorf("nuevos row missing fixed values: %s", lines[1])
	}

	bajas, err := os.ReadFile(kinds["bajas"])
	if err != nil {
		t.Fatal(err)
	}
	bajaLines := strings.Split(strings.TrimRight(strings.TrimPrefix(string(bajas), "\uFEFF"), "\n"), "\n")
	if bajaLines[0] != "G3E_FID|ESTADO|FECHA_FUERA_OPERACION" {
		t.Errorf("bajas header = %q", bajaLines[0])
	}
	// The operational code resolves to the canonical id, not the sheet
	// reference.
	if !strings.HasPrefix(bajaLines[1], "900100|RETIRADO|") {
		t.Errorf("bajas row = %q", bajaLines[1])
	}

	normas, err := os.ReadFile(kinds["normas"])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(normas), "N-101|G1|CIR-7") {
		t.Errorf("normas content: %s", normas)
	}
	// The retired asset's norm association rides along in the norm file.
	if !strings.Contains(string(normas), "N-202|G2|CIR-8") {
		t.Errorf("normas missing retired asset norm: %s", normas)
	}

	xmlData, err := os.ReadFile(kinds["configuracion"])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(xmlData), "\uFEFF<Configuracion>") {
		t.Errorf("xml must start with BOM and root element")
	}

	batch, err := svc.db.GetBatch(res.BatchID)
	if err != nil {
		t.Fatal(err)
	}
	if batch == nil || batch.Status != internal.BatchProcessed {
		t.Errorf("batch = %+v", batch)
	}

	last, err := svc.db.GetMetadata("ultimo_archivo")
	if err != nil {
		t.Fatal(err)
	}
	if last == nil || *last != path {
		t.Errorf("ultimo_archivo = %v", last)
	}
}

func TestProcessFileValidationAborts(t *testing.T) {
	path := writeBatchWorkbook(t,
		[]interface{}{"X9999", "N1L1", "72.50", "7.90", "CUCUTA", "200067", "15/03/2024", "", "", "", "", ""},
	)

	svc, cfg := newTestService(t, nil)
	res, err := svc.ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Errors) == 0 {
		t.Fatal("expected validation errors")
	}

	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "nuevos_") {
			t.Errorf("load file generated despite validation errors: %s", e.Name())
		}
	}

	batch, err := svc.db.GetBatch(res.BatchID)
	if err != nil {
		t.Fatal(err)
	}
	if batch == nil || batch.Status != internal.BatchError {
		t.Errorf("batch = %+v", batch)
	}
}
