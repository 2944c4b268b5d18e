package refdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"cargue/internal"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "refdb.db"), 5*time.Second)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestResolveLookups(t *testing.T) {
	s := openTestStore(t)
	fields := internal.AssetFields{CoordX: "-72.50", Tipo: "PRIMARIO"}
	if err := s.SeedAsset("900100", "Z238163", "P1001", fields); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()

	fid, err := s.ResolveCodeToFID(ctx, "Z238163")
	if err != nil || fid != "900100" {
		t.Errorf("ResolveCodeToFID = %q, %v", fid, err)
	}

	fid, err = s.ResolveLinkToFID(ctx, "P1001")
	if err != nil || fid != "900100" {
		t.Errorf("ResolveLinkToFID = %q, %v", fid, err)
	}

	got, err := s.AssetFields(ctx, "900100")
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || got.CoordX != "-72.50" || got.Tipo != "PRIMARIO" {
		t.Errorf("AssetFields = %+v", got)
	}
}

func TestMissingRowsAreEmptyResults(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if fid, err := s.ResolveCodeToFID(ctx, "Z999999"); err != nil || fid != "" {
		t.Errorf("ResolveCodeToFID = %q, %v", fid, err)
	}
	if fid, err := s.ResolveLinkToFID(ctx, "P9999"); err != nil || fid != "" {
		t.Errorf("ResolveLinkToFID = %q, %v", fid, err)
	}
	if f, err := s.AssetFields(ctx, "900999"); err != nil || f != nil {
		t.Errorf("AssetFields = %+v, %v", f, err)
	}
	if f, err := s.NormFields(ctx, "900999"); err != nil || f != nil {
		t.Errorf("NormFields = %+v, %v", f, err)
	}
}

func TestSeedUpserts(t *testing.T) {
	s := openTestStore(t)
	if err := s.SeedAsset("900100", "Z1", "P1", internal.AssetFields{Tipo: "PRIMARIO"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SeedAsset("900100", "Z2", "P1", internal.AssetFields{Tipo: "SECUNDARIO"}); err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	if fid, _ := s.ResolveCodeToFID(ctx, "Z1"); fid != "" {
		t.Errorf("old code still resolves: %q", fid)
	}
	got, err := s.AssetFields(ctx, "900100")
	if err != nil || got == nil || got.Tipo != "SECUNDARIO" {
		t.Errorf("AssetFields = %+v, %v", got, err)
	}
}

func TestSeedFromWorkbook(t *testing.T) {
	f := excelize.NewFile()
	idx, err := f.NewSheet("assets")
	if err != nil {
		t.Fatal(err)
	}
	f.SetActiveSheet(idx)
	_ = f.DeleteSheet("Sheet1")
	_ = f.SetSheetRow("assets", "A1", &[]interface{}{"fid", "codigo_operativo", "enlace", "tipo"})
	_ = f.SetSheetRow("assets", "A2", &[]interface{}{"900100", "Z238163", "P1001", "PRIMARIO"})

	if _, err := f.NewSheet("norms"); err != nil {
		t.Fatal(err)
	}
	_ = f.SetSheetRow("norms", "A1", &[]interface{}{"fid", "norma", "circuito"})
	_ = f.SetSheetRow("norms", "A2", &[]interface{}{"900100", "N-101", "CIR-7"})

	path := filepath.Join(t.TempDir(), "referencia.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}

	s := openTestStore(t)
	count, err := s.SeedFromWorkbook(path)
	if err != nil {
		t.Fatal(err)
	}
	if count != 2 {
		t.Errorf("count = %d", count)
	}

	ctx := context.Background()
	if fid, _ := s.ResolveCodeToFID(ctx, "Z238163"); fid != "900100" {
		t.Errorf("fid = %q", fid)
	}
	norm, err := s.NormFields(ctx, "900100")
	if err != nil || norm == nil || norm.Norma != "N-101" || norm.Circuito != "CIR-7" {
		t.Errorf("norm = %+v, %v", norm, err)
	}
}
