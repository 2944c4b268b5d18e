package refdb

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"cargue/internal"
)

// SeedFromWorkbook loads reference rows from an xlsx file. The sheet
// named assets fills the asset table, the sheet named norms fills the
// norm table; both are keyed by their header row.
func (s *Store) SeedFromWorkbook(path string) (int, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	total := 0
	for _, sheet := range f.GetSheetList() {
		switch strings.ToLower(sheet) {
		case "assets", "activos":
			n, err := s.seedAssets(f, sheet)
			if err != nil {
				return total, err
			}
			total += n
		case "norms", "normas":
			n, err := s.seedNorms(f, sheet)
			if err != nil {
				return total, err
			}
			total += n
		}
	}
	if total == 0 {
		return 0, fmt.Errorf("%s: no assets or norms sheet", path)
	}
	return total, nil
}

func (s *Store) seedAssets(f *excelize.File, sheet string) (int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, nil
	}

	idx := headerIndex(rows[0])
	count := 0
	for _, row := range rows[1:] {
		fid := cellAt(row, col(idx, "fid"))
		if fid == "" {
			continue
		}
		fields := internal.AssetFields{
			CoordX:       cellAt(row, col(idx, "coordenada_x")),
			CoordY:       cellAt(row, col(idx, "coordenada_y")),
			Tipo:         cellAt(row, col(idx, "tipo")),
			Adecuacion:   cellAt(row, col(idx, "tipo_adecuacion")),
			Propietario:  cellAt(row, col(idx, "propietario")),
			Ubicacion:    cellAt(row, col(idx, "ubicacion")),
			MercadoClass: cellAt(row, col(idx, "clasificacion_mercado")),
		}
		if err := s.SeedAsset(fid, cellAt(row, col(idx, "codigo_operativo")), cellAt(row, col(idx, "enlace")), fields); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func (s *Store) seedNorms(f *excelize.File, sheet string) (int, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, nil
	}

	idx := headerIndex(rows[0])
	count := 0
	for _, row := range rows[1:] {
		fid := cellAt(row, col(idx, "fid"))
		if fid == "" {
			continue
		}
		fields := internal.NormFields{
			Norma:       cellAt(row, col(idx, "norma")),
			Grupo:       cellAt(row, col(idx, "grupo")),
			Circuito:    cellAt(row, col(idx, "circuito")),
			CodigoTrafo: cellAt(row, col(idx, "codigo_trafo")),
			Macronorma:  cellAt(row, col(idx, "macronorma")),
			Cantidad:    cellAt(row, col(idx, "cantidad")),
			Adecuacion:  cellAt(row, col(idx, "tipo_adecuacion")),
		}
		if err := s.SeedNorm(fid, fields); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func headerIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func col(idx map[string]int, name string) int {
	if i, ok := idx[name]; ok {
		return i
	}
	return -1
}

func cellAt(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
