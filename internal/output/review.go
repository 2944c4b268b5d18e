package output

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"cargue/internal"
)

// WriteReview writes the review workbook: one sheet with the applied
// classification notes per row and one with the validation errors.
func WriteReview(path string, records []*internal.Record, errs []internal.ValidationError) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetName(sheet, "Registros")
	sheet = "Registros"

	headers := []string{"fila", "enlace", "uc", "tipo", "material", "tipo_proyecto", "propietario", "observaciones_clasificacion"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range records {
		row := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(sheet, cell, value)
		}
		set(1, r.RowIndex+2)
		set(2, r.Enlace)
		set(3, r.UC)
		set(4, r.Tipo)
		set(5, r.Material)
		set(6, r.ProjectType)
		set(7, r.Propietario)
		set(8, strings.Join(r.Audit, "; "))
	}

	if len(errs) > 0 {
		errSheet := "Errores"
		_, _ = f.NewSheet(errSheet)
		for i, h := range []string{"archivo", "hoja", "fila", "descripcion"} {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			_ = f.SetCellValue(errSheet, cell, h)
		}
		for i, e := range errs {
			row := i + 2
			set := func(col int, value any) {
				cell, _ := excelize.CoordinatesToCellName(col, row)
				_ = f.SetCellValue(errSheet, cell, value)
			}
			set(1, e.File)
			set(2, e.Sheet)
			set(3, e.Row)
			set(4, e.Description)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return f.SaveAs(path)
}
