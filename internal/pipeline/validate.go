package pipeline

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cargue/internal"
	"cargue/internal/util"
)

// Validator checks the business rules a batch must satisfy before any
// load file is generated. All rows are checked and every violation is
// reported; a single violation aborts generation.
type Validator struct {
	Sheet   string
	YearMin int

	errs []internal.ValidationError
}

func NewValidator(sheet string, yearMin int) *Validator {
	if yearMin <= 0 {
		yearMin = 1900
	}
	return &Validator{Sheet: sheet, YearMin: yearMin}
}

func (v *Validator) addError(rowIndex int, format string, args ...any) {
	v.errs = append(v.errs, internal.ValidationError{
		File:        "Excel",
		Sheet:       v.Sheet,
		Row:         rowIndex + 2,
		Description: fmt.Sprintf(format, args...),
	})
}

// Run validates new records and decommissionings and returns every
// violation found, in row order per rule.
func (v *Validator) Run(newRecords []*internal.Record, decoms []*internal.Decommission) []internal.ValidationError {
	v.checkLinks(newRecords)
	v.checkUC(newRecords)
	v.checkCoordinates(newRecords)
	v.checkMaterial(newRecords)
	v.checkReplacementYears(decoms)
	return v.errs
}

// Errors returns violations accumulated so far.
func (v *Validator) Errors() []internal.ValidationError {
	return v.errs
}

func (v *Validator) checkLinks(records []*internal.Record) {
	seen := map[string]int{}
	for _, r := range records {
		link := strings.TrimSpace(r.Enlace)
		if link == "" {
			v.addError(r.RowIndex, "enlace vacio")
			continue
		}
		if !strings.HasPrefix(link, "P") {
			v.addError(r.RowIndex, "enlace %q no inicia con P", link)
		}
		if firstRow, dup := seen[link]; dup {
			v.addError(r.RowIndex, "enlace %q duplicado, ya aparece en la fila %d", link, firstRow+2)
			continue
		}
		seen[link] = r.RowIndex
	}
}

func (v *Validator) checkUC(records []*internal.Record) {
	for _, r := range records {
		uc := strings.TrimSpace(r.UC)
		if uc == "" {
			v.addError(r.RowIndex, "unidad constructiva vacia")
			continue
		}
		if !strings.HasPrefix(strings.ToUpper(uc), "N") {
			v.addError(r.RowIndex, "unidad constructiva %q no inicia con N", uc)
		}
	}
}

func (v *Validator) checkCoordinates(records []*internal.Record) {
	for _, r := range records {
		x, err := strconv.ParseFloat(strings.TrimSpace(r.CoordX), 64)
		if err != nil {
			v.addError(r.RowIndex, "coordenada X %q no es numerica", r.CoordX)
		} else if x >= 0 {
			v.addError(r.RowIndex, "coordenada X %v debe ser negativa", r.CoordX)
		}

		y, err := strconv.ParseFloat(strings.TrimSpace(r.CoordY), 64)
		if err != nil {
			v.addError(r.RowIndex, "coordenada Y %q no es numerica", r.CoordY)
		} else if y <= 0 {
			v.addError(r.RowIndex, "coordenada Y %v debe ser positiva", r.CoordY)
		}
	}
}

func (v *Validator) checkMaterial(records []*internal.Record) {
	for _, r := range records {
		m := util.NormalizeWholeNumber(strings.TrimSpace(r.Material))
		if m == "" {
			continue
		}
		if _, err := strconv.Atoi(m); err != nil {
			v.addError(r.RowIndex, "codigo de material %q no es numerico", r.Material)
		}
	}
}

func (v *Validator) checkReplacementYears(decoms []*internal.Decommission) {
	currentYear := time.Now().Year()
	for _, d := range decoms {
		if !d.Replacement {
			continue
		}
		r := d.Record
		raw := util.NormalizeWholeNumber(strings.TrimSpace(r.InServiceYear))
		if raw == "" {
			v.addError(r.RowIndex, "ano de entrada en operacion vacio para reposicion")
			continue
		}
		year, err := strconv.Atoi(raw)
		if err != nil {
			v.addError(r.RowIndex, "ano de entrada en operacion %q no es entero", r.InServiceYear)
			continue
		}
		if year < v.YearMin || year > currentYear {
			v.addError(r.RowIndex, "ano de entrada en operacion %d fuera de rango %d-%d", year, v.YearMin, currentYear)
		}
	}
}
