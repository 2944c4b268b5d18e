package pipeline

import (
	"sort"
	"strings"

	"cargue/internal"
	"cargue/internal/util"
)

// column describes how one logical field is located in a sheet row:
// literal header variants are tried first, then normalized headers are
// probed for the keywords. Columns without keywords never match fuzzily.
type column struct {
	Exact    []string
	Keywords []string
}

var (
	colEnlace = column{
		Exact:    []string{"Enlace", "ENLACE", "enlace", "Enlace "},
		Keywords: []string{"enlace"},
	}
	colUC = column{
		Exact:    []string{"Unidad Constructiva", "UNIDAD CONSTRUCTIVA", "Unidad constructiva", "UC"},
		Keywords: []string{"unidad constructiva"},
	}
	// The replacement reference column only matches literally: fuzzy
	// probing would also capture the plain inventory code column.
	colFIDRep = column{
		Exact: []string{"Código FID_rep", "Codigo FID_rep", "CODIGO_FID_REP", "codigo_fid_rep"},
	}
	colCoordX = column{
		Exact:    []string{"Longitud", "LONGITUD", "Coordenada X", "COORDENADA_X"},
		Keywords: []string{"longitud", "coordenada x"},
	}
	colCoordY = column{
		Exact:    []string{"Latitud", "LATITUD", "Coordenada Y", "COORDENADA_Y"},
		Keywords: []string{"latitud", "coordenada y"},
	}
	colUbicacion = column{
		Exact:    []string{"Poblacion", "Población", "POBLACION", "Municipio", "MUNICIPIO"},
		Keywords: []string{"poblacion", "municipio"},
	}
	colMaterial = column{
		Exact:    []string{"Material", "MATERIAL", "Codigo Material", "Código Material", "CODIGO_MATERIAL"},
		Keywords: []string{"material"},
	}
	colInstallDate = column{
		Exact:    []string{"Fecha Instalacion", "Fecha Instalación", "FECHA_INSTALACION", "Fecha de instalacion"},
		Keywords: []string{"fecha instalacion", "fecha de instalacion"},
	}
	colProyecto = column{
		Exact:    []string{"Proyecto", "PROYECTO", "Nombre Proyecto"},
		Keywords: []string{"proyecto"},
	}
	colInvestType = column{
		Exact:    []string{"Tipo inversión", "Tipo inversion", "TIPO_INVERSION"},
		Keywords: []string{"tipo inversion"},
	}
	colHealth = column{
		Exact:    []string{"Estado de salud", "Estado de Salud", "ESTADO_SALUD", "Estado Salud"},
		Keywords: []string{"salud"},
	}
	colMarcacion = column{
		Exact:    []string{"Codigo Marcacion", "Código Marcación", "CODIGO_MARCACION", "Marcacion"},
		Keywords: []string{"marcacion"},
	}
	colPropietario = column{
		Exact:    []string{"Propietario", "PROPIETARIO"},
		Keywords: []string{"propietario"},
	}
	// Plain Estado matches literally only; "estado" as a keyword would
	// also capture the health column.
	colEstado = column{
		Exact: []string{"Estado", "ESTADO"},
	}
	colAdecuacion = column{
		Exact:    []string{"Tipo Adecuacion", "Tipo Adecuación", "TIPO_ADECUACION", "Adecuacion"},
		Keywords: []string{"adecuacion"},
	}
	colNorma = column{
		Exact:    []string{"Norma", "NORMA"},
		Keywords: []string{"norma"},
	}
	colNivelTension = column{
		Exact:    []string{"Nivel de Tension", "Nivel de Tensión", "NIVEL_TENSION"},
		Keywords: []string{"tension"},
	}
	colCodigoTrafo = column{
		Exact:    []string{"Codigo Trafo", "Código Trafo", "CODIGO_TRAFO"},
		Keywords: []string{"trafo"},
	}
	colMacronorma = column{
		Exact:    []string{"Macronorma", "MACRONORMA"},
		Keywords: []string{"macronorma"},
	}
	colCantidad = column{
		Exact:    []string{"Cantidad", "CANTIDAD"},
		Keywords: []string{"cantidad"},
	}
	colInServiceYear = column{
		Exact:    []string{"Año entrada operación_rep", "Ano entrada operacion_rep", "AÑO_ENTRADA_OPERACION_REP"},
		Keywords: []string{"ano entrada operacion"},
	}
	colObservaciones = column{
		Exact:    []string{"Observaciones", "OBSERVACIONES"},
		Keywords: []string{"observaciones"},
	}
	colCircuito = column{
		Exact:    []string{"Circuito", "CIRCUITO"},
		Keywords: []string{"circuito"},
	}
)

// fieldValue resolves one column in a raw row. The returned flag says
// whether a header matched at all, regardless of the cell being empty.
func fieldValue(row internal.RawRow, col column) (string, bool) {
	for _, name := range col.Exact {
		if v, ok := row[name]; ok {
			return util.CleanCell(v), true
		}
	}
	if len(col.Keywords) == 0 {
		return "", false
	}
	// Sorted headers keep the chosen column stable when several match.
	headers := make([]string, 0, len(row))
	for header := range row {
		headers = append(headers, header)
	}
	sort.Strings(headers)
	for _, header := range headers {
		norm := util.NormalizeKey(header)
		for _, kw := range col.Keywords {
			if strings.Contains(norm, kw) {
				return util.CleanCell(row[header]), true
			}
		}
	}
	return "", false
}

// buildRecord maps a raw sheet row to a pipeline record. rowIndex is the
// zero-based data index; reported row numbers add the header offset.
func buildRecord(row internal.RawRow, rowIndex int) *internal.Record {
	r := &internal.Record{RowIndex: rowIndex, Raw: row}

	r.Enlace, _ = fieldValue(row, colEnlace)
	r.UC, _ = fieldValue(row, colUC)
	r.PrevRef, _ = fieldValue(row, colFIDRep)
	r.CoordX, _ = fieldValue(row, colCoordX)
	r.CoordY, _ = fieldValue(row, colCoordY)
	r.Ubicacion, _ = fieldValue(row, colUbicacion)
	r.InstallDate, _ = fieldValue(row, colInstallDate)
	r.Proyecto, _ = fieldValue(row, colProyecto)
	r.Health, _ = fieldValue(row, colHealth)
	r.Marcacion, _ = fieldValue(row, colMarcacion)
	r.Propietario, _ = fieldValue(row, colPropietario)
	r.Estado, _ = fieldValue(row, colEstado)
	r.Adecuacion, _ = fieldValue(row, colAdecuacion)
	r.Norma, _ = fieldValue(row, colNorma)
	r.NivelTension, _ = fieldValue(row, colNivelTension)
	r.CodigoTrafo, _ = fieldValue(row, colCodigoTrafo)
	r.Macronorma, _ = fieldValue(row, colMacronorma)
	r.Cantidad, _ = fieldValue(row, colCantidad)
	r.InServiceYear, _ = fieldValue(row, colInServiceYear)
	r.Observaciones, _ = fieldValue(row, colObservaciones)
	r.Circuito, _ = fieldValue(row, colCircuito)

	// A matched material header is trusted as-is, empty included, so
	// classification must not re-derive it from the UC.
	r.Material, r.MaterialFromSheet = fieldValue(row, colMaterial)

	if invest, ok := fieldValue(row, colInvestType); ok && invest != "" {
		r.ProjectType = invest
		r.ProjectTypeLocked = true
	}

	return r
}
