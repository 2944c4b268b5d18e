package internal

// Field names used across layouts, classification and reconciliation.
// These are the literal column identifiers of the bulk-load formats.
const (
	FieldCoordX          = "COORDENADA_X"
	FieldCoordY          = "COORDENADA_Y"
	FieldUbicacion       = "UBICACION"
	FieldEstado          = "ESTADO"
	FieldMaterial        = "CODIGO_MATERIAL"
	FieldInstallDate     = "FECHA_INSTALACION"
	FieldOperationDate   = "FECHA_OPERACION"
	FieldProyecto        = "PROYECTO"
	FieldEmpresa         = "EMPRESA"
	FieldObservaciones   = "OBSERVACIONES"
	FieldMercadoClass    = "CLASIFICACION_MERCADO"
	FieldProjectType     = "TIPO_PROYECTO"
	FieldMercadoID       = "ID_MERCADO"
	FieldUC              = "UC"
	FieldHealth          = "ESTADO_SALUD"
	FieldOTMaximo        = "OT_MAXIMO"
	FieldMarcacion       = "CODIGO_MARCACION"
	FieldSalinidad       = "SALINIDAD"
	FieldPrevRef         = "FID_ANTERIOR"
	FieldGrupo           = "GRUPO"
	FieldTipo            = "TIPO"
	FieldClase           = "CLASE"
	FieldUso             = "USO"
	FieldAdecuacion      = "TIPO_ADECUACION"
	FieldPropietario     = "PROPIETARIO"
	FieldOwnershipPct    = "PORCENTAJE_PROPIEDAD"
	FieldEnlace          = "ENLACE"
	FieldNivelTension    = "NIVEL_TENSION"
	FieldNorma           = "NORMA"
	FieldCircuito        = "CIRCUITO"
	FieldCodigoTrafo     = "CODIGO_TRAFO"
	FieldMacronorma      = "MACRONORMA"
	FieldCantidad        = "CANTIDAD"
	FieldFID             = "G3E_FID"
	FieldOutOfService    = "FECHA_FUERA_OPERACION"
	FieldNombre          = "NOMBRE"
	FieldInServiceYear   = "ANIO_ENTRADA_OPERACION"
)

// RawRow is one flattened spreadsheet row: header text -> cell value,
// already NaN-normalized to the empty string by the extractor.
type RawRow map[string]string

// Record is one structure (pole) or norm association flowing through the
// pipeline. Fields are plain strings where empty means absent; Raw keeps
// the original row for exact-header lookups, Audit collects applied-rule
// descriptions for review output and never feeds back into any field.
type Record struct {
	CoordX        string
	CoordY        string
	Ubicacion     string
	Estado        string
	Material      string
	InstallDate   string
	OperationDate string
	Proyecto      string
	Empresa       string
	Observaciones string
	MercadoClass  string
	ProjectType   string
	MercadoID     string
	UC            string
	Health        string
	OTMaximo      string
	Marcacion     string
	Salinidad     string
	PrevRef       string
	Grupo         string
	Tipo          string
	Clase         string
	Uso           string
	Adecuacion    string
	Propietario   string
	OwnershipPct  string
	Enlace        string
	NivelTension  string
	Norma         string
	NormGrupo     string
	Circuito      string
	CodigoTrafo   string
	Macronorma    string
	Cantidad      string
	FID           string
	OutOfService  string
	Nombre        string
	InServiceYear string

	// MaterialFromSheet marks that the spreadsheet carried a material
	// column for this row (even empty), which disables UC-based fallback.
	MaterialFromSheet bool
	// ProjectTypeLocked marks a project type sourced from the sheet's
	// investment-type column; re-classification must not regenerate it.
	ProjectTypeLocked bool

	RowIndex int
	Raw      RawRow
	Audit    []string
}

// Field returns the value of a layout column by its literal name.
// Unknown columns resolve to the empty string.
func (r *Record) Field(name string) string {
	switch name {
	case FieldCoordX:
		return r.CoordX
	case FieldCoordY:
		return r.CoordY
	case FieldUbicacion:
		return r.Ubicacion
	case FieldEstado:
		return r.Estado
	case FieldMaterial:
		return r.Material
	case FieldInstallDate:
		return r.InstallDate
	case FieldOperationDate:
		return r.OperationDate
	case FieldProyecto:
		return r.Proyecto
	case FieldEmpresa:
		return r.Empresa
	case FieldObservaciones:
		return r.Observaciones
	case FieldMercadoClass:
		return r.MercadoClass
	case FieldProjectType:
		return r.ProjectType
	case FieldMercadoID:
		return r.MercadoID
	case FieldUC:
		return r.UC
	case FieldHealth:
		return r.Health
	case FieldOTMaximo:
		return r.OTMaximo
	case FieldMarcacion:
		return r.Marcacion
	case FieldSalinidad:
		return r.Salinidad
	case FieldPrevRef:
		return r.PrevRef
	case FieldGrupo:
		return r.Grupo
	case FieldTipo:
		return r.Tipo
	case FieldClase:
		return r.Clase
	case FieldUso:
		return r.Uso
	case FieldAdecuacion:
		return r.Adecuacion
	case FieldPropietario:
		return r.Propietario
	case FieldOwnershipPct:
		return r.OwnershipPct
	case FieldEnlace:
		return r.Enlace
	case FieldNivelTension:
		return r.NivelTension
	case FieldNorma:
		return r.Norma
	case FieldCircuito:
		return r.Circuito
	case FieldCodigoTrafo:
		return r.CodigoTrafo
	case FieldMacronorma:
		return r.Macronorma
	case FieldCantidad:
		return r.Cantidad
	case FieldFID:
		return r.FID
	case FieldOutOfService:
		return r.OutOfService
	case FieldNombre:
		return r.Nombre
	case FieldInServiceYear:
		return r.InServiceYear
	}
	return ""
}

// SetField assigns a layout column by name. Unknown names are ignored,
// mirroring Field: reconciliation merges iterate fixed column lists.
func (r *Record) SetField(name, value string) {
	switch name {
	case FieldCoordX:
		r.CoordX = value
	case FieldCoordY:
		r.CoordY = value
	case FieldUbicacion:
		r.Ubicacion = value
	case FieldEstado:
		r.Estado = value
	case FieldMaterial:
		r.Material = value
	case FieldInstallDate:
		r.InstallDate = value
	case FieldOperationDate:
		r.OperationDate = value
	case FieldProyecto:
		r.Proyecto = value
	case FieldEmpresa:
		r.Empresa = value
	case FieldObservaciones:
		r.Observaciones = value
	case FieldMercadoClass:
		r.MercadoClass = value
	case FieldProjectType:
		r.ProjectType = value
	case FieldMercadoID:
		r.MercadoID = value
	case FieldUC:
		r.UC = value
	case FieldHealth:
		r.Health = value
	case FieldOTMaximo:
		r.OTMaximo = value
	case FieldMarcacion:
		r.Marcacion = value
	case FieldSalinidad:
		r.Salinidad = value
	case FieldPrevRef:
		r.PrevRef = value
	case FieldGrupo:
		r.Grupo = value
	case FieldTipo:
		r.Tipo = value
	case FieldClase:
		r.Clase = value
	case FieldUso:
		r.Uso = value
	case FieldAdecuacion:
		r.Adecuacion = value
	case FieldPropietario:
		r.Propietario = value
	case FieldOwnershipPct:
		r.OwnershipPct = value
	case FieldEnlace:
		r.Enlace = value
	case FieldNivelTension:
		r.NivelTension = value
	case FieldNorma:
		r.Norma = value
	case FieldCircuito:
		r.Circuito = value
	case FieldCodigoTrafo:
		r.CodigoTrafo = value
	case FieldMacronorma:
		r.Macronorma = value
	case FieldCantidad:
		r.Cantidad = value
	case FieldFID:
		r.FID = value
	case FieldOutOfService:
		r.OutOfService = value
	case FieldNombre:
		r.Nombre = value
	case FieldInServiceYear:
		r.InServiceYear = value
	}
}

// AddAudit appends a human-readable applied-rule note.
func (r *Record) AddAudit(note string) {
	r.Audit = append(r.Audit, note)
}

// Decommission wraps a routed record with its refinement: a replacement
// carries a link identifier and uses the sheet installation date as the
// out-of-service date, a pure decommissioning uses today.
type Decommission struct {
	Record      *Record
	Replacement bool
}

// ValidationError is one row-level business-rule violation. Any non-empty
// accumulation aborts file generation for the whole batch.
type ValidationError struct {
	File        string `json:"archivo"`
	Sheet       string `json:"hoja"`
	Row         int    `json:"fila"`
	Description string `json:"descripcion"`
}

type BatchStatus string

const (
	BatchPending   BatchStatus = "pending"
	BatchProcessed BatchStatus = "processed"
	BatchError     BatchStatus = "error"
	BatchFailed    BatchStatus = "failed"
)

// BatchRow is the persisted process state of one spreadsheet run.
type BatchRow struct {
	ID         int
	SourceFile string
	Sheet      string
	HeaderRow  int
	Circuito   string
	Status     BatchStatus
	Message    string
}

// BatchCounts summarizes a processed batch for persistence and logs.
type BatchCounts struct {
	Total          int `json:"total"`
	New            int `json:"nuevos"`
	Decommission   int `json:"bajas"`
	Replacement    int `json:"reposiciones"`
	Reconciled     int `json:"reconciliados"`
	MergedFields   int `json:"camposFusionados"`
	ValidationErrs int `json:"erroresValidacion"`
}

// AssetFields is the authoritative field set fetched from the reference
// database for one canonical asset id.
type AssetFields struct {
	CoordX       string
	CoordY       string
	Tipo         string
	Adecuacion   string
	Propietario  string
	Ubicacion    string
	MercadoClass string
}

// NormFields is the authoritative norm association for one asset id.
type NormFields struct {
	Norma       string
	Grupo       string
	Circuito    string
	CodigoTrafo string
	Macronorma  string
	Cantidad    string
	Adecuacion  string
}
