package pipeline

import "regexp"

// Fixed classification values shared by every pole record.
const (
	GrupoEstructuras = "ESTRUCTURAS EYT"
	ClasePoste       = "POSTE"
	UsoDistribucion  = "DISTRIBUCION ENERGIA"
	OwnershipFull    = "100"

	EmpresaCENS     = "CENS"
	MercadoIDValue  = "161"
	SalinidadValue  = "NO"
	TipoPrimario    = "PRIMARIO"
	TipoSecundario  = "SECUNDARIO"
	EstadoOperacion = "OPERACION"
)

// Owner keyword groups, checked in order against the ownership cell.
var ownerKeywords = []struct {
	Owner    string
	Keywords []string
}{
	{"CENS", []string{"CENS", "CENTRALES", "ELECTRICA"}},
	{"ESTADO", []string{"ESTADO", "GOBIERNO", "PUBLICO", "MINISTERIO"}},
	{"COMPARTIDO", []string{"COMPARTIDO", "CONSORCIO", "SOCIEDAD"}},
}

const ownerDefault = "PARTICULAR"

// Network-level prefixes of the constructive-unit code decide the
// circuit type. Level one is low voltage, levels two to four are
// medium and high.
var (
	reUCSecundario = regexp.MustCompile(`^N1`)
	reUCPrimario   = regexp.MustCompile(`^N[2-4]`)
)

// Constructive-unit voltage codes mapped directly to a project type.
// Keys end at the voltage letter block; longer UC codes match by prefix.
var projectTypeByVoltage = map[string]string{
	"N3L75": "T1",
	"N3L79": "T3",
}

// Roman stage numbers named in the project description.
var projectTypeByRoman = map[string]string{
	"I":   "T1",
	"II":  "T2",
	"III": "T3",
	"IV":  "T4",
}

// Material master catalog. Any derived material code must belong here,
// otherwise the next derivation tier is tried.
var materialCatalog = map[string]struct{}{
	"200067": {},
	"200068": {},
	"200069": {},
	"200070": {},
	"200071": {},
	"200072": {},
	"200073": {},
	"200074": {},
}

// Direct UC-to-material assignments, consulted before pattern rules.
var materialByUC = map[string]string{
	"N1L1":  "200067",
	"N1L3":  "200068",
	"N2L1":  "200069",
	"N2L3":  "200070",
	"N3L75": "200071",
	"N3L79": "200072",
}

// UC pattern rules, tried in order after the direct table misses.
var materialPatterns = []struct {
	Pattern  *regexp.Regexp
	Material string
}{
	{regexp.MustCompile(`^N1L\d+$`), "200067"},
	{regexp.MustCompile(`^N2L\d+$`), "200069"},
	{regexp.MustCompile(`^N3L\d+$`), "200071"},
	{regexp.MustCompile(`^N4L\d+$`), "200073"},
}

// Default material per circuit type when every UC rule misses.
var materialDefaults = map[string]string{
	TipoPrimario:   "200071",
	TipoSecundario: "200067",
}

// Numeric health grades map to the named scale; the named values pass
// through unchanged and anything else clears the field.
var healthByGrade = map[string]string{
	"1":       "BUENO",
	"2":       "REGULAR",
	"3":       "MALO",
	"BUENO":   "BUENO",
	"REGULAR": "REGULAR",
	"MALO":    "MALO",
}

// Recognized asset states for the bulk-load layout.
var validStates = map[string]struct{}{
	"CONSTRUCCION": {},
	"RETIRADO":     {},
	"OPERACION":    {},
}
