package pipeline

import (
	"fmt"
	"strings"

	"cargue/internal"
	"cargue/internal/util"
)

// Classify fills the derived classification fields of a record. It is
// idempotent: running it again over its own output changes nothing.
func Classify(r *internal.Record) {
	r.Grupo = GrupoEstructuras
	r.Clase = ClasePoste
	r.Uso = UsoDistribucion
	r.OwnershipPct = OwnershipFull

	classifyOwner(r)
	classifyTipo(r)
	classifyProjectType(r)
	classifyDates(r)
	classifyMaterial(r)
	classifyHealth(r)
}

func classifyOwner(r *internal.Record) {
	text := strings.ToUpper(util.StripAccents(r.Propietario))
	for _, group := range ownerKeywords {
		for _, kw := range group.Keywords {
			if strings.Contains(text, kw) {
				if r.Propietario != group.Owner {
					r.AddAudit(fmt.Sprintf("propietario %q clasificado como %s", r.Propietario, group.Owner))
				}
				r.Propietario = group.Owner
				return
			}
		}
	}
	if r.Propietario != ownerDefault {
		if r.Propietario != "" {
			r.AddAudit(fmt.Sprintf("propietario %q sin grupo conocido, asignado %s", r.Propietario, ownerDefault))
		}
		r.Propietario = ownerDefault
	}
}

func classifyTipo(r *internal.Record) {
	uc := strings.ToUpper(strings.TrimSpace(r.UC))
	switch {
	case reUCSecundario.MatchString(uc):
		r.Tipo = TipoSecundario
	case reUCPrimario.MatchString(uc):
		r.Tipo = TipoPrimario
	default:
		r.Tipo = TipoSecundario
	}
}

func classifyProjectType(r *internal.Record) {
	if r.ProjectTypeLocked {
		// The sheet investment type arrives as a stage name and is
		// canonicalized like any other stage before it sticks.
		r.ProjectType = convertStage(r.ProjectType)
		return
	}

	// The voltage-level column names the code directly when present;
	// the construction unit is the fallback carrier.
	source := strings.ToUpper(strings.TrimSpace(r.NivelTension))
	if source == "" {
		source = strings.ToUpper(strings.TrimSpace(r.UC))
	}
	if pt, ok := projectTypeByVoltage[source]; ok {
		r.ProjectType = pt
		r.AddAudit(fmt.Sprintf("tipo de proyecto %s por codigo de tension %s", pt, source))
		return
	}
	for code, pt := range projectTypeByVoltage {
		if strings.HasPrefix(source, code) {
			r.ProjectType = pt
			r.AddAudit(fmt.Sprintf("tipo de proyecto %s por prefijo de tension %s", pt, code))
			return
		}
	}

	stage := strings.ToUpper(strings.TrimSpace(r.Proyecto))
	if pt, ok := projectTypeByRoman[stage]; ok {
		r.ProjectType = pt
		r.AddAudit(fmt.Sprintf("tipo de proyecto %s por etapa %s", pt, stage))
		return
	}
	if roman := romanToken(stage); roman != "" {
		if n := util.RomanToInt(roman); n > 0 {
			r.ProjectType = fmt.Sprintf("T%d", n)
			r.AddAudit(fmt.Sprintf("tipo de proyecto T%d por numeral %s en %q", n, roman, r.Proyecto))
			return
		}
	}

	r.ProjectType = ""
}

// convertStage canonicalizes a stage value to T<n>. Values already in
// that form pass through unchanged, as does text with no roman stage.
func convertStage(value string) string {
	stage := strings.ToUpper(strings.TrimSpace(value))
	if pt, ok := projectTypeByRoman[stage]; ok {
		return pt
	}
	if roman := romanToken(stage); roman != "" {
		if n := util.RomanToInt(roman); n > 0 {
			return fmt.Sprintf("T%d", n)
		}
	}
	return stage
}

// romanToken returns the longest whole word of the text made only of
// roman digits. Substrings inside ordinary words do not count.
func romanToken(text string) string {
	best := ""
	for _, tok := range strings.Fields(text) {
		if util.ExtractRoman(tok) != tok {
			continue
		}
		if len(tok) > len(best) {
			best = tok
		}
	}
	return best
}

func classifyDates(r *internal.Record) {
	r.InstallDate = util.NormalizeDate(r.InstallDate)
	r.OperationDate = r.InstallDate
}

func classifyMaterial(r *internal.Record) {
	if r.MaterialFromSheet {
		// Sheet-supplied material is authoritative, empty included.
		r.Material = util.NormalizeWholeNumber(r.Material)
		return
	}

	uc := strings.ToUpper(strings.TrimSpace(r.UC))
	if code, ok := materialByUC[uc]; ok && inCatalog(code) {
		r.Material = code
		r.AddAudit(fmt.Sprintf("material %s por unidad constructiva %s", code, uc))
		return
	}
	for _, rule := range materialPatterns {
		if rule.Pattern.MatchString(uc) && inCatalog(rule.Material) {
			r.Material = rule.Material
			r.AddAudit(fmt.Sprintf("material %s por patron de unidad constructiva", rule.Material))
			return
		}
	}
	if code, ok := materialDefaults[r.Tipo]; ok && inCatalog(code) {
		r.Material = code
		r.AddAudit(fmt.Sprintf("material %s por defecto de tipo %s", code, r.Tipo))
		return
	}
	r.Material = ""
}

func inCatalog(code string) bool {
	_, ok := materialCatalog[code]
	return ok
}

func classifyHealth(r *internal.Record) {
	grade := strings.ToUpper(util.NormalizeWholeNumber(util.CleanCell(r.Health)))
	if mapped, ok := healthByGrade[grade]; ok {
		r.Health = mapped
		return
	}
	r.Health = ""
}

// FinalizeForLoad applies the constants and normalizations the load
// layouts expect. It runs after reconciliation so reference-database
// merges cannot reintroduce accents or unknown states.
func FinalizeForLoad(r *internal.Record) {
	r.MercadoID = MercadoIDValue
	r.Salinidad = SalinidadValue
	r.OTMaximo = ""
	r.Empresa = EmpresaCENS

	r.Adecuacion = strings.ToUpper(util.StripAccents(strings.TrimSpace(r.Adecuacion)))

	estado := strings.ToUpper(util.StripAccents(strings.TrimSpace(r.Estado)))
	if _, ok := validStates[estado]; !ok {
		estado = EstadoOperacion
	}
	r.Estado = estado

	r.Cantidad = util.NormalizeQuantity(r.Cantidad)
}
