package output

import (
	"fmt"
	"os"
	"strings"
)

// xmlField maps one flat-file column to its loader component and
// attribute for the configuration document.
type xmlField struct {
	Nombre     string
	Componente string
	Atributo   string
}

// Loader mapping for the pole element. Common descriptive columns live
// on the shared component, electrical ones on the pole component.
var poleFields = []xmlField{
	{"COORDENADA_X", "ATRIBUTOS_COMUNES", "coordenada_x"},
	{"COORDENADA_Y", "ATRIBUTOS_COMUNES", "coordenada_y"},
	{"UBICACION", "ATRIBUTOS_COMUNES", "ubicacion"},
	{"ESTADO", "ATRIBUTOS_COMUNES", "estado"},
	{"CODIGO_MATERIAL", "ATRIBUTOS_COMUNES", "codigo_material"},
	{"FECHA_INSTALACION", "ATRIBUTOS_COMUNES", "fecha_instalacion"},
	{"FECHA_OPERACION", "ATRIBUTOS_COMUNES", "fecha_operacion"},
	{"PROYECTO", "ATRIBUTOS_COMUNES", "proyecto"},
	{"EMPRESA", "ATRIBUTOS_COMUNES", "empresa"},
	{"OBSERVACIONES", "ATRIBUTOS_COMUNES", "observaciones"},
	{"CLASIFICACION_MERCADO", "ATRIBUTOS_COMUNES", "clasificacion_mercado"},
	{"TIPO_PROYECTO", "ATRIBUTOS_COMUNES", "tipo_proyecto"},
	{"ID_MERCADO", "ATRIBUTOS_COMUNES", "id_mercado"},
	{"UC", "POSTE_E", "unidad_constructiva"},
	{"ESTADO_SALUD", "POSTE_E", "estado_salud"},
	{"OT_MAXIMO", "POSTE_E", "ot_maximo"},
	{"CODIGO_MARCACION", "POSTE_E", "codigo_marcacion"},
	{"SALINIDAD", "POSTE_E", "salinidad"},
	{"FID_ANTERIOR", "POSTE_E", "fid_anterior"},
	{"GRUPO", "POSTE_E", "grupo"},
	{"TIPO", "POSTE_E", "tipo"},
	{"CLASE", "POSTE_E", "clase"},
	{"USO", "POSTE_E", "uso"},
	{"TIPO_ADECUACION", "POSTE_E", "tipo_adecuacion"},
	{"PROPIETARIO", "POSTE_E", "propietario"},
	{"PORCENTAJE_PROPIEDAD", "POSTE_E", "porcentaje_propiedad"},
}

var decommissionFields = []xmlField{
	{"G3E_FID", "ATRIBUTOS_COMUNES", "g3e_fid"},
	{"ESTADO", "ATRIBUTOS_COMUNES", "estado"},
	{"FECHA_FUERA_OPERACION", "ATRIBUTOS_COMUNES", "fecha_fuera_operacion"},
}

var normFields = []xmlField{
	{"NORMA", "NORMA_E", "norma"},
	{"GRUPO", "NORMA_E", "grupo"},
	{"CIRCUITO", "NORMA_E", "circuito"},
	{"CODIGO_TRAFO", "NORMA_E", "codigo_trafo"},
	{"MACRONORMA", "NORMA_E", "macronorma"},
	{"CANTIDAD", "NORMA_E", "cantidad"},
	{"TIPO_ADECUACION", "NORMA_E", "tipo_adecuacion"},
}

// WriteLoaderConfig writes the configuration document the bulk loader
// reads alongside the new-installation flat file. Field elements are
// numbered in column order; the file starts with a BOM and carries no
// XML declaration.
func WriteLoaderConfig(path string) error {
	return writeConfig(path, "Poste", "POSTE_E", poleFields)
}

// WriteDecommissionConfig writes the descriptor for the retirement file.
func WriteDecommissionConfig(path string) error {
	return writeConfig(path, "Poste", "POSTE_E", decommissionFields)
}

// WriteNormConfig writes the descriptor for the norm-association file.
func WriteNormConfig(path string) error {
	return writeConfig(path, "Norma", "NORMA_E", normFields)
}

func writeConfig(path, elemento, componente string, fields []xmlField) error {
	var b strings.Builder
	b.WriteString("\uFEFF")
	b.WriteString("<Configuracion>\n")
	b.WriteString("  <Elemento>" + escapeXML(elemento) + "</Elemento>\n")
	b.WriteString("  <ComponenteRepetitiva>" + escapeXML(componente) + "</ComponenteRepetitiva>\n")
	b.WriteString("  <Campos>\n")
	for i, f := range fields {
		tag := fmt.Sprintf("Campo%d", i+1)
		b.WriteString("    <" + tag + ">\n")
		b.WriteString("      <Nombre>" + escapeXML(f.Nombre) + "</Nombre>\n")
		b.WriteString("      <Componente>" + escapeXML(f.Componente) + "</Componente>\n")
		b.WriteString("      <Atributo>" + escapeXML(f.Atributo) + "</Atributo>\n")
		b.WriteString("    </" + tag + ">\n")
	}
	b.WriteString("  </Campos>\n")
	b.WriteString("</Configuracion>\n")

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

func escapeXML(s string) string {
	return strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
	).Replace(s)
}
