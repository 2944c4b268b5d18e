package output

import "cargue/internal"

// NewAssetColumns is the flat-file layout for new installations. Order
// is fixed: the loader reads by position, not by header.
var NewAssetColumns = []string{
	internal.FieldCoordX,
	internal.FieldCoordY,
	internal.FieldUbicacion,
	internal.FieldEstado,
	internal.FieldMaterial,
	internal.FieldInstallDate,
	internal.FieldOperationDate,
	internal.FieldProyecto,
	internal.FieldEmpresa,
	internal.FieldObservaciones,
	internal.FieldMercadoClass,
	internal.FieldProjectType,
	internal.FieldMercadoID,
	internal.FieldUC,
	internal.FieldHealth,
	internal.FieldOTMaximo,
	internal.FieldMarcacion,
	internal.FieldSalinidad,
	internal.FieldPrevRef,
	internal.FieldGrupo,
	internal.FieldTipo,
	internal.FieldClase,
	internal.FieldUso,
	internal.FieldAdecuacion,
	internal.FieldPropietario,
	internal.FieldOwnershipPct,
}

// DecommissionColumns is the flat-file layout for retirements.
var DecommissionColumns = []string{
	internal.FieldFID,
	internal.FieldEstado,
	internal.FieldOutOfService,
}

// NormColumns is the flat-file layout for norm associations. GRUPO here
// is the norm group of the circuit, not the asset classification group.
var NormColumns = []string{
	internal.FieldNorma,
	"GRUPO",
	internal.FieldCircuito,
	internal.FieldCodigoTrafo,
	internal.FieldMacronorma,
	internal.FieldCantidad,
	internal.FieldAdecuacion,
}

// NewAssetRow projects a record onto the new-installation layout.
func NewAssetRow(r *internal.Record) []string {
	row := make([]string, 0, len(NewAssetColumns))
	for _, col := range NewAssetColumns {
		row = append(row, r.Field(col))
	}
	return row
}

// DecommissionRow projects a record onto the retirement layout.
func DecommissionRow(r *internal.Record) []string {
	return []string{r.FID, r.Estado, r.OutOfService}
}

// NormRow projects a record onto the norm layout.
func NormRow(r *internal.Record) []string {
	return []string{
		r.Norma,
		r.NormGrupo,
		r.Circuito,
		r.CodigoTrafo,
		r.Macronorma,
		r.Cantidad,
		r.Adecuacion,
	}
}

// HasNorm reports whether a record carries a norm association worth a
// row in the norm file.
func HasNorm(r *internal.Record) bool {
	return r.Norma != ""
}
