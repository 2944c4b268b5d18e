package pipeline

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"cargue/internal"
)

// Operational codes appear with free spacing and an optional dash,
// "Z-238163", "Z 238163" or "z238163". The normalized form is Z<digits>.
var reOpCode = regexp.MustCompile(`(?i)Z\s*-?\s*(\d{3,})`)

// ExtractOpCode pulls the first operational code out of a marking cell
// and normalizes it. No code yields the empty string.
func ExtractOpCode(text string) string {
	m := reOpCode.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return "Z" + m[1]
}

// Lookup is the read surface of the reference database the reconciler
// needs. The sqlite store implements it; tests supply fakes.
type Lookup interface {
	ResolveCodeToFID(ctx context.Context, code string) (string, error)
	ResolveLinkToFID(ctx context.Context, link string) (string, error)
	AssetFields(ctx context.Context, fid string) (*internal.AssetFields, error)
	NormFields(ctx context.Context, fid string) (*internal.NormFields, error)
}

// Reconciler aligns sheet-derived records with the reference database.
// Every lookup is best effort: a failed or empty lookup leaves the
// record as extracted and never aborts the batch.
type Reconciler struct {
	store Lookup
	log   *zap.Logger
}

func NewReconciler(store Lookup, log *zap.Logger) *Reconciler {
	return &Reconciler{store: store, log: log}
}

// Decommissions resolves retirement rows against the reference
// database: the operational code in the marking names the canonical
// asset id, and reference fields override sheet fields when non-empty.
func (rc *Reconciler) Decommissions(ctx context.Context, items []*internal.Decommission) internal.BatchCounts {
	var counts internal.BatchCounts
	if rc.store == nil {
		return counts
	}

	for _, d := range items {
		r := d.Record
		code := ExtractOpCode(r.Marcacion)
		if code == "" {
			continue
		}

		fid, err := rc.store.ResolveCodeToFID(ctx, code)
		if err != nil {
			rc.log.Warn("operational code lookup failed",
				zap.String("codigo", code), zap.Int("fila", r.RowIndex), zap.Error(err))
			continue
		}
		if fid == "" {
			rc.log.Info("operational code not in reference database",
				zap.String("codigo", code), zap.Int("fila", r.RowIndex))
			continue
		}
		if fid != r.FID {
			r.AddAudit("activo " + fid + " resuelto por codigo operativo " + code)
			r.FID = fid
		}
		counts.Reconciled++

		fields, err := rc.store.AssetFields(ctx, fid)
		if err != nil {
			rc.log.Warn("asset fields lookup failed", zap.String("fid", fid), zap.Error(err))
		} else if fields != nil {
			counts.MergedFields += mergeAssetFields(r, fields, false)
		}

		norm, err := rc.store.NormFields(ctx, fid)
		if err != nil {
			rc.log.Warn("norm fields lookup failed", zap.String("fid", fid), zap.Error(err))
			continue
		}
		if norm != nil {
			counts.MergedFields += mergeNormFields(r, norm)
		}
	}
	return counts
}

// NewRecords resolves link identifiers of new and reinstalled assets.
// Reference fields win only when non-empty and different from the sheet
// value; every override is logged for the review output.
func (rc *Reconciler) NewRecords(ctx context.Context, records []*internal.Record) internal.BatchCounts {
	var counts internal.BatchCounts
	if rc.store == nil {
		return counts
	}

	for _, r := range records {
		if r.Enlace == "" {
			continue
		}

		fid, err := rc.store.ResolveLinkToFID(ctx, r.Enlace)
		if err != nil {
			rc.log.Warn("link lookup failed",
				zap.String("enlace", r.Enlace), zap.Int("fila", r.RowIndex), zap.Error(err))
			continue
		}
		if fid == "" {
			continue
		}
		counts.Reconciled++

		fields, err := rc.store.AssetFields(ctx, fid)
		if err != nil {
			rc.log.Warn("asset fields lookup failed", zap.String("fid", fid), zap.Error(err))
		} else if fields != nil {
			merged := mergeAssetFields(r, fields, true)
			counts.MergedFields += merged
			if merged > 0 {
				rc.log.Info("reference fields applied",
					zap.String("enlace", r.Enlace), zap.String("fid", fid), zap.Int("campos", merged))
			}
		}

		norm, err := rc.store.NormFields(ctx, fid)
		if err != nil {
			rc.log.Warn("norm fields lookup failed", zap.String("fid", fid), zap.Error(err))
			continue
		}
		if norm != nil {
			counts.MergedFields += mergeNormFields(r, norm)
		}
	}
	return counts
}

// mergeAssetFields copies reference values over the record. With
// onlyDiffering the value must both be non-empty and disagree with the
// sheet; otherwise any non-empty reference value wins. Returns the
// number of fields changed.
func mergeAssetFields(r *internal.Record, f *internal.AssetFields, onlyDiffering bool) int {
	pairs := []struct {
		name  string
		value string
	}{
		{internal.FieldCoordX, f.CoordX},
		{internal.FieldCoordY, f.CoordY},
		{internal.FieldTipo, f.Tipo},
		{internal.FieldAdecuacion, f.Adecuacion},
		{internal.FieldPropietario, f.Propietario},
		{internal.FieldUbicacion, f.Ubicacion},
		{internal.FieldMercadoClass, f.MercadoClass},
	}

	changed := 0
	for _, p := range pairs {
		v := strings.TrimSpace(p.value)
		if v == "" {
			continue
		}
		current := r.Field(p.name)
		if v == current {
			continue
		}
		if onlyDiffering && current == "" {
			r.AddAudit("campo " + p.name + " completado de referencia: " + v)
			r.SetField(p.name, v)
			changed++
			continue
		}
		r.AddAudit("campo " + p.name + " actualizado de referencia: " + current + " -> " + v)
		r.SetField(p.name, v)
		changed++
	}
	return changed
}

func mergeNormFields(r *internal.Record, f *internal.NormFields) int {
	changed := 0
	apply := func(name string, current *string, v string) {
		v = strings.TrimSpace(v)
		if v == "" || v == *current {
			return
		}
		if *current != "" {
			r.AddAudit("campo " + name + " actualizado de referencia: " + *current + " -> " + v)
		}
		*current = v
		changed++
	}

	apply(internal.FieldNorma, &r.Norma, f.Norma)
	apply("GRUPO_NORMA", &r.NormGrupo, f.Grupo)
	apply(internal.FieldCircuito, &r.Circuito, f.Circuito)
	apply(internal.FieldCodigoTrafo, &r.CodigoTrafo, f.CodigoTrafo)
	apply(internal.FieldMacronorma, &r.Macronorma, f.Macronorma)
	apply(internal.FieldCantidad, &r.Cantidad, f.Cantidad)
	apply(internal.FieldAdecuacion, &r.Adecuacion, f.Adecuacion)
	return changed
}
