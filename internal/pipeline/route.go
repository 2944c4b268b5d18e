package pipeline

import (
	"fmt"

	"cargue/internal"
	"cargue/internal/util"
)

// Route partitions classified records into new installations and
// decommissionings. A row carrying a replacement reference without a
// constructive unit retires an asset; a row carrying both is a
// reinstallation and loads as new with the old reference attached.
func Route(records []*internal.Record) (newRecords []*internal.Record, decommissions []*internal.Decommission) {
	for _, r := range records {
		if r.PrevRef != "" && r.UC == "" {
			decommissions = append(decommissions, routeDecommission(r))
			continue
		}
		if r.PrevRef != "" {
			r.AddAudit(fmt.Sprintf("reinstalacion sobre activo %s", r.PrevRef))
		}
		newRecords = append(newRecords, r)
	}
	return newRecords, decommissions
}

func routeDecommission(r *internal.Record) *internal.Decommission {
	d := &internal.Decommission{Record: r}
	r.FID = r.PrevRef
	r.Estado = "RETIRADO"

	// A decommission row that still names a link is a replacement: the
	// retirement date of the old asset is the install date of the new
	// one. A pure retirement dates from the processing day.
	if r.Enlace != "" {
		d.Replacement = true
		if r.InstallDate != "" {
			r.OutOfService = r.InstallDate
		} else {
			r.OutOfService = util.Today()
		}
		r.AddAudit(fmt.Sprintf("reposicion en enlace %s", r.Enlace))
	} else {
		r.OutOfService = util.Today()
	}
	return d
}
