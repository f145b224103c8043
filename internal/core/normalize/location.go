package normalize

import "github.com/joseph-ayodele/minutas/internal/entity"

// Location cleans the three ubigeo levels and passes them through otherwise untouched.
func Location(in Fields) entity.Location {
	return entity.Location{
		Department: in.Str("departamento"),
		Province:   in.Str("provincia"),
		District:   in.Str("distrito"),
	}
}

// Domicile cleans an address and its ubigeo. A six-digit co_ubigeo is kept when present.
func Domicile(in Fields) entity.CanonicalDomicile {
	d := entity.CanonicalDomicile{
		Address:  in.Str("direccion"),
		Location: Location(in.Map("ubigeo")),
	}
	if code := in.Str("co_ubigeo"); isLocationCode(code) {
		d.LocationCode = code
	}
	return d
}

func isLocationCode(s string) bool {
	if len(s) != 6 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
