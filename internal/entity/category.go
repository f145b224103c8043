package entity

// CatalogEntry is one row of a reference catalog (country, occupation, currency, ...).
type CatalogEntry struct {
	ID        int    `json:"id" yaml:"id"`
	Code      string `json:"code" yaml:"code"`
	Name      string `json:"name" yaml:"name"`
	ShortName string `json:"short_name" yaml:"short_name"`
}
