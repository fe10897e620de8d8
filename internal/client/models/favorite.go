package models

// FavoriteEntry is a denormalized snapshot of a country taken when it was
// favorited. It is not refreshed when the source data changes.
type FavoriteEntry struct {
	CountryCode string      `json:"cca3"`
	Name        CountryName `json:"name"`
	Flags       Flags       `json:"flags"`
	Capital     []string    `json:"capital,omitempty"`
	Region      string      `json:"region"`
	Population  int64       `json:"population"`
}
