package models

import (
	"slices"
	"strings"
)

type CountryName struct {
	Common   string `json:"common"`
	Official string `json:"official"`
}

// Flags references flag images hosted by the data source.
type Flags struct {
	PNG string `json:"png"`
	SVG string `json:"svg"`
	Alt string `json:"alt,omitempty"`
}

type CoatOfArms struct {
	PNG string `json:"png,omitempty"`
	SVG string `json:"svg,omitempty"`
}

type Currency struct {
	Name   string `json:"name"`
	Symbol string `json:"symbol"`
}

type Maps struct {
	GoogleMaps     string `json:"googleMaps,omitempty"`
	OpenStreetMaps string `json:"openStreetMaps,omitempty"`
}

// Country is the subset of a restcountries v3.1 record used by the client.
type Country struct {
	Code       string              `json:"cca3"`
	Name       CountryName         `json:"name"`
	Region     string              `json:"region"`
	Subregion  string              `json:"subregion,omitempty"`
	Capital    []string            `json:"capital,omitempty"`
	Population int64               `json:"population"`
	Area       float64             `json:"area,omitempty"`
	Flags      Flags               `json:"flags"`
	CoatOfArms CoatOfArms          `json:"coatOfArms"`
	Languages  map[string]string   `json:"languages,omitempty"`
	Currencies map[string]Currency `json:"currencies,omitempty"`
	Borders    []string            `json:"borders,omitempty"`
	Timezones  []string            `json:"timezones,omitempty"`
	TLD        []string            `json:"tld,omitempty"`
	Maps       Maps                `json:"maps"`
}

// FirstCapital returns the first listed capital, or "" when there is none.
func FirstCapital(capitals []string) string {
	if len(capitals) == 0 {
		return ""
	}
	return capitals[0]
}

// LanguageNames returns the language names ordered by their ISO 639-3 code,
// so repeated calls give the same order.
func (c Country) LanguageNames() []string {
	codes := make([]string, 0, len(c.Languages))
	for code := range c.Languages {
		codes = append(codes, code)
	}
	slices.Sort(codes)

	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, strings.TrimSpace(c.Languages[code]))
	}
	return names
}

// Favorite captures the display snapshot stored in a favorites list.
func (c Country) Favorite() FavoriteEntry {
	return FavoriteEntry{
		CountryCode: c.Code,
		Name:        c.Name,
		Flags:       c.Flags,
		Capital:     slices.Clone(c.Capital),
		Region:      c.Region,
		Population:  c.Population,
	}
}
