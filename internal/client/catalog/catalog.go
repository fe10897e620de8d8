// Package catalog filters, sorts and summarizes a country list on the client.
package catalog

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/countryexplorer/internal/client/models"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrInvalidSort = errors.New("invalid sort")

// Filter narrows a country list. Zero fields match everything.
type Filter struct {
	Search   string `json:"search"`
	Region   string `json:"region"`
	Language string `json:"language"`
}

func (f Filter) IsZero() bool {
	return f == Filter{}
}

func (f Filter) Match(c models.Country) bool {
	if s := strings.TrimSpace(f.Search); s != "" &&
		!strings.Contains(strings.ToLower(c.Name.Common), strings.ToLower(s)) {
		return false
	}
	if f.Region != "" && c.Region != f.Region {
		return false
	}
	if l := strings.TrimSpace(f.Language); l != "" {
		return slices.ContainsFunc(c.LanguageNames(), func(name string) bool {
			return strings.EqualFold(strings.TrimSpace(name), l)
		})
	}
	return true
}

// Apply returns the countries matching f, keeping their order.
func Apply(list []models.Country, f Filter) []models.Country {
	out := make([]models.Country, 0, len(list))
	for _, c := range list {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}

type Field string

const (
	FieldName       Field = "name"
	FieldPopulation Field = "population"
	FieldRegion     Field = "region"
	FieldCapital    Field = "capital"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseSort validates a field and an optional direction, defaulting to Asc.
func ParseSort(field, dir string) (Field, Direction, error) {
	f := Field(strings.ToLower(strings.TrimSpace(field)))
	switch f {
	case FieldName, FieldPopulation, FieldRegion, FieldCapital:
	default:
		return "", "", fmt.Errorf("%w: unknown field %q", ErrInvalidSort, field)
	}

	d := Direction(strings.ToLower(strings.TrimSpace(dir)))
	switch d {
	case "":
		d = Asc
	case Asc, Desc:
	default:
		return "", "", fmt.Errorf("%w: unknown direction %q", ErrInvalidSort, dir)
	}
	return f, d, nil
}

// Sort orders list in place. Equal elements keep their relative order.
func Sort(list []models.Country, field Field, dir Direction) {
	col := collate.New(language.English, collate.Loose)
	text := func(a, b string) int { return col.CompareString(a, b) }

	var compare func(a, b models.Country) int
	switch field {
	case FieldPopulation:
		compare = func(a, b models.Country) int { return cmp.Compare(a.Population, b.Population) }
	case FieldRegion:
		compare = func(a, b models.Country) int { return text(a.Region, b.Region) }
	case FieldCapital:
		compare = func(a, b models.Country) int {
			return text(models.FirstCapital(a.Capital), models.FirstCapital(b.Capital))
		}
	default:
		compare = func(a, b models.Country) int { return text(a.Name.Common, b.Name.Common) }
	}

	if dir == Desc {
		asc := compare
		compare = func(a, b models.Country) int { return asc(b, a) }
	}
	slices.SortStableFunc(list, compare)
}

// Regions lists distinct non-empty regions in first-seen order.
func Regions(list []models.Country) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range list {
		if c.Region == "" {
			continue
		}
		if _, ok := seen[c.Region]; ok {
			continue
		}
		seen[c.Region] = struct{}{}
		out = append(out, c.Region)
	}
	return out
}

// Languages lists distinct language names in collation order.
func Languages(list []models.Country) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, c := range list {
		for _, name := range c.Languages {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	collate.New(language.English).SortStrings(out)
	return out
}
