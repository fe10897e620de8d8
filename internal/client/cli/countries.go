package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dmitrijs2005/countryexplorer/internal/client/catalog"
	"github.com/dmitrijs2005/countryexplorer/internal/client/countries"
	"github.com/dmitrijs2005/countryexplorer/internal/client/models"
)

// loadCountries fetches the country list once per run.
func (a *App) loadCountries(ctx context.Context) ([]models.Country, error) {
	if a.countries != nil {
		return a.countries, nil
	}
	list, err := a.source.All(ctx)
	if err != nil {
		return nil, err
	}
	a.countries = list
	return list, nil
}

// List prints the countries matching the current filter in the current sort
// order.
func (a *App) List(ctx context.Context) error {
	all, err := a.loadCountries(ctx)
	if err != nil {
		return err
	}

	list := catalog.Apply(all, a.filter)
	if a.sortField != "" {
		catalog.Sort(list, a.sortField, a.sortDir)
	}

	if !a.filter.IsZero() {
		printlnFn("Filters: " + describeFilter(a.filter))
	}
	if len(list) == 0 {
		printlnFn("No countries match the current filters")
		return nil
	}

	printlnFn(renderCountries(list, a.session.IsFavorite))
	printlnFn(fmt.Sprintf("%d of %d countries", len(list), len(all)))
	return nil
}

func describeFilter(f catalog.Filter) string {
	var parts []string
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.Search))
	}
	if f.Region != "" {
		parts = append(parts, fmt.Sprintf("region=%q", f.Region))
	}
	if f.Language != "" {
		parts = append(parts, fmt.Sprintf("language=%q", f.Language))
	}
	return strings.Join(parts, " ")
}

func (a *App) setFilter(ctx context.Context, f catalog.Filter) error {
	a.filter = f
	a.prefs.Save(ctx, f)
	return a.List(ctx)
}

// Search filters by a case-insensitive name fragment. An empty query clears
// the search.
func (a *App) Search(ctx context.Context, query string) error {
	f := a.filter
	f.Search = strings.TrimSpace(query)
	return a.setFilter(ctx, f)
}

// Region filters by region name. The name is matched case-insensitively
// against the known regions so that "asia" selects "Asia". An empty name
// clears the region filter.
func (a *App) Region(ctx context.Context, region string) error {
	f := a.filter
	f.Region = ""

	if region = strings.TrimSpace(region); region != "" {
		all, err := a.loadCountries(ctx)
		if err != nil {
			return err
		}
		regions := catalog.Regions(all)
		i := slices.IndexFunc(regions, func(r string) bool { return strings.EqualFold(r, region) })
		if i < 0 {
			printlnFn(fmt.Sprintf("Unknown region %q. Known regions: %s", region, strings.Join(regions, ", ")))
			return nil
		}
		f.Region = regions[i]
	}
	return a.setFilter(ctx, f)
}

// Language filters by spoken language. An empty name clears the filter.
func (a *App) Language(ctx context.Context, language string) error {
	f := a.filter
	f.Language = strings.TrimSpace(language)
	return a.setFilter(ctx, f)
}

func (a *App) ResetFilters(ctx context.Context) error {
	a.filter = catalog.Filter{}
	a.sortField, a.sortDir = "", ""
	a.prefs.Reset(ctx)
	printlnFn("Filters cleared")
	return nil
}

func (a *App) Regions(ctx context.Context) error {
	all, err := a.loadCountries(ctx)
	if err != nil {
		return err
	}
	for _, r := range catalog.Regions(all) {
		printlnFn(r)
	}
	return nil
}

func (a *App) Languages(ctx context.Context) error {
	all, err := a.loadCountries(ctx)
	if err != nil {
		return err
	}
	printlnFn(strings.Join(catalog.Languages(all), ", "))
	return nil
}

func (a *App) Sort(ctx context.Context, field, dir string) error {
	f, d, err := catalog.ParseSort(field, dir)
	if err != nil {
		return err
	}
	a.sortField, a.sortDir = f, d
	return a.List(ctx)
}

// Show prints the details of one country.
func (a *App) Show(ctx context.Context, code string) error {
	c, err := a.source.ByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, countries.ErrCountryNotFound) {
			printlnFn(fmt.Sprintf("Country %q not found", code))
			return nil
		}
		return err
	}
	printlnFn(renderCountry(*c, a.session.IsFavorite(c.Code)))
	return nil
}
