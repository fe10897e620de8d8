package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/countryexplorer/internal/client/models"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

const favoriteMark = "*"

func formatPopulation(n int64) string {
	return numbers.Sprintf("%d", n)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// renderCountries formats list as a table. isFavorite marks favorited rows.
func renderCountries(list []models.Country, isFavorite func(code string) bool) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tCODE\tNAME\tREGION\tCAPITAL\tPOPULATION")
	for _, c := range list {
		mark := ""
		if isFavorite(c.Code) {
			mark = favoriteMark
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			mark, c.Code, c.Name.Common, orDash(c.Region),
			orDash(models.FirstCapital(c.Capital)), formatPopulation(c.Population))
	}
	_ = tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func renderFavorites(list []models.FavoriteEntry) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tREGION\tCAPITAL\tPOPULATION")
	for _, f := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			f.CountryCode, f.Name.Common, orDash(f.Region),
			orDash(models.FirstCapital(f.Capital)), formatPopulation(f.Population))
	}
	_ = tw.Flush()
	return strings.TrimRight(b.String(), "\n")
}

func renderCountry(c models.Country, favorite bool) string {
	var b strings.Builder
	tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)

	title := c.Name.Common
	if favorite {
		title += " " + favoriteMark
	}
	fmt.Fprintf(&b, "%s (%s)\n", title, c.Code)

	row := func(k, v string) {
		if v != "" {
			fmt.Fprintf(tw, "  %s:\t%s\n", k, v)
		}
	}
	row("Official name", c.Name.Official)
	row("Region", c.Region)
	row("Subregion", c.Subregion)
	row("Capital", strings.Join(c.Capital, ", "))
	row("Population", formatPopulation(c.Population))
	if c.Area > 0 {
		row("Area", numbers.Sprintf("%.0f km²", c.Area))
	}
	row("Languages", strings.Join(c.LanguageNames(), ", "))
	row("Currencies", currencies(c.Currencies))
	row("Borders", strings.Join(c.Borders, ", "))
	row("Timezones", strings.Join(c.Timezones, ", "))
	row("Domains", strings.Join(c.TLD, ", "))
	row("Flag", c.Flags.PNG)
	row("Map", c.Maps.OpenStreetMaps)
	_ = tw.Flush()

	return strings.TrimRight(b.String(), "\n")
}

func currencies(m map[string]models.Currency) string {
	parts := make([]string, 0, len(m))
	for _, code := range slices.Sorted(maps.Keys(m)) {
		cur := m[code]
		if cur.Symbol != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", cur.Name, cur.Symbol))
		} else {
			parts = append(parts, cur.Name)
		}
	}
	return strings.Join(parts, ", ")
}
