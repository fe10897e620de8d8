package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/countryexplorer/internal/client/countries"
	"github.com/dmitrijs2005/countryexplorer/internal/client/models"
)

// ToggleFavorite adds the country with code to the favorites of the signed-in
// user, or removes it when it is already there.
func (a *App) ToggleFavorite(ctx context.Context, code string) error {
	if !a.isLoggedIn() {
		printSignInHint()
		return nil
	}
	code = strings.ToUpper(strings.TrimSpace(code))

	entry := models.FavoriteEntry{CountryCode: code}
	if !a.session.IsFavorite(code) {
		c, err := a.findCountry(ctx, code)
		if err != nil {
			if errors.Is(err, countries.ErrCountryNotFound) {
				printlnFn(fmt.Sprintf("Country %q not found", code))
				return nil
			}
			return err
		}
		entry = c.Favorite()
	}

	added, err := a.session.ToggleFavorite(ctx, entry)
	if err != nil {
		return err
	}

	if added {
		printlnFn(fmt.Sprintf("Added %s to favorites", entry.Name.Common))
	} else {
		printlnFn(fmt.Sprintf("Removed %s from favorites", code))
	}
	return nil
}

// findCountry looks code up in the loaded list before asking the source.
func (a *App) findCountry(ctx context.Context, code string) (models.Country, error) {
	for _, c := range a.countries {
		if strings.EqualFold(c.Code, code) {
			return c, nil
		}
	}
	c, err := a.source.ByCode(ctx, code)
	if err != nil {
		return models.Country{}, err
	}
	return *c, nil
}

func (a *App) Favorites(ctx context.Context) error {
	if !a.isLoggedIn() {
		printSignInHint()
		return nil
	}

	favs := a.session.Favorites()
	if len(favs) == 0 {
		printlnFn("No favorites yet. Use 'fav <code>' to add one")
		return nil
	}
	printlnFn(renderFavorites(favs))
	return nil
}
