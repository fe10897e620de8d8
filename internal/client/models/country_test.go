package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Trimmed restcountries v3.1 payload for India.
const indiaJSON = `{
  "name": {"common": "India", "official": "Republic of India", "nativeName": {}},
  "cca3": "IND",
  "region": "Asia",
  "subregion": "Southern Asia",
  "capital": ["New Delhi"],
  "population": 1380004385,
  "area": 3287590,
  "flags": {"png": "https://flagcdn.com/w320/in.png", "svg": "https://flagcdn.com/in.svg", "alt": "The flag of India"},
  "coatOfArms": {"png": "https://mainfacts.com/media/images/coats_of_arms/in.png"},
  "languages": {"hin": "Hindi", "eng": "English", "tam": "Tamil"},
  "currencies": {"INR": {"name": "Indian rupee", "symbol": "₹"}},
  "borders": ["BGD", "BTN", "MMR", "CHN", "NPL", "PAK"],
  "timezones": ["UTC+05:30"],
  "tld": [".in"],
  "maps": {"googleMaps": "https://goo.gl/maps/WSk3fLwG4vtPQetp7"}
}`

func TestCountry_DecodesSourcePayload(t *testing.T) {
	var c Country
	require.NoError(t, json.Unmarshal([]byte(indiaJSON), &c))

	assert.Equal(t, "IND", c.Code)
	assert.Equal(t, "India", c.Name.Common)
	assert.Equal(t, "Republic of India", c.Name.Official)
	assert.Equal(t, []string{"New Delhi"}, c.Capital)
	assert.Equal(t, int64(1380004385), c.Population)
	assert.Equal(t, "₹", c.Currencies["INR"].Symbol)
	assert.Len(t, c.Borders, 6)
}

func TestCountry_LanguageNamesAreOrderedByCode(t *testing.T) {
	c := Country{Languages: map[string]string{"tam": "Tamil", "eng": " English ", "hin": "Hindi"}}
	assert.Equal(t, []string{"English", "Hindi", "Tamil"}, c.LanguageNames())
	assert.Empty(t, Country{}.LanguageNames())
}

func TestCountry_FavoriteSnapshot(t *testing.T) {
	var c Country
	require.NoError(t, json.Unmarshal([]byte(indiaJSON), &c))

	fav := c.Favorite()
	assert.Equal(t, FavoriteEntry{
		CountryCode: "IND",
		Name:        CountryName{Common: "India", Official: "Republic of India"},
		Flags:       Flags{PNG: "https://flagcdn.com/w320/in.png", SVG: "https://flagcdn.com/in.svg", Alt: "The flag of India"},
		Capital:     []string{"New Delhi"},
		Region:      "Asia",
		Population:  1380004385,
	}, fav)

	fav.Capital[0] = "changed"
	assert.Equal(t, "New Delhi", c.Capital[0], "snapshot must not alias the source slice")
}

func TestFavoriteEntry_StoredLayoutUsesSourceFieldNames(t *testing.T) {
	b, err := json.Marshal(FavoriteEntry{CountryCode: "IND", Region: "Asia"})
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Equal(t, "IND", raw["cca3"])
	assert.Contains(t, raw, "name")
	assert.Contains(t, raw, "flags")
	assert.NotContains(t, raw, "capital")
}

func TestFirstCapital(t *testing.T) {
	assert.Equal(t, "", FirstCapital(nil))
	assert.Equal(t, "Bern", FirstCapital([]string{"Bern", "Zurich"}))
}
