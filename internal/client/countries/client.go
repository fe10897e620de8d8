// Package countries is a read-only client for the restcountries v3.1 API.
package countries

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/countryexplorer/internal/client/models"
	"github.com/dmitrijs2005/countryexplorer/internal/logging"
	"github.com/dmitrijs2005/countryexplorer/internal/netx"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

const (
	DefaultBaseURL = "https://restcountries.com/v3.1"

	// listFields limits /all to what the catalog needs.
	listFields = "name,cca3,region,capital,population,flags,languages"
)

var (
	ErrCountryNotFound = errors.New("country not found")
	ErrUnavailable     = errors.New("country data source unavailable")
)

type Source interface {
	// All returns every country ordered by common name.
	All(ctx context.Context) ([]models.Country, error)
	ByCode(ctx context.Context, code string) (*models.Country, error)
}

type HTTPClient struct {
	baseURL string
	client  *http.Client
	logger  logging.Logger
}

func NewHTTPClient(baseURL string, timeout time.Duration, logger logging.Logger) *HTTPClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger.With("component", "countries"),
	}
}

func (c *HTTPClient) All(ctx context.Context) ([]models.Country, error) {
	u := c.baseURL + "/all?fields=" + url.QueryEscape(listFields)

	var list []models.Country
	if err := netx.GetJSON(ctx, c.client, u, &list); err != nil {
		c.logger.Error(ctx, "failed to fetch countries", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	SortByName(list)
	c.logger.Debug(ctx, "countries fetched", "count", len(list))
	return list, nil
}

func (c *HTTPClient) ByCode(ctx context.Context, code string) (*models.Country, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrCountryNotFound
	}

	var list []models.Country
	err := netx.GetJSON(ctx, c.client, c.baseURL+"/alpha/"+url.PathEscape(code), &list)
	if err != nil {
		var se *netx.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s", ErrCountryNotFound, code)
		}
		c.logger.Error(ctx, "failed to fetch country", "code", code, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrCountryNotFound, code)
	}

	return &list[0], nil
}

// SortByName orders countries by common name using English collation, so
// accented names sort next to their unaccented neighbours.
func SortByName(list []models.Country) {
	col := collate.New(language.English, collate.Loose)
	slices.SortStableFunc(list, func(a, b models.Country) int {
		return col.CompareString(a.Name.Common, b.Name.Common)
	})
}
