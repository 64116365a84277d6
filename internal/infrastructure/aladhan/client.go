package aladhan

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/mishcoders/rafiq-salah-extension/internal/domain/entity"
	appErrors "github.com/mishcoders/rafiq-salah-extension/internal/pkg/errors"
	"github.com/mishcoders/rafiq-salah-extension/internal/pkg/logger"
)

// API parameters. School 0 is Shafi; latitude adjustment is disabled.
const (
	defaultBaseURL           = "https://api.aladhan.com/v1/timingsByCity"
	school                   = 0
	latitudeAdjustmentMethod = "NONE"

	dateLayout     = "02-01-2006" // DD-MM-YYYY, as the API expects
	requestTimeout = 15 * time.Second
)

// Client fetches daily prayer timings from the aladhan timingsByCity API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        logger.Logger
}

// NewClient creates a new aladhan API client.
func NewClient(log logger.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        log,
	}
}

// NewClientWithBaseURL creates a client against a custom endpoint. Used in tests.
func NewClientWithBaseURL(baseURL string, log logger.Logger) *Client {
	c := NewClient(log)
	c.baseURL = baseURL
	return c
}

type timingsResponse struct {
	Code int `json:"code"`
	Data struct {
		Timings entity.PrayerTimings `json:"timings"`
	} `json:"data"`
}

// FetchTimings retrieves the prayer timings for the given date, city, and
// country using the given calculation method.
func (c *Client) FetchTimings(ctx context.Context, date time.Time, city, country string, method int) (entity.PrayerTimings, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid base URL: %v", appErrors.ErrInternalServer, err)
	}
	endpoint.Path += "/" + date.Format(dateLayout)

	query := endpoint.Query()
	query.Set("city", city)
	query.Set("country", country)
	query.Set("method", strconv.Itoa(method))
	query.Set("school", strconv.Itoa(school))
	query.Set("latitudeAdjustmentMethod", latitudeAdjustmentMethod)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrProviderAPI, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", appErrors.ErrProviderAPI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d", appErrors.ErrProviderAPI, resp.StatusCode)
	}

	var body timingsResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", appErrors.ErrProviderAPI, err)
	}
	if body.Code != http.StatusOK || body.Data.Timings == nil {
		return nil, fmt.Errorf("%w: invalid API response (code %d)", appErrors.ErrProviderAPI, body.Code)
	}

	c.log.Debug(fmt.Sprintf("Fetched prayer timings for %s, %s (method %d)", city, country, method))
	return body.Data.Timings, nil
}
