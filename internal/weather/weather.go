package weather

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "https://api.weatherapi.com"

// ErrMalformed means the provider answered 200 with an unexpected body.
var ErrMalformed = errors.New("weather: malformed response")

// StatusError is returned for any non-200 answer.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("weather: unexpected status %d", e.Code)
}

type Report struct {
	Location  string
	TempC     float64
	Condition string
}

// Client fetches current conditions from weatherapi.com.
type Client struct {
	http    *http.Client
	baseURL string
	apiKey  string
}

func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		http:    httpClient,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

// Current issues a single GET; there are no retries.
func (c *Client) Current(ctx context.Context, location string) (Report, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", location)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/current.json?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("get current weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Report{}, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Report{}, fmt.Errorf("read body: %w", err)
	}

	log.Debug("Weather response", "bytes", len(body))

	return parse(location, body)
}

func parse(location string, body []byte) (Report, error) {
	if !gjson.ValidBytes(body) {
		return Report{}, ErrMalformed
	}

	res := gjson.GetManyBytes(body, "current.temp_c", "current.condition.text")
	temp, cond := res[0], res[1]
	if temp.Type != gjson.Number || !cond.Exists() {
		return Report{}, ErrMalformed
	}

	return Report{
		Location:  location,
		TempC:     temp.Float(),
		Condition: cond.String(),
	}, nil
}
