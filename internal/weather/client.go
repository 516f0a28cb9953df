package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client fetches current conditions from the OpenWeatherMap API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// openWeatherResponse mirrors the subset of the provider payload we use.
type openWeatherResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s in metric units
	} `json:"wind"`
}

// Fetch performs a live current-conditions request for the given city.
func (c *Client) Fetch(ctx context.Context, city string) (*Snapshot, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("appid", c.apiKey)
	q.Set("units", "metric")

	reqURL := fmt.Sprintf("%s/weather?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating weather request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading weather response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather provider returned %d: %s", resp.StatusCode, body)
	}

	var raw openWeatherResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("decoding weather response: %w", err)
	}

	desc := ""
	if len(raw.Weather) > 0 {
		desc = raw.Weather[0].Description
	}

	name := raw.Name
	if name == "" {
		name = city
	}

	return &Snapshot{
		City:        name,
		Temp:        int(math.Round(raw.Main.Temp)),
		Feels:       int(math.Round(raw.Main.FeelsLike)),
		Description: desc,
		Humidity:    raw.Main.Humidity,
		Wind:        int(math.Round(raw.Wind.Speed * 3.6)),
	}, nil
}
