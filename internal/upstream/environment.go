package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
)

// EnvironmentClient implements environment.Source against the
// `GET <base>/weather?latitude=&longitude=` endpoint.
type EnvironmentClient struct {
	name    string
	baseURL string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewEnvironmentClient(baseURL string, cfg HTTPClientConfig) *EnvironmentClient {
	return &EnvironmentClient{
		name:    "environment",
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  cfg.Client,
		circuit: newBreaker("environment", cfg),
	}
}

func (c *EnvironmentClient) Name() string {
	return c.name
}

// Fetch issues one GET for the coordinates and returns the raw body.
func (c *EnvironmentClient) Fetch(ctx context.Context, latitude, longitude float64) ([]byte, error) {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(longitude, 'f', -1, 64))

	u := fmt.Sprintf("%s/weather?%s", c.baseURL, values.Encode())
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	return doRequest(ctx, c.client, c.circuit, req)
}
