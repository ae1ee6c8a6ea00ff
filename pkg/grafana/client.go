package grafana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-resty/resty/v2"
)

type clientBase struct {
	http *resty.Client
}

func NewWithApiKey(baseURL *url.URL, apiKey string) (Interface, error) {
	return NewWithApiKeyAndClient(baseURL, http.DefaultClient, apiKey)
}

func NewWithApiKeyAndClient(baseURL *url.URL, client *http.Client, apiKey string) (Interface, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("an API key is required to authenticate against the Grafana API")
	}

	base, err := newClientBase(baseURL, client)
	if err != nil {
		return nil, err
	}
	base.http.SetAuthToken(apiKey)

	return newGrafanaClient(base), nil
}

func NewWithUserCredentials(baseURL *url.URL, username, password string) (Interface, error) {
	return NewWithUserCredentialsAndClient(baseURL, http.DefaultClient, username, password)
}

func NewWithUserCredentialsAndClient(baseURL *url.URL, client *http.Client, username, password string) (Interface, error) {
	if username == "" {
		return nil, fmt.Errorf("a username is required to authenticate against the Grafana API")
	}

	base, err := newClientBase(baseURL, client)
	if err != nil {
		return nil, err
	}
	base.http.SetBasicAuth(username, password)

	return newGrafanaClient(base), nil
}

func newClientBase(baseURL *url.URL, client *http.Client) (clientBase, error) {
	if baseURL == nil {
		return clientBase{}, fmt.Errorf("an url is required")
	}

	r := resty.NewWithClient(client).
		SetBaseURL(baseURL.String()).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	return clientBase{http: r}, nil
}

func newGrafanaClient(base clientBase) GrafanaClient {
	return GrafanaClient{
		dashboards: DashboardsClient{base},
		catalog:    CatalogClient{base},
	}
}

func (c *clientBase) newRequest(ctx context.Context) *resty.Request {
	return c.http.R().SetContext(ctx)
}

// decode checks the response status and unmarshals a successful body into out.
func decode(resp *resty.Response, out interface{}) error {
	if resp.IsError() {
		return newAPIError(resp.StatusCode(), resp.Body())
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("could not decode response of %s %s : %w", resp.Request.Method, resp.Request.URL, err)
	}
	return nil
}
