package grafana

import (
	"context"
	"fmt"
)

const catalogDashboardPath = "api/gnet/dashboards/{id}"

// CatalogClient reads dashboards published on grafana.com, proxied by the
// Grafana instance.
type CatalogClient struct {
	clientBase
}

func (c CatalogClient) Get(ctx context.Context, id string) (*CatalogDashboard, error) {
	resp, err := c.newRequest(ctx).
		SetPathParam("id", id).
		Get(catalogDashboardPath)
	if err != nil {
		return nil, fmt.Errorf("error while fetching catalog dashboard %s: %w", id, err)
	}

	dashboard := &CatalogDashboard{}
	if err := decode(resp, dashboard); err != nil {
		return nil, fmt.Errorf("error while fetching catalog dashboard %s: %w", id, err)
	}
	if dashboard.JSON == nil {
		return nil, &DocumentError{Field: "json", Reason: "is required"}
	}

	return dashboard, nil
}
