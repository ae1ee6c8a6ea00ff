package grafana

import (
	"context"
	"fmt"
)

const dashboardByUIDPath = "api/dashboards/uid/{uid}"
const importPath = "api/dashboards/import"

type DashboardsClient struct {
	clientBase
}

func (c DashboardsClient) GetByUID(ctx context.Context, uid string) (*ExistingDashboard, error) {
	resp, err := c.newRequest(ctx).
		SetPathParam("uid", uid).
		Get(dashboardByUIDPath)
	if err != nil {
		return nil, fmt.Errorf("error while looking up dashboard %s: %w", uid, err)
	}

	existing := &ExistingDashboard{}
	err = decode(resp, existing)
	if IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error while looking up dashboard %s: %w", uid, err)
	}

	return existing, nil
}

func (c DashboardsClient) Import(ctx context.Context, req ImportRequest) (*ImportResult, error) {
	if req.Dashboard == nil {
		return nil, fmt.Errorf("error while importing dashboard: no dashboard given")
	}

	resp, err := c.newRequest(ctx).
		SetBody(req).
		Post(importPath)
	if err != nil {
		return nil, fmt.Errorf("error while importing dashboard %v: %w", req.Dashboard, err)
	}

	result := &ImportResult{}
	if err := decode(resp, result); err != nil {
		return nil, fmt.Errorf("error while importing dashboard %v: %w", req.Dashboard, err)
	}

	return result, nil
}
