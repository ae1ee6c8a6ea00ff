package grafana

import (
	"context"
)

type Interface interface {
	Dashboards() DashboardsInterface
	Catalog() CatalogInterface
}

type DashboardsInterface interface {
	// GetByUID returns nil, nil when no dashboard has the given uid.
	GetByUID(ctx context.Context, uid string) (*ExistingDashboard, error)
	Import(ctx context.Context, req ImportRequest) (*ImportResult, error)
}

type CatalogInterface interface {
	Get(ctx context.Context, id string) (*CatalogDashboard, error)
}

type GrafanaClient struct {
	dashboards DashboardsInterface
	catalog    CatalogInterface
}

func (c GrafanaClient) Dashboards() DashboardsInterface {
	return c.dashboards
}

func (c GrafanaClient) Catalog() CatalogInterface {
	return c.catalog
}

// CatalogDashboard is a grafana.com dashboard as served through the gnet proxy.
type CatalogDashboard struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Revision    int64     `json:"revision"`
	OrgName     string    `json:"orgName"`
	UpdatedAt   string    `json:"updatedAt"`
	JSON        *Document `json:"json"`
}

type ExistingDashboard struct {
	Dashboard DashboardSummary `json:"dashboard"`
	Meta      DashboardMeta    `json:"meta"`
}

type DashboardSummary struct {
	ID    int64  `json:"id"`
	UID   string `json:"uid"`
	Title string `json:"title"`
}

type DashboardMeta struct {
	Slug        string `json:"slug"`
	URL         string `json:"url"`
	FolderID    int64  `json:"folderId"`
	FolderUID   string `json:"folderUid"`
	FolderTitle string `json:"folderTitle"`
}

type ImportRequest struct {
	Dashboard *Document     `json:"dashboard"`
	Overwrite bool          `json:"overwrite"`
	Inputs    []ImportInput `json:"inputs"`
	FolderID  int64         `json:"folderId"`
}

type ImportInput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	PluginID string `json:"pluginId"`
	Value    string `json:"value"`
}

type ImportResult struct {
	UID         string `json:"uid"`
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	DashboardID int64  `json:"dashboardId"`
	Imported    bool   `json:"imported"`
	ImportedURL string `json:"importedUrl"`
}
