package dashboards

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mbenabda.com/grafana-dashboards-importer/pkg/grafana"
)

type dryRun struct {
	grafana.DashboardsInterface
	logger *log.Entry
}

// NewDryRunDashboards wraps dashboards so that lookups still reach Grafana
// but imports are only logged.
func NewDryRunDashboards(dashboards grafana.DashboardsInterface, logger *log.Entry) grafana.DashboardsInterface {
	return dryRun{DashboardsInterface: dashboards, logger: logger}
}

func (this dryRun) Import(ctx context.Context, req grafana.ImportRequest) (*grafana.ImportResult, error) {
	if req.Dashboard == nil {
		return nil, ErrNoDashboard
	}

	slug := req.Dashboard.Slug()
	this.logger.WithFields(log.Fields{
		"folderId":  req.FolderID,
		"overwrite": req.Overwrite,
		"inputs":    len(req.Inputs),
	}).Infof("imported dashboard %v", slug)

	return &grafana.ImportResult{
		UID:         req.Dashboard.UID,
		Title:       req.Dashboard.Title,
		Slug:        slug,
		ImportedURL: dryRunURL(req.Dashboard.UID, slug),
	}, nil
}

// dryRunURL is the url Grafana would give the dashboard. Grafana assigns a
// uid on import when there is none, so only the slug is known then.
func dryRunURL(uid, slug string) string {
	if uid == "" {
		return fmt.Sprintf("/d/%s", slug)
	}
	return fmt.Sprintf("/d/%s/%s", uid, slug)
}
