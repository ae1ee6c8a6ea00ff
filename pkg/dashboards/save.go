package dashboards

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mbenabda.com/grafana-dashboards-importer/pkg/grafana"
)

// Navigator takes the user to a path of the Grafana UI.
type Navigator interface {
	Navigate(path string)
}

type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Saver submits the working dashboard of a Session to Grafana.
type Saver struct {
	dashboards grafana.DashboardsInterface
	navigator  Navigator
	appSubURL  string
	logger     *log.Entry
}

func NewSaver(dashboards grafana.DashboardsInterface, navigator Navigator, appSubURL string, logger *log.Entry) *Saver {
	return &Saver{
		dashboards: dashboards,
		navigator:  navigator,
		appSubURL:  appSubURL,
		logger:     logger,
	}
}

// SaveDashboard imports the working dashboard into folderID, always
// overwriting, then navigates to it. Import failures are returned as is.
func (this *Saver) SaveDashboard(ctx context.Context, s *Session, folderID int64) error {
	if s.Dashboard == nil {
		return ErrNoDashboard
	}

	inputs := make([]grafana.ImportInput, 0, len(s.Inputs))
	for _, in := range s.Inputs {
		inputs = append(inputs, grafana.ImportInput{
			Name:     in.Name,
			Type:     in.Type,
			PluginID: in.PluginID,
			Value:    in.Value,
		})
	}

	result, err := this.dashboards.Import(ctx, grafana.ImportRequest{
		Dashboard: s.Dashboard,
		Overwrite: true,
		Inputs:    inputs,
		FolderID:  folderID,
	})
	if err != nil {
		return fmt.Errorf("unable to import dashboard %v: %w", s.Dashboard, err)
	}

	path := StripBaseFromURL(this.appSubURL, result.ImportedURL)
	this.logger.WithFields(log.Fields{
		"dashboard": s.Dashboard.Slug(),
		"folderId":  folderID,
		"path":      path,
	}).Info("imported dashboard")

	this.navigator.Navigate(path)
	return nil
}
