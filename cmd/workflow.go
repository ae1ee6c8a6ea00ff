package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"mbenabda.com/grafana-dashboards-importer/pkg/dashboards"
	"mbenabda.com/grafana-dashboards-importer/pkg/grafana"
	"mbenabda.com/grafana-dashboards-importer/pkg/validation"
)

// source loads a dashboard into the session.
type source func(ctx context.Context, importer *dashboards.Importer, s *dashboards.Session) error

func catalogSource(id string) source {
	return func(ctx context.Context, importer *dashboards.Importer, s *dashboards.Session) error {
		importer.FetchCatalogDashboard(ctx, s, id)
		if s.CatalogError != "" {
			return fmt.Errorf("could not fetch dashboard %s from grafana.com: %s", id, s.CatalogError)
		}
		return nil
	}
}

func jsonSource(load func(context.Context) ([]byte, error)) source {
	return func(ctx context.Context, importer *dashboards.Importer, s *dashboards.Session) error {
		body, err := load(ctx)
		if err != nil {
			return err
		}
		dashboard, err := grafana.NewDocument(body)
		if err != nil {
			return err
		}
		return importer.ImportDashboardJSON(ctx, s, dashboard)
	}
}

type workflow struct {
	importer *dashboards.Importer
	saver    *dashboards.Saver
	options  *ImportOptions
	logger   *log.Entry
}

func (w *workflow) run(ctx context.Context, load source) error {
	s := dashboards.NewSession(dashboards.Route{FolderID: fmt.Sprint(w.options.FolderID)})
	defer w.importer.Reset(s)

	if err := load(ctx, w.importer, s); err != nil {
		return err
	}

	if w.options.Title != "" {
		if err := w.changeTitle(ctx, s, w.options.Title); err != nil {
			return err
		}
	}
	if w.options.UID != "" {
		if err := w.importer.ChangeDashboardUID(ctx, s, w.options.UID); err != nil {
			return err
		}
		if s.Dashboard.UID != w.options.UID {
			return fmt.Errorf("uid %s is already taken: %s", w.options.UID, s.UIDError)
		}
	}
	w.report(s)

	for _, in := range w.options.Inputs {
		if err := s.SetInputValue(in.name, in.value); err != nil {
			return err
		}
	}
	if err := w.defaultInputs(s); err != nil {
		return err
	}

	return w.saver.SaveDashboard(ctx, s, w.options.FolderID)
}

// changeTitle renames the dashboard, refusing a title that is empty or already
// used in the target folder.
func (w *workflow) changeTitle(ctx context.Context, s *dashboards.Session, title string) error {
	w.importer.ChangeDashboardTitle(s, title)

	err := w.importer.ValidateDashboardName(ctx, s, title)
	var vErr *validation.ValidationError
	switch {
	case errors.As(err, &vErr):
		return fmt.Errorf("title %q cannot be used: %s", title, vErr.Message)
	case err != nil:
		w.logger.WithError(err).Warnf("could not check title %q", title)
		return nil
	}

	if v := s.Validation(); v.State {
		return fmt.Errorf("title %q cannot be used: %s", title, v.Error)
	}
	return nil
}

func (w *workflow) report(s *dashboards.Session) {
	logger := w.logger.WithField("dashboard", s.Dashboard.String())
	if s.UIDExists {
		logger.Warnf("%s, it will be overwritten", s.UIDError)
	}
	if v := s.Validation(); v.State {
		logger.Warn(v.Error)
	}
}

// defaultInputs fills datasource inputs offering a single choice, and fails
// on any input still left without a value.
func (w *workflow) defaultInputs(s *dashboards.Session) error {
	var missing []string
	for _, in := range s.Inputs {
		if in.Value != "" {
			continue
		}
		if in.Type == grafana.InputTypeDataSource && len(in.Options) == 1 {
			w.logger.Infof("using data source %s for input %s", in.Options[0].Value, in.Name)
			if err := s.SetInputValue(in.Name, in.Options[0].Value); err != nil {
				return err
			}
			continue
		}
		missing = append(missing, fmt.Sprintf("%s (%s)", in.Name, in.Info))
	}

	if len(missing) > 0 {
		return fmt.Errorf("no value given for inputs: %s", strings.Join(missing, ", "))
	}
	return nil
}
