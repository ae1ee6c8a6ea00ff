package dashboards

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"mbenabda.com/grafana-dashboards-importer/pkg/datasources"
	"mbenabda.com/grafana-dashboards-importer/pkg/grafana"
	"mbenabda.com/grafana-dashboards-importer/pkg/validation"
)

var ErrNoDashboard = errors.New("no dashboard to import")

type NameValidator interface {
	ValidateNewDashboardName(ctx context.Context, folderID int64, name string) error
}

// Importer loads a dashboard into a Session, from the catalog or from JSON,
// and keeps the state derived from it up to date.
type Importer struct {
	catalog    grafana.CatalogInterface
	dashboards grafana.DashboardsInterface
	validator  NameValidator
	registry   *datasources.Registry
	logger     *log.Entry
}

func NewImporter(client grafana.Interface, validator NameValidator, registry *datasources.Registry, logger *log.Entry) *Importer {
	return &Importer{
		catalog:    client.Catalog(),
		dashboards: client.Dashboards(),
		validator:  validator,
		registry:   registry,
		logger:     logger,
	}
}

// step is one stage of an import. A failing soft step is logged and the
// import goes on; a failing hard step stops it.
type step struct {
	name string
	soft bool
	run  func(context.Context) error
}

func (i *Importer) runSteps(ctx context.Context, steps ...step) error {
	for _, st := range steps {
		err := st.run(ctx)
		if err == nil {
			continue
		}
		if st.soft {
			i.logger.WithError(err).Debugf("%s failed, carrying on", st.name)
			continue
		}
		return fmt.Errorf("%s: %w", st.name, err)
	}
	return nil
}

// FetchCatalogDashboard loads dashboard id from the catalog. A failure is not
// returned: it ends up in s.CatalogError.
func (i *Importer) FetchCatalogDashboard(ctx context.Context, s *Session, id string) {
	entry, err := i.catalog.Get(ctx, id)
	if err != nil {
		i.logger.WithError(err).WithField("id", id).Warn("could not fetch dashboard from the catalog")
		s.setCatalogError(grafana.ErrorMessage(err))
		return
	}

	s.setCatalogDashboard(entry)
	i.processInputs(s, entry.JSON)
}

// ImportDashboardJSON loads a dashboard given as JSON.
func (i *Importer) ImportDashboardJSON(ctx context.Context, s *Session, dashboard *grafana.Document) error {
	if dashboard == nil {
		return ErrNoDashboard
	}

	return i.runSteps(ctx,
		step{name: "look up dashboard uid", soft: true, run: func(ctx context.Context) error {
			return i.lookupUID(ctx, s, dashboard.UID)
		}},
		step{name: "validate dashboard name", soft: true, run: func(ctx context.Context) error {
			return i.validateDashboardName(ctx, s, dashboard.Title)
		}},
		step{name: "load dashboard", run: func(ctx context.Context) error {
			s.setJSONDashboard(dashboard)
			i.processInputs(s, dashboard)
			return nil
		}},
	)
}

// lookupUID flags s when a dashboard with uid already exists. Lookup failures
// are returned for logging only: the import does not depend on them.
func (i *Importer) lookupUID(ctx context.Context, s *Session, uid string) error {
	if uid == "" {
		return nil
	}

	existing, err := i.dashboards.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	if existing != nil {
		s.setUIDExists(existing)
	}
	return nil
}

// validateDashboardName publishes the outcome of the name check. Only a name
// clash is published; the other failures are handed back to the caller,
// which drops them.
func (i *Importer) validateDashboardName(ctx context.Context, s *Session, name string) error {
	err := i.validator.ValidateNewDashboardName(ctx, s.Route.folderID(), name)
	if err == nil {
		s.setNameExists(ValidationResult{State: false, Error: ""})
		return nil
	}

	var vErr *validation.ValidationError
	if errors.As(err, &vErr) && vErr.Type == validation.TypeExisting {
		s.setNameExists(ValidationResult{State: true, Error: vErr.Message})
		return nil
	}

	return err
}

func (i *Importer) processInputs(s *Session, dashboard *grafana.Document) {
	inputs, ok := ProcessInputs(dashboard, i.registry)
	if !ok {
		return
	}
	s.setInputs(inputs)
}

func (i *Importer) ChangeDashboardTitle(s *Session, title string) {
	s.setTitle(title)
}

// ValidateDashboardName checks title against the session's folder and
// publishes a clash in s. Any other failure is returned and nothing is
// published.
func (i *Importer) ValidateDashboardName(ctx context.Context, s *Session, title string) error {
	return i.validateDashboardName(ctx, s, title)
}

// ChangeDashboardUID sets the working dashboard's uid, unless a dashboard
// with that uid already exists, in which case s is flagged instead.
func (i *Importer) ChangeDashboardUID(ctx context.Context, s *Session, uid string) error {
	existing, err := i.dashboards.GetByUID(ctx, uid)
	if err != nil {
		return fmt.Errorf("could not check uid %s: %w", uid, err)
	}

	if existing != nil {
		s.setUIDExists(existing)
		return nil
	}

	s.setUID(uid)
	return nil
}

func (i *Importer) Reset(s *Session) {
	s.clear()
}
