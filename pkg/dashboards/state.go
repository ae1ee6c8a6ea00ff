package dashboards

import (
	"fmt"
	"strconv"

	"mbenabda.com/grafana-dashboards-importer/pkg/grafana"
)

// Route is what the import session knows about where the user came from.
type Route struct {
	// FolderID is the raw folder route parameter, empty when absent.
	FolderID string
}

func (r Route) folderID() int64 {
	if r.FolderID == "" {
		return 0
	}
	id, err := strconv.ParseInt(r.FolderID, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ValidationResult records whether the proposed title clashes with an
// existing dashboard.
type ValidationResult struct {
	State bool
	Error string
}

// Session is the state of one dashboard import. Operations of Importer and
// Saver read and write it; it is not safe for concurrent use.
type Session struct {
	Route Route

	// Dashboard is the working document, nil until one is fetched or pasted.
	Dashboard *grafana.Document
	Inputs    []Input
	IsLoaded  bool

	CatalogEntry *grafana.CatalogDashboard
	CatalogError string

	ExistingDashboard *grafana.ExistingDashboard
	UIDExists         bool
	UIDError          string

	TitleExists       bool
	TitleErrorMessage string
}

func NewSession(route Route) *Session {
	return &Session{Route: route}
}

func (s *Session) setCatalogDashboard(entry *grafana.CatalogDashboard) {
	s.CatalogEntry = entry
	s.CatalogError = ""
	s.Dashboard = entry.JSON
	s.IsLoaded = true
}

func (s *Session) setCatalogError(message string) {
	s.CatalogEntry = nil
	s.CatalogError = message
}

func (s *Session) setJSONDashboard(dashboard *grafana.Document) {
	s.Dashboard = dashboard
	s.IsLoaded = true
}

func (s *Session) setInputs(inputs []Input) {
	s.Inputs = inputs
}

func (s *Session) setTitle(title string) {
	if s.Dashboard == nil {
		return
	}
	s.Dashboard = s.Dashboard.WithTitle(title)
}

func (s *Session) setUID(uid string) {
	if s.Dashboard == nil {
		return
	}
	s.Dashboard = s.Dashboard.WithUID(uid)
	s.ExistingDashboard = nil
	s.UIDExists = false
	s.UIDError = ""
}

func (s *Session) setUIDExists(existing *grafana.ExistingDashboard) {
	s.ExistingDashboard = existing
	s.UIDExists = true
	s.UIDError = fmt.Sprintf("Dashboard named '%s' in folder '%s' has the same uid", existing.Dashboard.Title, existing.Meta.FolderTitle)
}

func (s *Session) setNameExists(result ValidationResult) {
	s.TitleExists = result.State
	s.TitleErrorMessage = result.Error
}

// Validation returns the last published name validation result.
func (s *Session) Validation() ValidationResult {
	return ValidationResult{State: s.TitleExists, Error: s.TitleErrorMessage}
}

func (s *Session) clear() {
	route := s.Route
	*s = Session{Route: route}
}
