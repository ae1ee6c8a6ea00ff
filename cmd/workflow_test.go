package main

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mbenabda.com/grafana-dashboards-importer/pkg/dashboards"
	"mbenabda.com/grafana-dashboards-importer/pkg/datasources"
	"mbenabda.com/grafana-dashboards-importer/pkg/grafana"
	"mbenabda.com/grafana-dashboards-importer/pkg/validation"
)

type stubCatalog struct {
	entry *grafana.CatalogDashboard
	err   error
}

func (s stubCatalog) Get(ctx context.Context, id string) (*grafana.CatalogDashboard, error) {
	return s.entry, s.err
}

type recordingDashboards struct {
	existing map[string]*grafana.ExistingDashboard
	imported []grafana.ImportRequest
}

func (r *recordingDashboards) GetByUID(ctx context.Context, uid string) (*grafana.ExistingDashboard, error) {
	return r.existing[uid], nil
}

func (r *recordingDashboards) Import(ctx context.Context, req grafana.ImportRequest) (*grafana.ImportResult, error) {
	r.imported = append(r.imported, req)
	return &grafana.ImportResult{ImportedURL: "/d/" + req.Dashboard.UID + "/" + req.Dashboard.Slug()}, nil
}

type stubClient struct {
	catalog    grafana.CatalogInterface
	dashboards grafana.DashboardsInterface
}

func (s stubClient) Catalog() grafana.CatalogInterface { return s.catalog }
func (s stubClient) Dashboards() grafana.DashboardsInterface { return s.dashboards }

type acceptAll struct{}

func (acceptAll) ValidateNewDashboardName(ctx context.Context, folderID int64, name string) error {
	return nil
}

// takenNames rejects the names it holds, and records every name checked.
type takenNames struct {
	taken   map[string]bool
	err     error
	checked []string
}

func (v *takenNames) ValidateNewDashboardName(ctx context.Context, folderID int64, name string) error {
	v.checked = append(v.checked, name)
	if v.taken[name] {
		return &validation.ValidationError{Type: validation.TypeExisting, Message: "A dashboard in this folder with the same name already exists"}
	}
	return v.err
}

func newTestWorkflow(catalog grafana.CatalogInterface, store *recordingDashboards, opts *ImportOptions, paths *[]string) *workflow {
	return newValidatingWorkflow(catalog, store, acceptAll{}, opts, paths)
}

func newValidatingWorkflow(catalog grafana.CatalogInterface, store *recordingDashboards, names dashboards.NameValidator, opts *ImportOptions, paths *[]string) *workflow {
	l := logrus.New()
	l.SetOutput(io.Discard)
	logger := logrus.NewEntry(l)

	registry := datasources.NewRegistry(
		datasources.DataSource{Name: "prom", Type: "prometheus"},
		datasources.DataSource{Name: "loki-a", Type: "loki"},
		datasources.DataSource{Name: "loki-b", Type: "loki"},
	)

	return &workflow{
		importer: dashboards.NewImporter(stubClient{catalog: catalog, dashboards: store}, names, registry, logger),
		saver: dashboards.NewSaver(store, dashboards.NavigatorFunc(func(path string) {
			*paths = append(*paths, path)
		}), "", logger),
		options: opts,
		logger:  logger,
	}
}

const catalogJSON = `{
	"uid": "rYdddlPWk",
	"title": "Node Exporter Full",
	"__inputs": [
		{"name": "DS_PROMETHEUS", "type": "datasource", "pluginId": "prometheus", "pluginName": "Prometheus"},
		{"name": "DS_LOKI", "type": "datasource", "pluginId": "loki", "pluginName": "Loki"}
	]
}`

func catalogEntry(t *testing.T) *grafana.CatalogDashboard {
	doc, err := grafana.NewDocument([]byte(catalogJSON))
	require.NoError(t, err)
	return &grafana.CatalogDashboard{ID: 1860, JSON: doc}
}

func TestWorkflowImportsCatalogDashboard(t *testing.T) {
	store := &recordingDashboards{}
	var paths []string
	opts := &ImportOptions{
		FolderID: 3,
		Title:    "Hosts",
		Inputs:   inputValues{{name: "DS_LOKI", value: "loki-b"}},
	}
	w := newTestWorkflow(stubCatalog{entry: catalogEntry(t)}, store, opts, &paths)

	require.NoError(t, w.run(context.Background(), catalogSource("1860")))

	require.Len(t, store.imported, 1)
	req := store.imported[0]
	assert.Equal(t, "Hosts", req.Dashboard.Title)
	assert.Equal(t, int64(3), req.FolderID)
	assert.Equal(t, []grafana.ImportInput{
		{Name: "DS_PROMETHEUS", Type: "datasource", PluginID: "prometheus", Value: "prom"},
		{Name: "DS_LOKI", Type: "datasource", PluginID: "loki", Value: "loki-b"},
	}, req.Inputs)
	assert.Equal(t, []string{"/d/rYdddlPWk/hosts"}, paths)
}

func TestWorkflowFailsOnAmbiguousInput(t *testing.T) {
	store := &recordingDashboards{}
	var paths []string
	w := newTestWorkflow(stubCatalog{entry: catalogEntry(t)}, store, &ImportOptions{}, &paths)

	err := w.run(context.Background(), catalogSource("1860"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DS_LOKI")
	assert.Empty(t, store.imported)
}

func TestWorkflowFailsOnCatalogError(t *testing.T) {
	store := &recordingDashboards{}
	var paths []string
	w := newTestWorkflow(stubCatalog{err: &grafana.APIError{StatusCode: 404, Message: "Dashboard not found"}}, store, &ImportOptions{}, &paths)

	err := w.run(context.Background(), catalogSource("1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dashboard not found")
}

func TestWorkflowImportsJSON(t *testing.T) {
	store := &recordingDashboards{}
	var paths []string
	w := newTestWorkflow(stubCatalog{}, store, &ImportOptions{UID: "new-uid"}, &paths)

	src := jsonSource(func(ctx context.Context) ([]byte, error) {
		return []byte(`{"uid": "abc", "title": "Plain"}`), nil
	})
	require.NoError(t, w.run(context.Background(), src))

	require.Len(t, store.imported, 1)
	assert.Equal(t, "new-uid", store.imported[0].Dashboard.UID)
	assert.Empty(t, store.imported[0].Inputs)
}

func plainDashboard(ctx context.Context) ([]byte, error) {
	return []byte(`{"uid": "abc", "title": "Plain"}`), nil
}

func TestWorkflowRefusesTakenUID(t *testing.T) {
	store := &recordingDashboards{existing: map[string]*grafana.ExistingDashboard{
		"taken": {
			Dashboard: grafana.DashboardSummary{UID: "taken", Title: "Other"},
			Meta:      grafana.DashboardMeta{FolderTitle: "General"},
		},
	}}
	var paths []string
	w := newTestWorkflow(stubCatalog{}, store, &ImportOptions{UID: "taken"}, &paths)

	err := w.run(context.Background(), jsonSource(plainDashboard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Dashboard named 'Other' in folder 'General' has the same uid")
	assert.Empty(t, store.imported)
	assert.Empty(t, paths)
}

func TestWorkflowKeepsOwnUIDWhenTaken(t *testing.T) {
	store := &recordingDashboards{existing: map[string]*grafana.ExistingDashboard{
		"abc": {Dashboard: grafana.DashboardSummary{UID: "abc", Title: "Plain"}},
	}}
	var paths []string
	w := newTestWorkflow(stubCatalog{}, store, &ImportOptions{UID: "abc"}, &paths)

	require.NoError(t, w.run(context.Background(), jsonSource(plainDashboard)))
	require.Len(t, store.imported, 1)
	assert.Equal(t, "abc", store.imported[0].Dashboard.UID)
}

func TestWorkflowRevalidatesTitleOverride(t *testing.T) {
	store := &recordingDashboards{}
	var paths []string
	names := &takenNames{taken: map[string]bool{"Taken": true}}
	w := newValidatingWorkflow(stubCatalog{}, store, names, &ImportOptions{Title: "Taken"}, &paths)

	err := w.run(context.Background(), jsonSource(plainDashboard))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same name already exists")
	assert.Equal(t, []string{"Plain", "Taken"}, names.checked)
	assert.Empty(t, store.imported)
}

func TestWorkflowAcceptsFreeTitleOverride(t *testing.T) {
	store := &recordingDashboards{}
	var paths []string
	names := &takenNames{taken: map[string]bool{"Plain": true}}
	w := newValidatingWorkflow(stubCatalog{}, store, names, &ImportOptions{Title: "Fresh"}, &paths)

	require.NoError(t, w.run(context.Background(), jsonSource(plainDashboard)))
	require.Len(t, store.imported, 1)
	assert.Equal(t, "Fresh", store.imported[0].Dashboard.Title)
}

func TestWorkflowTitleCheckFailureIsNotFatal(t *testing.T) {
	store := &recordingDashboards{}
	var paths []string
	names := &takenNames{err: assert.AnError}
	w := newValidatingWorkflow(stubCatalog{}, store, names, &ImportOptions{Title: "Fresh"}, &paths)

	require.NoError(t, w.run(context.Background(), jsonSource(plainDashboard)))
	require.Len(t, store.imported, 1)
	assert.Equal(t, "Fresh", store.imported[0].Dashboard.Title)
}

func TestWorkflowRejectsInvalidJSON(t *testing.T) {
	store := &recordingDashboards{}
	var paths []string
	w := newTestWorkflow(stubCatalog{}, store, &ImportOptions{}, &paths)

	src := jsonSource(func(ctx context.Context) ([]byte, error) {
		return []byte(`{"uid": "abc"}`), nil
	})
	assert.Error(t, w.run(context.Background(), src))
	assert.Empty(t, store.imported)
}

func TestInputValues(t *testing.T) {
	var v inputValues
	require.NoError(t, v.Set("DS=prom"))
	require.NoError(t, v.Set("JOB=a=b"))
	assert.Error(t, v.Set("novalue"))
	assert.Error(t, v.Set("=x"))

	assert.Equal(t, "DS=prom,JOB=a=b", v.String())
	assert.True(t, v.IsCumulative())
}

func TestRunReturnsWorkError(t *testing.T) {
	err := run(context.Background(), func(ctx context.Context) error {
		return assert.AnError
	})
	assert.ErrorIs(t, err, assert.AnError)
}
