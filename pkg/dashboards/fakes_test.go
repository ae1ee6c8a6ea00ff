package dashboards_test

import (
	"context"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"mbenabda.com/grafana-dashboards-importer/pkg/grafana"
)

type fakeCatalog struct {
	entries map[string]*grafana.CatalogDashboard
	err     error
}

func (f *fakeCatalog) Get(ctx context.Context, id string) (*grafana.CatalogDashboard, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.entries[id], nil
}

type fakeDashboards struct {
	existing  map[string]*grafana.ExistingDashboard
	lookupErr error
	lookups   []string

	imported  []grafana.ImportRequest
	importURL string
	importErr error
}

func (f *fakeDashboards) GetByUID(ctx context.Context, uid string) (*grafana.ExistingDashboard, error) {
	f.lookups = append(f.lookups, uid)
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return f.existing[uid], nil
}

func (f *fakeDashboards) Import(ctx context.Context, req grafana.ImportRequest) (*grafana.ImportResult, error) {
	f.imported = append(f.imported, req)
	if f.importErr != nil {
		return nil, f.importErr
	}
	return &grafana.ImportResult{ImportedURL: f.importURL}, nil
}

type fakeClient struct {
	catalog    *fakeCatalog
	dashboards *fakeDashboards
}

func (f fakeClient) Catalog() grafana.CatalogInterface { return f.catalog }
func (f fakeClient) Dashboards() grafana.DashboardsInterface { return f.dashboards }

type validateCall struct {
	folderID int64
	name     string
}

type fakeValidator struct {
	err   error
	calls []validateCall
}

func (f *fakeValidator) ValidateNewDashboardName(ctx context.Context, folderID int64, name string) error {
	f.calls = append(f.calls, validateCall{folderID: folderID, name: name})
	return f.err
}

type navigations struct {
	paths []string
}

func (n *navigations) Navigate(path string) {
	n.paths = append(n.paths, path)
}

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func mustDocument(t *testing.T, body string) *grafana.Document {
	t.Helper()
	d, err := grafana.NewDocument([]byte(body))
	require.NoError(t, err)
	return d
}
