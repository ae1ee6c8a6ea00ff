package datasources

import (
	"context"
	"fmt"

	"github.com/grafana-tools/sdk"
)

// Lister is implemented by *sdk.Client.
type Lister interface {
	GetAllDatasources(ctx context.Context) ([]sdk.Datasource, error)
}

// FromGrafana builds a registry out of the data sources the instance reports,
// in the order it reports them.
func FromGrafana(ctx context.Context, lister Lister) (*Registry, error) {
	all, err := lister.GetAllDatasources(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list datasources: %w", err)
	}

	entries := make([]DataSource, 0, len(all))
	for _, ds := range all {
		entries = append(entries, DataSource{
			UID:       ds.UID,
			Name:      ds.Name,
			Type:      ds.Type,
			IsDefault: ds.IsDefault,
			Meta: PluginMeta{
				ID:      ds.Type,
				LogoURL: ds.TypeLogoURL,
			},
		})
	}

	return NewRegistry(entries...), nil
}
