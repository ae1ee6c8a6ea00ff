// Package datasources holds the read-only set of data sources configured on
// the target Grafana instance.
package datasources

// PluginMeta describes the plugin behind a data source.
type PluginMeta struct {
	ID      string `json:"id" yaml:"id"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	LogoURL string `json:"logoUrl,omitempty" yaml:"logoUrl,omitempty"`
}

type DataSource struct {
	UID       string
	Name      string
	Type      string
	IsDefault bool
	Meta      PluginMeta
}

// Registry is an ordered, immutable list of data sources. Lookups keep the
// order the registry was built with.
type Registry struct {
	entries []DataSource
}

func NewRegistry(entries ...DataSource) *Registry {
	copied := make([]DataSource, len(entries))
	copy(copied, entries)
	return &Registry{entries: copied}
}

// OfType returns every data source whose type is pluginID.
func (r *Registry) OfType(pluginID string) []DataSource {
	if r == nil {
		return nil
	}

	var matches []DataSource
	for _, ds := range r.entries {
		if ds.Type == pluginID {
			matches = append(matches, ds)
		}
	}
	return matches
}

func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}
