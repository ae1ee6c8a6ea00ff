package datasources

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// provisioningFile is the subset of Grafana's datasource provisioning format
// this tool understands.
type provisioningFile struct {
	APIVersion  int `yaml:"apiVersion"`
	Datasources []struct {
		Name      string `yaml:"name"`
		Type      string `yaml:"type"`
		UID       string `yaml:"uid"`
		IsDefault bool   `yaml:"isDefault"`
	} `yaml:"datasources"`
}

func LoadProvisioningFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open datasources file: %w", err)
	}
	defer f.Close()

	return ParseProvisioning(f)
}

func ParseProvisioning(r io.Reader) (*Registry, error) {
	var file provisioningFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not parse datasources file: %w", err)
	}

	entries := make([]DataSource, 0, len(file.Datasources))
	for i, ds := range file.Datasources {
		if ds.Name == "" || ds.Type == "" {
			return nil, fmt.Errorf("datasource #%d: name and type are required", i)
		}
		entries = append(entries, DataSource{
			UID:       ds.UID,
			Name:      ds.Name,
			Type:      ds.Type,
			IsDefault: ds.IsDefault,
			Meta:      PluginMeta{ID: ds.Type},
		})
	}

	return NewRegistry(entries...), nil
}
