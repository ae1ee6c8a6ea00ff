package dashboards

import (
	"fmt"

	"mbenabda.com/grafana-dashboards-importer/pkg/datasources"
	"mbenabda.com/grafana-dashboards-importer/pkg/grafana"
)

const stringConstantInfo = "Specify a string constant"

// Input is what the user gets to fill in for one of the dashboard's input
// declarations.
type Input struct {
	Name     string
	Label    string
	Info     string
	Value    string
	Type     string
	PluginID string
	Options  []Option
}

// Option is one candidate value of a datasource input.
type Option struct {
	Name  string
	Value string
	Meta  datasources.PluginMeta
}

func (in Input) hasOption(value string) bool {
	for _, o := range in.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// ProcessInputs builds one Input per declaration of dashboard, in declaration
// order. ok is false when the dashboard declares no input.
func ProcessInputs(dashboard *grafana.Document, registry *datasources.Registry) (inputs []Input, ok bool) {
	if !dashboard.HasInputs() {
		return nil, false
	}

	inputs = make([]Input, 0, len(dashboard.Inputs))
	for _, decl := range dashboard.Inputs {
		input := Input{
			Name:     decl.Name,
			Label:    decl.Label,
			Info:     decl.Description,
			Value:    decl.Value,
			Type:     decl.Type,
			PluginID: decl.PluginID,
			Options:  []Option{},
		}

		if decl.Type == grafana.InputTypeDataSource {
			dataSourceOptions(decl, &input, registry)
		} else if input.Info == "" {
			input.Info = stringConstantInfo
		}

		inputs = append(inputs, input)
	}

	return inputs, true
}

func dataSourceOptions(decl grafana.InputDeclaration, input *Input, registry *datasources.Registry) {
	pluginName := decl.PluginName
	if pluginName == "" {
		pluginName = decl.PluginID
	}

	sources := registry.OfType(decl.PluginID)
	if len(sources) == 0 {
		input.Info = fmt.Sprintf("No data sources of type %s found", pluginName)
		return
	}

	if input.Info == "" {
		input.Info = fmt.Sprintf("Select a %s data source", pluginName)
	}
	for _, ds := range sources {
		input.Options = append(input.Options, Option{Name: ds.Name, Value: ds.Name, Meta: ds.Meta})
	}
}

// SetInputValue gives the named input a value. The input list is replaced,
// never modified in place.
func (s *Session) SetInputValue(name, value string) error {
	for i, in := range s.Inputs {
		if in.Name != name {
			continue
		}

		if in.Type == grafana.InputTypeDataSource && !in.hasOption(value) {
			return fmt.Errorf("%q is not a %s data source available for input %s", value, in.PluginID, name)
		}

		next := make([]Input, len(s.Inputs))
		copy(next, s.Inputs)
		next[i].Value = value
		s.setInputs(next)
		return nil
	}

	return fmt.Errorf("dashboard has no input named %q", name)
}
