package grafana

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gosimple/slug"
)

const (
	InputTypeDataSource = "datasource"
	InputTypeConstant   = "constant"
)

// InputDeclaration is one entry of a dashboard's "__inputs": a placeholder
// that needs a value before the dashboard can be imported.
type InputDeclaration struct {
	Name        string `json:"name"`
	Label       string `json:"label,omitempty"`
	Description string `json:"description,omitempty"`
	Value       string `json:"value,omitempty"`
	Type        string `json:"type"`
	PluginID    string `json:"pluginId,omitempty"`
	PluginName  string `json:"pluginName,omitempty"`
}

// Document is a dashboard definition as exported by Grafana. The fields an
// import works with are typed, everything else is kept as is and sent back
// untouched.
type Document struct {
	UID    string
	Title  string
	Inputs []InputDeclaration

	body *jsonObj
}

func NewDocument(body []byte) (*Document, error) {
	j, err := newJsonObj(body)
	if err != nil {
		return nil, fmt.Errorf("could not parse dashboard: %w", err)
	}
	if _, err := j.asMap(); err != nil {
		return nil, &DocumentError{Field: "dashboard", Reason: "is not a JSON object"}
	}

	d := &Document{body: j}

	if uid := j.get("uid"); !uid.isNull() {
		if d.UID, err = uid.String(); err != nil {
			return nil, &DocumentError{Field: "uid", Reason: "is not a string"}
		}
	}

	d.Title, _ = j.get("title").String()
	if strings.TrimSpace(d.Title) == "" {
		return nil, &DocumentError{Field: "title", Reason: "is required"}
	}

	if inputs := j.get("__inputs"); !inputs.isNull() {
		if _, err := inputs.asArray(); err != nil {
			return nil, &DocumentError{Field: "__inputs", Reason: "is not an array"}
		}
		if err := inputs.decodeInto(&d.Inputs); err != nil {
			return nil, &DocumentError{Field: "__inputs", Reason: err.Error()}
		}
	}

	for i, input := range d.Inputs {
		field := fmt.Sprintf("__inputs[%d]", i)
		if input.Name == "" {
			return nil, &DocumentError{Field: field + ".name", Reason: "is required"}
		}
		switch input.Type {
		case InputTypeDataSource, InputTypeConstant:
		default:
			return nil, &DocumentError{Field: field + ".type", Reason: fmt.Sprintf("%q is not a supported input type", input.Type)}
		}
	}

	return d, nil
}

// HasInputs tells whether the document declares any input.
func (d *Document) HasInputs() bool {
	return d != nil && len(d.Inputs) > 0
}

func (d *Document) Slug() string {
	return slug.Make(strings.ToLower(d.Title))
}

// WithTitle returns a copy of the document carrying the given title.
func (d *Document) WithTitle(title string) *Document {
	next := *d
	next.Title = title
	return &next
}

// WithUID returns a copy of the document carrying the given uid.
func (d *Document) WithUID(uid string) *Document {
	next := *d
	next.UID = uid
	return &next
}

// MarshalJSON writes the original document back, with the typed fields
// applied and the numeric id nulled so Grafana allocates a new one.
func (d *Document) MarshalJSON() ([]byte, error) {
	m := map[string]interface{}{}
	if d.body != nil {
		m = d.body.copyMap()
	}
	if d.UID != "" {
		m["uid"] = d.UID
	}
	m["title"] = d.Title
	m["id"] = nil

	return json.Marshal(m)
}

func (d *Document) UnmarshalJSON(p []byte) error {
	parsed, err := NewDocument(p)
	if err != nil {
		return err
	}
	*d = *parsed
	return nil
}

func (d *Document) String() string {
	if d.UID == "" {
		return d.Title
	}
	return fmt.Sprintf("%s (%s)", d.Title, d.UID)
}
