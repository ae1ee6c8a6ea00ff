package grafana

import (
	"bytes"
	"encoding/json"
	"errors"
)

type jsonObj struct {
	data interface{}
}

func newJsonObj(body []byte) (*jsonObj, error) {
	j := &jsonObj{}

	err := j.unmarshalJSON(body)
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (j *jsonObj) unmarshalJSON(p []byte) error {
	dec := json.NewDecoder(bytes.NewBuffer(p))
	dec.UseNumber()
	return dec.Decode(&j.data)
}

func (j *jsonObj) get(key string) *jsonObj {
	m, err := j.asMap()
	if err == nil {
		if val, ok := m[key]; ok {
			return &jsonObj{val}
		}
	}
	return &jsonObj{nil}
}

func (j *jsonObj) isNull() bool {
	return j.data == nil
}

// decodeInto re-encodes the wrapped value and decodes it into out.
func (j *jsonObj) decodeInto(out interface{}) error {
	raw, err := json.Marshal(j.data)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// copyMap returns a shallow copy of the wrapped object.
func (j *jsonObj) copyMap() map[string]interface{} {
	out := map[string]interface{}{}
	m, err := j.asMap()
	if err != nil {
		return out
	}
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (j *jsonObj) asMap() (map[string]interface{}, error) {
	if m, ok := (j.data).(map[string]interface{}); ok {
		return m, nil
	}
	return nil, errors.New("type assertion to map[string]interface{} failed")
}

func (j *jsonObj) asArray() ([]interface{}, error) {
	if a, ok := (j.data).([]interface{}); ok {
		return a, nil
	}
	return nil, errors.New("type assertion to []interface{} failed")
}

func (j *jsonObj) String() (string, error) {
	if s, ok := (j.data).(string); ok {
		return s, nil
	}
	return "", errors.New("type assertion to string failed")
}
