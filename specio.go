package crossbind

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"
)

// WriteSpec writes the OpenAPI document as indented JSON to w.
func (r *Router) WriteSpec(w io.Writer) error {
	doc, err := r.Spec()
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// WriteSpecYAML writes the OpenAPI document as YAML to w. The document is
// round-tripped through JSON first so the wire names ($ref, operationId) come
// from the json tags rather than yaml's lowercased field names.
func (r *Router) WriteSpecYAML(w io.Writer) error {
	doc, err := r.Spec()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	var generic map[string]any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}
