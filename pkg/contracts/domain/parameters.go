package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Hint keys understood inside other_parameters.
const (
	HintNormalize    = "normalize"
	HintDoNotInclude = "do_not_include"
)

// FileParameters is the metadata recorded for one scanned tabular file.
// Columns is nil when the field was absent from the parameters document.
type FileParameters struct {
	LinesToRead     int             `json:"lines_to_read"`
	Columns         []string        `json:"columns"`
	FileName        string          `json:"file_name"`
	OtherParameters OtherParameters `json:"other_parameters"`
}

// HasColumns reports whether the columns field was present.
func (p FileParameters) HasColumns() bool {
	return p.Columns != nil
}

// OtherParameters holds per-file processing hints. Hints other than
// normalize and do_not_include are carried through untouched in Extra.
type OtherParameters struct {
	Normalize    bool
	DoNotInclude []string
	Extra        map[string]json.RawMessage
}

// MarshalJSON implements json.Marshaler.
func (o OtherParameters) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(o.Extra)+2)
	for k, v := range o.Extra {
		out[k] = v
	}
	out[HintNormalize] = o.Normalize
	if o.DoNotInclude != nil {
		out[HintDoNotInclude] = o.DoNotInclude
	}
	return marshalJSON(out)
}

// UnmarshalJSON implements json.Unmarshaler. A null exclusion term decodes
// as an empty string, which the column filter ignores.
func (o *OtherParameters) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*o = OtherParameters{}

	if v, ok := raw[HintNormalize]; ok {
		if err := json.Unmarshal(v, &o.Normalize); err != nil {
			return fmt.Errorf("%s: %w", HintNormalize, err)
		}
		delete(raw, HintNormalize)
	}

	if v, ok := raw[HintDoNotInclude]; ok {
		var terms []*string
		if err := json.Unmarshal(v, &terms); err != nil {
			return fmt.Errorf("%s: %w", HintDoNotInclude, err)
		}
		if terms != nil {
			o.DoNotInclude = make([]string, len(terms))
			for i, t := range terms {
				if t != nil {
					o.DoNotInclude[i] = *t
				}
			}
		}
		delete(raw, HintDoNotInclude)
	}

	if len(raw) > 0 {
		o.Extra = raw
	}
	return nil
}

// ArtifactEntry pairs an artifact key with its parameters.
type ArtifactEntry struct {
	Name   string
	Params FileParameters
}

// ParametersArtifact is the ordered mapping file name -> FileParameters
// persisted between the extract and visualize stages. Order is insertion
// order, which for a decoded document is document order.
type ParametersArtifact struct {
	order   []string
	entries map[string]FileParameters
}

// NewParametersArtifact returns an empty artifact.
func NewParametersArtifact() *ParametersArtifact {
	return &ParametersArtifact{entries: make(map[string]FileParameters)}
}

// Set adds or replaces an entry. Replacing keeps the original position.
func (a *ParametersArtifact) Set(name string, params FileParameters) {
	if a.entries == nil {
		a.entries = make(map[string]FileParameters)
	}
	if _, exists := a.entries[name]; !exists {
		a.order = append(a.order, name)
	}
	a.entries[name] = params
}

// Get returns the entry stored under name.
func (a *ParametersArtifact) Get(name string) (FileParameters, bool) {
	p, ok := a.entries[name]
	return p, ok
}

// Len returns the number of entries.
func (a *ParametersArtifact) Len() int {
	return len(a.order)
}

// Names returns the keys in order.
func (a *ParametersArtifact) Names() []string {
	names := make([]string, len(a.order))
	copy(names, a.order)
	return names
}

// Entries returns the entries in order.
func (a *ParametersArtifact) Entries() []ArtifactEntry {
	out := make([]ArtifactEntry, 0, len(a.order))
	for _, name := range a.order {
		out = append(out, ArtifactEntry{Name: name, Params: a.entries[name]})
	}
	return out
}

// MarshalJSON writes the artifact as a single object, keys in order.
func (a *ParametersArtifact) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range a.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := marshalJSON(name)
		if err != nil {
			return nil, err
		}
		val, err := marshalJSON(a.entries[name])
		if err != nil {
			return nil, fmt.Errorf("entry %q: %w", name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// marshalJSON is json.Marshal without HTML escaping, so names such as
// "p&q" are written as they are.
func marshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte{'\n'}), nil
}

// UnmarshalJSON reads a parameters document, keeping key order.
func (a *ParametersArtifact) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("parameters document must be a JSON object, got %v", tok)
	}

	a.order = nil
	a.entries = make(map[string]FileParameters)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", tok)
		}
		var params FileParameters
		if err := dec.Decode(&params); err != nil {
			return fmt.Errorf("entry %q: %w", name, err)
		}
		a.Set(name, params)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// PlotTarget is a resolved file and the columns to render from it.
type PlotTarget struct {
	Name    string   // artifact key
	Path    string   // physical file to read
	Columns []string // filtered column names
}
