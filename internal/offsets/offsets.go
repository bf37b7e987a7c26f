// Package offsets loads the per-build symbol offsets of the server binary and
// resolves them against the process load base.
package offsets

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed versions/*.yaml
var versionFS embed.FS

//go:embed schema.json
var schemaJSON string

var (
	// ErrUnknownVersion means no offsets file exists for the requested build
	ErrUnknownVersion = errors.New("unknown server version")
	// ErrUnknownSymbol means a symbol is not declared for the loaded build
	ErrUnknownSymbol = errors.New("symbol not declared")
)

// Version is one build's offsets file.
type Version struct {
	Tag       string            `yaml:"version"`
	Binary    string            `yaml:"binary"`
	Data      map[string]uint64 `yaml:"data"`
	Functions map[string]uint64 `yaml:"functions"`
}

var schema = jsonschema.MustCompileString("offsets.schema.json", schemaJSON)

// Versions lists the embedded build tags.
func Versions() []string {
	ents, _ := fs.ReadDir(versionFS, "versions")
	var out []string
	for _, e := range ents {
		name := e.Name()
		out = append(out, name[:len(name)-len(".yaml")])
	}
	sort.Strings(out)
	return out
}

// Load reads the embedded offsets file for tag.
func Load(tag string) (*Version, error) {
	b, err := versionFS.ReadFile("versions/" + tag + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownVersion, tag)
	}
	v, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("offsets %s: %w", tag, err)
	}
	if v.Tag != tag {
		return nil, fmt.Errorf("offsets %s: file declares version %q", tag, v.Tag)
	}
	return v, nil
}

// Parse validates b against the offsets schema and decodes it.
func Parse(b []byte) (*Version, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	j, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(j))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	if err := schema.Validate(generic); err != nil {
		return nil, err
	}

	var v Version
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Table is a version resolved against a load base.
type Table struct {
	Base    uintptr
	Version *Version
}

// Resolve binds v to base. Addresses are computed on lookup.
func Resolve(v *Version, base uintptr) *Table {
	return &Table{Base: base, Version: v}
}

// Data returns the absolute address of a data symbol. It implements
// overlay.Addresser; size is not checked against anything.
func (t *Table) Data(name string, size uintptr) (uintptr, error) {
	off, ok := t.Version.Data[name]
	if !ok {
		return 0, fmt.Errorf("%w: data %s", ErrUnknownSymbol, name)
	}
	return t.Base + uintptr(off), nil
}

// Func returns the absolute address of a function symbol.
func (t *Table) Func(name string) (uintptr, error) {
	off, ok := t.Version.Functions[name]
	if !ok {
		return 0, fmt.Errorf("%w: function %s", ErrUnknownSymbol, name)
	}
	return t.Base + uintptr(off), nil
}

// Funcs resolves every name, stopping at the first unknown one.
func (t *Table) Funcs(names []string) (map[string]uintptr, error) {
	out := make(map[string]uintptr, len(names))
	for _, n := range names {
		a, err := t.Func(n)
		if err != nil {
			return nil, err
		}
		out[n] = a
	}
	return out, nil
}
