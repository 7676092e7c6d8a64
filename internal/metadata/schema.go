package metadata

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed kinds.yaml
var defaultKinds []byte

// Attribute is one named slot of an entity kind's attribute table.
type Attribute struct {
	Name    string
	Type    ValueType
	indices []versionIndex // sorted by version
}

type versionIndex struct {
	since Version
	index int
}

// Index returns the attribute's table index in protocol v.
func (a Attribute) Index(v Version) (uint8, bool) {
	idx := -1
	for _, vi := range a.indices {
		if vi.since > v {
			break
		}
		idx = vi.index
	}
	if idx < 0 {
		return 0, false
	}
	return uint8(idx), true
}

// Offset is the display displacement declared for a kind.
type Offset struct {
	Position   [3]float64 `yaml:"position"`
	Yaw, Pitch float32
}

// Schema is the resolved attribute layout of one entity kind, including
// everything inherited from its parents.
type Schema struct {
	Name       string
	TypeID     int32
	Living     bool
	ObjectData int32
	Offset     Offset

	attrs  []Attribute
	byName map[string]int
}

// Attributes returns the kind's attributes, parents first.
func (s *Schema) Attributes() []Attribute {
	return slices.Clone(s.attrs)
}

// Attribute looks up an attribute by name.
func (s *Schema) Attribute(name string) (Attribute, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Attribute{}, false
	}
	return s.attrs[i], true
}

// Index resolves the table index of a named attribute in protocol v.
func (s *Schema) Index(name string, v Version) (uint8, error) {
	a, ok := s.Attribute(name)
	if !ok {
		return 0, fmt.Errorf("%w: %s has no attribute %q", ErrUnsupportedAttribute, s.Name, name)
	}
	idx, ok := a.Index(v)
	if !ok {
		return 0, fmt.Errorf("%w: %s.%s is not available in %s", ErrUnsupportedAttribute, s.Name, name, v)
	}
	return idx, nil
}

// Resolve validates val against the named attribute and returns its index
// in protocol v.
func (s *Schema) Resolve(name string, val Value, v Version) (uint8, error) {
	idx, err := s.Index(name, v)
	if err != nil {
		return 0, err
	}
	a, _ := s.Attribute(name)
	if val == nil || val.Type() != a.Type {
		return 0, fmt.Errorf("%w: %s.%s expects %s, got %T", ErrUnsupportedValue, s.Name, name, a.Type, val)
	}
	return idx, nil
}

// Registry holds entity kind schemas by name.
type Registry struct {
	schemas map[string]*Schema
}

// Schema returns the named kind.
func (r *Registry) Schema(name string) (*Schema, bool) {
	s, ok := r.schemas[name]
	return s, ok
}

// Names returns the registered kind names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.schemas))
	for name := range r.schemas {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var loadDefault = sync.OnceValues(func() (*Registry, error) {
	return Parse(defaultKinds)
})

// Default returns the registry built from the embedded kind table.
func Default() *Registry {
	r, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("metadata: embedded kinds.yaml: %v", err))
	}
	return r
}

type kindsFile struct {
	Kinds []kindDef `yaml:"kinds"`
}

type kindDef struct {
	Name       string         `yaml:"name"`
	Parent     string         `yaml:"parent"`
	TypeID     int32          `yaml:"type_id"`
	Living     bool           `yaml:"living"`
	ObjectData int32          `yaml:"object_data"`
	Offset     Offset         `yaml:"offset"`
	Attributes []attributeDef `yaml:"attributes"`
}

type attributeDef struct {
	Name  string         `yaml:"name"`
	Type  string         `yaml:"type"`
	Index map[string]int `yaml:"index"`
}

// Parse builds a registry from one YAML document.
func Parse(data []byte) (*Registry, error) {
	var f kindsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse kinds: %w", err)
	}
	return build(f.Kinds)
}

// Load reads a registry from r.
func Load(r io.Reader) (*Registry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read kinds: %w", err)
	}
	return Parse(data)
}

// LoadDir merges every *.yaml and *.yml file in dir into one registry.
// Parents may be declared in a different file than their children.
func LoadDir(dir string) (*Registry, error) {
	var files []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		m, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", dir, err)
		}
		files = append(files, m...)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no kind tables in %s", dir)
	}
	sort.Strings(files)

	var defs []kindDef
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		var f kindsFile
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		defs = append(defs, f.Kinds...)
	}
	return build(defs)
}

var errCycle = errors.New("parent cycle")

func build(defs []kindDef) (*Registry, error) {
	byName := make(map[string]kindDef, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, errors.New("kind without name")
		}
		if _, dup := byName[d.Name]; dup {
			return nil, fmt.Errorf("duplicate kind %q", d.Name)
		}
		byName[d.Name] = d
	}

	reg := &Registry{schemas: make(map[string]*Schema, len(defs))}
	resolving := make(map[string]bool)

	var resolve func(name string) (*Schema, error)
	resolve = func(name string) (*Schema, error) {
		if s, ok := reg.schemas[name]; ok {
			return s, nil
		}
		if resolving[name] {
			return nil, fmt.Errorf("kind %q: %w", name, errCycle)
		}
		d, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("unknown kind %q", name)
		}
		resolving[name] = true
		defer delete(resolving, name)

		s := &Schema{
			Name:       d.Name,
			TypeID:     d.TypeID,
			Living:     d.Living,
			ObjectData: d.ObjectData,
			Offset:     d.Offset,
			byName:     make(map[string]int),
		}
		if d.Parent != "" {
			parent, err := resolve(d.Parent)
			if err != nil {
				return nil, fmt.Errorf("kind %q: %w", name, err)
			}
			s.attrs = slices.Clone(parent.attrs)
			for i, a := range s.attrs {
				s.byName[a.Name] = i
			}
		}
		for _, ad := range d.Attributes {
			a, err := buildAttribute(ad)
			if err != nil {
				return nil, fmt.Errorf("kind %q: %w", name, err)
			}
			if i, ok := s.byName[a.Name]; ok {
				s.attrs[i] = a
				continue
			}
			s.byName[a.Name] = len(s.attrs)
			s.attrs = append(s.attrs, a)
		}
		reg.schemas[name] = s
		return s, nil
	}

	for _, d := range defs {
		if _, err := resolve(d.Name); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func buildAttribute(ad attributeDef) (Attribute, error) {
	t, err := parseValueType(ad.Type)
	if err != nil {
		return Attribute{}, fmt.Errorf("attribute %q: %w", ad.Name, err)
	}
	a := Attribute{Name: ad.Name, Type: t}
	for name, idx := range ad.Index {
		v, err := ParseVersion(name)
		if err != nil {
			return Attribute{}, fmt.Errorf("attribute %q: %w", ad.Name, err)
		}
		if idx > 0xFE {
			return Attribute{}, fmt.Errorf("attribute %q: index %d out of range", ad.Name, idx)
		}
		a.indices = append(a.indices, versionIndex{since: v, index: idx})
	}
	slices.SortFunc(a.indices, func(x, y versionIndex) int {
		return int(x.since) - int(y.since)
	})
	return a, nil
}
