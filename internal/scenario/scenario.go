// Package scenario drives fake entities and simulated viewers from a YAML
// description, one Step per server tick.
package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// File is a parsed scenario.
type File struct {
	Worlds   []string    `yaml:"worlds"`
	Viewers  []ViewerDef `yaml:"viewers"`
	Entities []EntityDef `yaml:"entities"`
}

// ViewerDef describes a simulated player.
type ViewerDef struct {
	Name      string       `yaml:"name"`
	World     string       `yaml:"world"`
	Protocol  string       `yaml:"protocol"`   // empty = simulator default
	Path      [][3]float64 `yaml:"path"`       // first point is the spawn point; loops
	Speed     float64      `yaml:"speed"`      // blocks per tick along Path
	JoinTick  int64        `yaml:"join_tick"`  // 0 = present from the start
	LeaveTick int64        `yaml:"leave_tick"` // 0 = never leaves
}

// EntityDef describes a fake entity.
type EntityDef struct {
	Kind       string               `yaml:"kind"`
	World      string               `yaml:"world"`
	Position   [3]float64           `yaml:"position"`
	Yaw        float32              `yaml:"yaw"`
	Pitch      float32              `yaml:"pitch"`
	ViewRadius *float64             `yaml:"view_radius"`
	Hidden     bool                 `yaml:"hidden"`
	Attributes map[string]yaml.Node `yaml:"attributes"`
	Equipment  map[string]ItemDef   `yaml:"equipment"`

	Spin  float32      `yaml:"spin"`  // degrees of yaw per tick
	Path  [][3]float64 `yaml:"path"`  // waypoints after Position; loops back
	Speed float64      `yaml:"speed"` // blocks per tick along Path
	Blink int64        `yaml:"blink"` // toggle visibility every Blink ticks
	Hop   float64      `yaml:"hop"`   // upward impulse sent with every Blink
}

// ItemDef is an item stack as written in a scenario.
type ItemDef struct {
	ID     int16 `yaml:"id"`
	Count  int8  `yaml:"count"`
	Damage int16 `yaml:"damage"`
}

// Load parses a scenario and checks its references.
func Load(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if err := f.validate(); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	return &f, nil
}

// LoadFile reads a scenario from disk.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open scenario: %w", err)
	}
	defer fh.Close()
	return Load(fh)
}

func (f *File) validate() error {
	if len(f.Worlds) == 0 {
		return errors.New("no worlds")
	}
	worlds := make(map[string]bool, len(f.Worlds))
	for _, w := range f.Worlds {
		if worlds[w] {
			return fmt.Errorf("duplicate world %q", w)
		}
		worlds[w] = true
	}

	names := make(map[string]bool, len(f.Viewers))
	for i, v := range f.Viewers {
		switch {
		case v.Name == "":
			return fmt.Errorf("viewer %d has no name", i)
		case names[v.Name]:
			return fmt.Errorf("duplicate viewer %q", v.Name)
		case !worlds[v.World]:
			return fmt.Errorf("viewer %q: unknown world %q", v.Name, v.World)
		case len(v.Path) == 0:
			return fmt.Errorf("viewer %q: path needs at least a spawn point", v.Name)
		case v.LeaveTick > 0 && v.LeaveTick <= v.JoinTick:
			return fmt.Errorf("viewer %q leaves before joining", v.Name)
		}
		names[v.Name] = true
	}

	for i, e := range f.Entities {
		if e.Kind == "" {
			return fmt.Errorf("entity %d has no kind", i)
		}
		if !worlds[e.World] {
			return fmt.Errorf("entity %d (%s): unknown world %q", i, e.Kind, e.World)
		}
	}
	return nil
}
