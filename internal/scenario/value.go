package scenario

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/OCharnyshevich/fakeentity/internal/metadata"
)

// decodeValue converts a YAML scalar or sequence into an attribute value
// of type t.
func decodeValue(t metadata.ValueType, n *yaml.Node) (metadata.Value, error) {
	switch t {
	case metadata.TypeByte:
		var v uint8
		err := n.Decode(&v)
		return metadata.Byte(v), err
	case metadata.TypeShort:
		var v int16
		err := n.Decode(&v)
		return metadata.Short(v), err
	case metadata.TypeInt:
		var v int32
		err := n.Decode(&v)
		return metadata.Int(v), err
	case metadata.TypeFloat:
		var v float32
		err := n.Decode(&v)
		return metadata.Float(v), err
	case metadata.TypeString:
		var v string
		err := n.Decode(&v)
		return metadata.String(v), err
	case metadata.TypeBool:
		var v bool
		err := n.Decode(&v)
		return metadata.Bool(v), err
	case metadata.TypeItem:
		var v ItemDef
		err := n.Decode(&v)
		return v.item(), err
	case metadata.TypeRotation:
		var v [3]float32
		err := n.Decode(&v)
		return metadata.Rotation{X: v[0], Y: v[1], Z: v[2]}, err
	default:
		return nil, fmt.Errorf("%w: %s", metadata.ErrUnsupportedValue, t)
	}
}

func (d ItemDef) item() metadata.Item {
	count := d.Count
	if count == 0 && d.ID > 0 {
		count = 1
	}
	return metadata.Item{ID: d.ID, Count: count, Damage: d.Damage}
}
