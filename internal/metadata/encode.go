package metadata

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/OCharnyshevich/fakeentity/pkg/protocol"
)

var (
	// ErrUnsupportedAttribute is returned when an attribute has no index
	// in the requested protocol version.
	ErrUnsupportedAttribute = errors.New("unsupported attribute")
	// ErrUnsupportedValue is returned when a value type cannot be
	// represented in the requested protocol version.
	ErrUnsupportedValue = errors.New("unsupported attribute value")
)

// Terminators closing a metadata list.
const (
	LegacyEnd = 0x7F
	End       = 0xFF
)

// 1.8 type IDs, packed into the top three bits of the header byte.
var legacyTypeIDs = map[ValueType]byte{
	TypeByte:     0,
	TypeBool:     0,
	TypeShort:    1,
	TypeInt:      2,
	TypeFloat:    3,
	TypeString:   4,
	TypeItem:     5,
	TypeRotation: 7,
}

// 1.9+ type IDs.
var typeIDs = map[ValueType]byte{
	TypeByte:     0,
	TypeInt:      1,
	TypeFloat:    2,
	TypeString:   3,
	TypeItem:     5,
	TypeBool:     6,
	TypeRotation: 7,
}

// Encode writes entries followed by the list terminator in the format of
// protocol v.
func Encode(w io.Writer, entries []Entry, v Version) error {
	for _, e := range entries {
		if err := encodeEntry(w, e, v); err != nil {
			return fmt.Errorf("metadata index %d: %w", e.Index, err)
		}
	}
	end := byte(End)
	if v.legacy() {
		end = LegacyEnd
	}
	_, err := w.Write([]byte{end})
	return err
}

func encodeEntry(w io.Writer, e Entry, v Version) error {
	if v.legacy() {
		typeID, ok := legacyTypeIDs[e.Value.Type()]
		if !ok {
			return fmt.Errorf("%w: %s in %s", ErrUnsupportedValue, e.Value.Type(), v)
		}
		if e.Index > 0x1F {
			return fmt.Errorf("%w: index %d exceeds 5 bits", ErrUnsupportedAttribute, e.Index)
		}
		if _, err := w.Write([]byte{e.Index | typeID<<5}); err != nil {
			return err
		}
	} else {
		typeID, ok := typeIDs[e.Value.Type()]
		if !ok {
			return fmt.Errorf("%w: %s in %s", ErrUnsupportedValue, e.Value.Type(), v)
		}
		if e.Index == End {
			return fmt.Errorf("%w: index %d is the terminator", ErrUnsupportedAttribute, e.Index)
		}
		if _, err := w.Write([]byte{e.Index, typeID}); err != nil {
			return err
		}
	}
	return encodeValue(w, e.Value, v)
}

func encodeValue(w io.Writer, val Value, v Version) error {
	switch x := val.(type) {
	case Byte:
		_, err := w.Write([]byte{byte(x)})
		return err
	case Bool:
		var b byte
		if x {
			b = 1
		}
		_, err := w.Write([]byte{b})
		return err
	case Short:
		return binary.Write(w, binary.BigEndian, int16(x))
	case Int:
		if v.legacy() {
			return binary.Write(w, binary.BigEndian, int32(x))
		}
		_, err := protocol.WriteVarInt(w, int32(x))
		return err
	case Float:
		return binary.Write(w, binary.BigEndian, float32(x))
	case String:
		_, err := protocol.WriteString(w, string(x))
		return err
	case Item:
		return WriteItem(w, x)
	case Rotation:
		return binary.Write(w, binary.BigEndian, [3]float32{x.X, x.Y, x.Z})
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedValue, val)
	}
}

// WriteItem writes a slot: item ID, and for non-empty slots the count,
// damage and an empty NBT compound marker.
func WriteItem(w io.Writer, item Item) error {
	if item.IsEmpty() {
		return binary.Write(w, binary.BigEndian, int16(-1))
	}
	if err := binary.Write(w, binary.BigEndian, item.ID); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, item.Count); err != nil {
		return err
	}
	if err := binary.Write(w, binary.BigEndian, item.Damage); err != nil {
		return err
	}
	_, err := w.Write([]byte{0x00})
	return err
}
