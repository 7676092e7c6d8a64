package metadata

import "fmt"

// ValueType names the shape of an attribute value independent of the
// per-protocol type ID used on the wire.
type ValueType uint8

const (
	TypeByte ValueType = iota + 1
	TypeShort
	TypeInt
	TypeFloat
	TypeString
	TypeBool
	TypeItem
	TypeRotation
)

var valueTypeNames = map[ValueType]string{
	TypeByte:     "byte",
	TypeShort:    "short",
	TypeInt:      "int",
	TypeFloat:    "float",
	TypeString:   "string",
	TypeBool:     "bool",
	TypeItem:     "item",
	TypeRotation: "rotation",
}

func (t ValueType) String() string {
	if name, ok := valueTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("type(%d)", uint8(t))
}

func parseValueType(s string) (ValueType, error) {
	for t, name := range valueTypeNames {
		if name == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown value type %q", s)
}

// Value is one attribute table entry value.
type Value interface {
	Type() ValueType
}

type (
	Byte   uint8
	Short  int16
	Int    int32
	Float  float32
	String string
	Bool   bool
)

func (Byte) Type() ValueType   { return TypeByte }
func (Short) Type() ValueType  { return TypeShort }
func (Int) Type() ValueType    { return TypeInt }
func (Float) Type() ValueType  { return TypeFloat }
func (String) Type() ValueType { return TypeString }
func (Bool) Type() ValueType   { return TypeBool }

// Item is an inventory slot: a held item, an armor piece or a dropped
// item's stack. An ID of zero or below is the empty slot.
type Item struct {
	ID     int16
	Count  int8
	Damage int16
}

func (Item) Type() ValueType { return TypeItem }

// IsEmpty reports whether the slot holds nothing.
func (i Item) IsEmpty() bool {
	return i.ID <= 0 || i.Count <= 0
}

// Rotation is an armor-stand style pose in degrees.
type Rotation struct {
	X, Y, Z float32
}

func (Rotation) Type() ValueType { return TypeRotation }
