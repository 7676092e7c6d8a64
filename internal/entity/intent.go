package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"

	"github.com/OCharnyshevich/fakeentity/internal/metadata"
)

// Positions in intents are absolute world coordinates with the kind's
// offset already applied. Angles are protocol angle bytes.

type Spawn struct {
	EntityID   int32
	UUID       uuid.UUID
	TypeID     int32
	Living     bool
	ObjectData int32
	Position   mgl64.Vec3
	Yaw        int8
	Pitch      int8
	HeadPitch  int8
	Velocity   [3]int16
	Metadata   []metadata.Entry
}

type Destroy struct {
	EntityIDs []int32
}

// RelativeMove carries the delta in 1/4096 block units together with the
// absolute endpoints, so encoders with coarser delta fields can recompute
// it.
type RelativeMove struct {
	EntityID int32
	Delta    [3]int16
	From     mgl64.Vec3
	To       mgl64.Vec3
	OnGround bool
}

type RelativeMoveAndLook struct {
	RelativeMove
	Yaw   int8
	Pitch int8
}

type Look struct {
	EntityID int32
	Yaw      int8
	Pitch    int8
	OnGround bool
}

type HeadRotation struct {
	EntityID int32
	HeadYaw  int8
}

type Teleport struct {
	EntityID int32
	Position mgl64.Vec3
	Yaw      int8
	Pitch    int8
	OnGround bool
}

type Velocity struct {
	EntityID int32
	Velocity [3]int16
}

type MetadataUpdate struct {
	EntityID int32
	Entries  []metadata.Entry
}

type Equipment struct {
	EntityID int32
	Slot     EquipmentSlot
	Item     metadata.Item
}

// EquipmentSlot numbers follow the 1.9 layout.
type EquipmentSlot uint8

const (
	MainHand EquipmentSlot = iota
	OffHand
	Boots
	Leggings
	Chestplate
	Helmet

	equipmentSlots
)

var slotNames = [...]string{"main_hand", "off_hand", "boots", "leggings", "chestplate", "helmet"}

func (s EquipmentSlot) String() string {
	if s < equipmentSlots {
		return slotNames[s]
	}
	return fmt.Sprintf("slot(%d)", uint8(s))
}

// ParseEquipmentSlot resolves a slot by its String name.
func ParseEquipmentSlot(name string) (EquipmentSlot, error) {
	for i, n := range slotNames {
		if n == name {
			return EquipmentSlot(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidSlot, name)
}
