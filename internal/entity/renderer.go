package entity

// Renderer decides which intents make an entity appear on, or disappear
// from, one viewer's client.
type Renderer interface {
	Render(e *Entity, v Viewer)
	Unrender(e *Entity, v Viewer)
}

// DefaultRenderer spawns the entity with its attribute table, turns the
// head of living kinds, and sends every non-empty equipment slot.
type DefaultRenderer struct{}

func (DefaultRenderer) Render(e *Entity, v Viewer) {
	t := e.Transport()
	spawn := e.SpawnIntent()
	t.SendSpawn(v, spawn)
	if spawn.Living {
		t.SendHeadRotation(v, HeadRotation{EntityID: spawn.EntityID, HeadYaw: spawn.Yaw})
	}
	for slot := range equipmentSlots {
		item := e.Equipment(slot)
		if item.IsEmpty() {
			continue
		}
		t.SendEquipment(v, Equipment{EntityID: spawn.EntityID, Slot: slot, Item: item})
	}
}

func (DefaultRenderer) Unrender(e *Entity, v Viewer) {
	e.Transport().SendDestroy(v, Destroy{EntityIDs: []int32{e.ID()}})
}
