package entity

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Viewer is the read-only view of a connected player.
type Viewer interface {
	UUID() uuid.UUID
	World() World
	EyePosition() mgl64.Vec3
}

// Transport delivers intents to a single viewer. Intent values are shared
// between recipients of the same operation and must not be modified.
type Transport interface {
	SendSpawn(v Viewer, s Spawn)
	SendDestroy(v Viewer, d Destroy)
	SendRelativeMove(v Viewer, m RelativeMove)
	SendRelativeMoveAndLook(v Viewer, m RelativeMoveAndLook)
	SendLook(v Viewer, l Look)
	SendHeadRotation(v Viewer, h HeadRotation)
	SendTeleport(v Viewer, t Teleport)
	SendVelocity(v Viewer, vel Velocity)
	SendMetadataUpdate(v Viewer, m MetadataUpdate)
	SendEquipment(v Viewer, e Equipment)
}

// IDAllocator hands out process-unique entity IDs.
type IDAllocator interface {
	AllocateEntityID() int32
}
