package entity

import "github.com/go-gl/mathgl/mgl64"

// Move displaces the entity by delta and turns it by the angle deltas.
//
// Nothing changes for an all-zero call. A pure rotation becomes a look
// update, a displacement beyond RelativeMoveLimit on any axis becomes a
// teleport to the target, and anything else is a relative move, combined
// with a look when the entity also turned.
func (e *Entity) Move(delta mgl64.Vec3, dYaw, dPitch float32) {
	target := e.pose
	target.Position = e.pose.Position.Add(delta)
	target.Yaw += dYaw
	target.Pitch += dPitch
	e.moveTo(target, delta, dYaw, dPitch)
}

// MoveTo moves the entity to an absolute pose with the same encoding
// rules as Move.
func (e *Entity) MoveTo(pos mgl64.Vec3, yaw, pitch float32) {
	target := e.pose
	target.Position = pos
	target.Yaw = yaw
	target.Pitch = pitch
	e.moveTo(target, pos.Sub(e.pose.Position), yaw-e.pose.Yaw, pitch-e.pose.Pitch)
}

func (e *Entity) moveTo(target Pose, delta mgl64.Vec3, dYaw, dPitch float32) {
	moved := delta != (mgl64.Vec3{})
	turned := dYaw != 0 || dPitch != 0

	switch {
	case !moved && !turned:
		return
	case !moved:
		e.Look(target.Yaw, target.Pitch)
	case exceedsRelativeRange(delta):
		e.Teleport(target.Position, target.Yaw, target.Pitch)
	default:
		e.relativeMove(target, turned)
	}
}

func (e *Entity) relativeMove(target Pose, turned bool) {
	from := e.EncodedPose().Position
	e.pose = target
	p := e.EncodedPose()

	move := RelativeMove{
		EntityID: e.id,
		Delta:    DeltaBetween(from, p.Position),
		From:     from,
		To:       p.Position,
		OnGround: e.onGround,
	}
	vel, hasVel := e.takeVelocity()

	if !turned {
		e.forRendered(func(v Viewer) {
			if hasVel {
				e.transport.SendVelocity(v, vel)
			}
			e.transport.SendRelativeMove(v, move)
		})
		return
	}

	ml := RelativeMoveAndLook{
		RelativeMove: move,
		Yaw:          DegreesToAngle(p.Yaw),
		Pitch:        DegreesToAngle(p.Pitch),
	}
	head := HeadRotation{EntityID: e.id, HeadYaw: ml.Yaw}
	e.forRendered(func(v Viewer) {
		if hasVel {
			e.transport.SendVelocity(v, vel)
		}
		e.transport.SendRelativeMoveAndLook(v, ml)
		if e.kind.Schema.Living {
			e.transport.SendHeadRotation(v, head)
		}
	})
}

// Teleport moves the entity to an absolute pose with a single teleport,
// whatever the distance.
func (e *Entity) Teleport(pos mgl64.Vec3, yaw, pitch float32) {
	e.pose.Position = pos
	e.pose.Yaw = yaw
	e.pose.Pitch = pitch
	e.sendTeleport()
}

// SyncLocation re-sends the current pose as a teleport to correct drift
// accumulated from relative moves.
func (e *Entity) SyncLocation() {
	e.sendTeleport()
}

func (e *Entity) sendTeleport() {
	p := e.EncodedPose()
	tp := Teleport{
		EntityID: e.id,
		Position: p.Position,
		Yaw:      DegreesToAngle(p.Yaw),
		Pitch:    DegreesToAngle(p.Pitch),
		OnGround: e.onGround,
	}
	vel, hasVel := e.takeVelocity()
	e.forRendered(func(v Viewer) {
		if hasVel {
			e.transport.SendVelocity(v, vel)
		}
		e.transport.SendTeleport(v, tp)
	})
}

// TeleportWorld moves the entity into another world. Viewers that no
// longer qualify are unrendered, new ones are rendered at the target, and
// viewers that keep seeing it receive a teleport.
func (e *Entity) TeleportWorld(w World, pos mgl64.Vec3, yaw, pitch float32) error {
	if w == nil {
		return ErrNilWorld
	}
	if w == e.world {
		e.Teleport(pos, yaw, pitch)
		return nil
	}

	var kept []*association
	for _, a := range e.players {
		if a.state == stateVisible {
			kept = append(kept, a)
		}
	}

	e.world = w
	e.pose.Position = pos
	e.pose.Yaw = yaw
	e.pose.Pitch = pitch
	e.AttemptRerenderForAll()

	p := e.EncodedPose()
	tp := Teleport{
		EntityID: e.id,
		Position: p.Position,
		Yaw:      DegreesToAngle(p.Yaw),
		Pitch:    DegreesToAngle(p.Pitch),
		OnGround: e.onGround,
	}
	vel, hasVel := e.takeVelocity()
	if !e.visible {
		return nil
	}
	for _, a := range kept {
		if a.state != stateVisible {
			continue
		}
		if hasVel {
			e.transport.SendVelocity(a.viewer, vel)
		}
		e.transport.SendTeleport(a.viewer, tp)
	}
	return nil
}

// Look turns the entity to an absolute orientation.
func (e *Entity) Look(yaw, pitch float32) {
	if yaw == e.pose.Yaw && pitch == e.pose.Pitch {
		return
	}
	e.pose.Yaw = yaw
	e.pose.Pitch = pitch

	p := e.EncodedPose()
	look := Look{
		EntityID: e.id,
		Yaw:      DegreesToAngle(p.Yaw),
		Pitch:    DegreesToAngle(p.Pitch),
		OnGround: e.onGround,
	}
	head := HeadRotation{EntityID: e.id, HeadYaw: look.Yaw}
	e.forRendered(func(v Viewer) {
		e.transport.SendLook(v, look)
		if e.kind.Schema.Living {
			e.transport.SendHeadRotation(v, head)
		}
	})
}

// takeVelocity returns the pending impulse, if any, and clears it.
func (e *Entity) takeVelocity() (Velocity, bool) {
	v := e.velocity
	e.velocity = mgl64.Vec3{}
	if v == (mgl64.Vec3{}) {
		return Velocity{}, false
	}
	return Velocity{EntityID: e.id, Velocity: EncodeVelocity(v)}, true
}
