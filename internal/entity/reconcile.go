package entity

// ShouldSee reports whether v should currently have the entity rendered,
// regardless of association.
func (e *Entity) ShouldSee(v Viewer) bool {
	if v == nil {
		return false
	}
	if e.viewRadius < 0 {
		return e.world == v.World()
	}
	return ShouldSee(e.world, e.pose.Position, e.viewRadius, v.World(), v.EyePosition())
}

// AttemptRerender renders or unrenders the entity for v so that its
// rendered state matches ShouldSee. Unassociated viewers are ignored.
func (e *Entity) AttemptRerender(v Viewer) {
	if a, ok := e.players.lookup(v); ok {
		e.reconcile(a)
	}
}

// AttemptRerenderForAll reconciles every associated viewer. A second call
// with nothing changed in between sends nothing.
func (e *Entity) AttemptRerenderForAll() {
	for _, a := range e.players {
		e.reconcile(a)
	}
}

func (e *Entity) reconcile(a *association) {
	should := e.ShouldSee(a.viewer)
	switch {
	case should && a.state == stateCulled:
		e.render(a)
	case !should && a.state == stateVisible:
		e.unrender(a)
	}
}

// render and unrender flip the state unconditionally but only emit packets
// while the entity is globally visible; SetVisible(true) catches up.
func (e *Entity) render(a *association) {
	a.state = stateVisible
	if e.visible {
		e.kind.Renderer.Render(e, a.viewer)
	}
	e.log.Debug("render", "viewer", a.viewer.UUID(), "sent", e.visible)
}

func (e *Entity) unrender(a *association) {
	a.state = stateCulled
	if e.visible {
		e.kind.Renderer.Unrender(e, a.viewer)
	}
	e.log.Debug("unrender", "viewer", a.viewer.UUID(), "sent", e.visible)
}
