package entity

import "github.com/google/uuid"

// renderState is the state of an associated viewer. Unassociated viewers
// have no entry at all, so "rendered but not associated" cannot exist.
type renderState uint8

const (
	stateCulled renderState = iota + 1
	stateVisible
)

func (s renderState) String() string {
	if s == stateVisible {
		return "visible"
	}
	return "culled"
}

type association struct {
	viewer Viewer
	state  renderState
}

type registry map[uuid.UUID]*association

func (r registry) lookup(v Viewer) (*association, bool) {
	if v == nil {
		return nil, false
	}
	a, ok := r[v.UUID()]
	return a, ok
}

func (r registry) filter(state renderState) []Viewer {
	var out []Viewer
	for _, a := range r {
		if a.state == state {
			out = append(out, a.viewer)
		}
	}
	return out
}

// AddPlayer associates v with the entity and renders it right away if v
// should see it. Adding an associated viewer again does nothing.
func (e *Entity) AddPlayer(v Viewer) error {
	if v == nil {
		return ErrNilViewer
	}
	if _, ok := e.players.lookup(v); ok {
		return nil
	}
	a := &association{viewer: v, state: stateCulled}
	e.players[v.UUID()] = a
	e.reconcile(a)
	return nil
}

// RemovePlayer unrenders the entity for v if needed and drops the
// association. Unknown viewers are ignored.
func (e *Entity) RemovePlayer(v Viewer) error {
	if v == nil {
		return ErrNilViewer
	}
	a, ok := e.players.lookup(v)
	if !ok {
		return nil
	}
	if a.state == stateVisible {
		e.unrender(a)
	}
	delete(e.players, v.UUID())
	return nil
}

// ContainsPlayer reports whether v is associated with the entity.
func (e *Entity) ContainsPlayer(v Viewer) bool {
	_, ok := e.players.lookup(v)
	return ok
}

// IsRendered reports whether v currently has the entity spawned.
func (e *Entity) IsRendered(v Viewer) bool {
	a, ok := e.players.lookup(v)
	return ok && a.state == stateVisible
}

// Players returns every associated viewer.
func (e *Entity) Players() []Viewer {
	out := make([]Viewer, 0, len(e.players))
	for _, a := range e.players {
		out = append(out, a.viewer)
	}
	return out
}

func (e *Entity) RenderedPlayers() []Viewer    { return e.players.filter(stateVisible) }
func (e *Entity) NotRenderedPlayers() []Viewer { return e.players.filter(stateCulled) }
func (e *Entity) PlayerCount() int             { return len(e.players) }
