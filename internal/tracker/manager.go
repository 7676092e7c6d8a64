// Package tracker owns the fake entities of a process: it hands out
// entity IDs, associates joining viewers with every entity, and runs the
// periodic visibility sweep and position resync.
package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/OCharnyshevich/fakeentity/internal/entity"
)

var ErrUnknownEntity = errors.New("tracker: unknown entity")

// Intervals configures the periodic maintenance run by Tick, in ticks.
// A zero Resync disables the absolute resync.
type Intervals struct {
	Rerender int64
	Resync   int64
}

// DefaultIntervals sweeps visibility every second and resyncs every 20
// seconds at 20 ticks per second.
var DefaultIntervals = Intervals{Rerender: 20, Resync: 400}

// Manager tracks all fake entities and connected viewers. Every call into
// an entity goes through the manager lock.
type Manager struct {
	mu           sync.Mutex
	entities     map[int32]*entity.Entity
	viewers      map[uuid.UUID]entity.Viewer
	nextEntityID atomic.Int32
	currentTick  atomic.Int64

	intervals Intervals
	transport entity.Transport
	log       *slog.Logger
}

// NewManager creates a manager whose entities send through transport.
func NewManager(transport entity.Transport, intervals Intervals, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	if intervals.Rerender <= 0 {
		intervals.Rerender = DefaultIntervals.Rerender
	}
	return &Manager{
		entities:  make(map[int32]*entity.Entity),
		viewers:   make(map[uuid.UUID]entity.Viewer),
		intervals: intervals,
		transport: transport,
		log:       log,
	}
}

// AllocateEntityID returns the next unique entity ID.
func (m *Manager) AllocateEntityID() int32 {
	return m.nextEntityID.Add(1)
}

// Spawn creates an entity, registers it, and associates every joined
// viewer with it.
func (m *Manager) Spawn(kind entity.Kind, w entity.World, pose entity.Pose, opts ...entity.Option) (*entity.Entity, error) {
	opts = append([]entity.Option{entity.WithLogger(m.log)}, opts...)
	e, err := entity.New(kind, w, pose, m, m.transport, opts...)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", kindName(kind), err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entities[e.ID()] = e
	for _, v := range m.viewers {
		_ = e.AddPlayer(v)
	}
	return e, nil
}

// Remove unrenders an entity for every viewer and forgets it.
func (m *Manager) Remove(id int32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entities[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	e.Remove()
	delete(m.entities, id)
	return nil
}

// Update runs fn on an entity under the manager lock.
func (m *Manager) Update(id int32, fn func(*entity.Entity)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entities[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownEntity, id)
	}
	fn(e)
	return nil
}

// ForEach calls fn for every entity under the manager lock.
func (m *Manager) ForEach(fn func(*entity.Entity)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entities {
		fn(e)
	}
}

// Join registers a viewer and associates it with every entity. Entities
// in range are rendered right away. A viewer joining under a UUID that is
// still held by a different Viewer value replaces it: the old one is
// disassociated first.
func (m *Manager) Join(v entity.Viewer) error {
	if v == nil {
		return entity.ErrNilViewer
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, ok := m.viewers[v.UUID()]; ok && old != v {
		for _, e := range m.entities {
			_ = e.RemovePlayer(old)
		}
		m.log.Debug("viewer replaced", "viewer", v.UUID())
	}
	m.viewers[v.UUID()] = v
	for _, e := range m.entities {
		_ = e.AddPlayer(v)
	}
	m.log.Debug("viewer joined", "viewer", v.UUID(), "entities", len(m.entities))
	return nil
}

// Leave disassociates a viewer from every entity.
func (m *Manager) Leave(v entity.Viewer) {
	if v == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.viewers, v.UUID())
	for _, e := range m.entities {
		_ = e.RemovePlayer(v)
	}
	m.log.Debug("viewer left", "viewer", v.UUID())
}

// ViewerMoved reconciles every entity for a viewer that changed position
// or world.
func (m *Manager) ViewerMoved(v entity.Viewer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entities {
		e.AttemptRerender(v)
	}
}

// Tick advances the manager by one tick and runs periodic maintenance.
func (m *Manager) Tick() {
	tick := m.currentTick.Add(1)

	if tick%m.intervals.Rerender == 0 {
		m.rerenderAll()
	}

	// Relative moves accumulate rounding on the client; an absolute
	// teleport now and then puts the entity back where it is.
	if m.intervals.Resync > 0 && tick%m.intervals.Resync == 0 {
		m.resyncPositions()
	}
}

func (m *Manager) rerenderAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entities {
		e.AttemptRerenderForAll()
	}
}

func (m *Manager) resyncPositions() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entities {
		e.SyncLocation()
	}
	m.log.Debug("resynced positions", "tick", m.currentTick.Load(), "entities", len(m.entities))
}

// CurrentTick returns the number of ticks run so far.
func (m *Manager) CurrentTick() int64 {
	return m.currentTick.Load()
}

// EntityCount returns the number of live entities.
func (m *Manager) EntityCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entities)
}

// ViewerCount returns the number of joined viewers.
func (m *Manager) ViewerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.viewers)
}

func kindName(k entity.Kind) string {
	if k.Schema == nil {
		return "entity"
	}
	return k.Schema.Name
}
