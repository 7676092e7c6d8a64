package scenario

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/OCharnyshevich/fakeentity/internal/entity"
	"github.com/OCharnyshevich/fakeentity/internal/metadata"
	"github.com/OCharnyshevich/fakeentity/internal/tracker"
)

// Options configures a Simulation.
type Options struct {
	Version              metadata.Version // protocol of viewers that name none
	ViewRadius           float64          // default entity view radius
	CompressionThreshold int
	Kinds                *metadata.Registry
	// Output returns the packet sink for a viewer. nil discards.
	Output func(viewer string) io.Writer
	Log    *slog.Logger
}

// Simulation owns the worlds, viewers and entity motion of one scenario.
// Step must be called from a single goroutine.
type Simulation struct {
	manager *tracker.Manager
	worlds  map[string]*World
	viewers []*simViewer
	actors  []*actor
	log     *slog.Logger
}

type simViewer struct {
	*Viewer
	def    ViewerDef
	joined bool
}

type actor struct {
	id    int32
	def   EntityDef
	route *route
}

// New builds the worlds and viewers of f and spawns its entities through m.
// Viewers with a zero join tick join immediately.
func New(f *File, m *tracker.Manager, opts Options) (*Simulation, error) {
	if opts.Kinds == nil {
		opts.Kinds = metadata.Default()
	}
	if opts.Log == nil {
		opts.Log = slog.New(slog.DiscardHandler)
	}
	if opts.Version == 0 {
		opts.Version = metadata.V1_8
	}

	s := &Simulation{
		manager: m,
		worlds:  make(map[string]*World, len(f.Worlds)),
		log:     opts.Log,
	}
	for _, name := range f.Worlds {
		s.worlds[name] = &World{name: name}
	}

	for _, def := range f.Viewers {
		version := opts.Version
		if def.Protocol != "" {
			v, err := metadata.ParseVersion(def.Protocol)
			if err != nil {
				return nil, fmt.Errorf("viewer %q: %w", def.Name, err)
			}
			version = v
		}
		var out io.Writer
		if opts.Output != nil {
			out = opts.Output(def.Name)
		}
		start := mgl64.Vec3(def.Path[0])
		v := newViewer(def.Name, s.worlds[def.World], start, version, opts.CompressionThreshold, out)
		v.route = newRoute(start, def.Path[1:], def.Speed)
		s.viewers = append(s.viewers, &simViewer{Viewer: v, def: def})
	}

	for i, def := range f.Entities {
		a, err := s.spawn(def, opts)
		if err != nil {
			return nil, fmt.Errorf("entity %d: %w", i, err)
		}
		s.actors = append(s.actors, a)
	}

	for _, v := range s.viewers {
		if v.def.JoinTick == 0 {
			s.join(v)
		}
	}
	return s, nil
}

func (s *Simulation) spawn(def EntityDef, opts Options) (*actor, error) {
	schema, ok := opts.Kinds.Schema(def.Kind)
	if !ok {
		return nil, fmt.Errorf("unknown kind %q", def.Kind)
	}

	table := metadata.Table{}
	for name, node := range def.Attributes {
		a, ok := schema.Attribute(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s has no attribute %q", metadata.ErrUnsupportedAttribute, def.Kind, name)
		}
		val, err := decodeValue(a.Type, &node)
		if err != nil {
			return nil, fmt.Errorf("attribute %s: %w", name, err)
		}
		idx, err := schema.Resolve(name, val, opts.Version)
		if err != nil {
			return nil, err
		}
		table[idx] = val
	}

	radius := opts.ViewRadius
	if def.ViewRadius != nil {
		radius = *def.ViewRadius
	}
	entityOpts := []entity.Option{
		entity.WithViewRadius(radius),
		entity.WithVersion(opts.Version),
		entity.WithMetadata(table),
	}
	if def.Hidden {
		entityOpts = append(entityOpts, entity.WithHidden())
	}

	pose := entity.Pose{Position: mgl64.Vec3(def.Position), Yaw: def.Yaw, Pitch: def.Pitch}
	e, err := s.manager.Spawn(entity.KindOf(schema), s.worlds[def.World], pose, entityOpts...)
	if err != nil {
		return nil, err
	}

	for slotName, item := range def.Equipment {
		slot, err := entity.ParseEquipmentSlot(slotName)
		if err != nil {
			return nil, err
		}
		err = s.manager.Update(e.ID(), func(e *entity.Entity) {
			_ = e.SetEquipment(slot, item.item())
		})
		if err != nil {
			return nil, err
		}
	}

	return &actor{
		id:    e.ID(),
		def:   def,
		route: newRoute(pose.Position, def.Path, def.Speed),
	}, nil
}

func (s *Simulation) join(v *simViewer) {
	if err := s.manager.Join(v.Viewer); err != nil {
		s.log.Warn("join", "viewer", v.name, "error", err)
		return
	}
	v.joined = true
	s.log.Info("viewer joined", "viewer", v.name, "uuid", v.id, "protocol", v.version)
}

func (s *Simulation) leave(v *simViewer) {
	s.manager.Leave(v.Viewer)
	v.joined = false
	s.log.Info("viewer left", "viewer", v.name)
}

// Step advances viewers and entities to tick. It does not run the
// manager's own maintenance; call Manager.Tick after it.
func (s *Simulation) Step(tick int64) {
	for _, v := range s.viewers {
		switch {
		case !v.joined && tick == v.def.JoinTick:
			s.join(v)
		case v.joined && tick == v.def.LeaveTick:
			s.leave(v)
		}
		if !v.joined || v.route.still() {
			continue
		}
		v.feet = v.route.advance(v.feet)
		s.manager.ViewerMoved(v.Viewer)
	}

	for _, a := range s.actors {
		_ = s.manager.Update(a.id, func(e *entity.Entity) { a.step(e, tick) })
	}
}

func (a *actor) step(e *entity.Entity, tick int64) {
	if a.def.Blink > 0 && tick%a.def.Blink == 0 {
		e.SetVisible(!e.IsVisible())
		if a.def.Hop > 0 && e.IsVisible() {
			e.SetVelocity(mgl64.Vec3{0, a.def.Hop, 0})
		}
	}

	pose := e.Pose()
	pos := a.route.advance(pose.Position)
	yaw := pose.Yaw
	if a.def.Spin != 0 {
		yaw = entity.MinimizeAngle(yaw + a.def.Spin)
	}
	e.MoveTo(pos, yaw, pose.Pitch)
}

// Viewers returns the simulated viewers in scenario order.
func (s *Simulation) Viewers() []*Viewer {
	out := make([]*Viewer, len(s.viewers))
	for i, v := range s.viewers {
		out[i] = v.Viewer
	}
	return out
}

// EntityIDs returns the spawned entity IDs in scenario order.
func (s *Simulation) EntityIDs() []int32 {
	out := make([]int32, len(s.actors))
	for i, a := range s.actors {
		out[i] = a.id
	}
	return out
}
