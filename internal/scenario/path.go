package scenario

import "github.com/go-gl/mathgl/mgl64"

// route walks a closed polyline at a fixed speed.
type route struct {
	points []mgl64.Vec3
	next   int
	speed  float64
}

func newRoute(start mgl64.Vec3, waypoints [][3]float64, speed float64) *route {
	r := &route{points: []mgl64.Vec3{start}, speed: speed}
	for _, p := range waypoints {
		r.points = append(r.points, mgl64.Vec3(p))
	}
	if len(r.points) > 1 {
		r.next = 1
	}
	return r
}

// still reports whether the route never moves.
func (r *route) still() bool {
	return len(r.points) < 2 || r.speed <= 0
}

// advance returns the position one tick further along the route from pos.
// Corners are not cut: a tick that reaches a waypoint stops on it.
func (r *route) advance(pos mgl64.Vec3) mgl64.Vec3 {
	if r.still() {
		return pos
	}
	target := r.points[r.next]
	d := target.Sub(pos)
	if dist := d.Len(); dist > r.speed {
		return pos.Add(d.Mul(r.speed / dist))
	}
	r.next = (r.next + 1) % len(r.points)
	return target
}
