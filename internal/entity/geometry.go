package entity

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// RelativeMoveLimit is the largest per-axis distance a relative move
// packet can carry. Anything further is sent as a teleport.
//
// The 1/4096 delta field tops out at 32767, so a span reaching +8 blocks
// lands one unit short while -8 is exact. The next teleport or
// SyncLocation puts the client back on the logical pose.
const RelativeMoveLimit = 8.0

// MaxVelocity is the per-axis speed, in blocks per tick, the client
// accepts in velocity fields.
const MaxVelocity = 3.9

// DegreesToAngle converts degrees to a protocol angle byte.
// One step = 1/256 of a full turn; out-of-range turns wrap.
func DegreesToAngle(degrees float32) int8 {
	return int8(int64(math.Floor(float64(degrees) / 360.0 * 256.0)))
}

// FixedPoint converts a coordinate to 1.8 absolute fixed-point (coord * 32).
func FixedPoint(coord float64) int32 {
	return int32(math.Floor(coord * 32.0))
}

// DeltaBetween returns the relative-move units (1/4096 block) from one
// absolute position to another, clamped to the int16 field. Both ends are
// floored before subtracting, so consecutive moves sum to the fixed-point
// distance between the first and last position.
func DeltaBetween(from, to mgl64.Vec3) [3]int16 {
	var out [3]int16
	for i := range out {
		out[i] = clampInt16(deltaUnits(to[i]) - deltaUnits(from[i]))
	}
	return out
}

func deltaUnits(coord float64) int64 {
	return int64(math.Floor(coord * 4096))
}

// EncodeVelocity converts blocks-per-tick to velocity units (1/8000
// block per tick), clamped to MaxVelocity on each axis.
func EncodeVelocity(v mgl64.Vec3) [3]int16 {
	var out [3]int16
	for i := range out {
		c := math.Max(-MaxVelocity, math.Min(MaxVelocity, v[i]))
		out[i] = int16(c * 8000)
	}
	return out
}

// MinimizeAngle folds an angle into [-360, 360]. Callers that accumulate
// rotation over many ticks apply it themselves.
func MinimizeAngle(angle float32) float32 {
	for angle > 360 {
		angle -= 360
	}
	for angle < -360 {
		angle += 360
	}
	return angle
}

func exceedsRelativeRange(d mgl64.Vec3) bool {
	return math.Abs(d[0]) > RelativeMoveLimit ||
		math.Abs(d[1]) > RelativeMoveLimit ||
		math.Abs(d[2]) > RelativeMoveLimit
}

func clampInt16(v int64) int16 {
	if v > math.MaxInt16 {
		return math.MaxInt16
	}
	if v < math.MinInt16 {
		return math.MinInt16
	}
	return int16(v)
}
