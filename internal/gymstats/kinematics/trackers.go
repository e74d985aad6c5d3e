package kinematics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	velocityWindow = 64
	momentumWindow = 90
	groundWindow   = 15
	rateWindow     = 10
)

// VelocityTracker follows the angular velocity of a joint through a rep and
// finds its sticking point: the angle where the lift out of the bottom is slowest.
type VelocityTracker struct {
	// Offset is how far above the rep's lowest angle the lift has to be
	// before its velocity counts, so the turnaround itself is ignored.
	Offset float64

	samples *Ring[Sample]
	prev    Sample
	hasPrev bool

	tracking    bool
	bottom      float64
	minVelocity float64
	sticking    float64
	hasSticking bool
}

func NewVelocityTracker(offset float64) *VelocityTracker {
	return &VelocityTracker{
		Offset:  offset,
		samples: NewRing[Sample](velocityWindow),
	}
}

// StartDescent resets the sticking point search for a new rep.
func (v *VelocityTracker) StartDescent(angle float64) {
	v.tracking = true
	v.bottom = angle
	v.minVelocity = math.Inf(1)
	v.sticking = 0
	v.hasSticking = false
}

// Observe records the angle at t and returns the instantaneous velocity in deg/s.
// Frames with a non-increasing timestamp yield zero velocity.
func (v *VelocityTracker) Observe(t, angle float64) float64 {
	var vel float64
	if v.hasPrev && t > v.prev.T {
		vel = (angle - v.prev.V) / (t - v.prev.T)
	}
	v.prev = Sample{T: t, V: angle}
	v.hasPrev = true
	v.samples.Push(Sample{T: t, V: vel})

	if !v.tracking {
		return vel
	}
	if angle < v.bottom {
		v.bottom = angle
		return vel
	}
	if vel > 0 && angle > v.bottom+v.Offset && vel < v.minVelocity {
		v.minVelocity = vel
		v.sticking = angle
		v.hasSticking = true
	}
	return vel
}

// StickingPoint returns the angle found for the current rep, if any.
func (v *VelocityTracker) StickingPoint() (float64, bool) {
	return v.sticking, v.hasSticking
}

// Stop ends the search; the found sticking point stays readable until the next descent.
func (v *VelocityTracker) Stop() {
	v.tracking = false
}

// Velocities returns the recent velocity series.
func (v *VelocityTracker) Velocities() []Sample {
	return v.samples.Values()
}

// MomentumTracker buffers a body position (e.g. shoulder height) through a rep.
// A rep driven by a swing shows a velocity peak far above its average speed.
type MomentumTracker struct {
	positions *Ring[Sample]
}

func NewMomentumTracker() *MomentumTracker {
	return &MomentumTracker{
		positions: NewRing[Sample](momentumWindow),
	}
}

func (m *MomentumTracker) Observe(t, position float64) {
	m.positions.Push(Sample{T: t, V: position})
}

func (m *MomentumTracker) Len() int {
	return m.positions.Len()
}

// Score is peak speed over mean speed across the buffered positions; 1 is a
// perfectly even movement, 0 means not enough data.
func (m *MomentumTracker) Score() float64 {
	pts := m.positions.Values()
	if len(pts) < 3 {
		return 0
	}

	speeds := make([]float64, 0, len(pts)-1)
	for i := 1; i < len(pts); i++ {
		dt := pts[i].T - pts[i-1].T
		if dt <= 0 {
			continue
		}
		speeds = append(speeds, math.Abs(pts[i].V-pts[i-1].V)/dt)
	}
	if len(speeds) < 2 {
		return 0
	}

	mean := stat.Mean(speeds, nil)
	if mean == 0 {
		return 0
	}
	return Round(floats.Max(speeds)/mean, 2)
}

func (m *MomentumTracker) Reset() {
	m.positions.Clear()
}

// GroundTracker estimates the image-plane height of the floor under the feet
// from frames known to be grounded. Image y grows downwards, so a lift is
// baseline minus current y.
type GroundTracker struct {
	samples *Ring[float64]
}

func NewGroundTracker() *GroundTracker {
	return &GroundTracker{
		samples: NewRing[float64](groundWindow),
	}
}

// Observe adds a grounded foot position.
func (g *GroundTracker) Observe(y float64) {
	g.samples.Push(y)
}

func (g *GroundTracker) Ready() bool {
	return g.samples.Len() > 0
}

// Baseline is the mean grounded foot position.
func (g *GroundTracker) Baseline() float64 {
	if g.samples.Len() == 0 {
		return 0
	}
	return stat.Mean(g.samples.Values(), nil)
}

// Lift returns how far above the floor y is, in pixels.
func (g *GroundTracker) Lift(y float64) float64 {
	if !g.Ready() {
		return 0
	}
	return g.Baseline() - y
}

// RateTracker measures the frequency of recent discrete events (jumps, skips).
type RateTracker struct {
	times *Ring[float64]
}

func NewRateTracker() *RateTracker {
	return &RateTracker{
		times: NewRing[float64](rateWindow),
	}
}

func (r *RateTracker) Add(t float64) {
	r.times.Push(t)
}

// Hz returns events per second over the kept window.
func (r *RateTracker) Hz() float64 {
	n := r.times.Len()
	if n < 2 {
		return 0
	}
	span := r.times.At(n-1) - r.times.At(0)
	if span <= 0 {
		return 0
	}
	return float64(n-1) / span
}
