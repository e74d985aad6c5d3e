package kinematics

const (
	seriesWindow = 300
	spreadWindow = 30

	// NeutralHipFlexion is the hip flexion of a body lying flat.
	NeutralHipFlexion = 180.0
)

// Extremes are session-wide bests. They are updated on every frame and
// never reset, so the current best can be read mid-session.
type Extremes struct {
	MaxReach        float64 `json:"max_reach"`
	MaxJumpHeight   float64 `json:"max_jump_height"`
	MaxJumpDistance float64 `json:"max_jump_distance"`
	MinHipFlexion   float64 `json:"min_hip_flexion"`
}

// History is the metrics state of one session. It only grows: samples are
// pushed into bounded rings, reps are appended in completion order.
// It does no deduplication; each frame must be fed exactly once, in order.
type History struct {
	Exercise string

	FramesProcessed  int
	FramesUndetected int
	FirstT           float64
	LastT            float64
	started          bool

	// Angles is the primary joint angle of the exercise, Secondary the form joint.
	Angles     *Ring[Sample]
	Secondary  *Ring[Sample]
	ArmSpreads *Ring[float64]
	LegSpreads *Ring[float64]
	ArmAngles  *Ring[float64]
	Reaches    *Ring[Sample]

	Velocity *VelocityTracker
	Momentum *MomentumTracker
	Ground   *GroundTracker
	Rate     *RateTracker

	Extremes Extremes

	GoodReps      int
	BadReps       int
	BadFormFrames int

	Eccentric        []float64
	Concentric       []float64
	Depths           []float64
	StickingPoints   []float64
	MomentumScores   []float64
	Heights          []float64
	Distances        []float64
	AirTimes         []float64
	Countermovements []float64
	LandingKnees     []float64
	PeakInclinations []float64
	PeakHipFlexions  []float64

	// per-frame accumulators
	Hip      Accumulator
	Back     Accumulator
	Knee     Accumulator
	Symmetry Accumulator

	KneeValidFrames  int
	FootLifts        int
	NeckStrainFrames int
	// Attempts counts jumps that left the ground but did not meet the minimum mark.
	Attempts int

	reps []RepRecord
}

func NewHistory(exercise string, stickingOffset float64) *History {
	return &History{
		Exercise:   exercise,
		Angles:     NewRing[Sample](seriesWindow),
		Secondary:  NewRing[Sample](seriesWindow),
		ArmSpreads: NewRing[float64](spreadWindow),
		LegSpreads: NewRing[float64](spreadWindow),
		ArmAngles:  NewRing[float64](spreadWindow),
		Reaches:    NewRing[Sample](seriesWindow),
		Velocity:   NewVelocityTracker(stickingOffset),
		Momentum:   NewMomentumTracker(),
		Ground:     NewGroundTracker(),
		Rate:       NewRateTracker(),
		Extremes: Extremes{
			MinHipFlexion: NeutralHipFlexion,
		},
	}
}

// ObserveFrame registers a processed frame at t.
func (h *History) ObserveFrame(t float64) {
	h.observeTime(t)
	h.FramesProcessed++
}

// ObserveUndetected registers a frame without a usable detection.
func (h *History) ObserveUndetected(t float64) {
	h.observeTime(t)
	h.FramesUndetected++
}

func (h *History) observeTime(t float64) {
	if !h.started {
		h.FirstT = t
		h.started = true
	}
	h.LastT = t
}

// Started reports whether any frame was seen.
func (h *History) Started() bool {
	return h.started
}

// Elapsed is the time between the first and the last frame seen.
func (h *History) Elapsed() float64 {
	return nonNegative(h.LastT - h.FirstT)
}

func (h *History) RecordAngle(t, v float64) {
	h.Angles.Push(Sample{T: t, V: v})
}

func (h *History) RecordSecondary(t, v float64) {
	h.Secondary.Push(Sample{T: t, V: v})
}

func (h *History) ObserveReach(t, v float64) {
	h.Reaches.Push(Sample{T: t, V: v})
	h.Extremes.MaxReach = max(h.Extremes.MaxReach, v)
}

func (h *History) ObserveJumpHeight(v float64) {
	h.Extremes.MaxJumpHeight = max(h.Extremes.MaxJumpHeight, v)
}

func (h *History) ObserveJumpDistance(v float64) {
	h.Extremes.MaxJumpDistance = max(h.Extremes.MaxJumpDistance, v)
}

func (h *History) ObserveHipFlexion(v float64) {
	h.Extremes.MinHipFlexion = min(h.Extremes.MinHipFlexion, v)
}

// RecordTempo stores the eccentric and concentric durations of a rep.
func (h *History) RecordTempo(eccentric, concentric float64) {
	h.Eccentric = append(h.Eccentric, nonNegative(eccentric))
	h.Concentric = append(h.Concentric, nonNegative(concentric))
}

// AppendRep stores a completed rep, numbers it and updates the form tallies.
// The stored record is returned.
func (h *History) AppendRep(rec RepRecord) RepRecord {
	rec.Index = len(h.reps) + 1
	if rec.GoodForm {
		h.GoodReps++
	} else {
		h.BadReps++
	}
	h.reps = append(h.reps, rec)
	return rec
}

// Reps returns a copy of the completed reps in completion order.
func (h *History) Reps() []RepRecord {
	out := make([]RepRecord, len(h.reps))
	copy(out, h.reps)
	return out
}

func (h *History) RepCount() int {
	return len(h.reps)
}
