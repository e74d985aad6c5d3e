package kinematics

// RepRecord describes one completed repetition (or jump). Fields that do not
// apply to an exercise are left zero and omitted from JSON.
type RepRecord struct {
	Index             int      `json:"index"`
	StartT            float64  `json:"start_t"`
	EndT              float64  `json:"end_t"`
	MaxAngle          float64  `json:"max_angle"`
	MinAngle          float64  `json:"min_angle"`
	DurationSeconds   float64  `json:"duration_seconds"`
	EccentricSeconds  float64  `json:"eccentric_seconds,omitempty"`
	ConcentricSeconds float64  `json:"concentric_seconds,omitempty"`
	GoodForm          bool     `json:"is_good_form"`
	Quality           string   `json:"quality"`
	Depth             float64  `json:"depth,omitempty"`
	StickingPoint     *float64 `json:"sticking_point,omitempty"`
	TorsoLean         float64  `json:"torso_lean,omitempty"`
	FootLifted        bool     `json:"foot_lifted,omitempty"`
	Momentum          float64  `json:"momentum,omitempty"`
	Symmetry          float64  `json:"symmetry,omitempty"`
	Height            float64  `json:"height,omitempty"`
	Distance          float64  `json:"distance,omitempty"`
	AirTimeSeconds    float64  `json:"air_time_seconds,omitempty"`
	Countermovement   float64  `json:"countermovement,omitempty"`
	LandingKnee       float64  `json:"landing_knee,omitempty"`
}

// RepBuilder accumulates the extremes of a repetition while it is in progress.
// It is owned by a phase machine and turned into a RepRecord when the cycle closes.
type RepBuilder struct {
	active  bool
	startT  float64
	maxSeen float64
	minSeen float64
}

// Begin starts a new repetition at t with the given angle.
func (b *RepBuilder) Begin(t, angle float64) {
	b.active = true
	b.startT = t
	b.maxSeen = angle
	b.minSeen = angle
}

func (b *RepBuilder) Observe(angle float64) {
	if !b.active {
		return
	}
	b.maxSeen = max(b.maxSeen, angle)
	b.minSeen = min(b.minSeen, angle)
}

func (b *RepBuilder) Active() bool {
	return b.active
}

func (b *RepBuilder) StartT() float64 {
	return b.startT
}

func (b *RepBuilder) Min() float64 {
	return b.minSeen
}

func (b *RepBuilder) Max() float64 {
	return b.maxSeen
}

// Finish returns the base record for a repetition ending at t and resets the builder.
func (b *RepBuilder) Finish(t float64) RepRecord {
	rec := RepRecord{
		StartT:          b.startT,
		EndT:            t,
		MaxAngle:        b.maxSeen,
		MinAngle:        b.minSeen,
		DurationSeconds: nonNegative(t - b.startT),
	}
	*b = RepBuilder{}
	return rec
}

// Reset drops an unfinished repetition.
func (b *RepBuilder) Reset() {
	*b = RepBuilder{}
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
