package exercises

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/multierr"
)

var ErrUnknownThreshold = errors.New("unknown threshold")

// Angles are in degrees, distances in image-plane pixels, rates in Hz.

type PushupThresholds struct {
	Down       float64 `toml:"down" json:"down"`
	Up         float64 `toml:"up" json:"up"`
	FormHipMin float64 `toml:"form_hip_min" json:"form_hip_min"`
}

type SquatThresholds struct {
	Down         float64 `toml:"down" json:"down"`
	Up           float64 `toml:"up" json:"up"`
	Deep         float64 `toml:"deep" json:"deep"`
	MaxTorsoLean float64 `toml:"max_torso_lean" json:"max_torso_lean"`
	// StickingOffset is the rise above the bottom of the rep before lift velocity is tracked.
	StickingOffset float64 `toml:"sticking_offset" json:"sticking_offset"`
}

type SitupThresholds struct {
	Up         float64 `toml:"up" json:"up"`
	Down       float64 `toml:"down" json:"down"`
	GoodCrunch float64 `toml:"good_crunch" json:"good_crunch"`
	// PeakRelease is how far under Up the torso has to drop to start the descent.
	PeakRelease  float64 `toml:"peak_release" json:"peak_release"`
	FootLiftPx   float64 `toml:"foot_lift_px" json:"foot_lift_px"`
	NeckStrainPx float64 `toml:"neck_strain_px" json:"neck_strain_px"`
}

type SitAndReachThresholds struct {
	ExcellentHip float64 `toml:"excellent_hip" json:"excellent_hip"`
	AverageHip   float64 `toml:"average_hip" json:"average_hip"`
	KneeValid    float64 `toml:"knee_valid" json:"knee_valid"`
	SymmetryMax  float64 `toml:"symmetry_max" json:"symmetry_max"`
	// MaxReachBand and KeepReachingBand are fractions of the best reach so far.
	MaxReachBand     float64 `toml:"max_reach_band" json:"max_reach_band"`
	KeepReachingBand float64 `toml:"keep_reaching_band" json:"keep_reaching_band"`
}

type SkippingThresholds struct {
	JumpThreshold    float64 `toml:"jump_threshold" json:"jump_threshold"`
	MinHeight        float64 `toml:"min_height" json:"min_height"`
	UprightTolerance float64 `toml:"upright_tolerance" json:"upright_tolerance"`
	MinKnee          float64 `toml:"min_knee" json:"min_knee"`
	FastHz           float64 `toml:"fast_hz" json:"fast_hz"`
	SlowHz           float64 `toml:"slow_hz" json:"slow_hz"`
	// FrequencyAfter is the jump count from which the speed cue is given.
	FrequencyAfter float64 `toml:"frequency_after" json:"frequency_after"`
}

type JumpingJacksThresholds struct {
	ArmOpen         float64 `toml:"arm_open" json:"arm_open"`
	ArmClosed       float64 `toml:"arm_closed" json:"arm_closed"`
	ArmFull         float64 `toml:"arm_full" json:"arm_full"`
	ArmSpreadOpen   float64 `toml:"arm_spread_open" json:"arm_spread_open"`
	ArmSpreadClosed float64 `toml:"arm_spread_closed" json:"arm_spread_closed"`
	LegOpen         float64 `toml:"leg_open" json:"leg_open"`
	LegClosed       float64 `toml:"leg_closed" json:"leg_closed"`
}

type VerticalJumpThresholds struct {
	MinHeight           float64 `toml:"min_height" json:"min_height"`
	TakeoffLift         float64 `toml:"takeoff_lift" json:"takeoff_lift"`
	PrepKnee            float64 `toml:"prep_knee" json:"prep_knee"`
	GoodCountermovement float64 `toml:"good_countermovement" json:"good_countermovement"`
	LandingMin          float64 `toml:"landing_min" json:"landing_min"`
	LandingMax          float64 `toml:"landing_max" json:"landing_max"`
}

type BroadJumpThresholds struct {
	MinDistance         float64 `toml:"min_distance" json:"min_distance"`
	TakeoffLift         float64 `toml:"takeoff_lift" json:"takeoff_lift"`
	StandKnee           float64 `toml:"stand_knee" json:"stand_knee"`
	GoodCountermovement float64 `toml:"good_countermovement" json:"good_countermovement"`
}

// Thresholds holds the cut points of every exercise. A Session copies them on
// creation, so later changes never affect a running session.
type Thresholds struct {
	Pushup       PushupThresholds       `toml:"pushup" json:"pushup"`
	Squat        SquatThresholds        `toml:"squat" json:"squat"`
	Situp        SitupThresholds        `toml:"situp" json:"situp"`
	SitAndReach  SitAndReachThresholds  `toml:"sitnreach" json:"sitnreach"`
	Skipping     SkippingThresholds     `toml:"skipping" json:"skipping"`
	JumpingJacks JumpingJacksThresholds `toml:"jumpingjacks" json:"jumpingjacks"`
	VerticalJump VerticalJumpThresholds `toml:"vjump" json:"vjump"`
	BroadJump    BroadJumpThresholds    `toml:"bjump" json:"bjump"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		Pushup: PushupThresholds{
			Down:       90,
			Up:         160,
			FormHipMin: 150,
		},
		Squat: SquatThresholds{
			Down:           100,
			Up:             160,
			Deep:           80,
			MaxTorsoLean:   45,
			StickingOffset: 10,
		},
		Situp: SitupThresholds{
			Up:           70,
			Down:         20,
			GoodCrunch:   50,
			PeakRelease:  10,
			FootLiftPx:   15,
			NeckStrainPx: 25,
		},
		SitAndReach: SitAndReachThresholds{
			ExcellentHip:     60,
			AverageHip:       80,
			KneeValid:        165,
			SymmetryMax:      50,
			MaxReachBand:     0.95,
			KeepReachingBand: 0.85,
		},
		Skipping: SkippingThresholds{
			JumpThreshold:    30,
			MinHeight:        20,
			UprightTolerance: 30,
			MinKnee:          120,
			FastHz:           3,
			SlowHz:           1.5,
			FrequencyAfter:   10,
		},
		JumpingJacks: JumpingJacksThresholds{
			ArmOpen:         135,
			ArmClosed:       45,
			ArmFull:         150,
			ArmSpreadOpen:   180,
			ArmSpreadClosed: 120,
			LegOpen:         120,
			LegClosed:       100,
		},
		VerticalJump: VerticalJumpThresholds{
			MinHeight:           30,
			TakeoffLift:         10,
			PrepKnee:            150,
			GoodCountermovement: 110,
			LandingMin:          100,
			LandingMax:          160,
		},
		BroadJump: BroadJumpThresholds{
			MinDistance:         50,
			TakeoffLift:         10,
			StandKnee:           150,
			GoodCountermovement: 110,
		},
	}
}

// fields maps exercise -> threshold name -> field, for name based overrides.
func (t *Thresholds) fields() map[Kind]map[string]*float64 {
	return map[Kind]map[string]*float64{
		KindPushup: {
			"down":         &t.Pushup.Down,
			"up":           &t.Pushup.Up,
			"form_hip_min": &t.Pushup.FormHipMin,
		},
		KindSquat: {
			"down":            &t.Squat.Down,
			"up":              &t.Squat.Up,
			"deep":            &t.Squat.Deep,
			"max_torso_lean":  &t.Squat.MaxTorsoLean,
			"sticking_offset": &t.Squat.StickingOffset,
		},
		KindSitup: {
			"up":             &t.Situp.Up,
			"down":           &t.Situp.Down,
			"good_crunch":    &t.Situp.GoodCrunch,
			"peak_release":   &t.Situp.PeakRelease,
			"foot_lift_px":   &t.Situp.FootLiftPx,
			"neck_strain_px": &t.Situp.NeckStrainPx,
		},
		KindSitAndReach: {
			"excellent_hip":      &t.SitAndReach.ExcellentHip,
			"average_hip":        &t.SitAndReach.AverageHip,
			"knee_valid":         &t.SitAndReach.KneeValid,
			"symmetry_max":       &t.SitAndReach.SymmetryMax,
			"max_reach_band":     &t.SitAndReach.MaxReachBand,
			"keep_reaching_band": &t.SitAndReach.KeepReachingBand,
		},
		KindSkipping: {
			"jump_threshold":    &t.Skipping.JumpThreshold,
			"min_height":        &t.Skipping.MinHeight,
			"upright_tolerance": &t.Skipping.UprightTolerance,
			"min_knee":          &t.Skipping.MinKnee,
			"fast_hz":           &t.Skipping.FastHz,
			"slow_hz":           &t.Skipping.SlowHz,
			"frequency_after":   &t.Skipping.FrequencyAfter,
		},
		KindJumpingJacks: {
			"arm_open":          &t.JumpingJacks.ArmOpen,
			"arm_closed":        &t.JumpingJacks.ArmClosed,
			"arm_full":          &t.JumpingJacks.ArmFull,
			"arm_spread_open":   &t.JumpingJacks.ArmSpreadOpen,
			"arm_spread_closed": &t.JumpingJacks.ArmSpreadClosed,
			"leg_open":          &t.JumpingJacks.LegOpen,
			"leg_closed":        &t.JumpingJacks.LegClosed,
		},
		KindVerticalJump: {
			"min_height":           &t.VerticalJump.MinHeight,
			"takeoff_lift":         &t.VerticalJump.TakeoffLift,
			"prep_knee":            &t.VerticalJump.PrepKnee,
			"good_countermovement": &t.VerticalJump.GoodCountermovement,
			"landing_min":          &t.VerticalJump.LandingMin,
			"landing_max":          &t.VerticalJump.LandingMax,
		},
		KindBroadJump: {
			"min_distance":         &t.BroadJump.MinDistance,
			"takeoff_lift":         &t.BroadJump.TakeoffLift,
			"stand_knee":           &t.BroadJump.StandKnee,
			"good_countermovement": &t.BroadJump.GoodCountermovement,
		},
	}
}

// Apply sets named thresholds, e.g. {"pushup": {"down": 85}}. Every unknown
// exercise or threshold name is reported; known ones are still applied.
func (t *Thresholds) Apply(overrides map[string]map[string]float64) error {
	var err error
	fields := t.fields()

	exNames := make([]string, 0, len(overrides))
	for name := range overrides {
		exNames = append(exNames, name)
	}
	sort.Strings(exNames)

	for _, exName := range exNames {
		kind, kindErr := ParseKind(exName)
		if kindErr != nil {
			err = multierr.Append(err, kindErr)
			continue
		}
		for name, value := range overrides[exName] {
			field, ok := fields[kind][name]
			if !ok {
				err = multierr.Append(err, fmt.Errorf("%w: %s.%s", ErrUnknownThreshold, kind, name))
				continue
			}
			*field = value
		}
	}

	return err
}

// Get returns a threshold by exercise and name.
func (t *Thresholds) Get(kind Kind, name string) (float64, bool) {
	field, ok := t.fields()[kind][name]
	if !ok {
		return 0, false
	}
	return *field, true
}

// Validate checks the ordering constraints the phase machines rely on.
func (t Thresholds) Validate() error {
	var err error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			err = multierr.Append(err, fmt.Errorf(format, args...))
		}
	}

	check(t.Pushup.Down < t.Pushup.Up, "pushup: down (%v) must be below up (%v)", t.Pushup.Down, t.Pushup.Up)
	check(t.Squat.Down < t.Squat.Up, "squat: down (%v) must be below up (%v)", t.Squat.Down, t.Squat.Up)
	check(t.Squat.Deep <= t.Squat.Down, "squat: deep (%v) must not exceed down (%v)", t.Squat.Deep, t.Squat.Down)
	check(t.Situp.Down < t.Situp.Up, "situp: down (%v) must be below up (%v)", t.Situp.Down, t.Situp.Up)
	check(t.SitAndReach.ExcellentHip <= t.SitAndReach.AverageHip,
		"sitnreach: excellent_hip (%v) must not exceed average_hip (%v)", t.SitAndReach.ExcellentHip, t.SitAndReach.AverageHip)
	check(t.Skipping.MinHeight <= t.Skipping.JumpThreshold,
		"skipping: min_height (%v) must not exceed jump_threshold (%v)", t.Skipping.MinHeight, t.Skipping.JumpThreshold)
	check(t.JumpingJacks.ArmClosed < t.JumpingJacks.ArmOpen,
		"jumpingjacks: arm_closed (%v) must be below arm_open (%v)", t.JumpingJacks.ArmClosed, t.JumpingJacks.ArmOpen)
	check(t.JumpingJacks.LegClosed < t.JumpingJacks.LegOpen,
		"jumpingjacks: leg_closed (%v) must be below leg_open (%v)", t.JumpingJacks.LegClosed, t.JumpingJacks.LegOpen)
	check(t.VerticalJump.LandingMin < t.VerticalJump.LandingMax,
		"vjump: landing_min (%v) must be below landing_max (%v)", t.VerticalJump.LandingMin, t.VerticalJump.LandingMax)
	check(t.VerticalJump.TakeoffLift < t.VerticalJump.MinHeight,
		"vjump: takeoff_lift (%v) must be below min_height (%v)", t.VerticalJump.TakeoffLift, t.VerticalJump.MinHeight)
	check(t.BroadJump.TakeoffLift > 0, "bjump: takeoff_lift (%v) must be positive", t.BroadJump.TakeoffLift)

	return err
}
