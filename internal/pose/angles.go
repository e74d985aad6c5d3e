package pose

import (
	"encoding/json"
	"fmt"
)

// AngleName identifies a derived joint angle (degrees) or distance (pixels)
// computed by the pose collaborator for a frame.
type AngleName string

const (
	AngleLeftElbow     AngleName = "left_elbow"
	AngleRightElbow    AngleName = "right_elbow"
	AngleLeftHip       AngleName = "left_hip"
	AngleRightHip      AngleName = "right_hip"
	AngleLeftKnee      AngleName = "left_knee"
	AngleRightKnee     AngleName = "right_knee"
	AngleLeftShoulder  AngleName = "left_shoulder"
	AngleRightShoulder AngleName = "right_shoulder"

	AngleTorso        AngleName = "torso_angle"
	AngleShinLeft     AngleName = "shin_angle_left"
	AngleShinRight    AngleName = "shin_angle_right"
	AngleTorsoIncline AngleName = "torso_inclination_horizontal"
	AngleHipFlexion   AngleName = "hip_flexion_angle"
	AngleArmRaise     AngleName = "arm_raise_angle"
	AngleSkipBack     AngleName = "skip_back_angle"
	AngleSkipKnee     AngleName = "skip_knee_angle"
	AngleVJumpCounter AngleName = "vjump_countermovement_angle"
	AngleVJumpLanding AngleName = "vjump_landing_knee_angle"
	AngleSitReachHip  AngleName = "sitnreach_hip_angle"
	AngleSitReachBack AngleName = "sitnreach_back_angle"
	AngleSitReachKnee AngleName = "sitnreach_knee_angle"
	DistanceReach     AngleName = "reach_distance"
	DistanceArmLength AngleName = "arm_length"
	DistanceReachSymm AngleName = "reach_symmetry"
)

// Reading is an optional measurement: either a present value or absent.
type Reading struct {
	value   float64
	present bool
}

func Present(v float64) Reading {
	return Reading{value: v, present: true}
}

func Absent() Reading {
	return Reading{}
}

func (r Reading) Value() (float64, bool) {
	return r.value, r.present
}

func (r Reading) Present() bool {
	return r.present
}

// Or returns the value, or def when the reading is absent.
func (r Reading) Or(def float64) float64 {
	if !r.present {
		return def
	}
	return r.value
}

// Above reports whether the reading is present and strictly greater than v.
func (r Reading) Above(v float64) bool {
	return r.present && r.value > v
}

// Below reports whether the reading is present and strictly less than v.
func (r Reading) Below(v float64) bool {
	return r.present && r.value < v
}

func (r Reading) String() string {
	if !r.present {
		return "absent"
	}
	return fmt.Sprintf("%.1f", r.value)
}

// AngleBundle maps names to values computed for one frame. A missing key
// means the measurement could not be computed (e.g. occlusion).
type AngleBundle map[AngleName]float64

func (b AngleBundle) Get(name AngleName) Reading {
	v, ok := b[name]
	if !ok {
		return Absent()
	}
	return Present(v)
}

// UnmarshalJSON accepts null values and treats them as absent.
func (b *AngleBundle) UnmarshalJSON(data []byte) error {
	var raw map[AngleName]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal angle bundle: %w", err)
	}
	out := make(AngleBundle, len(raw))
	for name, v := range raw {
		if v != nil {
			out[name] = *v
		}
	}
	*b = out
	return nil
}
