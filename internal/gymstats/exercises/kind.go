package exercises

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidExerciseType = errors.New("invalid exercise type")

// Kind is one of the supported exercise types.
type Kind string

const (
	KindPushup       Kind = "pushup"
	KindSquat        Kind = "squat"
	KindSitup        Kind = "situp"
	KindSitAndReach  Kind = "sitnreach"
	KindSkipping     Kind = "skipping"
	KindJumpingJacks Kind = "jumpingjacks"
	KindVerticalJump Kind = "vjump"
	KindBroadJump    Kind = "bjump"
)

var allKinds = []Kind{
	KindPushup,
	KindSquat,
	KindSitup,
	KindSitAndReach,
	KindSkipping,
	KindJumpingJacks,
	KindVerticalJump,
	KindBroadJump,
}

// Kinds lists all supported exercise types in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidExerciseType, s)
	}
	return k, nil
}

func (k Kind) String() string {
	return string(k)
}

func (k Kind) IsValid() bool {
	switch k {
	case KindPushup,
		KindSquat,
		KindSitup,
		KindSitAndReach,
		KindSkipping,
		KindJumpingJacks,
		KindVerticalJump,
		KindBroadJump:
		return true
	default:
		return false
	}
}

// DisplayName is the human readable name of the exercise.
func (k Kind) DisplayName() string {
	switch k {
	case KindPushup:
		return "Push-ups"
	case KindSquat:
		return "Squats"
	case KindSitup:
		return "Sit-ups"
	case KindSitAndReach:
		return "Sit-and-Reach"
	case KindSkipping:
		return "Skipping (Jump Rope)"
	case KindJumpingJacks:
		return "Jumping Jacks"
	case KindVerticalJump:
		return "Vertical Jump"
	case KindBroadJump:
		return "Broad Jump"
	default:
		return string(k)
	}
}

// countLabel names a single rep in log lines, e.g. "Pushup Count: 3".
func (k Kind) countLabel() string {
	switch k {
	case KindPushup:
		return "Pushup"
	case KindSquat:
		return "Squat"
	case KindSitup:
		return "Sit-up"
	case KindSitAndReach:
		return "Reach Score"
	case KindSkipping:
		return "Skip"
	case KindJumpingJacks:
		return "Jumping Jack"
	case KindVerticalJump:
		return "Vertical Jump"
	case KindBroadJump:
		return "Broad Jump"
	default:
		return string(k)
	}
}
