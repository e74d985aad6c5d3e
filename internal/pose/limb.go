package pose

// Side is the body side chosen for a bilateral measurement.
type Side int

const (
	Left Side = iota
	Right
)

func (s Side) String() string {
	if s == Right {
		return "right"
	}
	return "left"
}

// SelectSide picks the side whose joint is more visible. Equal confidences
// resolve to Left. The set must be Valid.
func SelectSide(ks KeypointSet, left, right Landmark) Side {
	if ks[right].Confidence > ks[left].Confidence {
		return Right
	}
	return Left
}

// Pick returns the name matching the side.
func (s Side) Pick(left, right AngleName) AngleName {
	if s == Right {
		return right
	}
	return left
}

// PickLandmark returns the landmark matching the side.
func (s Side) PickLandmark(left, right Landmark) Landmark {
	if s == Right {
		return right
	}
	return left
}
