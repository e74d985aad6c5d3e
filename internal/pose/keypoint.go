package pose

// Landmark is the fixed index of a body point inside a KeypointSet.
// The order is a contract with the pose estimator and is not configurable.
type Landmark int

const (
	Nose Landmark = iota
	LeftEye
	RightEye
	LeftEar
	RightEar
	LeftShoulder
	RightShoulder
	LeftElbow
	RightElbow
	LeftWrist
	RightWrist
	LeftHip
	RightHip
	LeftKnee
	RightKnee
	LeftAnkle
	RightAnkle
)

// KeypointCount is the only KeypointSet length treated as a detection.
const KeypointCount = 17

var landmarkNames = [KeypointCount]string{
	"nose",
	"left_eye", "right_eye",
	"left_ear", "right_ear",
	"left_shoulder", "right_shoulder",
	"left_elbow", "right_elbow",
	"left_wrist", "right_wrist",
	"left_hip", "right_hip",
	"left_knee", "right_knee",
	"left_ankle", "right_ankle",
}

func (l Landmark) String() string {
	if l < 0 || int(l) >= KeypointCount {
		return "unknown"
	}
	return landmarkNames[l]
}

// Keypoint is one landmark in image-plane pixels with detection confidence in [0,1].
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// KeypointSet holds all landmarks of one detected person, indexed by Landmark.
// A nil set means nothing was detected in the frame.
type KeypointSet []Keypoint

// Valid reports whether the set can be used for angle evaluation.
func (ks KeypointSet) Valid() bool {
	return len(ks) == KeypointCount
}

// At returns the keypoint for the landmark. Callers must check Valid first.
func (ks KeypointSet) At(l Landmark) Keypoint {
	return ks[l]
}

// Midpoint returns the point halfway between two landmarks, with the lower of
// the two confidences.
func (ks KeypointSet) Midpoint(a, b Landmark) Keypoint {
	pa, pb := ks[a], ks[b]
	return Keypoint{
		X:          (pa.X + pb.X) / 2,
		Y:          (pa.Y + pb.Y) / 2,
		Confidence: min(pa.Confidence, pb.Confidence),
	}
}

// HorizontalSpan is the absolute horizontal distance between two landmarks.
func (ks KeypointSet) HorizontalSpan(a, b Landmark) float64 {
	d := ks[a].X - ks[b].X
	if d < 0 {
		return -d
	}
	return d
}
