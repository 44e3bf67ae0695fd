package features

import (
	"errors"
	"fmt"

	"github.com/dudu/facerig/internal/landmark"
)

// ErrShortMesh is returned for frames that carry fewer mesh points than the
// face mesh layout requires. Hosts treat it like a detector failure.
var ErrShortMesh = errors.New("landmark mesh too short")

// MouthTrainingScale divides the mouth ratio in calibration training sets
const MouthTrainingScale = 10

// Sample holds the per-frame features derived from one landmark frame
type Sample struct {
	EyeLeftRatio  float64 `json:"eyeLeftRatio"`
	EyeRightRatio float64 `json:"eyeRightRatio"`
	MouthRatio    float64 `json:"mouthRatio"`

	// ScaleProxy is topLeft.x + bottomRight.x of the face box
	ScaleProxy float64 `json:"scaleProxy"`

	// VerticalProxy is topLeft.y + bottomRight.y, only used for head position
	VerticalProxy float64        `json:"verticalProxy"`
	NoseTip       landmark.Point `json:"noseTip"`
}

// MouthFeature returns the mouth ratio as the mouth model is trained on it
func (s Sample) MouthFeature() float64 {
	return s.MouthRatio / MouthTrainingScale
}

// Extract derives a Sample from a landmark frame
func Extract(frame *landmark.Frame) (Sample, error) {
	if len(frame.Mesh) < landmark.MinMeshPoints {
		return Sample{}, fmt.Errorf("%w: got %d points, need %d", ErrShortMesh, len(frame.Mesh), landmark.MinMeshPoints)
	}

	box := frame.BoundingBox
	return Sample{
		EyeLeftRatio:  landmark.ShapeRatio(frame.Points(landmark.LeftEyeIndices)),
		EyeRightRatio: landmark.ShapeRatio(frame.Points(landmark.RightEyeIndices)),
		MouthRatio:    landmark.ShapeRatio(frame.Points(landmark.MouthIndices)),
		ScaleProxy:    box.ScaleProxy(),
		VerticalProxy: box.VerticalProxy(),
		NoseTip:       frame.Mesh[landmark.NoseTip],
	}, nil
}
