package pipeline

import (
	"github.com/dudu/facerig/internal/landmark"
)

// LandmarkSource delivers landmark frames for the first detected face.
// Next returns io.EOF when the source is exhausted.
type LandmarkSource interface {
	Next() (*landmark.Frame, error)
	Close() error
}
