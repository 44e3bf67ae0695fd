package estimator

import (
	"github.com/dudu/facerig/internal/features"
	"github.com/dudu/facerig/internal/regression"
)

// SmoothingDivisor sets the first-order smoothing of head position:
// each frame moves the smoothed value 1/SmoothingDivisor of the way to the
// raw value.
const SmoothingDivisor = 3

// Params is the outbound record read by the avatar
type Params struct {
	XNormal      float64 `json:"xNormal"`
	YNormal      float64 `json:"yNormal"`
	EyeLeftOpen  float64 `json:"eyeLeftOpen"`
	EyeRightOpen float64 `json:"eyeRightOpen"`
	MouthOpen    float64 `json:"mouthOpen"`
}

// Estimator turns feature samples into avatar parameters using the models
// currently published in a Store. It owns the smoothed head position, which
// starts at zero and is never reset.
type Estimator struct {
	store   *regression.Store
	xNormal float64
	yNormal float64
}

// New creates an estimator reading models from store
func New(store *regression.Store) *Estimator {
	return &Estimator{store: store}
}

// Estimate computes parameters for one frame and advances the smoothing state
func (e *Estimator) Estimate(s features.Sample) Params {
	e.smooth(s)

	models := e.store.Load()
	p := Params{
		XNormal: e.xNormal,
		YNormal: e.yNormal,
	}

	p.EyeLeftOpen = models.LeftEye.Predict(s.EyeLeftRatio, s.ScaleProxy)
	p.EyeRightOpen = models.RightEye.Predict(s.EyeRightRatio, s.ScaleProxy)
	// The mouth model is trained on MouthFeature but evaluated on the raw
	// ratio. The two differ by MouthTrainingScale.
	p.MouthOpen = models.Mouth.Predict(s.MouthRatio, s.ScaleProxy)

	if !models.Calibrated {
		// Cold-start constants are clipped
		p.EyeLeftOpen = clip01(p.EyeLeftOpen)
		p.EyeRightOpen = clip01(p.EyeRightOpen)
		p.MouthOpen = clip01(p.MouthOpen)
	}
	return p
}

// position returns the current smoothed head position
func (e *Estimator) position() (x, y float64) {
	return e.xNormal, e.yNormal
}

// smooth updates the head position. An axis whose proxy is zero keeps its
// previous value rather than absorbing an infinity.
func (e *Estimator) smooth(s features.Sample) {
	if s.ScaleProxy != 0 {
		xRaw := s.NoseTip.X / s.ScaleProxy
		e.xNormal += (xRaw - e.xNormal) / SmoothingDivisor
	}
	if s.VerticalProxy != 0 {
		yRaw := s.NoseTip.Y / s.VerticalProxy
		e.yNormal += (yRaw - e.yNormal) / SmoothingDivisor
	}
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
