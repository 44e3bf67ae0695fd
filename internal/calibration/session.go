package calibration

import (
	"fmt"

	"github.com/dudu/facerig/internal/features"
	"github.com/dudu/facerig/internal/regression"
)

// State is the calibration session state
type State int

const (
	StateIdle State = iota
	StateRecording
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateReady:
		return "ready"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result reports what a RecordPose call did
type Result struct {
	// Index is the slot the sample was written to
	Index int
	// Trained is set when this call completed a batch and new models were published
	Trained bool
	Models  regression.ModelSet
}

// Session records calibration poses and retrains the expression models
// every time a batch of PoseCount poses is complete.
// Session is not safe for concurrent use.
type Session struct {
	store   *regression.Store
	poses   [PoseCount]features.Sample
	index   int
	state   State
	batches int

	// fit is regression.Train outside of tests
	fit func(samples [][2]float64, labels []float64) (regression.Model, error)
}

// NewSession creates a session that publishes trained models to store
func NewSession(store *regression.Store) *Session {
	return &Session{store: store, fit: regression.Train}
}

// CurrentPoseIndex returns the protocol step the next RecordPose fills
func (s *Session) CurrentPoseIndex() int {
	return s.index
}

// State returns the session state
func (s *Session) State() State {
	return s.state
}

// Batches returns how many complete batches have been trained
func (s *Session) Batches() int {
	return s.batches
}

// RecordPose stores sample at the current protocol step. When this fills the
// last slot the three models are trained and replaced together. If training
// fails the previous models stay in place and the error is returned; the
// slot index still wraps so the user starts a fresh batch.
func (s *Session) RecordPose(sample features.Sample) (Result, error) {
	idx := s.index
	s.poses[idx] = sample
	s.index = (s.index + 1) % PoseCount
	s.state = StateRecording

	res := Result{Index: idx}
	if idx != PoseCount-1 {
		return res, nil
	}

	models, err := s.train()
	if err != nil {
		if s.batches > 0 {
			s.state = StateReady
		} else {
			s.state = StateIdle
		}
		return res, fmt.Errorf("failed to train expression models: %w", err)
	}

	s.store.Replace(models)
	s.batches++
	s.state = StateReady
	res.Trained = true
	res.Models = s.store.Load()
	return res, nil
}

// TrainingSets builds the (feature, scale) rows and labels for each model
// from the recorded poses
func (s *Session) TrainingSets() (leftEye, rightEye, mouth [][2]float64, eyeLabels, mouthLabels []float64) {
	leftEye = make([][2]float64, PoseCount)
	rightEye = make([][2]float64, PoseCount)
	mouth = make([][2]float64, PoseCount)
	eyeLabels = make([]float64, PoseCount)
	mouthLabels = make([]float64, PoseCount)

	for i, p := range s.poses {
		leftEye[i] = [2]float64{p.EyeLeftRatio, p.ScaleProxy}
		rightEye[i] = [2]float64{p.EyeRightRatio, p.ScaleProxy}
		mouth[i] = [2]float64{p.MouthFeature(), p.ScaleProxy}
		eyeLabels[i] = Protocol[i].EyeLabel
		mouthLabels[i] = Protocol[i].MouthLabel
	}
	return
}

func (s *Session) train() (regression.ModelSet, error) {
	leftEye, rightEye, mouth, eyeLabels, mouthLabels := s.TrainingSets()

	var set regression.ModelSet
	var err error
	if set.LeftEye, err = s.fit(leftEye, eyeLabels); err != nil {
		return set, fmt.Errorf("left eye: %w", err)
	}
	if set.RightEye, err = s.fit(rightEye, eyeLabels); err != nil {
		return set, fmt.Errorf("right eye: %w", err)
	}
	if set.Mouth, err = s.fit(mouth, mouthLabels); err != nil {
		return set, fmt.Errorf("mouth: %w", err)
	}
	return set, nil
}
