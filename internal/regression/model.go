package regression

import (
	"sync/atomic"
)

// Model is a two-feature linear model:
//
//	output = Alpha0*feature + Alpha1*scale + Beta
type Model struct {
	Alpha0 float64 `json:"alpha0" yaml:"alpha0"`
	Alpha1 float64 `json:"alpha1" yaml:"alpha1"`
	Beta   float64 `json:"beta" yaml:"beta"`
}

// Predict evaluates the model
func (m Model) Predict(feature, scale float64) float64 {
	return m.Alpha0*feature + m.Alpha1*scale + m.Beta
}

// ModelSet bundles the three expression models. A set is never mutated
// after it has been published to a Store.
type ModelSet struct {
	LeftEye  Model `json:"leftEye" yaml:"left_eye"`
	RightEye Model `json:"rightEye" yaml:"right_eye"`
	Mouth    Model `json:"mouth" yaml:"mouth"`

	// Calibrated is false for the host-supplied cold-start constants
	Calibrated bool `json:"calibrated" yaml:"-"`
}

// Store holds the current ModelSet. One writer (calibration) replaces the
// whole set, any number of readers load it.
type Store struct {
	current atomic.Pointer[ModelSet]
}

// NewStore creates a store seeded with the cold-start models
func NewStore(defaults ModelSet) *Store {
	s := &Store{}
	defaults.Calibrated = false
	s.current.Store(&defaults)
	return s
}

// Load returns the current model set
func (s *Store) Load() ModelSet {
	return *s.current.Load()
}

// Replace publishes a calibrated model set
func (s *Store) Replace(set ModelSet) {
	set.Calibrated = true
	s.current.Store(&set)
}
