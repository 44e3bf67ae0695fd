package regression

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

const (
	LearningRate = 0.000002
	Epochs       = 100
)

var (
	ErrNoSamples      = errors.New("no training samples")
	ErrLengthMismatch = errors.New("samples and labels differ in length")
)

// Train fits a Model to samples of (feature, scale) with plain batch
// gradient descent on the squared error. Parameters start from zero on every
// call and the full epoch count always runs, so the result depends only on
// the inputs.
func Train(samples [][2]float64, labels []float64) (Model, error) {
	if len(samples) == 0 {
		return Model{}, ErrNoSamples
	}
	if len(samples) != len(labels) {
		return Model{}, ErrLengthMismatch
	}

	n := len(samples)
	x0 := make([]float64, n)
	x1 := make([]float64, n)
	for i, s := range samples {
		x0[i] = s[0]
		x1[i] = s[1]
	}

	yError := make([]float64, n)
	var alpha [2]float64
	var beta float64
	scale := -2 / float64(n)

	for epoch := 0; epoch < Epochs; epoch++ {
		for i := range yError {
			yPred := alpha[0]*x0[i] + alpha[1]*x1[i] + beta
			yError[i] = labels[i] - yPred
		}

		aDiff0 := scale * floats.Dot(x0, yError)
		aDiff1 := scale * floats.Dot(x1, yError)
		bDiff := scale * floats.Sum(yError)

		alpha[0] -= LearningRate * aDiff0
		alpha[1] -= LearningRate * aDiff1
		beta -= LearningRate * bDiff
	}

	return Model{Alpha0: alpha[0], Alpha1: alpha[1], Beta: beta}, nil
}
