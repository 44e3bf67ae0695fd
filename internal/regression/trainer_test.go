package regression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrainInvalid(t *testing.T) {
	_, err := Train(nil, nil)
	require.ErrorIs(t, err, ErrNoSamples)

	_, err = Train([][2]float64{{1, 2}, {3, 4}}, []float64{1})
	require.ErrorIs(t, err, ErrLengthMismatch)
}

func TestTrainSingleRow(t *testing.T) {
	// Hand computed fixed point for 100 epochs from zero
	m, err := Train([][2]float64{{2, 3}}, []float64{1})
	require.NoError(t, err)
	require.InDelta(t, 0.0007977864512264793, m.Alpha0, 1e-15)
	require.InDelta(t, 0.001196679676839719, m.Alpha1, 1e-15)
	require.InDelta(t, 0.00039889322561323967, m.Beta, 1e-15)
}

func TestTrainRepeatedZeroRow(t *testing.T) {
	// With zero features the alphas never move and beta walks toward the
	// label by a factor of (1 - 2*lr) per epoch.
	samples := [][2]float64{{0, 0}, {0, 0}, {0, 0}, {0, 0}}
	labels := []float64{1, 1, 1, 1}
	m, err := Train(samples, labels)
	require.NoError(t, err)
	require.Equal(t, 0.0, m.Alpha0)
	require.Equal(t, 0.0, m.Alpha1)

	want := 1 - math.Pow(1-2*LearningRate, Epochs)
	require.InDelta(t, want, m.Beta, 1e-15)
	require.Greater(t, m.Beta, 0.0)
	require.Less(t, m.Beta, 1.0)
}

func TestTrainDeterministic(t *testing.T) {
	samples := [][2]float64{{300, 640}, {90, 640}, {280, 600}, {80, 600}}
	labels := []float64{1, 0, 1, 0}
	a, err := Train(samples, labels)
	require.NoError(t, err)
	b, err := Train(samples, labels)
	require.NoError(t, err)
	require.Equal(t, a, b)

	require.InDelta(t, 0.0047800990591753585, a.Alpha0, 1e-12)
	require.InDelta(t, -0.0006396287620479829, a.Alpha1, 1e-12)
	require.InDelta(t, -7.536539690260723e-07, a.Beta, 1e-12)
}

func TestTrainSeparatesOpenAndClosed(t *testing.T) {
	samples := [][2]float64{{100, 300}, {50, 300}, {100, 300}, {50, 300}}
	labels := []float64{1, 0, 1, 0}
	m, err := Train(samples, labels)
	require.NoError(t, err)
	require.Greater(t, m.Alpha0, 0.0)
	require.Greater(t, m.Predict(100, 300), m.Predict(50, 300))
}

func TestStore(t *testing.T) {
	defaults := ModelSet{
		LeftEye:  Model{Alpha0: 1},
		RightEye: Model{Alpha0: 2},
		Mouth:    Model{Alpha0: 3},
	}
	s := NewStore(defaults)
	require.Equal(t, defaults, s.Load())
	require.False(t, s.Load().Calibrated)

	trained := ModelSet{Mouth: Model{Beta: 0.5}}
	s.Replace(trained)
	got := s.Load()
	require.True(t, got.Calibrated)
	require.Equal(t, 0.5, got.Mouth.Beta)

	// Callers get a copy
	got.Mouth.Beta = 9
	require.Equal(t, 0.5, s.Load().Mouth.Beta)
}
