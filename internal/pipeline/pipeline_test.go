package pipeline

import (
	"context"
	"io"
	"math"
	"testing"

	"github.com/cyclopcam/logs"
	"github.com/stretchr/testify/require"

	"github.com/dudu/facerig/internal/calibration"
	"github.com/dudu/facerig/internal/estimator"
	"github.com/dudu/facerig/internal/features"
	"github.com/dudu/facerig/internal/landmark"
	"github.com/dudu/facerig/internal/regression"
)

var testModels = regression.ModelSet{
	LeftEye:  regression.Model{Alpha0: 0.004, Alpha1: -0.0005, Beta: 0.1},
	RightEye: regression.Model{Alpha0: 0.004, Alpha1: -0.0005, Beta: 0.1},
	Mouth:    regression.Model{Alpha0: 0.0008, Alpha1: -0.0005, Beta: 0.2},
}

// contour lays out a six-point contour whose shape ratio is width*height
func contour(mesh []landmark.Point, indices []int, x, y, width, height float64) {
	mesh[indices[0]] = landmark.Point{X: x, Y: y}
	mesh[indices[1]] = landmark.Point{X: x + width/3, Y: y - height/2}
	mesh[indices[2]] = landmark.Point{X: x + 2*width/3, Y: y - height/2}
	mesh[indices[3]] = landmark.Point{X: x + width, Y: y}
	mesh[indices[4]] = landmark.Point{X: x + 2*width/3, Y: y + height/2}
	mesh[indices[5]] = landmark.Point{X: x + width/3, Y: y + height/2}
}

// face builds a frame with eye ratios eye*30, mouth ratio mouth*50 and a
// scale proxy of 300
func face(eye, mouth float64) *landmark.Frame {
	mesh := make([]landmark.Point, landmark.MinMeshPoints)
	contour(mesh, landmark.LeftEyeIndices, 160, 120, 30, eye)
	contour(mesh, landmark.RightEyeIndices, 110, 120, 30, eye)
	contour(mesh, landmark.MouthIndices, 125, 190, 50, mouth)
	mesh[landmark.NoseTip] = landmark.Point{X: 150, Y: 150}
	return &landmark.Frame{
		Mesh: mesh,
		BoundingBox: landmark.BoundingBox{
			TopLeft:     landmark.Point{X: 100, Y: 80},
			BottomRight: landmark.Point{X: 200, Y: 220},
		},
	}
}

func openFace() *landmark.Frame   { return face(10, 20) }
func closedFace() *landmark.Frame { return face(3, 10) }

func calibrate(t *testing.T, p *Pipeline) calibration.Result {
	var res calibration.Result
	for i, f := range []*landmark.Frame{openFace(), closedFace(), openFace(), closedFace()} {
		require.Equal(t, i, p.CurrentPoseIndex())
		require.NoError(t, p.Process(f))
		var err error
		res, err = p.RecordPose()
		require.NoError(t, err)
	}
	return res
}

func TestProcessColdStart(t *testing.T) {
	p := New(Config{Models: testModels}, logs.NewTestingLog(t))
	require.NoError(t, p.Process(face(10, 60)))

	params := p.Params()
	require.GreaterOrEqual(t, params.MouthOpen, 0.0)
	require.LessOrEqual(t, params.MouthOpen, 1.0)
	require.Equal(t, uint64(1), p.Stats().Processed)
	require.False(t, p.Calibration().Calibrated)
}

func TestRecordPoseBeforeFrame(t *testing.T) {
	p := New(Config{Models: testModels}, logs.NewTestingLog(t))
	_, err := p.RecordPose()
	require.ErrorIs(t, err, ErrNoSample)
	require.Equal(t, 0, p.CurrentPoseIndex())
}

func TestCalibrationEndToEnd(t *testing.T) {
	p := New(Config{Models: testModels}, logs.NewTestingLog(t))
	res := calibrate(t, p)
	require.True(t, res.Trained)

	status := p.Calibration()
	require.True(t, status.Calibrated)
	require.Equal(t, 0, status.PoseIndex)
	require.Equal(t, "ready", status.State)
	require.Equal(t, 1, status.Batches)

	// Mouth ratios 1000 and 500 at a scale proxy of 300
	models := p.Models()
	require.Greater(t, models.Mouth.Alpha0, 0.0)

	require.NoError(t, p.Process(openFace()))
	open := p.Params()
	require.NoError(t, p.Process(closedFace()))
	closed := p.Params()
	require.Greater(t, open.MouthOpen, closed.MouthOpen)
	require.Greater(t, open.EyeLeftOpen, closed.EyeLeftOpen)
	require.Greater(t, open.EyeRightOpen, closed.EyeRightOpen)
}

func TestCalibrationReplayGivesSameModels(t *testing.T) {
	p := New(Config{Models: testModels}, logs.NewTestingLog(t))
	calibrate(t, p)
	first := p.Models()
	calibrate(t, p)
	require.Equal(t, first, p.Models())
}

func TestProcessDropsOverlappingFrame(t *testing.T) {
	p := New(Config{Models: testModels}, logs.NewTestingLog(t))
	p.mu.Lock()
	err := p.Process(openFace())
	p.mu.Unlock()
	require.ErrorIs(t, err, ErrBusy)
	require.Equal(t, uint64(1), p.Stats().Dropped)
	require.Equal(t, uint64(0), p.Stats().Processed)
}

func TestProcessRejectsShortMesh(t *testing.T) {
	p := New(Config{Models: testModels}, logs.NewTestingLog(t))
	err := p.Process(&landmark.Frame{Mesh: make([]landmark.Point, 10)})
	require.ErrorIs(t, err, features.ErrShortMesh)
	require.Equal(t, uint64(1), p.Stats().Rejected)
	_, ok := p.LastSample()
	require.False(t, ok)
}

type sliceSource struct {
	frames []*landmark.Frame
}

func (s *sliceSource) Next() (*landmark.Frame, error) {
	if len(s.frames) == 0 {
		return nil, io.EOF
	}
	f := s.frames[0]
	s.frames = s.frames[1:]
	return f, nil
}

func (s *sliceSource) Close() error { return nil }

func TestRunSmoothsPosition(t *testing.T) {
	p := New(Config{Models: testModels}, logs.NewTestingLog(t))
	src := &sliceSource{}
	for i := 0; i < 10; i++ {
		src.frames = append(src.frames, openFace())
	}
	// A bad frame in the middle is skipped
	src.frames = append(src.frames[:5], append([]*landmark.Frame{{}}, src.frames[5:]...)...)

	// Nose tip x 150 over a scale proxy of 300
	xRaw := 0.5
	n := 0
	err := p.Run(context.Background(), src, func(f *landmark.Frame, params estimator.Params) {
		n++
		require.InDelta(t, xRaw*(1-math.Pow(2.0/3.0, float64(n))), params.XNormal, 1e-12)
	})
	require.NoError(t, err)
	require.Equal(t, 10, n)
	require.Equal(t, uint64(1), p.Stats().Rejected)
}

func TestRunStopsOnCancel(t *testing.T) {
	p := New(Config{Models: testModels}, logs.NewTestingLog(t))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := p.Run(ctx, &sliceSource{frames: []*landmark.Frame{openFace()}}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
