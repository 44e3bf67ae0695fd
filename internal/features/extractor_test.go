package features

import (
	"errors"
	"testing"

	"github.com/dudu/facerig/internal/landmark"
	"github.com/stretchr/testify/require"
)

// placeContour lays out a six-point contour of the given width and height
// starting at (x, y)
func placeContour(mesh []landmark.Point, indices []int, x, y, width, height float64) {
	mesh[indices[0]] = landmark.Point{X: x, Y: y}
	mesh[indices[1]] = landmark.Point{X: x + width/3, Y: y - height/2}
	mesh[indices[2]] = landmark.Point{X: x + 2*width/3, Y: y - height/2}
	mesh[indices[3]] = landmark.Point{X: x + width, Y: y}
	mesh[indices[4]] = landmark.Point{X: x + 2*width/3, Y: y + height/2}
	mesh[indices[5]] = landmark.Point{X: x + width/3, Y: y + height/2}
}

func testFrame() *landmark.Frame {
	mesh := make([]landmark.Point, landmark.MinMeshPoints)
	placeContour(mesh, landmark.LeftEyeIndices, 300, 200, 30, 10)
	placeContour(mesh, landmark.RightEyeIndices, 200, 200, 30, 8)
	placeContour(mesh, landmark.MouthIndices, 230, 320, 60, 20)
	mesh[landmark.NoseTip] = landmark.Point{X: 260, Y: 260}
	return &landmark.Frame{
		Mesh: mesh,
		BoundingBox: landmark.BoundingBox{
			TopLeft:     landmark.Point{X: 150, Y: 120},
			BottomRight: landmark.Point{X: 380, Y: 400},
		},
	}
}

func TestExtract(t *testing.T) {
	s, err := Extract(testFrame())
	require.NoError(t, err)
	require.InDelta(t, 10*30.0, s.EyeLeftRatio, 1e-9)
	require.InDelta(t, 8*30.0, s.EyeRightRatio, 1e-9)
	require.InDelta(t, 20*60.0, s.MouthRatio, 1e-9)
	require.InDelta(t, 120.0, s.MouthFeature(), 1e-9)
	require.Equal(t, 530.0, s.ScaleProxy)
	require.Equal(t, 520.0, s.VerticalProxy)
	require.Equal(t, landmark.Point{X: 260, Y: 260}, s.NoseTip)
}

func TestExtractShortMesh(t *testing.T) {
	frame := &landmark.Frame{Mesh: make([]landmark.Point, 100)}
	_, err := Extract(frame)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrShortMesh))
}
