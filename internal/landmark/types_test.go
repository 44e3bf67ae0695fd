package landmark

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPointJSON(t *testing.T) {
	var p Point
	require.NoError(t, json.Unmarshal([]byte(`[1.5, 2.5, -30]`), &p))
	require.Equal(t, Point{X: 1.5, Y: 2.5}, p)

	require.NoError(t, json.Unmarshal([]byte(`{"x": 3, "y": 4}`), &p))
	require.Equal(t, Point{X: 3, Y: 4}, p)

	require.Error(t, json.Unmarshal([]byte(`[1]`), &p))

	out, err := json.Marshal(Point{X: 1, Y: 2})
	require.NoError(t, err)
	require.JSONEq(t, `[1, 2]`, string(out))
}

func TestFrameJSON(t *testing.T) {
	raw := `{"scaledMesh": [[1, 2, 3], [4, 5, 6]], "boundingBox": {"topLeft": [10, 20], "bottomRight": [110, 140]}}`
	var f Frame
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	require.Len(t, f.Mesh, 2)
	require.Equal(t, Point{X: 4, Y: 5}, f.Mesh[1])
	require.Equal(t, 120.0, f.BoundingBox.ScaleProxy())
	require.Equal(t, 160.0, f.BoundingBox.VerticalProxy())
	require.Equal(t, 100.0, f.BoundingBox.Width())
	require.Equal(t, 120.0, f.BoundingBox.Height())
}

func TestFramePoints(t *testing.T) {
	f := Frame{Mesh: []Point{{X: 1}, {X: 2}, {X: 3}}}
	require.Equal(t, []Point{{X: 3}, {X: 1}, {}}, f.Points([]int{2, 0, 7}))
}
