package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenMissing(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "profile.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), s.Get())
}

func TestZoomAndPanPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user", "profile.yaml")
	s, err := Open(path)
	require.NoError(t, err)

	p, err := s.ZoomIn()
	require.NoError(t, err)
	require.InDelta(t, 1.1, p.Zoom, 1e-9)

	_, err = s.Pan(10, -5)
	require.NoError(t, err)
	_, err = s.SetMoveEnabled(true)
	require.NoError(t, err)

	reopened, err := Open(path)
	require.NoError(t, err)
	got := reopened.Get()
	require.InDelta(t, 1.1, got.Zoom, 1e-9)
	require.Equal(t, 10.0, got.PanX)
	require.Equal(t, -5.0, got.PanY)
	require.True(t, got.MoveEnabled)
}

func TestZoomIsClamped(t *testing.T) {
	s, err := Open("")
	require.NoError(t, err)
	for i := 0; i < 100; i++ {
		_, err = s.ZoomOut()
		require.NoError(t, err)
	}
	require.Equal(t, MinZoom, s.Get().Zoom)

	p, err := s.Set(Profile{Zoom: 50})
	require.NoError(t, err)
	require.Equal(t, MaxZoom, p.Zoom)
}

func TestOpenCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("zoom: [\n"), 0644))
	_, err := Open(path)
	require.Error(t, err)
}
