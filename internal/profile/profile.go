package profile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	MinZoom  = 0.5
	MaxZoom  = 4.0
	ZoomStep = 0.1
)

// Profile holds the per-user view settings of the avatar
type Profile struct {
	Zoom        float64 `json:"zoom" yaml:"zoom"`
	PanX        float64 `json:"panX" yaml:"pan_x"`
	PanY        float64 `json:"panY" yaml:"pan_y"`
	MoveEnabled bool    `json:"moveEnabled" yaml:"move_enabled"`
}

// Default returns the profile used when nothing has been saved
func Default() Profile {
	return Profile{Zoom: 1}
}

// Clamp forces the zoom into range
func (p *Profile) Clamp() {
	if p.Zoom < MinZoom {
		p.Zoom = MinZoom
	}
	if p.Zoom > MaxZoom {
		p.Zoom = MaxZoom
	}
}

// Store persists a Profile as YAML. It is safe for concurrent use.
type Store struct {
	path    string
	mu      sync.Mutex
	current Profile
}

// Open loads the profile at path, falling back to Default if the file does not exist
func Open(path string) (*Store, error) {
	s := &Store{path: path, current: Default()}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &s.current); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}
	s.current.Clamp()
	return s, nil
}

// Get returns the current profile
func (s *Store) Get() Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set replaces the profile and saves it
func (s *Store) Set(p Profile) (Profile, error) {
	return s.update(func(cur *Profile) { *cur = p })
}

// ZoomIn increases the zoom by one step
func (s *Store) ZoomIn() (Profile, error) {
	return s.update(func(cur *Profile) { cur.Zoom += ZoomStep })
}

// ZoomOut decreases the zoom by one step
func (s *Store) ZoomOut() (Profile, error) {
	return s.update(func(cur *Profile) { cur.Zoom -= ZoomStep })
}

// Pan moves the view
func (s *Store) Pan(dx, dy float64) (Profile, error) {
	return s.update(func(cur *Profile) {
		cur.PanX += dx
		cur.PanY += dy
	})
}

// SetMoveEnabled toggles head-position tracking on the avatar
func (s *Store) SetMoveEnabled(enabled bool) (Profile, error) {
	return s.update(func(cur *Profile) { cur.MoveEnabled = enabled })
}

func (s *Store) update(change func(cur *Profile)) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current
	change(&next)
	next.Clamp()
	if err := s.save(next); err != nil {
		return s.current, err
	}
	s.current = next
	return next, nil
}

func (s *Store) save(p Profile) error {
	if s.path == "" {
		return nil
	}
	raw, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace profile: %w", err)
	}
	return nil
}
