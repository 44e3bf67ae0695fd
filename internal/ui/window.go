package ui

import (
	"fmt"
	"image"
	"time"

	"gocv.io/x/gocv"
)

// Window manages the diagnostics preview
type Window struct {
	window     *gocv.Window
	name       string
	lastFrame  time.Time
	frameCount int
	fps        float64
}

// NewWindow creates a new preview window
func NewWindow(name string, width, height int) *Window {
	window := gocv.NewWindow(name)
	// Force window to appear on macOS
	window.ResizeWindow(width, height)
	window.MoveWindow(100, 100)
	return &Window{
		window:    window,
		name:      name,
		lastFrame: time.Now(),
	}
}

// Show draws the overlay for v onto frame and displays it
func (w *Window) Show(frame *gocv.Mat, v View) {
	w.frameCount++
	now := time.Now()

	// Calculate FPS every second
	elapsed := now.Sub(w.lastFrame)
	if elapsed >= time.Second {
		w.fps = float64(w.frameCount) / elapsed.Seconds()
		w.frameCount = 0
		w.lastFrame = now
	}

	Draw(frame, v)
	gocv.PutText(frame, fmt.Sprintf("FPS: %.1f", w.fps), image.Pt(10, frame.Rows()-15),
		gocv.FontHersheyPlain, 1.5, green, 2)

	w.window.IMShow(*frame)
}

// Poll waits up to delayMs for a key and maps it to an action
func (w *Window) Poll(delayMs int) Action {
	return KeyAction(w.window.WaitKey(delayMs))
}

// Close closes the window
func (w *Window) Close() error {
	if w.window != nil {
		return w.window.Close()
	}
	return nil
}
