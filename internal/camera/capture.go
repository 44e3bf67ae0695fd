package camera

import (
	"fmt"
	"sync"

	"gocv.io/x/gocv"
)

// Backdrop supplies the image the diagnostics overlay is drawn on: a webcam,
// a looping video file, or a blank canvas when neither is configured.
type Backdrop struct {
	capture *gocv.VideoCapture
	looping bool
	width   int
	height  int
	mu      sync.Mutex
}

// OpenDevice opens a webcam at the requested resolution
func OpenDevice(deviceID int, width, height int) (*Backdrop, error) {
	capture, err := gocv.OpenVideoCapture(deviceID)
	if err != nil {
		return nil, fmt.Errorf("failed to open camera %d: %w", deviceID, err)
	}

	capture.Set(gocv.VideoCaptureFrameWidth, float64(width))
	capture.Set(gocv.VideoCaptureFrameHeight, float64(height))

	// The camera may not support the requested resolution
	return &Backdrop{
		capture: capture,
		width:   int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:  int(capture.Get(gocv.VideoCaptureFrameHeight)),
	}, nil
}

// OpenFile opens a video file that restarts when it reaches the end
func OpenFile(path string) (*Backdrop, error) {
	capture, err := gocv.VideoCaptureFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open video %s: %w", path, err)
	}
	if !capture.IsOpened() {
		capture.Close()
		return nil, fmt.Errorf("failed to open video %s", path)
	}
	return &Backdrop{
		capture: capture,
		looping: true,
		width:   int(capture.Get(gocv.VideoCaptureFrameWidth)),
		height:  int(capture.Get(gocv.VideoCaptureFrameHeight)),
	}, nil
}

// Blank returns a backdrop that always yields a dark canvas
func Blank(width, height int) *Backdrop {
	return &Backdrop{width: width, height: height}
}

// Read fills frame with the next backdrop image
func (b *Backdrop) Read(frame *gocv.Mat) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.capture == nil {
		b.blank(frame)
		return true
	}

	if b.capture.Read(frame) && !frame.Empty() {
		return true
	}
	if !b.looping {
		return false
	}
	b.capture.Set(gocv.VideoCapturePosFrames, 0)
	return b.capture.Read(frame) && !frame.Empty()
}

func (b *Backdrop) blank(frame *gocv.Mat) {
	if frame.Empty() || frame.Cols() != b.width || frame.Rows() != b.height {
		frame.Close()
		*frame = gocv.NewMatWithSize(b.height, b.width, gocv.MatTypeCV8UC3)
	}
	frame.SetTo(gocv.NewScalar(24, 24, 24, 0))
}

// Width returns frame width
func (b *Backdrop) Width() int {
	return b.width
}

// Height returns frame height
func (b *Backdrop) Height() int {
	return b.height
}

// Close releases the capture device
func (b *Backdrop) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.capture != nil {
		err := b.capture.Close()
		b.capture = nil
		return err
	}
	return nil
}

