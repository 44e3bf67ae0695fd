package ui

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"

	"github.com/dudu/facerig/internal/calibration"
	"github.com/dudu/facerig/internal/estimator"
	"github.com/dudu/facerig/internal/landmark"
	"github.com/dudu/facerig/internal/pipeline"
	"github.com/dudu/facerig/internal/profile"
)

var (
	green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	yellow = color.RGBA{R: 255, G: 220, B: 0, A: 255}
	cyan   = color.RGBA{R: 0, G: 200, B: 255, A: 255}
	white  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// View is everything the overlay shows for one frame
type View struct {
	Frame       *landmark.Frame
	Params      estimator.Params
	Calibration pipeline.CalibrationStatus
	Instruction string
	Profile     profile.Profile
	Timing      pipeline.Timing
}

// project maps a mesh point onto the backdrop using the profile zoom and pan
func project(p landmark.Point, prof profile.Profile) image.Point {
	return image.Pt(int(p.X*prof.Zoom+prof.PanX), int(p.Y*prof.Zoom+prof.PanY))
}

// Draw renders the tracked contours and the status text onto img
func Draw(img *gocv.Mat, v View) {
	if v.Frame != nil {
		box := v.Frame.BoundingBox
		gocv.Rectangle(img, image.Rectangle{
			Min: project(box.TopLeft, v.Profile),
			Max: project(box.BottomRight, v.Profile),
		}, cyan, 1)

		drawContour(img, v.Frame.Points(landmark.LeftEyeIndices), v.Profile, green)
		drawContour(img, v.Frame.Points(landmark.RightEyeIndices), v.Profile, green)
		drawContour(img, v.Frame.Points(landmark.MouthIndices), v.Profile, yellow)
		if landmark.NoseTip < len(v.Frame.Mesh) {
			gocv.Circle(img, project(v.Frame.Mesh[landmark.NoseTip], v.Profile), 4, cyan, -1)
		}
	}

	for i, line := range statusLines(v) {
		gocv.PutText(img, line, image.Pt(10, 25+i*22), gocv.FontHersheyPlain, 1.4, white, 2)
	}
}

func drawContour(img *gocv.Mat, points []landmark.Point, prof profile.Profile, c color.RGBA) {
	for _, p := range points {
		gocv.Circle(img, project(p, prof), 2, c, -1)
	}
}

func statusLines(v View) []string {
	models := "cold start"
	if v.Calibration.Calibrated {
		models = fmt.Sprintf("calibrated (%d)", v.Calibration.Batches)
	}
	face := "no face"
	if v.Frame != nil {
		face = fmt.Sprintf("%.0fx%.0f", v.Frame.BoundingBox.Width(), v.Frame.BoundingBox.Height())
	}
	move := "off"
	if v.Profile.MoveEnabled {
		move = "on"
	}
	return []string{
		fmt.Sprintf("Eyes L:%.2f R:%.2f  Mouth:%.2f", v.Params.EyeLeftOpen, v.Params.EyeRightOpen, v.Params.MouthOpen),
		fmt.Sprintf("Head x:%.3f y:%.3f  Move:%s  Zoom:%.1f", v.Params.XNormal, v.Params.YNormal, move, v.Profile.Zoom),
		fmt.Sprintf("Models: %s", models),
		fmt.Sprintf("Pose %d/%d: %s", v.Calibration.PoseIndex+1, calibration.PoseCount, v.Instruction),
		fmt.Sprintf("Face %s  E:%dus T:%dus", face, v.Timing.Estimate.Microseconds(), v.Timing.Total.Microseconds()),
		"[r] record pose  [+/-] zoom  [wasd] pan  [m] move  [q] quit",
	}
}
