package main

import (
	"context"

	"github.com/cyclopcam/logs"
	"gocv.io/x/gocv"

	"github.com/dudu/facerig/internal/camera"
	"github.com/dudu/facerig/internal/config"
	"github.com/dudu/facerig/internal/estimator"
	"github.com/dudu/facerig/internal/landmark"
	"github.com/dudu/facerig/internal/pipeline"
	"github.com/dudu/facerig/internal/profile"
	"github.com/dudu/facerig/internal/ui"
)

// Pixels moved per pan key press
const panStep = 10

// preview shows replayed frames in a diagnostics window and lets the user
// record calibration poses from the keyboard
type preview struct {
	log      logs.Log
	cfg      *config.Config
	pipeline *pipeline.Pipeline
	profiles *profile.Store
	backdrop *camera.Backdrop
	window   *ui.Window
	frame    gocv.Mat
	quit     context.CancelFunc
}

func newPreview(log logs.Log, cfg *config.Config, p *pipeline.Pipeline, profiles *profile.Store, opt options, quit context.CancelFunc) (*preview, error) {
	var backdrop *camera.Backdrop
	var err error
	switch {
	case opt.video != "":
		backdrop, err = camera.OpenFile(opt.video)
	case opt.cameraIdx >= 0:
		backdrop, err = camera.OpenDevice(opt.cameraIdx, 1280, 720)
	default:
		backdrop = camera.Blank(1280, 720)
	}
	if err != nil {
		return nil, err
	}
	log.Infof("Preview backdrop %dx%d. Press 'r' to record a pose, 'q' to quit", backdrop.Width(), backdrop.Height())

	return &preview{
		log:      log,
		cfg:      cfg,
		pipeline: p,
		profiles: profiles,
		backdrop: backdrop,
		window:   ui.NewWindow("facerig", backdrop.Width(), backdrop.Height()),
		frame:    gocv.NewMat(),
		quit:     quit,
	}, nil
}

func (v *preview) onFrame(frame *landmark.Frame, params estimator.Params) {
	if !v.backdrop.Read(&v.frame) {
		v.log.Warnf("Backdrop ended, switching to a blank canvas")
		v.backdrop.Close()
		v.backdrop = camera.Blank(1280, 720)
		v.backdrop.Read(&v.frame)
	}

	status := v.pipeline.Calibration()
	v.window.Show(&v.frame, ui.View{
		Frame:       frame,
		Params:      params,
		Calibration: status,
		Instruction: v.cfg.Instruction(status.PoseIndex),
		Profile:     v.profiles.Get(),
		Timing:      v.pipeline.LastTiming(),
	})

	var err error
	switch v.window.Poll(1) {
	case ui.ActionRecordPose:
		// Failures are logged by the pipeline
		v.pipeline.RecordPose()
	case ui.ActionZoomIn:
		_, err = v.profiles.ZoomIn()
	case ui.ActionZoomOut:
		_, err = v.profiles.ZoomOut()
	case ui.ActionPanLeft:
		_, err = v.profiles.Pan(-panStep, 0)
	case ui.ActionPanRight:
		_, err = v.profiles.Pan(panStep, 0)
	case ui.ActionPanUp:
		_, err = v.profiles.Pan(0, -panStep)
	case ui.ActionPanDown:
		_, err = v.profiles.Pan(0, panStep)
	case ui.ActionToggleMove:
		_, err = v.profiles.SetMoveEnabled(!v.profiles.Get().MoveEnabled)
	case ui.ActionQuit:
		v.quit()
	}
	if err != nil {
		v.log.Warnf("Failed to save profile: %v", err)
	}
}

func (v *preview) Close() {
	v.window.Close()
	v.backdrop.Close()
	v.frame.Close()
}
