package server

import (
	"errors"
	"net/http"

	"github.com/cyclopcam/www"
	"github.com/julienschmidt/httprouter"

	"github.com/dudu/facerig/internal/calibration"
	"github.com/dudu/facerig/internal/estimator"
	"github.com/dudu/facerig/internal/features"
	"github.com/dudu/facerig/internal/pipeline"
	"github.com/dudu/facerig/internal/profile"
	"github.com/dudu/facerig/internal/regression"
)

// Output is what the avatar reads each frame
type Output struct {
	Params  estimator.Params `json:"params"`
	Profile profile.Profile  `json:"profile"`
}

type calibrationJSON struct {
	pipeline.CalibrationStatus
	Instruction string `json:"instruction"`
}

type recordPoseJSON struct {
	Index       int                  `json:"index"`
	Trained     bool                 `json:"trained"`
	Models      *regression.ModelSet `json:"models,omitempty"`
	NextPose    int                  `json:"nextPose"`
	Instruction string               `json:"instruction"`
}

type statsJSON struct {
	pipeline.Stats
	ExtractMicros  int64 `json:"extractMicros"`
	EstimateMicros int64 `json:"estimateMicros"`
	TotalMicros    int64 `json:"totalMicros"`

	// Sample is the feature sample of the last processed frame
	Sample *features.Sample `json:"sample,omitempty"`
}

func (s *Server) output() Output {
	return Output{
		Params:  s.pipeline.Params(),
		Profile: s.profiles.Get(),
	}
}

func (s *Server) httpGetParams(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	www.SendJSON(w, s.output())
}

func (s *Server) httpGetStats(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	timing := s.pipeline.LastTiming()
	out := &statsJSON{
		Stats:          s.pipeline.Stats(),
		ExtractMicros:  timing.Extract.Microseconds(),
		EstimateMicros: timing.Estimate.Microseconds(),
		TotalMicros:    timing.Total.Microseconds(),
	}
	if sample, ok := s.pipeline.LastSample(); ok {
		out.Sample = &sample
	}
	www.SendJSON(w, out)
}

func (s *Server) httpGetModels(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	models := s.pipeline.Models()
	www.SendJSON(w, &models)
}

func (s *Server) httpGetCalibration(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	status := s.pipeline.Calibration()
	www.SendJSON(w, &calibrationJSON{
		CalibrationStatus: status,
		Instruction:       s.config.Instruction(status.PoseIndex),
	})
}

func (s *Server) httpRecordPose(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	res, err := s.pipeline.RecordPose()
	if errors.Is(err, pipeline.ErrNoSample) {
		www.PanicBadRequestf("No face has been seen yet")
	}
	www.Check(err)

	next := (res.Index + 1) % calibration.PoseCount
	out := &recordPoseJSON{
		Index:       res.Index,
		Trained:     res.Trained,
		NextPose:    next,
		Instruction: s.config.Instruction(next),
	}
	if res.Trained {
		out.Models = &res.Models
	}
	www.SendJSON(w, out)
}

func (s *Server) httpGetProfile(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	p := s.profiles.Get()
	www.SendJSON(w, &p)
}

func (s *Server) httpSetProfile(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	p := s.profiles.Get()
	www.ReadJSON(w, r, &p, 64*1024)
	saved, err := s.profiles.Set(p)
	www.Check(err)
	www.SendJSON(w, &saved)
}

func (s *Server) httpZoom(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var p profile.Profile
	var err error
	switch params.ByName("dir") {
	case "in":
		p, err = s.profiles.ZoomIn()
	case "out":
		p, err = s.profiles.ZoomOut()
	default:
		www.PanicBadRequestf("Zoom direction must be 'in' or 'out', not '%v'", params.ByName("dir"))
	}
	www.Check(err)
	www.SendJSON(w, &p)
}
