package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cyclopcam/logs"

	"github.com/dudu/facerig/internal/calibration"
	"github.com/dudu/facerig/internal/estimator"
	"github.com/dudu/facerig/internal/features"
	"github.com/dudu/facerig/internal/landmark"
	"github.com/dudu/facerig/internal/regression"
)

var (
	// ErrBusy is returned when a frame arrives while another is in flight.
	// The frame is dropped.
	ErrBusy = errors.New("pipeline busy, frame dropped")

	// ErrNoSample is returned by RecordPose before any frame was processed
	ErrNoSample = errors.New("no face seen yet")
)

// Config holds pipeline configuration
type Config struct {
	// Models are the cold-start constants
	Models regression.ModelSet
}

// Timing holds performance timing information
type Timing struct {
	Extract  time.Duration
	Estimate time.Duration
	Total    time.Duration
}

// Stats counts frames seen by the pipeline
type Stats struct {
	Processed uint64 `json:"processed"`
	Dropped   uint64 `json:"dropped"`
	Rejected  uint64 `json:"rejected"`
}

// CalibrationStatus is a snapshot of the calibration session
type CalibrationStatus struct {
	PoseIndex  int    `json:"poseIndex"`
	State      string `json:"state"`
	Batches    int    `json:"batches"`
	Calibrated bool   `json:"calibrated"`
}

// Pipeline runs landmark frames through feature extraction and parameter
// estimation, and drives calibration. One frame is processed at a time.
type Pipeline struct {
	log       logs.Log
	mu        sync.Mutex
	store     *regression.Store
	estimator *estimator.Estimator
	session   *calibration.Session

	lastSample features.Sample
	hasSample  bool
	params     estimator.Params
	lastTiming Timing

	processed atomic.Uint64
	dropped   atomic.Uint64
	rejected  atomic.Uint64
}

// New creates a new pipeline
func New(config Config, log logs.Log) *Pipeline {
	store := regression.NewStore(config.Models)
	return &Pipeline{
		log:       log,
		store:     store,
		estimator: estimator.New(store),
		session:   calibration.NewSession(store),
	}
}

// Process runs one frame. If another frame is being processed the call
// returns ErrBusy immediately.
func (p *Pipeline) Process(frame *landmark.Frame) error {
	if !p.mu.TryLock() {
		p.dropped.Add(1)
		return ErrBusy
	}
	defer p.mu.Unlock()
	return p.process(frame)
}

func (p *Pipeline) process(frame *landmark.Frame) error {
	totalStart := time.Now()
	var timing Timing

	extractStart := time.Now()
	sample, err := features.Extract(frame)
	timing.Extract = time.Since(extractStart)
	if err != nil {
		p.rejected.Add(1)
		return fmt.Errorf("feature extraction failed: %w", err)
	}

	estimateStart := time.Now()
	params := p.estimator.Estimate(sample)
	timing.Estimate = time.Since(estimateStart)

	p.lastSample = sample
	p.hasSample = true
	p.params = params

	timing.Total = time.Since(totalStart)
	p.lastTiming = timing
	p.processed.Add(1)
	return nil
}

// Run pulls frames from src until it is exhausted or ctx is done.
// Frames the extractor rejects are logged and skipped.
func (p *Pipeline) Run(ctx context.Context, src LandmarkSource, onFrame func(*landmark.Frame, estimator.Params)) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		} else if err != nil {
			return fmt.Errorf("failed to read landmark frame: %w", err)
		}

		p.mu.Lock()
		err = p.process(frame)
		params := p.params
		p.mu.Unlock()

		if err != nil {
			p.log.Warnf("Skipping frame: %v", err)
			continue
		}
		if onFrame != nil {
			onFrame(frame, params)
		}
	}
}

// Params returns the parameters of the last processed frame
func (p *Pipeline) Params() estimator.Params {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// LastSample returns the features of the last processed frame
func (p *Pipeline) LastSample() (features.Sample, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSample, p.hasSample
}

// RecordPose records the most recent face as the current calibration pose.
// The fourth pose of a batch retrains the models.
func (p *Pipeline) RecordPose() (calibration.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.hasSample {
		p.log.Warnf("Cannot record calibration pose %d: %v", p.session.CurrentPoseIndex()+1, ErrNoSample)
		return calibration.Result{}, ErrNoSample
	}

	res, err := p.session.RecordPose(p.lastSample)
	if err != nil {
		p.log.Warnf("Calibration batch discarded, keeping previous models: %v", err)
		return res, err
	}

	p.log.Infof("Recorded calibration pose %d/%d", res.Index+1, calibration.PoseCount)
	if res.Trained {
		m := res.Models
		p.log.Infof("Expression models trained: left eye %+v, right eye %+v, mouth %+v", m.LeftEye, m.RightEye, m.Mouth)
	}
	return res, nil
}

// CurrentPoseIndex returns the protocol step the next RecordPose fills
func (p *Pipeline) CurrentPoseIndex() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session.CurrentPoseIndex()
}

// Calibration returns a snapshot of the calibration session
func (p *Pipeline) Calibration() CalibrationStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return CalibrationStatus{
		PoseIndex:  p.session.CurrentPoseIndex(),
		State:      p.session.State().String(),
		Batches:    p.session.Batches(),
		Calibrated: p.store.Load().Calibrated,
	}
}

// Models returns the model set currently in use
func (p *Pipeline) Models() regression.ModelSet {
	return p.store.Load()
}

// LastTiming returns timing from last Process call
func (p *Pipeline) LastTiming() Timing {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastTiming
}

// Stats returns frame counters
func (p *Pipeline) Stats() Stats {
	return Stats{
		Processed: p.processed.Load(),
		Dropped:   p.dropped.Load(),
		Rejected:  p.rejected.Load(),
	}
}
