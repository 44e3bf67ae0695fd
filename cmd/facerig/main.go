package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/akamensky/argparse"
	"github.com/cyclopcam/logs"

	"github.com/dudu/facerig/internal/config"
	"github.com/dudu/facerig/internal/estimator"
	"github.com/dudu/facerig/internal/landmark"
	"github.com/dudu/facerig/internal/pipeline"
	"github.com/dudu/facerig/internal/profile"
	"github.com/dudu/facerig/internal/server"
	"github.com/dudu/facerig/internal/source"
)

func init() {
	// Lock the main goroutine to the main OS thread.
	// This is required on macOS for OpenCV's highgui (window creation).
	runtime.LockOSThread()
}

type options struct {
	mode      string
	input     string
	fps       int
	preview   bool
	video     string
	cameraIdx int
}

func main() {
	parser := argparse.NewParser("facerig", "Drive an avatar from face landmarks, with per-user expression calibration")
	configFile := parser.String("c", "config", &argparse.Options{Help: "Configuration file", Default: "facerig.yaml"})
	mode := parser.Selector("m", "mode", []string{"serve", "replay"}, &argparse.Options{Help: "serve: ingest landmarks over websocket. replay: play back a recording", Default: "serve"})
	listen := parser.String("l", "listen", &argparse.Options{Help: "Override the listen address", Default: ""})
	input := parser.String("i", "input", &argparse.Options{Help: "Recorded landmark stream, one JSON message per line (replay mode)", Default: ""})
	fps := parser.Int("", "fps", &argparse.Options{Help: "Replay rate in frames per second (0 for as fast as possible)", Default: 30})
	preview := parser.Flag("p", "preview", &argparse.Options{Help: "Show the diagnostics window (replay mode)", Default: false})
	video := parser.String("", "video", &argparse.Options{Help: "Backdrop video file for the preview", Default: ""})
	cameraIdx := parser.Int("", "camera", &argparse.Options{Help: "Backdrop camera device for the preview (-1 for none)", Default: -1})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	logger, err := logs.NewLog()
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	if *listen != "" {
		cfg.Listen = *listen
	}

	opt := options{
		mode:      *mode,
		input:     *input,
		fps:       *fps,
		preview:   *preview,
		video:     *video,
		cameraIdx: *cameraIdx,
	}
	if err := run(logger, cfg, opt); err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(log logs.Log, cfg *config.Config, opt options) error {
	profiles, err := profile.Open(cfg.ProfilePath)
	if err != nil {
		return err
	}

	p := pipeline.New(pipeline.Config{Models: cfg.Models}, log)

	// Handle signals for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			log.Infof("Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	switch opt.mode {
	case "replay":
		err = replay(ctx, log, cfg, p, profiles, opt)
	default:
		err = serve(ctx, log, cfg, p, profiles)
	}

	stats := p.Stats()
	log.Infof("Frames processed %v, dropped %v, rejected %v", stats.Processed, stats.Dropped, stats.Rejected)
	return err
}

func serve(ctx context.Context, log logs.Log, cfg *config.Config, p *pipeline.Pipeline, profiles *profile.Store) error {
	s := server.New(log, cfg, p, profiles)

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(shutdownCtx)
}

func replay(ctx context.Context, log logs.Log, cfg *config.Config, p *pipeline.Pipeline, profiles *profile.Store, opt options) error {
	if opt.input == "" {
		return fmt.Errorf("--input is required in replay mode")
	}

	var interval time.Duration
	if opt.fps > 0 {
		interval = time.Second / time.Duration(opt.fps)
	}
	src, err := source.OpenReplay(opt.input, interval)
	if err != nil {
		return err
	}
	defer src.Close()
	log.Infof("Replaying %v", opt.input)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var onFrame func(*landmark.Frame, estimator.Params)
	if opt.preview {
		preview, err := newPreview(log, cfg, p, profiles, opt, cancel)
		if err != nil {
			return err
		}
		defer preview.Close()
		onFrame = preview.onFrame
	}

	err = p.Run(runCtx, src, onFrame)
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	models := p.Models()
	log.Infof("Replay finished after %v messages. Calibrated: %v, models %+v", src.Messages(), models.Calibrated, models)
	return err
}
