package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/cyclopcam/logs"
	"github.com/cyclopcam/www"
	"github.com/go-chi/httprate"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/dudu/facerig/internal/config"
	"github.com/dudu/facerig/internal/pipeline"
	"github.com/dudu/facerig/internal/profile"
)

// Server is the HTTP host of the rig. The browser-side detector streams
// landmarks over a websocket, and the UI drives calibration and reads
// parameters over a small JSON API.
type Server struct {
	Log logs.Log

	config     *config.Config
	pipeline   *pipeline.Pipeline
	profiles   *profile.Store
	wsUpgrader websocket.Upgrader
	router     *httprouter.Router
	httpServer *http.Server
}

// New creates a server and registers its routes
func New(log logs.Log, cfg *config.Config, pipe *pipeline.Pipeline, profiles *profile.Store) *Server {
	s := &Server{
		Log:      log,
		config:   cfg,
		pipeline: pipe,
		profiles: profiles,
		wsUpgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 4 * 1024,
			// The detector page is served from a different origin during development
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	s.setupHttpRoutes()
	return s
}

func (s *Server) setupHttpRoutes() {
	router := httprouter.New()

	handle := func(method, route string, handle httprouter.Handle) {
		www.Handle(s.Log, router, method, route, handle)
	}

	// One limiter per endpoint, keyed by client IP
	ratelimited := func(method, route string, handle httprouter.Handle, requestLimit int, windowLength time.Duration) {
		limited := httprate.Limit(requestLimit, windowLength, httprate.WithKeyFuncs(httprate.KeyByIP))
		www.Handle(s.Log, router, method, route, func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
			limited(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				handle(w, r, params)
			})).ServeHTTP(w, r)
		})
	}

	handle("GET", "/api/params", s.httpGetParams)
	handle("GET", "/api/stats", s.httpGetStats)
	handle("GET", "/api/models", s.httpGetModels)
	handle("GET", "/api/calibration", s.httpGetCalibration)
	ratelimited("POST", "/api/calibration/pose", s.httpRecordPose, s.config.RecordLimit, s.config.RecordWindow)
	handle("GET", "/api/profile", s.httpGetProfile)
	handle("PUT", "/api/profile", s.httpSetProfile)
	handle("POST", "/api/profile/zoom/:dir", s.httpZoom)
	handle("GET", "/ws/landmarks", s.httpLandmarkSocket)

	s.router = router
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server is shut down
func (s *Server) ListenAndServe() error {
	s.Log.Infof("Listening on %v", s.config.Listen)
	s.httpServer = &http.Server{
		Addr:    s.config.Listen,
		Handler: s.router,
	}
	err := s.httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
