package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"

	"github.com/dudu/facerig/internal/pipeline"
	"github.com/dudu/facerig/internal/source"
)

// How often we summarize dropped frames for one connection
const dropLogInterval = 5 * time.Second

// httpLandmarkSocket ingests detector messages. Every message that produces
// new parameters is answered with the current Output. Frames that arrive
// while the previous one is still being processed are dropped.
func (s *Server) httpLandmarkSocket(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	c, err := s.wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		s.Log.Errorf("Landmark websocket upgrade failed: %v", err)
		return
	}
	defer c.Close()
	c.SetReadLimit(s.config.MaxMessageBytes)

	s.Log.Infof("Landmark stream connected from %v", r.RemoteAddr)

	var nDropped, nReceived int64
	var lastDropMsg time.Time
	for {
		msgType, msg, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.Log.Warnf("Landmark stream read failed: %v", err)
			}
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}
		nReceived++

		frame, err := source.Decode(msg)
		if errors.Is(err, source.ErrNoFace) {
			continue
		} else if err != nil {
			s.Log.Warnf("Bad landmark message: %v", err)
			continue
		}

		if err := s.pipeline.Process(frame); errors.Is(err, pipeline.ErrBusy) {
			nDropped++
			if now := time.Now(); now.Sub(lastDropMsg) > dropLogInterval {
				s.Log.Debugf("Dropped %v/%v landmark frames", nDropped, nReceived)
				lastDropMsg = now
			}
			continue
		} else if err != nil {
			s.Log.Warnf("Skipping landmark frame: %v", err)
			continue
		}

		if err := c.WriteJSON(s.output()); err != nil {
			s.Log.Warnf("Landmark stream write failed: %v", err)
			break
		}
	}

	s.Log.Infof("Landmark stream from %v closed after %v messages", r.RemoteAddr, nReceived)
}
