package source

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/dudu/facerig/internal/landmark"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrNoFace is returned for a message that carries no detected face
var ErrNoFace = errors.New("no face in message")

// Message is one detector result. A detector either sends a single face at
// the top level, or every detected face under "faces".
type Message struct {
	Faces []landmark.Frame `json:"faces"`
	landmark.Frame
}

// FirstFace returns the face the rig follows: the first of Faces, or the
// top level face when Faces is absent.
func (m *Message) FirstFace() (*landmark.Frame, error) {
	if len(m.Faces) != 0 {
		return &m.Faces[0], nil
	}
	if len(m.Mesh) != 0 {
		return &m.Frame, nil
	}
	return nil, ErrNoFace
}

// Decode parses one detector message and returns its first face
func Decode(data []byte) (*landmark.Frame, error) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("failed to decode landmark message: %w", err)
	}
	return msg.FirstFace()
}
