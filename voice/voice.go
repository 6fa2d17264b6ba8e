// Package voice defines the playback channel abstraction the audio manager
// drives, with an ebiten-backed implementation and an in-memory fake.
package voice

import (
	"errors"
	"time"
)

var (
	ErrNilSample   = errors.New("voice: sample is nil")
	ErrEmptySample = errors.New("voice: sample has no pcm data")
	ErrClosed      = errors.New("voice: closed")
)

// Sample is a decoded clip. PCM is 16-bit little-endian stereo at the output
// sample rate; fakes may leave it empty and rely on Duration alone.
type Sample struct {
	Name     string
	PCM      []byte
	Duration time.Duration
}

func (s *Sample) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}

type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// Voice is a single playback channel. A non-looping Play finishes on its own
// and the voice reports StateIdle afterwards.
type Voice interface {
	Play(sample *Sample) error
	PlayOneShot(sample *Sample) error
	Stop()
	Pause()
	Resume()

	Volume() float64
	SetVolume(volume float64)
	Pitch() float64
	SetPitch(pitch float64)
	Loop() bool
	SetLoop(loop bool)

	IsPlaying() bool
	State() State
	Sample() *Sample

	Close() error
}

// Factory allocates voices routed to a mixer bus.
type Factory interface {
	NewVoice(bus string) (Voice, error)
}
