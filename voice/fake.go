package voice

import (
	"time"

	"github.com/milk9111/gameaudio/common"
)

// FakeFactory hands out FakeVoices and keeps them in creation order. It is
// used by tests and by headless sessions that have no audio device.
type FakeFactory struct {
	Voices []*FakeVoice

	failNext error
}

func NewFakeFactory() *FakeFactory {
	return &FakeFactory{}
}

func (f *FakeFactory) NewVoice(bus string) (Voice, error) {
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return nil, err
	}
	v := &FakeVoice{bus: bus, volume: 1, pitch: 1}
	f.Voices = append(f.Voices, v)
	return v, nil
}

// FailNext makes the next NewVoice call return err.
func (f *FakeFactory) FailNext(err error) {
	f.failNext = err
}

// Advance moves simulated playback forward on every voice.
func (f *FakeFactory) Advance(dt time.Duration) {
	for _, v := range f.Voices {
		v.Advance(dt)
	}
}

// FakeVoice simulates playback without producing sound. Non-looping playback
// ends once Advance has covered the sample duration; a zero duration plays
// until stopped.
type FakeVoice struct {
	bus string

	state    State
	sample   *Sample
	main     bool
	position time.Duration
	oneShot  time.Duration
	closed   bool

	volume float64
	pitch  float64
	loop   bool

	PlayErr error

	Plays    int
	OneShots int
	Stops    int
	Pauses   int
	Resumes  int
}

func (v *FakeVoice) Bus() string { return v.bus }

func (v *FakeVoice) Play(sample *Sample) error {
	if v.closed {
		return ErrClosed
	}
	if sample == nil {
		return ErrNilSample
	}
	if v.PlayErr != nil {
		return v.PlayErr
	}
	v.sample = sample
	v.main = true
	v.position = 0
	v.state = StatePlaying
	v.Plays++
	return nil
}

func (v *FakeVoice) PlayOneShot(sample *Sample) error {
	if v.closed {
		return ErrClosed
	}
	if sample == nil {
		return ErrNilSample
	}
	if v.PlayErr != nil {
		return v.PlayErr
	}
	if sample.Duration > v.oneShot {
		v.oneShot = sample.Duration
	}
	if v.state == StateIdle {
		v.state = StatePlaying
	}
	v.OneShots++
	return nil
}

func (v *FakeVoice) Stop() {
	v.state = StateIdle
	v.main = false
	v.position = 0
	v.oneShot = 0
	v.Stops++
}

func (v *FakeVoice) Pause() {
	if v.state != StatePlaying {
		return
	}
	v.state = StatePaused
	v.Pauses++
}

func (v *FakeVoice) Resume() {
	if v.state != StatePaused {
		return
	}
	v.state = StatePlaying
	v.Resumes++
}

func (v *FakeVoice) Volume() float64 { return v.volume }

func (v *FakeVoice) SetVolume(volume float64) { v.volume = common.Clamp01(volume) }

func (v *FakeVoice) Pitch() float64 { return v.pitch }

func (v *FakeVoice) SetPitch(pitch float64) { v.pitch = pitch }

func (v *FakeVoice) Loop() bool { return v.loop }

func (v *FakeVoice) SetLoop(loop bool) { v.loop = loop }

func (v *FakeVoice) IsPlaying() bool { return v.state == StatePlaying }

func (v *FakeVoice) State() State { return v.state }

func (v *FakeVoice) Sample() *Sample { return v.sample }

func (v *FakeVoice) Close() error {
	v.state = StateIdle
	v.main = false
	v.closed = true
	return nil
}

func (v *FakeVoice) Closed() bool { return v.closed }

func (v *FakeVoice) Advance(dt time.Duration) {
	if v.state != StatePlaying || dt <= 0 {
		return
	}
	if v.oneShot > 0 {
		v.oneShot -= dt
		if v.oneShot < 0 {
			v.oneShot = 0
		}
	}
	mainDone := !v.main
	if v.main && v.sample != nil && !v.loop && v.sample.Duration > 0 {
		v.position += dt
		mainDone = v.position >= v.sample.Duration
	} else if v.main && v.sample == nil {
		mainDone = true
	}
	if mainDone {
		v.main = false
	}
	if mainDone && v.oneShot == 0 {
		v.state = StateIdle
	}
}
