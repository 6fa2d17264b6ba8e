package voice

import (
	"bytes"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/gameaudio/common"
)

// GainFunc returns the linear gain currently applied to a bus.
type GainFunc func(bus string) float64

// EbitenFactory creates voices that render through a shared ebiten audio
// context. Pitch is kept as a voice attribute only; ebiten players do not
// resample.
type EbitenFactory struct {
	context *audio.Context
	gain    GainFunc
	voices  []*EbitenVoice
}

func NewEbitenFactory(ctx *audio.Context, gain GainFunc) *EbitenFactory {
	return &EbitenFactory{context: ctx, gain: gain}
}

func (f *EbitenFactory) NewVoice(bus string) (Voice, error) {
	if f == nil || f.context == nil {
		return nil, fmt.Errorf("voice: ebiten factory has no audio context")
	}
	v := &EbitenVoice{
		context: f.context,
		bus:     bus,
		gain:    f.gain,
		volume:  1,
		pitch:   1,
	}
	f.voices = append(f.voices, v)
	return v, nil
}

// Refresh reapplies bus gain to every voice on bus, or to all voices when bus
// is empty.
func (f *EbitenFactory) Refresh(bus string) {
	if f == nil {
		return
	}
	for _, v := range f.voices {
		if bus == "" || v.bus == bus {
			v.Refresh()
		}
	}
}

type EbitenVoice struct {
	context *audio.Context
	bus     string
	gain    GainFunc

	player   *audio.Player
	oneShots []*audio.Player
	sample   *Sample
	paused   bool
	closed   bool

	volume float64
	pitch  float64
	loop   bool
}

func (v *EbitenVoice) Play(sample *Sample) error {
	if v.closed {
		return ErrClosed
	}
	if sample == nil {
		return ErrNilSample
	}
	if len(sample.PCM) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptySample, sample.Name)
	}

	v.stopPlayer()

	var player *audio.Player
	if v.loop {
		stream := audio.NewInfiniteLoop(bytes.NewReader(sample.PCM), int64(len(sample.PCM)))
		p, err := v.context.NewPlayer(stream)
		if err != nil {
			return fmt.Errorf("voice: new player for %q: %w", sample.Name, err)
		}
		player = p
	} else {
		player = v.context.NewPlayerFromBytes(sample.PCM)
	}

	player.SetVolume(v.effectiveVolume())
	player.Play()

	v.player = player
	v.sample = sample
	v.paused = false
	return nil
}

func (v *EbitenVoice) PlayOneShot(sample *Sample) error {
	if v.closed {
		return ErrClosed
	}
	if sample == nil {
		return ErrNilSample
	}
	if len(sample.PCM) == 0 {
		return fmt.Errorf("%w: %q", ErrEmptySample, sample.Name)
	}

	v.pruneOneShots()
	player := v.context.NewPlayerFromBytes(sample.PCM)
	player.SetVolume(v.effectiveVolume())
	player.Play()
	v.oneShots = append(v.oneShots, player)
	return nil
}

func (v *EbitenVoice) Stop() {
	v.stopPlayer()
	for _, p := range v.oneShots {
		p.Pause()
		_ = p.Close()
	}
	v.oneShots = v.oneShots[:0]
}

func (v *EbitenVoice) stopPlayer() {
	if v.player != nil {
		v.player.Pause()
		_ = v.player.Close()
		v.player = nil
	}
	v.paused = false
}

func (v *EbitenVoice) Pause() {
	if v.State() != StatePlaying {
		return
	}
	if v.player != nil {
		v.player.Pause()
	}
	for _, p := range v.oneShots {
		p.Pause()
	}
	v.paused = true
}

func (v *EbitenVoice) Resume() {
	if !v.paused {
		return
	}
	if v.player != nil {
		v.player.Play()
	}
	for _, p := range v.oneShots {
		p.Play()
	}
	v.paused = false
}

func (v *EbitenVoice) Volume() float64 { return v.volume }

func (v *EbitenVoice) SetVolume(volume float64) {
	v.volume = common.Clamp01(volume)
	v.Refresh()
}

func (v *EbitenVoice) Pitch() float64 { return v.pitch }

func (v *EbitenVoice) SetPitch(pitch float64) { v.pitch = pitch }

func (v *EbitenVoice) Loop() bool { return v.loop }

func (v *EbitenVoice) SetLoop(loop bool) { v.loop = loop }

func (v *EbitenVoice) IsPlaying() bool {
	return v.State() == StatePlaying
}

func (v *EbitenVoice) State() State {
	if v.paused {
		return StatePaused
	}
	if v.player != nil && v.player.IsPlaying() {
		return StatePlaying
	}
	for _, p := range v.oneShots {
		if p.IsPlaying() {
			return StatePlaying
		}
	}
	return StateIdle
}

func (v *EbitenVoice) Sample() *Sample { return v.sample }

// Refresh pushes volume times the current bus gain to the live players.
func (v *EbitenVoice) Refresh() {
	vol := v.effectiveVolume()
	if v.player != nil {
		v.player.SetVolume(vol)
	}
	for _, p := range v.oneShots {
		p.SetVolume(vol)
	}
}

func (v *EbitenVoice) Close() error {
	if v.closed {
		return nil
	}
	v.Stop()
	v.closed = true
	return nil
}

func (v *EbitenVoice) effectiveVolume() float64 {
	vol := v.volume
	if v.gain != nil {
		vol *= v.gain(v.bus)
	}
	return common.Clamp01(vol)
}

func (v *EbitenVoice) pruneOneShots() {
	live := v.oneShots[:0]
	for _, p := range v.oneShots {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		_ = p.Close()
	}
	clear(v.oneShots[len(live):])
	v.oneShots = live
}
