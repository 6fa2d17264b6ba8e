package audio

import (
	"fmt"
	"time"

	"github.com/milk9111/gameaudio/common"
	"github.com/milk9111/gameaudio/cue"
	"github.com/milk9111/gameaudio/tick"
	"github.com/milk9111/gameaudio/voice"
)

// Play starts sample on the primary voice if it is idle, otherwise on the
// first idle pooled voice, growing the pool by one when none is idle. Volume
// is clamped to [0, 1] and pitch to [0, cue.MaxPitch]. While PauseAll(true)
// is in effect the sound starts paused and resumes with the rest.
func (m *Manager) Play(sample *voice.Sample, volume, pitch float64, loop bool) (StopHandle, error) {
	if m.closed {
		return 0, ErrClosed
	}
	if sample == nil {
		return 0, invalidArgument("sample is nil")
	}

	slot, grew, err := m.pool.acquire()
	if err != nil {
		m.logger.Error("sfx voice allocation failed", "sample", sample.Name, "err", err)
		return 0, err
	}
	if grew {
		m.logger.Debug("sfx pool grew", "size", m.pool.Size())
	}
	m.clearTimer(slot)

	v := m.pool.slots[slot].voice
	v.SetLoop(loop)
	v.SetVolume(common.Clamp01(volume))
	v.SetPitch(common.Clamp(pitch, 0, cue.MaxPitch))
	if err := v.Play(sample); err != nil {
		return 0, fmt.Errorf("audio: play %q: %w", sample.Name, err)
	}
	if m.sfxPaused {
		v.Pause()
	}

	h := m.pool.assign(slot)
	m.logger.Debug("sfx play", "sample", sample.Name, "handle", h, "loop", loop)
	return h, nil
}

// PlayOneShot layers sample on the primary voice without issuing a handle.
func (m *Manager) PlayOneShot(sample *voice.Sample, volume float64) error {
	if m.closed {
		return ErrClosed
	}
	if sample == nil {
		return invalidArgument("sample is nil")
	}
	v := m.pool.Primary()
	if v.State() == voice.StateIdle {
		v.SetVolume(common.Clamp01(volume))
	}
	if err := v.PlayOneShot(sample); err != nil {
		return fmt.Errorf("audio: play one shot %q: %w", sample.Name, err)
	}
	if m.sfxPaused {
		v.Pause()
	}
	return nil
}

// NewCue builds a cue, reporting an empty sample set or a bad range as
// ErrInvalidArgument.
func NewCue(name string, samples []*voice.Sample, pitch, volume cue.Range) (*cue.Cue, error) {
	c, err := cue.New(name, samples, pitch, volume)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return c, nil
}

// PlayCue draws a sample, pitch and volume from c and plays them.
func (m *Manager) PlayCue(c *cue.Cue, loop bool) (StopHandle, error) {
	if c == nil {
		return 0, invalidArgument("cue is nil")
	}
	sample, pitch, volume := c.Draw(m.rng)
	return m.Play(sample, volume, pitch, loop)
}

// PlayCueOneShot layers a draw from c on the primary voice. The drawn pitch
// is dropped since the layer shares the primary voice's pitch.
func (m *Manager) PlayCueOneShot(c *cue.Cue) error {
	if c == nil {
		return invalidArgument("cue is nil")
	}
	sample, _, volume := c.Draw(m.rng)
	return m.PlayOneShot(sample, volume)
}

// PlayForDuration loops sample and stops it once duration of tick time has
// passed. The returned handle stops it early.
func (m *Manager) PlayForDuration(sample *voice.Sample, duration time.Duration, volume, pitch float64) (StopHandle, error) {
	h, err := m.Play(sample, volume, pitch, true)
	if err != nil {
		return 0, err
	}
	m.pool.slots[h.slot()].timer = m.scheduler.Start(tick.After(duration, func() {
		m.expire(h)
	}))
	return h, nil
}

func (m *Manager) PlayCueForDuration(c *cue.Cue, duration time.Duration) (StopHandle, error) {
	if c == nil {
		return 0, invalidArgument("cue is nil")
	}
	sample, pitch, volume := c.Draw(m.rng)
	return m.PlayForDuration(sample, duration, volume, pitch)
}

// Stop halts the voice h was issued for. It reports false, and does nothing,
// when h has already been stopped or its voice has been reused since.
func (m *Manager) Stop(h StopHandle) bool {
	slot, ok := m.pool.lookup(h)
	if !ok {
		if h.Valid() {
			m.logger.Debug("stale sfx handle", "handle", h)
		}
		return false
	}
	m.clearTimer(slot)
	m.pool.slots[slot].voice.Stop()
	m.pool.retire(slot)
	return true
}

// IsPlaying reports whether h still owns its voice and the voice is playing.
func (m *Manager) IsPlaying(h StopHandle) bool {
	slot, ok := m.pool.lookup(h)
	if !ok {
		return false
	}
	return m.pool.slots[slot].voice.IsPlaying()
}

// PauseAll pauses or resumes the primary voice and every pooled voice.
func (m *Manager) PauseAll(paused bool) {
	m.sfxPaused = paused
	for _, s := range m.pool.slots {
		if paused {
			s.voice.Pause()
		} else {
			s.voice.Resume()
		}
	}
}

func (m *Manager) Paused() bool { return m.sfxPaused }

// StopAll stops every sound-effect voice, cancels timed playback and
// invalidates every outstanding handle.
func (m *Manager) StopAll() {
	for slot := range m.pool.slots {
		m.clearTimer(slot)
		m.pool.slots[slot].voice.Stop()
		m.pool.retire(slot)
	}
	m.sfxPaused = false
}

// expire is the timer callback for PlayForDuration.
func (m *Manager) expire(h StopHandle) {
	slot, ok := m.pool.lookup(h)
	if !ok {
		return
	}
	m.pool.slots[slot].timer = 0
	m.pool.slots[slot].voice.Stop()
	m.pool.retire(slot)
	m.logger.Debug("sfx timed stop", "handle", h)
}

func (m *Manager) clearTimer(slot int) {
	s := &m.pool.slots[slot]
	if s.timer.Valid() {
		m.scheduler.Cancel(s.timer)
		s.timer = 0
	}
}
