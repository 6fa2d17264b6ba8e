package audio

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/gameaudio/common"
	"github.com/milk9111/gameaudio/tick"
	"github.com/milk9111/gameaudio/voice"
)

// fadeTask ramps a voice's volume linearly over accumulated tick time and
// lands exactly on the target on its final step.
type fadeTask struct {
	voice    voice.Voice
	from     float64
	to       float64
	duration time.Duration
	elapsed  time.Duration
}

func (f *fadeTask) Step(dt time.Duration) bool {
	f.elapsed += dt
	if f.duration <= 0 || f.elapsed >= f.duration {
		f.voice.SetVolume(f.to)
		return true
	}
	t := float64(f.elapsed) / float64(f.duration)
	f.voice.SetVolume(common.Lerp(f.from, f.to, t))
	return false
}

// MusicChannel plays one background track at a time on a dedicated voice.
type MusicChannel struct {
	voice     voice.Voice
	scheduler *tick.Scheduler
	logger    *log.Logger

	fade tick.TaskID
}

func newMusicChannel(v voice.Voice, scheduler *tick.Scheduler, logger *log.Logger) *MusicChannel {
	v.SetLoop(true)
	v.SetVolume(1)
	return &MusicChannel{voice: v, scheduler: scheduler, logger: logger}
}

// PlayLoop replaces whatever is playing with sample at full volume.
func (c *MusicChannel) PlayLoop(sample *voice.Sample, loop bool) error {
	if sample == nil {
		return invalidArgument("music sample is nil")
	}
	c.cancelFade()
	if c.voice.State() != voice.StateIdle {
		c.voice.Stop()
	}
	c.voice.SetLoop(loop)
	c.voice.SetVolume(1)
	if err := c.voice.Play(sample); err != nil {
		return err
	}
	c.logger.Debug("music play", "sample", sample.Name, "loop", loop)
	return nil
}

func (c *MusicChannel) Stop() {
	c.cancelFade()
	if c.voice.State() == voice.StateIdle {
		return
	}
	c.voice.Stop()
}

// SetPaused pauses or resumes the track. Resuming a track that is not paused
// does nothing.
func (c *MusicChannel) SetPaused(paused bool) {
	if paused {
		c.voice.Pause()
		return
	}
	c.voice.Resume()
}

// SetLoop sets whether the next track started by FadeIn loops.
func (c *MusicChannel) SetLoop(loop bool) {
	c.voice.SetLoop(loop)
}

func (c *MusicChannel) IsPlaying() bool {
	return c.voice.IsPlaying()
}

func (c *MusicChannel) Volume() float64 {
	return c.voice.Volume()
}

func (c *MusicChannel) Clip() *voice.Sample {
	return c.voice.Sample()
}

func (c *MusicChannel) Fading() bool {
	return c.fade.Valid() && c.scheduler.Running(c.fade)
}

// FadeIn restarts the channel on sample from silence and ramps to full volume
// over duration. A non-positive duration uses DefaultFadeDuration.
func (c *MusicChannel) FadeIn(sample *voice.Sample, duration time.Duration) error {
	if sample == nil {
		return invalidArgument("music sample is nil")
	}
	if duration <= 0 {
		duration = DefaultFadeDuration
	}
	c.cancelFade()
	if c.voice.State() != voice.StateIdle {
		c.voice.Stop()
	}
	c.voice.SetVolume(0)
	if err := c.voice.Play(sample); err != nil {
		return err
	}
	c.startFade(1, duration)
	c.logger.Debug("music fade in", "sample", sample.Name, "duration", duration)
	return nil
}

// FadeOut ramps the playing track to silence over duration. The voice keeps
// playing at zero volume. Nothing happens when no track is playing.
func (c *MusicChannel) FadeOut(duration time.Duration) {
	if !c.voice.IsPlaying() {
		return
	}
	if duration <= 0 {
		duration = DefaultFadeDuration
	}
	c.startFade(0, duration)
	c.logger.Debug("music fade out", "duration", duration)
}

// startFade replaces any fade in flight.
func (c *MusicChannel) startFade(to float64, duration time.Duration) {
	c.cancelFade()
	c.fade = c.scheduler.Start(&fadeTask{
		voice:    c.voice,
		from:     c.voice.Volume(),
		to:       to,
		duration: duration,
	})
}

func (c *MusicChannel) cancelFade() {
	if c.fade.Valid() {
		c.scheduler.Cancel(c.fade)
		c.fade = 0
	}
}
