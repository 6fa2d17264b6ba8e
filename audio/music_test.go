package audio

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/milk9111/gameaudio/voice"
)

func musicVoice(h *harness) *voice.FakeVoice {
	return h.voices.Voices[len(h.voices.Voices)-1]
}

func TestMusicPlayLoop(t *testing.T) {
	h := newHarness(t, 0)
	mc := h.m.Music()

	if err := mc.PlayLoop(sample("theme", 0), true); err != nil {
		t.Fatalf("PlayLoop: %v", err)
	}
	v := musicVoice(h)
	if !mc.IsPlaying() || !v.Loop() || mc.Volume() != 1 {
		t.Fatalf("unexpected music state playing=%v loop=%v volume=%v", mc.IsPlaying(), v.Loop(), mc.Volume())
	}

	if err := mc.PlayLoop(sample("boss", 0), false); err != nil {
		t.Fatalf("PlayLoop: %v", err)
	}
	if mc.Clip().Name != "boss" || v.Loop() {
		t.Fatalf("second PlayLoop should replace the track, got %q loop=%v", mc.Clip().Name, v.Loop())
	}
	if v.Stops != 1 {
		t.Fatalf("previous track should be stopped once, got %d", v.Stops)
	}

	if err := mc.PlayLoop(nil, true); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestMusicStopIsIdempotent(t *testing.T) {
	h := newHarness(t, 0)
	mc := h.m.Music()
	mc.Stop()
	if musicVoice(h).Stops != 0 {
		t.Fatalf("stopping silence should not touch the voice")
	}

	if err := mc.PlayLoop(sample("theme", 0), true); err != nil {
		t.Fatalf("PlayLoop: %v", err)
	}
	mc.Stop()
	mc.Stop()
	if mc.IsPlaying() || musicVoice(h).Stops != 1 {
		t.Fatalf("expected one stop, got %d", musicVoice(h).Stops)
	}
}

func TestMusicSetPaused(t *testing.T) {
	h := newHarness(t, 0)
	mc := h.m.Music()
	v := musicVoice(h)

	mc.SetPaused(false)
	if v.Resumes != 0 {
		t.Fatalf("resuming an idle channel should do nothing")
	}

	if err := mc.PlayLoop(sample("theme", 0), true); err != nil {
		t.Fatalf("PlayLoop: %v", err)
	}
	mc.SetPaused(true)
	if mc.IsPlaying() || v.State() != voice.StatePaused {
		t.Fatalf("expected paused, got %v", v.State())
	}
	mc.SetPaused(false)
	mc.SetPaused(false)
	if !mc.IsPlaying() || v.Resumes != 1 {
		t.Fatalf("expected one resume, got %d", v.Resumes)
	}

	mc.SetPaused(true)
	mc.Stop()
	if v.State() != voice.StateIdle {
		t.Fatalf("stop should end a paused track")
	}
}

func TestMusicFadeIn(t *testing.T) {
	h := newHarness(t, 0)
	mc := h.m.Music()

	if err := mc.FadeIn(sample("theme", 0), 500*time.Millisecond); err != nil {
		t.Fatalf("FadeIn: %v", err)
	}
	if mc.Volume() != 0 || !mc.IsPlaying() || !mc.Fading() {
		t.Fatalf("fade in should start silent and playing, volume=%v", mc.Volume())
	}

	steps := []struct {
		dt   time.Duration
		want float64
	}{
		{125 * time.Millisecond, 0.25},
		{125 * time.Millisecond, 0.5},
		{125 * time.Millisecond, 0.75},
		{200 * time.Millisecond, 1},
		{100 * time.Millisecond, 1},
	}
	for i, s := range steps {
		h.tick(s.dt)
		if math.Abs(mc.Volume()-s.want) > 1e-9 {
			t.Fatalf("step %d: expected volume %v, got %v", i, s.want, mc.Volume())
		}
	}
	if mc.Volume() != 1 {
		t.Fatalf("fade should land exactly on 1, got %v", mc.Volume())
	}
	if mc.Fading() {
		t.Fatalf("fade should be finished")
	}
}

func TestMusicFadeInDefaultDuration(t *testing.T) {
	h := newHarness(t, 0)
	mc := h.m.Music()
	if err := mc.FadeIn(sample("theme", 0), 0); err != nil {
		t.Fatalf("FadeIn: %v", err)
	}
	h.tick(DefaultFadeDuration / 2)
	if math.Abs(mc.Volume()-0.5) > 1e-9 {
		t.Fatalf("expected half volume at half the default fade, got %v", mc.Volume())
	}
	h.tick(DefaultFadeDuration / 2)
	if mc.Volume() != 1 {
		t.Fatalf("expected full volume, got %v", mc.Volume())
	}
}

func TestMusicFadeOutKeepsVoicePlaying(t *testing.T) {
	h := newHarness(t, 0)
	mc := h.m.Music()
	if err := mc.PlayLoop(sample("theme", 0), true); err != nil {
		t.Fatalf("PlayLoop: %v", err)
	}

	mc.FadeOut(time.Second)
	h.tick(500 * time.Millisecond)
	if math.Abs(mc.Volume()-0.5) > 1e-9 {
		t.Fatalf("expected 0.5 halfway through, got %v", mc.Volume())
	}
	h.tick(500 * time.Millisecond)
	if mc.Volume() != 0 {
		t.Fatalf("fade out should land exactly on 0, got %v", mc.Volume())
	}
	if !mc.IsPlaying() {
		t.Fatalf("fade out must not stop the voice")
	}
}

func TestMusicFadeOutWhenSilent(t *testing.T) {
	h := newHarness(t, 0)
	h.m.Music().FadeOut(time.Second)
	if h.sched.Len() != 0 || h.m.Music().Fading() {
		t.Fatalf("fade out with nothing playing should not schedule a fade")
	}
}

func TestMusicFadeReplacesFadeInFlight(t *testing.T) {
	h := newHarness(t, 0)
	mc := h.m.Music()
	if err := mc.FadeIn(sample("theme", 0), 500*time.Millisecond); err != nil {
		t.Fatalf("FadeIn: %v", err)
	}
	h.tick(250 * time.Millisecond)

	mc.FadeOut(time.Second)
	if h.sched.Len() != 1 {
		t.Fatalf("expected a single fade in flight, got %d", h.sched.Len())
	}

	h.tick(500 * time.Millisecond)
	if math.Abs(mc.Volume()-0.25) > 1e-9 {
		t.Fatalf("fade out should start from the current volume, got %v", mc.Volume())
	}
	h.tick(500 * time.Millisecond)
	if mc.Volume() != 0 {
		t.Fatalf("expected silence, got %v", mc.Volume())
	}
	h.tick(time.Second)
	if mc.Volume() != 0 {
		t.Fatalf("cancelled fade in must not raise the volume, got %v", mc.Volume())
	}
}

func TestMusicPlayLoopCancelsFade(t *testing.T) {
	h := newHarness(t, 0)
	mc := h.m.Music()
	if err := mc.PlayLoop(sample("theme", 0), true); err != nil {
		t.Fatalf("PlayLoop: %v", err)
	}
	mc.FadeOut(time.Second)
	h.tick(500 * time.Millisecond)

	if err := mc.PlayLoop(sample("next", 0), true); err != nil {
		t.Fatalf("PlayLoop: %v", err)
	}
	h.tick(time.Second)
	if mc.Volume() != 1 || mc.Fading() {
		t.Fatalf("new track should play at full volume, got %v", mc.Volume())
	}
}

func TestMusicFadeContinuesWhilePaused(t *testing.T) {
	h := newHarness(t, 0)
	mc := h.m.Music()
	if err := mc.FadeIn(sample("theme", 0), 500*time.Millisecond); err != nil {
		t.Fatalf("FadeIn: %v", err)
	}
	mc.SetPaused(true)
	h.tick(500 * time.Millisecond)
	if mc.Volume() != 1 {
		t.Fatalf("fade should complete while paused, got %v", mc.Volume())
	}
	mc.SetPaused(false)
	if !mc.IsPlaying() {
		t.Fatalf("track should resume")
	}
}
