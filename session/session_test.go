package session

import (
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/milk9111/gameaudio/audio"
	"github.com/milk9111/gameaudio/config"
	"github.com/milk9111/gameaudio/voice"
)

func fakeLoader(loads map[string]int) func(string) (*voice.Sample, error) {
	return func(path string) (*voice.Sample, error) {
		if loads != nil {
			loads[path]++
		}
		return &voice.Sample{Name: path, Duration: 100 * time.Millisecond}, nil
	}
}

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Audio.InitialPoolSize = 2
	// An empty directory falls through to the embedded default bank.
	cfg.Cues.Dir = t.TempDir()
	return cfg
}

func newTestSession(t *testing.T, cfg config.Config) (*Session, *voice.FakeFactory) {
	t.Helper()
	f := voice.NewFakeFactory()
	s, err := New(cfg,
		WithFactory(f),
		WithLogger(log.New(io.Discard)),
		WithRand(rand.New(rand.NewPCG(3, 4))),
		WithSampleLoader(fakeLoader(nil)),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, f
}

func TestNewLoadsDefaultBank(t *testing.T) {
	loads := map[string]int{}
	s, err := New(testConfig(t), WithFactory(voice.NewFakeFactory()), WithLogger(log.New(io.Discard)), WithSampleLoader(fakeLoader(loads)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	for _, name := range []string{"blip", "hit", "hum"} {
		if _, ok := s.Bank().Cue(name); !ok {
			t.Fatalf("default bank missing cue %q", name)
		}
	}
	if _, ok := s.Bank().Track("theme"); !ok {
		t.Fatalf("default bank missing theme track")
	}
	for path, n := range loads {
		if n != 1 {
			t.Fatalf("sample %q loaded %d times", path, n)
		}
	}
	if s.Audio().PoolSize() != 2 {
		t.Fatalf("expected pool size 2, got %d", s.Audio().PoolSize())
	}
}

func TestNewRejectsBadBank(t *testing.T) {
	cases := []struct {
		name   string
		bank   string
		loader func(string) (*voice.Sample, error)
	}{
		{"missing_bank", "nope.yaml", fakeLoader(nil)},
		{"loader_error", "default.yaml", func(string) (*voice.Sample, error) { return nil, errors.New("decode failed") }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.Cues.Bank = tc.bank
			f := voice.NewFakeFactory()
			_, err := New(cfg, WithFactory(f), WithLogger(log.New(io.Discard)), WithSampleLoader(tc.loader))
			if !errors.Is(err, audio.ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			for i, v := range f.Voices {
				if !v.Closed() {
					t.Fatalf("voice %d leaked after failed New", i)
				}
			}
		})
	}
}

func TestPlayCue(t *testing.T) {
	s, _ := newTestSession(t, testConfig(t))

	h, err := s.PlayCue("blip")
	if err != nil {
		t.Fatalf("PlayCue: %v", err)
	}
	if !h.Primary() || !s.Audio().IsPlaying(h) {
		t.Fatalf("expected blip on the primary voice, got %v", h)
	}

	_, err = s.PlayCue("nope")
	if !errors.Is(err, ErrUnknownCue) || !errors.Is(err, audio.ErrInvalidArgument) {
		t.Fatalf("expected unknown cue error, got %v", err)
	}
}

func TestClickCueLayersOnPrimary(t *testing.T) {
	s, f := newTestSession(t, testConfig(t))

	if err := s.ClickCue("hit"); err != nil {
		t.Fatalf("ClickCue: %v", err)
	}
	primary := f.Voices[0]
	if primary.OneShots != 1 || !primary.IsPlaying() {
		t.Fatalf("expected a one shot on the primary voice, got %d", primary.OneShots)
	}

	f.Advance(200 * time.Millisecond)
	h, err := s.PlayCue("blip")
	if err != nil {
		t.Fatalf("PlayCue: %v", err)
	}
	if !h.Primary() {
		t.Fatalf("primary should be free once the one shot ends, got %v", h)
	}

	if err := s.ClickCue("nope"); !errors.Is(err, ErrUnknownCue) {
		t.Fatalf("expected unknown cue error, got %v", err)
	}
}

func TestLoopAndTimedCues(t *testing.T) {
	s, f := newTestSession(t, testConfig(t))

	loop, err := s.LoopCue("hum")
	if err != nil {
		t.Fatalf("LoopCue: %v", err)
	}
	timed, err := s.PlayCueFor("hit", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("PlayCueFor: %v", err)
	}

	for i := 0; i < 10; i++ {
		f.Advance(16 * time.Millisecond)
		s.Update(16 * time.Millisecond)
	}
	if !s.Audio().IsPlaying(loop) {
		t.Fatalf("looping cue should keep playing")
	}
	if s.Audio().IsPlaying(timed) {
		t.Fatalf("timed cue should have stopped")
	}
	if !s.StopSound(loop) || s.StopSound(loop) {
		t.Fatalf("stop should succeed once")
	}
}

func TestPlayMusic(t *testing.T) {
	s, _ := newTestSession(t, testConfig(t))
	music := s.Audio().Music()

	if err := s.PlayMusic("theme", 0); err != nil {
		t.Fatalf("PlayMusic: %v", err)
	}
	if !music.IsPlaying() || music.Volume() != 1 {
		t.Fatalf("expected theme at full volume")
	}

	if err := s.PlayMusic("theme", 200*time.Millisecond); err != nil {
		t.Fatalf("PlayMusic fade: %v", err)
	}
	s.Update(100 * time.Millisecond)
	if math.Abs(music.Volume()-0.5) > 1e-9 {
		t.Fatalf("expected half volume mid fade, got %v", music.Volume())
	}
	s.Update(100 * time.Millisecond)
	if music.Volume() != 1 {
		t.Fatalf("expected full volume, got %v", music.Volume())
	}

	s.FadeOutMusic(100 * time.Millisecond)
	s.Update(100 * time.Millisecond)
	if music.Volume() != 0 || !music.IsPlaying() {
		t.Fatalf("fade out should leave a silent playing voice")
	}

	if err := s.PlayMusic("boss", 0); !errors.Is(err, ErrUnknownTrack) {
		t.Fatalf("expected ErrUnknownTrack, got %v", err)
	}
}

func TestBusGains(t *testing.T) {
	s, _ := newTestSession(t, testConfig(t))

	if err := s.SetBusGain(audio.BusSFX, 0.5); err != nil {
		t.Fatalf("SetBusGain: %v", err)
	}
	if err := s.SetBusGain(audio.BusMaster, 0.5); err != nil {
		t.Fatalf("SetBusGain: %v", err)
	}
	s.Update(time.Millisecond)

	if math.Abs(s.BusGain(audio.BusSFX)-0.5) > 1e-9 {
		t.Fatalf("expected sfx gain 0.5, got %v", s.BusGain(audio.BusSFX))
	}
	if got := s.Mixer().Gain(s.Config().Audio.BusNames.SFX); math.Abs(got-0.25) > 1e-9 {
		t.Fatalf("expected rendered sfx gain 0.25, got %v", got)
	}
	if s.BusGain(audio.BusMusic) != 1 {
		t.Fatalf("untouched bus should stay at unity")
	}
}

func TestSetPaused(t *testing.T) {
	s, _ := newTestSession(t, testConfig(t))
	h, _ := s.LoopCue("hum")
	if err := s.PlayMusic("theme", 0); err != nil {
		t.Fatalf("PlayMusic: %v", err)
	}

	s.SetPaused(true)
	if s.Audio().IsPlaying(h) || s.Audio().Music().IsPlaying() {
		t.Fatalf("everything should be paused")
	}
	s.SetPaused(false)
	if !s.Audio().IsPlaying(h) || !s.Audio().Music().IsPlaying() {
		t.Fatalf("everything should resume")
	}
}

func TestScript(t *testing.T) {
	cfg := testConfig(t)
	cfg.Script = "scripts/demo.tengo"
	s, f := newTestSession(t, cfg)

	if err := s.RunScript("hum"); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if !f.Voices[0].IsPlaying() || f.Voices[0].Sample().Name != "sfx/hum.wav" {
		t.Fatalf("script should loop hum on the primary voice")
	}
	if err := s.RunScript("hum"); err != nil {
		t.Fatalf("RunScript: %v", err)
	}
	if f.Voices[0].IsPlaying() {
		t.Fatalf("second run should stop the hum")
	}

	if err := s.RunScript("start"); err != nil {
		t.Fatalf("RunScript start: %v", err)
	}
	if !s.Audio().Music().IsPlaying() {
		t.Fatalf("start should begin the theme")
	}
}

func TestRunScriptWithoutScript(t *testing.T) {
	s, _ := newTestSession(t, testConfig(t))
	if err := s.RunScript("start"); err == nil {
		t.Fatalf("expected error without a script")
	}
}

func TestCloseStopsEverything(t *testing.T) {
	s, f := newTestSession(t, testConfig(t))
	if _, err := s.PlayCueFor("hum", time.Second); err != nil {
		t.Fatalf("PlayCueFor: %v", err)
	}
	if err := s.PlayMusic("theme", time.Second); err != nil {
		t.Fatalf("PlayMusic: %v", err)
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	for i, v := range f.Voices {
		if v.IsPlaying() || !v.Closed() {
			t.Fatalf("voice %d not stopped and closed", i)
		}
		if v.Stops == 0 {
			t.Fatalf("voice %d was closed without being stopped", i)
		}
	}
	if s.Scheduler().Len() != 0 {
		t.Fatalf("pending tasks survived Close")
	}
	s.Update(time.Second)
	if _, err := s.PlayCue("blip"); !errors.Is(err, audio.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

const firstBank = `
cues:
  - name: first
    samples: [sfx/blip.wav]
`

const secondBank = `
cues:
  - name: second
    samples: [sfx/hit.wav]
`

func TestWatcherReloadsBank(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cues.Watch = true
	path := filepath.Join(cfg.Cues.Dir, cfg.Cues.Bank)
	if err := os.WriteFile(path, []byte(firstBank), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}

	s, _ := newTestSession(t, cfg)
	if _, ok := s.Bank().Cue("first"); !ok {
		t.Fatalf("disk bank should win over the embedded one")
	}

	if err := os.WriteFile(path, []byte(secondBank), 0o644); err != nil {
		t.Fatalf("rewrite bank: %v", err)
	}
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		s.Update(16 * time.Millisecond)
		if _, ok := s.Bank().Cue("second"); ok {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("bank was not reloaded")
}

func TestReloadKeepsBankOnFailure(t *testing.T) {
	cfg := testConfig(t)
	path := filepath.Join(cfg.Cues.Dir, cfg.Cues.Bank)
	if err := os.WriteFile(path, []byte(firstBank), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}
	s, _ := newTestSession(t, cfg)

	if err := os.WriteFile(path, []byte("cues: [\n"), 0o644); err != nil {
		t.Fatalf("rewrite bank: %v", err)
	}
	if s.Reload() {
		t.Fatalf("malformed bank should not load")
	}
	if _, ok := s.Bank().Cue("first"); !ok {
		t.Fatalf("previous bank should stay in use")
	}
}
