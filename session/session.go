// Package session owns every audio service for one run of the game: the tick
// scheduler, the mixer, the audio manager, the cue bank with its optional
// watcher, and the optional script runtime.
package session

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	ebaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/gameaudio/assets"
	"github.com/milk9111/gameaudio/audio"
	"github.com/milk9111/gameaudio/config"
	"github.com/milk9111/gameaudio/cue"
	"github.com/milk9111/gameaudio/mixer"
	"github.com/milk9111/gameaudio/script"
	"github.com/milk9111/gameaudio/tick"
	"github.com/milk9111/gameaudio/voice"
)

var (
	ErrUnknownCue   = errors.New("session: unknown cue")
	ErrUnknownTrack = errors.New("session: unknown music track")
)

type options struct {
	factory voice.Factory
	logger  *log.Logger
	rng     *rand.Rand
	loader  cue.Loader
}

type Option func(*options)

// WithFactory replaces the ebiten voice backend.
func WithFactory(f voice.Factory) Option {
	return func(o *options) { o.factory = f }
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithRand seeds cue draws.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rng = r }
}

// WithSampleLoader replaces decoding of the files a cue bank references.
func WithSampleLoader(load cue.Loader) Option {
	return func(o *options) { o.loader = load }
}

// refresher is implemented by backends that cache bus gains on their voices.
type refresher interface {
	Refresh(bus string)
}

type Session struct {
	cfg    config.Config
	logger *log.Logger

	scheduler *tick.Scheduler
	mixer     *mixer.Mixer
	factory   voice.Factory
	audio     *audio.Manager
	loader    cue.Loader
	bank      *cue.Bank
	watcher   *cue.Watcher
	script    *script.Runtime

	dirty  map[string]bool
	closed bool
}

func New(cfg config.Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.Default()
	}
	if o.loader == nil {
		rate := cfg.SampleRate
		o.loader = func(path string) (*voice.Sample, error) {
			return assets.LoadSample(rate, path)
		}
	}

	names := cfg.Audio.BusNames
	s := &Session{
		cfg:       cfg,
		logger:    o.logger.With("component", "session"),
		scheduler: tick.NewScheduler(),
		mixer:     mixer.New(names.Master, names.Music, names.SFX),
		loader:    o.loader,
		dirty:     make(map[string]bool),
	}

	s.factory = o.factory
	if s.factory == nil {
		ctx := ebaudio.CurrentContext()
		if ctx == nil {
			ctx = ebaudio.NewContext(cfg.SampleRate)
		}
		s.factory = voice.NewEbitenFactory(ctx, s.mixer.Gain)
	}
	s.mixer.OnChange(func(bus string) {
		s.dirty[bus] = true
	})

	m, err := audio.New(cfg.Audio, audio.Deps{
		Factory:   s.factory,
		Mixer:     s.mixer,
		Scheduler: s.scheduler,
		Logger:    o.logger,
		Rand:      o.rng,
	})
	if err != nil {
		return nil, err
	}
	s.audio = m

	bank, err := s.loadBank()
	if err != nil {
		_ = m.Close()
		return nil, err
	}
	s.bank = bank

	if cfg.Cues.Watch {
		if err := s.startWatcher(); err != nil {
			s.logger.Warn("cue bank watch disabled", "dir", cfg.Cues.Dir, "err", err)
		}
	}

	if cfg.Script != "" {
		rt, err := script.Load(cfg.Script, s, o.logger)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.script = rt
	}

	s.logger.Info("session ready", "cues", len(bank.Names()), "tracks", len(bank.TrackNames()), "pool", m.PoolSize())
	return s, nil
}

func (s *Session) loadBank() (*cue.Bank, error) {
	spec, err := cue.LoadBankSpec(s.cfg.Cues.Dir, s.cfg.Cues.Bank)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", audio.ErrInvalidArgument, err)
	}
	bank, err := cue.Build(spec, s.loader)
	if err != nil {
		return nil, fmt.Errorf("%w: bank %s: %w", audio.ErrInvalidArgument, s.cfg.Cues.Bank, err)
	}
	return bank, nil
}

func (s *Session) startWatcher() error {
	if s.cfg.Cues.Dir == "" {
		return fmt.Errorf("no cue directory")
	}
	if _, err := os.Stat(s.cfg.Cues.Dir); err != nil {
		return err
	}
	w, err := cue.NewWatcher(s.cfg.Cues.Dir)
	if err != nil {
		return err
	}
	s.watcher = w
	return nil
}

// Update advances the session by one tick of dt.
func (s *Session) Update(dt time.Duration) {
	if s.closed {
		return
	}
	s.drainWatcher()
	s.refreshGains()
	s.scheduler.Update(dt)
}

func (s *Session) drainWatcher() {
	if s.watcher == nil {
		return
	}
	for {
		select {
		case name, ok := <-s.watcher.Events:
			if !ok {
				s.watcher = nil
				return
			}
			if filepath.Base(name) == filepath.Base(s.cfg.Cues.Bank) {
				s.Reload()
			}
		case err, ok := <-s.watcher.Errors:
			if ok {
				s.logger.Warn("cue bank watch", "err", err)
			}
		default:
			return
		}
	}
}

func (s *Session) refreshGains() {
	if len(s.dirty) == 0 {
		return
	}
	r, ok := s.factory.(refresher)
	if !ok {
		clear(s.dirty)
		return
	}
	if s.dirty[s.mixer.Master()] {
		r.Refresh("")
	} else {
		for bus := range s.dirty {
			r.Refresh(bus)
		}
	}
	clear(s.dirty)
}

// Reload rebuilds the cue bank. On failure the current bank stays in use.
// Sounds already playing keep their samples.
func (s *Session) Reload() bool {
	bank, err := s.loadBank()
	if err != nil {
		s.logger.Warn("cue bank reload failed", "bank", s.cfg.Cues.Bank, "err", err)
		return false
	}
	s.bank = bank
	s.logger.Info("cue bank reloaded", "bank", s.cfg.Cues.Bank, "cues", len(bank.Names()))
	return true
}

func (s *Session) cue(name string) (*cue.Cue, error) {
	c, ok := s.bank.Cue(name)
	if !ok {
		return nil, fmt.Errorf("%w: %w %q", audio.ErrInvalidArgument, ErrUnknownCue, name)
	}
	return c, nil
}

func (s *Session) PlayCue(name string) (audio.StopHandle, error) {
	c, err := s.cue(name)
	if err != nil {
		return 0, err
	}
	return s.audio.PlayCue(c, false)
}

// ClickCue layers name on the primary voice without issuing a handle.
func (s *Session) ClickCue(name string) error {
	c, err := s.cue(name)
	if err != nil {
		return err
	}
	return s.audio.PlayCueOneShot(c)
}

func (s *Session) LoopCue(name string) (audio.StopHandle, error) {
	c, err := s.cue(name)
	if err != nil {
		return 0, err
	}
	return s.audio.PlayCue(c, true)
}

func (s *Session) PlayCueFor(name string, d time.Duration) (audio.StopHandle, error) {
	c, err := s.cue(name)
	if err != nil {
		return 0, err
	}
	return s.audio.PlayCueForDuration(c, d)
}

func (s *Session) StopSound(h audio.StopHandle) bool {
	return s.audio.Stop(h)
}

// PlayMusic switches to track, fading in over fade when it is positive.
func (s *Session) PlayMusic(track string, fade time.Duration) error {
	t, ok := s.bank.Track(track)
	if !ok {
		return fmt.Errorf("%w: %w %q", audio.ErrInvalidArgument, ErrUnknownTrack, track)
	}
	music := s.audio.Music()
	if fade > 0 {
		music.SetLoop(t.Loop)
		return music.FadeIn(t.Sample, fade)
	}
	return music.PlayLoop(t.Sample, t.Loop)
}

func (s *Session) FadeOutMusic(d time.Duration) {
	s.audio.Music().FadeOut(d)
}

func (s *Session) SetBusGain(bus audio.Bus, linear float64) error {
	return s.audio.Buses().SetBusGain(bus, linear)
}

func (s *Session) BusGain(bus audio.Bus) float64 {
	g, ok := s.audio.Buses().BusGain(bus)
	if !ok {
		return 1
	}
	return g
}

// SetPaused pauses or resumes sound effects and music together.
func (s *Session) SetPaused(paused bool) {
	s.audio.PauseAll(paused)
	s.audio.Music().SetPaused(paused)
}

// RunScript runs an entry of the configured script.
func (s *Session) RunScript(entry string) error {
	if s.script == nil {
		return fmt.Errorf("%w: %s", script.ErrUnknownEntry, entry)
	}
	return s.script.Run(entry)
}

func (s *Session) Config() config.Config { return s.cfg }

func (s *Session) Audio() *audio.Manager { return s.audio }

func (s *Session) Bank() *cue.Bank { return s.bank }

func (s *Session) Mixer() *mixer.Mixer { return s.mixer }

func (s *Session) Scheduler() *tick.Scheduler { return s.scheduler }

func (s *Session) Script() *script.Runtime { return s.script }

// Close stops every voice before cancelling pending timers and fades and
// releasing the watcher and voices.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	s.audio.StopAll()
	s.audio.Music().Stop()
	s.scheduler.CancelAll()

	var errs []error
	if s.watcher != nil {
		errs = append(errs, s.watcher.Close())
		s.watcher = nil
	}
	errs = append(errs, s.audio.Close())
	return errors.Join(errs...)
}
