// Package audio pools sound-effect voices, plays background music with fades
// and routes normalized bus gains to a mixer. All methods are meant to be
// called from the tick loop that drives the scheduler.
package audio

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/milk9111/gameaudio/tick"
	"github.com/milk9111/gameaudio/voice"
)

// Deps are the collaborators a Manager drives.
type Deps struct {
	Factory   voice.Factory
	Mixer     Mixer
	Scheduler *tick.Scheduler
	Logger    *log.Logger
	Rand      *rand.Rand
}

type Manager struct {
	cfg       Config
	scheduler *tick.Scheduler
	logger    *log.Logger
	rng       *rand.Rand

	pool  *VoicePool
	music *MusicChannel
	buses *MixBusController

	sfxPaused bool
	closed    bool
}

// New builds the sound-effect pool with cfg.InitialPoolSize voices behind the
// primary voice, plus the dedicated music voice.
func New(cfg Config, deps Deps) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Factory == nil || deps.Mixer == nil || deps.Scheduler == nil {
		return nil, invalidArgument("factory, mixer and scheduler are required")
	}
	for _, name := range []string{cfg.BusNames.Master, cfg.BusNames.Music, cfg.BusNames.SFX} {
		if !deps.Mixer.FindBus(name) {
			return nil, invalidArgument("mixer has no bus %q", name)
		}
	}

	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("component", "audio")

	pool, err := newVoicePool(deps.Factory, cfg.BusNames.SFX, cfg.InitialPoolSize)
	if err != nil {
		return nil, fmt.Errorf("audio: create sfx pool: %w", err)
	}
	musicVoice, err := deps.Factory.NewVoice(cfg.BusNames.Music)
	if err != nil {
		_ = pool.close()
		return nil, fmt.Errorf("audio: create music voice: %w", resourceExhausted(err))
	}

	m := &Manager{
		cfg:       cfg,
		scheduler: deps.Scheduler,
		logger:    logger,
		rng:       deps.Rand,
		pool:      pool,
		music:     newMusicChannel(musicVoice, deps.Scheduler, logger),
		buses:     NewMixBusController(deps.Mixer, cfg.BusNames),
	}
	logger.Debug("audio manager ready", "pool", pool.Size())
	return m, nil
}

func (m *Manager) Config() Config { return m.cfg }

func (m *Manager) Music() *MusicChannel { return m.music }

func (m *Manager) Buses() *MixBusController { return m.buses }

func (m *Manager) Pool() *VoicePool { return m.pool }

// PoolSize is the number of pooled sound-effect voices, excluding the
// primary voice.
func (m *Manager) PoolSize() int { return m.pool.Size() }

// Voices returns the primary voice followed by every pooled voice.
func (m *Manager) Voices() []voice.Voice { return m.pool.Voices() }

// Close stops every voice, cancels pending timers and fades, and releases the
// voices. It is safe to call more than once.
func (m *Manager) Close() error {
	if m.closed {
		return nil
	}
	m.StopAll()
	m.music.Stop()
	m.closed = true

	err := m.pool.close()
	if cerr := m.music.voice.Close(); cerr != nil && err == nil {
		err = cerr
	}
	m.logger.Debug("audio manager closed", "pool", m.pool.Size())
	return err
}
