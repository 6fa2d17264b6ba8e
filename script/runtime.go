// Package script runs tengo scripts that sequence cues and music.
package script

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/gameaudio/audio"
)

var ErrUnknownEntry = errors.New("script: unknown entry")

// Host is the audio surface scripts drive.
type Host interface {
	PlayCue(name string) (audio.StopHandle, error)
	ClickCue(name string) error
	LoopCue(name string) (audio.StopHandle, error)
	PlayCueFor(name string, d time.Duration) (audio.StopHandle, error)
	StopSound(h audio.StopHandle) bool
	PlayMusic(track string, fade time.Duration) error
	FadeOutMusic(d time.Duration)
	SetBusGain(bus audio.Bus, linear float64) error
}

// Runtime holds one compiled script. Entries are top-level functions named
// on_<entry> taking (audio, state).
type Runtime struct {
	path     string
	compiled *tengo.Compiled
	entries  []string
	state    *tengo.Map
	logger   *log.Logger
}

var entryPattern = regexp.MustCompile(`(?m)^on_([A-Za-z0-9_]+)\s*:=\s*func`)

// Load reads path from disk or the embedded scripts and compiles it.
func Load(path string, host Host, logger *log.Logger) (*Runtime, error) {
	src, err := LoadScript(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %q: %w", path, err)
	}
	return Compile(path, src, host, logger)
}

func Compile(path string, src []byte, host Host, logger *log.Logger) (*Runtime, error) {
	if host == nil {
		return nil, fmt.Errorf("script: %s: nil host", path)
	}
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.With("script", path)

	var entries []string
	for _, m := range entryPattern.FindAllSubmatch(src, -1) {
		name := string(m[1])
		if !slices.Contains(entries, name) {
			entries = append(entries, name)
		}
	}

	full := string(src) + "\n" + dispatchSource(entries)
	s := tengo.NewScript([]byte(full))
	_ = s.Add("__entry", "")
	_ = s.Add("__audio", bindings(host, logger))
	_ = s.Add("__state", map[string]any{})
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", path, err)
	}

	logger.Debug("script compiled", "entries", entries)
	return &Runtime{
		path:     path,
		compiled: compiled,
		entries:  entries,
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
		logger:   logger,
	}, nil
}

func dispatchSource(entries []string) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteString(" else ")
		}
		fmt.Fprintf(&b, "if __entry == %q {\n\ton_%s(__audio, __state)\n}", e, e)
	}
	b.WriteString("\n")
	return b.String()
}

func (r *Runtime) Path() string { return r.path }

// Entries lists entry names in source order.
func (r *Runtime) Entries() []string {
	return slices.Clone(r.entries)
}

func (r *Runtime) Has(entry string) bool {
	return slices.Contains(r.entries, entry)
}

// Run executes on_<entry>.
func (r *Runtime) Run(entry string) error {
	if r == nil || r.compiled == nil {
		return fmt.Errorf("script: nil runtime")
	}
	if !r.Has(entry) {
		return fmt.Errorf("%w: %s in %s", ErrUnknownEntry, entry, r.path)
	}
	if err := r.compiled.Set("__entry", entry); err != nil {
		return err
	}
	if err := r.compiled.Set("__state", r.state); err != nil {
		return err
	}
	if err := r.compiled.Run(); err != nil {
		return fmt.Errorf("script: %s on_%s: %w", r.path, entry, err)
	}
	return nil
}
