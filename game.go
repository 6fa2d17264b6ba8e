package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ebitenui/ebitenui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/gameaudio/audio"
	"github.com/milk9111/gameaudio/session"
)

const (
	baseWidth  = 960
	baseHeight = 540
)

var scriptKeys = []ebiten.Key{ebiten.KeyF1, ebiten.KeyF2, ebiten.KeyF3, ebiten.KeyF4, ebiten.KeyF5, ebiten.KeyF6}

type Game struct {
	session *session.Session
	logger  *log.Logger
	dt      time.Duration

	ui     *ebitenui.UI
	mixer  *mixerPanel
	paused bool
	quit   bool

	hum     audio.StopHandle
	lastErr string
}

func NewGame(s *session.Session, tps int, logger *log.Logger) *Game {
	g := &Game{
		session: s,
		logger:  logger.With("component", "game"),
		dt:      time.Second / time.Duration(tps),
	}
	g.ui, g.mixer = NewMixerUI(g)
	return g
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.setPaused(!g.paused)
	}

	if g.paused {
		g.ui.Update()
	} else {
		g.handleKeys()
	}

	g.session.Update(g.dt)
	g.mixer.refresh()
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.Key1):
		g.report(g.session.PlayCue("blip"))
	case inpututil.IsKeyJustPressed(ebiten.Key2):
		g.report(g.session.PlayCue("hit"))
	case inpututil.IsKeyJustPressed(ebiten.Key3):
		g.report(g.session.PlayCueFor("blip", 400*time.Millisecond))
	case inpututil.IsKeyJustPressed(ebiten.Key4):
		g.fail(g.session.ClickCue("blip"))
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		if g.session.StopSound(g.hum) {
			g.hum = 0
			return
		}
		h, err := g.session.LoopCue("hum")
		g.hum = h
		g.report(h, err)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		g.fail(g.session.PlayMusic("theme", time.Second))
	case inpututil.IsKeyJustPressed(ebiten.KeyN):
		g.session.FadeOutMusic(time.Second)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.session.Audio().StopAll()
		g.hum = 0
	}

	if rt := g.session.Script(); rt != nil {
		entries := rt.Entries()
		for i, key := range scriptKeys {
			if i < len(entries) && inpututil.IsKeyJustPressed(key) {
				g.fail(rt.Run(entries[i]))
			}
		}
	}
}

func (g *Game) setPaused(paused bool) {
	g.paused = paused
	g.session.SetPaused(paused)
}

func (g *Game) report(_ audio.StopHandle, err error) {
	g.fail(err)
}

func (g *Game) fail(err error) {
	if err == nil {
		return
	}
	g.lastErr = err.Error()
	g.logger.Error("audio request failed", "err", err)
}

func (g *Game) Draw(screen *ebiten.Image) {
	m := g.session.Audio()
	playing := 0
	for _, v := range m.Voices() {
		if v.IsPlaying() {
			playing++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TPS: %.1f\n", ebiten.ActualTPS())
	fmt.Fprintf(&b, "voices: %d playing, pool %d\n", playing, m.PoolSize())
	fmt.Fprintf(&b, "music: playing=%v volume=%.2f\n", m.Music().IsPlaying(), m.Music().Volume())
	b.WriteString("\n1 blip  2 hit  3 timed blip  4 blip one shot  H hum loop\nM music fade in  N fade out  S stop all  Esc mixer\n")
	if rt := g.session.Script(); rt != nil {
		for i, e := range rt.Entries() {
			if i >= len(scriptKeys) {
				break
			}
			fmt.Fprintf(&b, "F%d %s  ", i+1, e)
		}
		b.WriteString("\n")
	}
	if g.lastErr != "" {
		fmt.Fprintf(&b, "\nerror: %s\n", g.lastErr)
	}
	ebitenutil.DebugPrint(screen, b.String())

	if g.paused {
		g.ui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
