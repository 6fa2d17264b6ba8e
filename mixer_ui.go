package main

import (
	"fmt"
	"image/color"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/milk9111/gameaudio/audio"
	"golang.org/x/image/font/basicfont"
)

const gainStep = 0.1

type busRow struct {
	bus   audio.Bus
	label *widget.Text
}

// mixerPanel keeps the bus labels in step with the session's gains.
type mixerPanel struct {
	game *Game
	rows []busRow
}

func (p *mixerPanel) refresh() {
	for _, r := range p.rows {
		r.label.Label = fmt.Sprintf("%-6s %3.0f%%", r.bus, p.game.session.BusGain(r.bus)*100)
	}
}

func (p *mixerPanel) nudge(bus audio.Bus, delta float64) {
	g := p.game.session.BusGain(bus) + delta
	if err := p.game.session.SetBusGain(bus, g); err != nil {
		p.game.fail(err)
	}
	p.refresh()
}

// NewMixerUI builds the pause overlay: one row per bus with -/+ buttons, then
// Resume and Quit.
func NewMixerUI(g *Game) (*ebitenui.UI, *mixerPanel) {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	var face ebtext.Face = ebtext.NewGoXFace(basicfont.Face7x13)
	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.RowLayoutData{Position: widget.RowLayoutPositionCenter}

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(widget.WidgetOpts.LayoutData(center)),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth/2, baseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(widget.NewText(
		widget.TextOpts.Text("Mixer", &face, white),
		widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(center)),
	))

	p := &mixerPanel{game: g}
	for _, bus := range []audio.Bus{audio.BusMaster, audio.BusMusic, audio.BusSFX} {
		row := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(12),
			)),
			widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.LayoutData(center)),
		)
		label := widget.NewText(
			widget.TextOpts.Text("", &face, white),
			widget.TextOpts.WidgetOpts(widget.WidgetOpts.LayoutData(center)),
		)
		row.AddChild(button("-", func() { p.nudge(bus, -gainStep) }))
		row.AddChild(label)
		row.AddChild(button("+", func() { p.nudge(bus, gainStep) }))
		panel.AddChild(row)
		p.rows = append(p.rows, busRow{bus: bus, label: label})
	}

	panel.AddChild(button("Resume", func() { g.setPaused(false) }))
	panel.AddChild(button("Quit", func() { g.quit = true }))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)

	p.refresh()
	return &ebitenui.UI{Container: root}, p
}
