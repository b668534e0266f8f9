package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/colornames"
)

// buttonFace is shared by reference with every button label.
var buttonFace text.Face = fontFace

var buttonImage = &widget.ButtonImage{
	Idle:    image.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x41, B: 0x55, A: 0xff}),
	Hover:   image.NewNineSliceColor(color.NRGBA{R: 0x47, G: 0x55, B: 0x69, A: 0xff}),
	Pressed: image.NewNineSliceColor(color.NRGBA{R: 0x1e, G: 0x29, B: 0x3b, A: 0xff}),
}

func newButton(label string, onClick func()) *widget.Button {
	return widget.NewButton(
		widget.ButtonOpts.Image(buttonImage),
		widget.ButtonOpts.Text(label, &buttonFace, &widget.ButtonTextColor{Idle: colornames.White}),
		widget.ButtonOpts.TextPadding(&widget.Insets{Left: 12, Right: 12, Top: 4, Bottom: 4}),
		widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) { onClick() }),
	)
}

// newControlBar builds the Run / Pause / Step / Reset bar at the top of the window.
func newControlBar(g *Game) *ebitenui.UI {
	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
			widget.RowLayoutOpts.Spacing(6),
			widget.RowLayoutOpts.Padding(widget.NewInsetsSimple(6)),
		)),
	)
	root.AddChild(newButton("Run", func() { _ = g.m.Start() }))
	root.AddChild(newButton("Pause", func() { _ = g.m.Pause() }))
	root.AddChild(newButton("Step", g.step))
	root.AddChild(newButton("Reset", g.reset))

	return &ebitenui.UI{Container: root}
}
