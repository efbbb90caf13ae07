// services/render/render.go
package render

import (
	"companioncode-go/services/emotion"
	"companioncode-go/services/overlay"
	"companioncode-go/types"
	"companioncode-go/x/fmtx"
	"companioncode-go/x/strx"
)

// Canvas is the frame the engine draws into. The host binary backs it
// with the console; on hardware it is the display sprite.
type Canvas interface {
	Clear()
	Text(row int, s string)
	Present()
}

const screenLogLines = 6

// Engine composes the visible frame: the face, the overlay strips, and
// the tail of the diagnostic log. It doubles as the face target for
// expression commands and as the on-screen log sink.
type Engine struct {
	canvas  Canvas
	overlay *overlay.State

	expr  emotion.Expression
	frame uint32

	logRing [screenLogLines]string
	logNext int
}

func NewEngine(canvas Canvas, ov *overlay.State) *Engine {
	return &Engine{canvas: canvas, overlay: ov}
}

// Express switches the drawn expression. Implements the face target
// for the emotion engine.
func (e *Engine) Express(x emotion.Expression) { e.expr = x }

func (e *Engine) Expression() emotion.Expression { return e.expr }

// Log keeps the most recent diagnostic lines for the status screen.
// Implements the on-screen log sink.
func (e *Engine) Log(level types.LogLevel, msg string) {
	e.logRing[e.logNext] = "[" + level.String() + "] " + msg
	e.logNext = (e.logNext + 1) % screenLogLines
}

// RenderFace draws a full frame: face, overlay strips, banner.
func (e *Engine) RenderFace() {
	e.frame++
	e.canvas.Clear()
	e.canvas.Text(0, strx.Coalesce(e.overlay.TimeText(), "--:--"))
	e.canvas.Text(1, e.overlay.WeatherText())
	e.canvas.Text(3, faceLine(e.expr, e.frame))
	if t := e.overlay.Text(); t != "" {
		e.canvas.Text(5, t)
	}
	e.canvas.Present()
}

// RenderStatus draws the boot screen: recent log lines only.
func (e *Engine) RenderStatus() {
	e.canvas.Clear()
	row := 0
	for i := 0; i < screenLogLines; i++ {
		l := e.logRing[(e.logNext+i)%screenLogLines]
		if l == "" {
			continue
		}
		e.canvas.Text(row, l)
		row++
	}
	e.canvas.Present()
}

// faceLine is the text rendition of an expression; the blink phase
// closes the eyes every few frames.
func faceLine(x emotion.Expression, frame uint32) string {
	eyes := eyesFor(x)
	if frame%40 < 2 {
		eyes = "- -"
	}
	return fmtx.Sprintf("( %s )  %s", eyes, x.String())
}

func eyesFor(x emotion.Expression) string {
	switch x {
	case emotion.Happy, emotion.Glee:
		return "^ ^"
	case emotion.Sad, emotion.Worried, emotion.Tired:
		return "v v"
	case emotion.Angry, emotion.Furious, emotion.Frustrated:
		return "> <"
	case emotion.Sleepy:
		return "= ="
	case emotion.Surprised, emotion.Scared, emotion.Awe:
		return "O O"
	case emotion.Squint, emotion.Skeptic, emotion.Suspicious, emotion.Unimpressed:
		return "- o"
	default:
		return "o o"
	}
}
