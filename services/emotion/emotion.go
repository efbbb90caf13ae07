// services/emotion/emotion.go
package emotion

import (
	"companioncode-go/services/diag"
)

// Expression is the closed set of face expressions the host can request.
type Expression uint8

const (
	Normal Expression = iota
	Angry
	Glee
	Happy
	Sad
	Worried
	Focused
	Annoyed
	Surprised
	Skeptic
	Frustrated
	Unimpressed
	Sleepy
	Tired
	Suspicious
	Squint
	Furious
	Scared
	Awe
	numExpressions
)

var names = [numExpressions]string{
	Normal:      "Normal",
	Angry:       "Angry",
	Glee:        "Glee",
	Happy:       "Happy",
	Sad:         "Sad",
	Worried:     "Worried",
	Focused:     "Focused",
	Annoyed:     "Annoyed",
	Surprised:   "Surprised",
	Skeptic:     "Skeptic",
	Frustrated:  "Frustrated",
	Unimpressed: "Unimpressed",
	Sleepy:      "Sleepy",
	Tired:       "Tired",
	Suspicious:  "Suspicious",
	Squint:      "Squint",
	Furious:     "Furious",
	Scared:      "Scared",
	Awe:         "Awe",
}

var byName map[string]Expression

func init() {
	byName = make(map[string]Expression, len(names))
	for e, n := range names {
		byName[n] = Expression(e)
	}
}

func (e Expression) String() string {
	if int(e) < len(names) {
		return names[e]
	}
	return "Normal"
}

// Parse resolves a host-supplied expression name. The protocol names
// are case-sensitive.
func Parse(name string) (Expression, bool) {
	e, ok := byName[name]
	return e, ok
}

// Face renders expressions; the render layer implements it.
type Face interface {
	Express(e Expression)
}

// Engine maps host expression requests onto the face. Unknown names
// leave the current expression alone: an out-of-date host must never
// blank the face.
type Engine struct {
	face    Face
	current Expression
	log     *diag.Logger
}

func NewEngine(face Face, log *diag.Logger) *Engine {
	return &Engine{face: face, log: log}
}

func (g *Engine) Current() Expression { return g.current }

func (g *Engine) Apply(name string) {
	e, ok := Parse(name)
	if !ok {
		g.log.Debugf("emotion: ignoring unknown %q", name)
		return
	}
	g.Set(e)
}

func (g *Engine) Set(e Expression) {
	g.current = e
	g.face.Express(e)
}
