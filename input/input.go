// Package input supplies per-frame axis and mouse values to scenes. Nothing here polls
// devices; frames come from scripts or from callers.
package input

import (
	"io"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Frame holds the input of one rendered frame. Axes are in [-1, 1].
type Frame struct {
	Step          int        `yaml:"-" json:"step"`
	MouseVelocity mgl32.Vec2 `yaml:"mouse,flow,omitempty" json:"mouse"`
	MouseDown     bool       `yaml:"drag,omitempty" json:"drag"`
	WS            float32    `yaml:"ws,omitempty" json:"ws"`
	AD            float32    `yaml:"ad,omitempty" json:"ad"`
	UpDown        float32    `yaml:"updown,omitempty" json:"updown"`
	LeftRight     float32    `yaml:"leftright,omitempty" json:"leftright"`
	// how many frames this entry lasts in a script, 1 when zero
	Repeat int `yaml:"repeat,omitempty" json:"-"`
}

func clampAxis(v float32) float32 {
	return mgl32.Clamp(v, -1, 1)
}

func (f Frame) normalized() Frame {
	f.WS = clampAxis(f.WS)
	f.AD = clampAxis(f.AD)
	f.UpDown = clampAxis(f.UpDown)
	f.LeftRight = clampAxis(f.LeftRight)
	return f
}

type Provider interface {
	Next() Frame
}

// Idle returns frames without any input.
type Idle struct {
	step int
}

func (i *Idle) Next() Frame {
	f := Frame{Step: i.step}
	i.step++
	return f
}

// Script replays its frames and then stays idle.
type Script struct {
	frames []Frame
	pos    int
	left   int
	step   int
}

func NewScript(frames ...Frame) *Script {
	s := &Script{frames: make([]Frame, 0, len(frames))}
	for _, f := range frames {
		if f.Repeat <= 0 {
			f.Repeat = 1
		}
		s.frames = append(s.frames, f.normalized())
	}
	if len(s.frames) != 0 {
		s.left = s.frames[0].Repeat
	}
	return s
}

// LoadScript reads a yaml list of frames.
func LoadScript(r io.Reader) (*Script, error) {
	var frames []Frame
	if err := yaml.NewDecoder(r).Decode(&frames); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "Failed to decode input script")
	}
	return NewScript(frames...), nil
}

func (s *Script) Next() Frame {
	var f Frame
	if s.pos < len(s.frames) {
		f = s.frames[s.pos]
		f.Repeat = 0
		s.left--
		if s.left <= 0 {
			s.pos++
			if s.pos < len(s.frames) {
				s.left = s.frames[s.pos].Repeat
			}
		}
	}
	f.Step = s.step
	s.step++
	return f
}

// Done reports whether every scripted frame was replayed.
func (s *Script) Done() bool {
	return s.pos >= len(s.frames)
}
