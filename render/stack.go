package render

import (
	"github.com/mogaika/scenewalk/scene"
)

// CollapsingStack keeps accumulated state per traversal scope. Push copies the top,
// Pop returns to the parent value. The bottom entry can't be popped.
type CollapsingStack[T any] struct {
	items []T
}

func NewCollapsingStack[T any](bottom T) *CollapsingStack[T] {
	s := &CollapsingStack[T]{}
	s.Clear(bottom)
	return s
}

// Clear drops everything and leaves bottom as the only entry.
func (s *CollapsingStack[T]) Clear(bottom T) {
	s.items = append(s.items[:0], bottom)
}

func (s *CollapsingStack[T]) Tos() T {
	return s.items[len(s.items)-1]
}

func (s *CollapsingStack[T]) SetTos(v T) {
	s.items[len(s.items)-1] = v
}

func (s *CollapsingStack[T]) Push() {
	s.items = append(s.items, s.Tos())
}

func (s *CollapsingStack[T]) Pop() error {
	if len(s.items) <= 1 {
		return scene.Violationf("state stack underflow")
	}
	var zero T
	s.items[len(s.items)-1] = zero
	s.items = s.items[:len(s.items)-1]
	return nil
}

// Depth is the number of pushes not yet popped.
func (s *CollapsingStack[T]) Depth() int {
	return len(s.items) - 1
}
