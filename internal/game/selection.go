// Package game holds the per-chat state collected while recording one Catan
// game: which players sat at the table, their scores, and the closing details.
package game

import "fmt"

// Selection tracks which roster players are in today's game. Order of
// selection is preserved because scores are collected in that order later.
type Selection struct {
	expected int
	names    []string
}

// ToggleResult reports the outcome of a selection toggle.
type ToggleResult struct {
	Message  string
	Complete bool
}

// SetExpected sets the target selection size. It does not clear an existing
// selection.
func (s *Selection) SetExpected(n int) {
	if n < 0 {
		n = 0
	}
	s.expected = n
}

// Expected returns the target selection size.
func (s *Selection) Expected() int {
	return s.expected
}

// Toggle adds name when absent and there is room, or removes it when present.
// Complete is true only when an addition brings the selection exactly to the
// expected size; removals never complete the selection.
func (s *Selection) Toggle(name string) ToggleResult {
	for i, existing := range s.names {
		if existing == name {
			s.names = append(s.names[:i], s.names[i+1:]...)
			return ToggleResult{Message: fmt.Sprintf("%s deseleccionado", name)}
		}
	}

	if len(s.names) >= s.expected {
		return ToggleResult{Message: "Número máximo de jugadores ya seleccionado"}
	}

	s.names = append(s.names, name)
	return ToggleResult{
		Message:  fmt.Sprintf("%s seleccionado", name),
		Complete: len(s.names) == s.expected,
	}
}

// Complete reports whether the selection reached the expected size.
func (s *Selection) Complete() bool {
	return len(s.names) == s.expected
}

// Selected reports whether name is currently in the selection.
func (s *Selection) Selected(name string) bool {
	for _, existing := range s.names {
		if existing == name {
			return true
		}
	}
	return false
}

// Names returns the selection in insertion order.
func (s *Selection) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Size returns the current selection size.
func (s *Selection) Size() int {
	return len(s.names)
}

func (s *Selection) reset() {
	s.expected = 0
	s.names = nil
}
