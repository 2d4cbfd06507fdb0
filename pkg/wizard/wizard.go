// Package wizard tracks the active step of a multi-step form. Moving between
// steps never validates; validation belongs to the form's final save.
package wizard

import "fmt"

type Wizard struct {
	steps   []string
	current int
}

func New(steps ...string) *Wizard {
	if len(steps) == 0 {
		panic("wizard: at least one step is required")
	}
	return &Wizard{steps: steps}
}

func (w *Wizard) Step() string { return w.steps[w.current] }

func (w *Wizard) Steps() []string {
	out := make([]string, len(w.steps))
	copy(out, w.steps)
	return out
}

func (w *Wizard) IsFirst() bool { return w.current == 0 }
func (w *Wizard) IsLast() bool  { return w.current == len(w.steps)-1 }

// Next advances one step and reports whether it moved.
func (w *Wizard) Next() bool {
	if w.IsLast() {
		return false
	}
	w.current++
	return true
}

// Back returns one step and reports whether it moved.
func (w *Wizard) Back() bool {
	if w.IsFirst() {
		return false
	}
	w.current--
	return true
}

// GoTo jumps to the named step, as when a tab header is clicked.
func (w *Wizard) GoTo(step string) error {
	for i, s := range w.steps {
		if s == step {
			w.current = i
			return nil
		}
	}
	return fmt.Errorf("unknown step %q", step)
}
