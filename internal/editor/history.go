package editor

import (
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
)

// history is a bounded linear undo stack of layout states.  A new record
// drops the redo branch.
type history struct {
	depth int
	undo  []layout.State
	redo  []layout.State
}

func newHistory(depth int) *history {
	return &history{depth: depth}
}

// record pushes the state that existed before a committed mutation.
func (h *history) record(before layout.State) {
	h.undo = append(h.undo, before)
	if len(h.undo) > h.depth {
		h.undo = h.undo[len(h.undo)-h.depth:]
	}
	h.redo = nil
}

// back pops the newest undo state, parking current on the redo stack.
func (h *history) back(current layout.State) (layout.State, bool) {
	if len(h.undo) == 0 {
		return layout.State{}, false
	}
	prev := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return prev, true
}

// forward is the inverse of back.
func (h *history) forward(current layout.State) (layout.State, bool) {
	if len(h.redo) == 0 {
		return layout.State{}, false
	}
	next := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return next, true
}

func (h *history) canUndo() bool { return len(h.undo) > 0 }
func (h *history) canRedo() bool { return len(h.redo) > 0 }

// Undo reverts the last committed mutation.
func (s *Session) Undo() error {
	if s.preview {
		return ErrPreviewMode
	}
	s.finishGesture()
	prev, ok := s.history.back(s.layout.Capture())
	if !ok {
		return ErrNothingToUndo
	}
	s.layout.Restore(prev)
	s.afterRestore()
	return nil
}

// Redo reapplies the last undone mutation.
func (s *Session) Redo() error {
	if s.preview {
		return ErrPreviewMode
	}
	s.finishGesture()
	next, ok := s.history.forward(s.layout.Capture())
	if !ok {
		return ErrNothingToRedo
	}
	s.layout.Restore(next)
	s.afterRestore()
	return nil
}

// CanUndo reports whether Undo has anything to revert.
func (s *Session) CanUndo() bool { return s.history.canUndo() }

// CanRedo reports whether Redo has anything to reapply.
func (s *Session) CanRedo() bool { return s.history.canRedo() }

func (s *Session) afterRestore() {
	s.pruneSelection()
	if _, ok := s.layout.Section(s.activeSection); !ok {
		s.activeSection = model.DefaultSectionID
	}
	s.revision++
}
