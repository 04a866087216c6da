package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seatmap-studio/internal/editor"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/picker"
	"github.com/iliyamo/seatmap-studio/internal/session"
	"github.com/iliyamo/seatmap-studio/internal/template"
)

// refusal maps an editor refusal to its status and the notice shown to the
// operator.  A refused action leaves the session unchanged.
type refusal struct {
	err    error
	status int
	notice string
}

var refusals = []refusal{
	{layout.ErrDefaultSection, http.StatusConflict, "The default section cannot be deleted."},
	{editor.ErrEmptySelection, http.StatusBadRequest, "Select one or more seats first."},
	{editor.ErrPreviewMode, http.StatusConflict, "Leave preview mode to edit the layout."},
	{editor.ErrNothingToUndo, http.StatusConflict, "Nothing to undo."},
	{editor.ErrNothingToRedo, http.StatusConflict, "Nothing to redo."},
	{layout.ErrSectionExists, http.StatusConflict, "A section with that id already exists."},
	{picker.ErrLimitReached, http.StatusConflict, "Selection limit reached."},
}

// editorError writes the response for an error returned by a session
// operation.
func editorError(c echo.Context, err error) error {
	for _, r := range refusals {
		if errors.Is(err, r.err) {
			return c.JSON(r.status, echo.Map{"error": err.Error(), "notice": r.notice})
		}
	}
	switch {
	case errors.Is(err, session.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "editor session not found"})
	case errors.Is(err, layout.ErrSectionNotFound), errors.Is(err, layout.ErrSeatNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, errBadBody),
		errors.Is(err, editor.ErrUnknownTool),
		errors.Is(err, editor.ErrUnknownEvent),
		errors.Is(err, editor.ErrInvalidGridSize),
		errors.Is(err, layout.ErrInvalidSeatType),
		errors.Is(err, layout.ErrInvalidRow),
		errors.Is(err, template.ErrUnknownTemplate):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	log.Printf("seatmap: %s %s: %v", c.Request().Method, c.Path(), err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}
