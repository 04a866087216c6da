package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seatmap-studio/internal/codec"
	"github.com/iliyamo/seatmap-studio/internal/config"
	"github.com/iliyamo/seatmap-studio/internal/editor"
	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
	"github.com/iliyamo/seatmap-studio/internal/render"
	"github.com/iliyamo/seatmap-studio/internal/repository"
	"github.com/iliyamo/seatmap-studio/internal/service"
	"github.com/iliyamo/seatmap-studio/internal/session"
	"github.com/iliyamo/seatmap-studio/internal/template"
)

// publishTimeout bounds the seatmap.saved publish after a save.
const publishTimeout = 3 * time.Second

// SeatMapStore loads and saves the seat map of an event.
type SeatMapStore interface {
	Load(ctx context.Context, eventID uint64) (model.Snapshot, repository.SeatMapRecord, error)
	Save(ctx context.Context, eventID, ownerID uint64, snap model.Snapshot) (repository.SeatMapRecord, error)
}

// CachePurger drops cached public responses of an event.
type CachePurger interface {
	PurgeEvent(ctx context.Context, eventID uint64) error
}

// EditorHandler serves the owner-facing authoring API.  Each open editor is
// a session in Sessions; every request on it runs under the session lock.
type EditorHandler struct {
	Sessions  *session.Store
	SeatMaps  SeatMapStore
	Publisher service.Publisher
	Purger    CachePurger
	Config    config.EditorConfig
}

// NewEditorHandler constructs an EditorHandler and panics if a required dependency is nil
func NewEditorHandler(sessions *session.Store, seatMaps SeatMapStore, publisher service.Publisher, purger CachePurger, cfg config.EditorConfig) *EditorHandler {
	if sessions == nil || seatMaps == nil {
		panic("nil dependency passed to NewEditorHandler")
	}
	if publisher == nil {
		publisher = service.NopPublisher{}
	}
	return &EditorHandler{Sessions: sessions, SeatMaps: seatMaps, Publisher: publisher, Purger: purger, Config: cfg}
}

// editorState is the summary returned by most editor endpoints.
type editorState struct {
	SessionID     string          `json:"session_id"`
	EventID       uint64          `json:"event_id"`
	Name          string          `json:"name"`
	Revision      uint64          `json:"revision"`
	Tool          editor.Tool     `json:"tool"`
	Preview       bool            `json:"preview"`
	Zoom          float64         `json:"zoom"`
	Pan           geometry.Point  `json:"pan"`
	ActiveSection string          `json:"active_section"`
	ActiveType    model.SeatType  `json:"active_type"`
	ActiveRow     string          `json:"active_row"`
	Selection     []string        `json:"selection"`
	CanUndo       bool            `json:"can_undo"`
	CanRedo       bool            `json:"can_redo"`
	Settings      layout.Settings `json:"settings"`
	Sections      []model.Section `json:"sections"`
	Stats         model.Metadata  `json:"stats"`
}

func stateOf(s *editor.Session, info session.Info) editorState {
	l := s.Layout()
	return editorState{
		SessionID:     info.ID,
		EventID:       info.EventID,
		Name:          l.Name,
		Revision:      s.Revision(),
		Tool:          s.Tool(),
		Preview:       s.Preview(),
		Zoom:          s.Viewport().Zoom(),
		Pan:           s.Viewport().Pan(),
		ActiveSection: s.ActiveSection(),
		ActiveType:    s.ActiveType(),
		ActiveRow:     s.ActiveRow(),
		Selection:     s.Selection(),
		CanUndo:       s.CanUndo(),
		CanRedo:       s.CanRedo(),
		Settings:      l.Settings,
		Sections:      l.Sections(),
		Stats:         l.Stats(),
	}
}

// Open starts an editing session on the stored seat map of an event.  A
// missing or unreadable seat map opens an empty layout.
func (h *EditorHandler) Open(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	eventID, err := parseEventID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req struct {
		ViewWidth  float64 `json:"view_width"`
		ViewHeight float64 `json:"view_height"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	l, rec, found := h.load(c.Request().Context(), eventID)
	if found && rec.OwnerID != 0 && rec.OwnerID != ownerID {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	s := editor.New(l, h.Config.Editor)
	s.SetViewSize(req.ViewWidth, req.ViewHeight)
	if l.SeatCount() > 0 {
		s.FitView()
	}
	id := h.Sessions.Create(eventID, ownerID, s)
	log.Printf("seatmap: session %s opened for event %d by owner %d (%d seats)", id, eventID, ownerID, l.SeatCount())

	var st editorState
	_ = h.Sessions.With(id, func(s *editor.Session, info session.Info) error {
		st = stateOf(s, info)
		return nil
	})
	return c.JSON(http.StatusCreated, st)
}

func (h *EditorHandler) load(ctx context.Context, eventID uint64) (*layout.Layout, repository.SeatMapRecord, bool) {
	snap, rec, err := h.SeatMaps.Load(ctx, eventID)
	switch {
	case errors.Is(err, repository.ErrSeatMapNotFound):
		return h.Config.NewLayout(""), repository.SeatMapRecord{}, false
	case err != nil:
		log.Printf("seatmap: load event %d failed, starting empty: %v", eventID, err)
		return h.Config.NewLayout(""), repository.SeatMapRecord{}, false
	}
	return layout.FromSnapshot(snap), rec, true
}

// with runs fn on the caller's session.  Sessions of other owners are
// reported as missing.
func (h *EditorHandler) with(c echo.Context, fn func(*editor.Session, session.Info) error) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	err = h.Sessions.With(c.Param("sid"), func(s *editor.Session, info session.Info) error {
		if info.OwnerID != ownerID {
			return session.ErrNotFound
		}
		return fn(s, info)
	})
	if err != nil && !c.Response().Committed {
		return editorError(c, err)
	}
	return err
}

// bindOr400 decodes the request body into v.
func bindOr400(c echo.Context, v any) error {
	if err := c.Bind(v); err != nil {
		return errBadBody
	}
	return nil
}

var errBadBody = errors.New("invalid request body")

// State returns the session summary.
func (h *EditorHandler) State(c echo.Context) error {
	return h.with(c, func(s *editor.Session, info session.Info) error {
		return c.JSON(http.StatusOK, stateOf(s, info))
	})
}

// Frame renders the canvas.  ?format=svg returns an SVG document and
// ?format=cbor the CBOR-encoded display list; the default is JSON.
func (h *EditorHandler) Frame(c echo.Context) error {
	return h.with(c, func(s *editor.Session, _ session.Info) error {
		opts := s.Options()
		w := queryFloat(c, "width", opts.ViewWidth)
		ht := queryFloat(c, "height", opts.ViewHeight)
		ratio := queryFloat(c, "ratio", 1)
		return writeFrame(c, s.Revision(), render.Render(render.SessionView(s, w, ht, ratio)))
	})
}

func writeFrame(c echo.Context, revision uint64, f render.Frame) error {
	switch c.QueryParam("format") {
	case "svg":
		return c.Blob(http.StatusOK, "image/svg+xml", []byte(f.SVG()))
	case "cbor":
		data, err := codec.MarshalCBOR(f)
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/cbor", data)
	}
	return c.JSON(http.StatusOK, echo.Map{"revision": revision, "frame": f})
}

type eventsRequest struct {
	Events []editor.Event `json:"events"`
	Width  float64        `json:"width"`
	Height float64        `json:"height"`
	Ratio  float64        `json:"ratio"`
}

// Events applies a batch of pointer, wheel and key events in order and
// returns the redrawn frame.
func (h *EditorHandler) Events(c echo.Context) error {
	var req eventsRequest
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, _ session.Info) error {
		if req.Width > 0 || req.Height > 0 {
			s.SetViewSize(req.Width, req.Height)
		}
		if err := s.HandleAll(req.Events); err != nil {
			return err
		}
		opts := s.Options()
		ratio := req.Ratio
		if ratio <= 0 {
			ratio = 1
		}
		return writeFrame(c, s.Revision(), render.Render(render.SessionView(s, opts.ViewWidth, opts.ViewHeight, ratio)))
	})
}

// SetTool switches the active tool.
func (h *EditorHandler) SetTool(c echo.Context) error {
	var req struct {
		Tool string `json:"tool"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		t, err := editor.ParseTool(req.Tool)
		if err != nil {
			return err
		}
		if err := s.SetTool(t); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stateOf(s, info))
	})
}

// SetPreview turns preview mode on or off.
func (h *EditorHandler) SetPreview(c echo.Context) error {
	var req struct {
		Preview bool `json:"preview"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		s.SetPreview(req.Preview)
		return c.JSON(http.StatusOK, stateOf(s, info))
	})
}

// UpdateSettings changes the name, grid and display settings.
func (h *EditorHandler) UpdateSettings(c echo.Context) error {
	var req editor.SettingsPatch
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		if err := s.UpdateSettings(req); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stateOf(s, info))
	})
}

// SetActive chooses the section, type and row given to new seats.
func (h *EditorHandler) SetActive(c echo.Context) error {
	var req struct {
		SectionID *string `json:"section_id"`
		Type      *string `json:"type"`
		Row       *string `json:"row"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		if req.SectionID != nil {
			if err := s.SetActiveSection(*req.SectionID); err != nil {
				return err
			}
		}
		if req.Type != nil {
			t, ok := model.ParseSeatType(*req.Type)
			if !ok {
				return layout.ErrInvalidSeatType
			}
			if err := s.SetActiveType(t); err != nil {
				return err
			}
		}
		if req.Row != nil {
			if err := s.SetActiveRow(*req.Row); err != nil {
				return err
			}
		}
		return c.JSON(http.StatusOK, stateOf(s, info))
	})
}

// PlaceSeat adds one seat at a world position with the active attributes.
func (h *EditorHandler) PlaceSeat(c echo.Context) error {
	var req struct {
		X float64 `json:"x"`
		Y float64 `json:"y"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		seat, err := s.PlaceSeat(geometry.Pt(req.X, req.Y))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, echo.Map{"seat": seat, "state": stateOf(s, info)})
	})
}

// AddRow places one row of seats.
func (h *EditorHandler) AddRow(c echo.Context) error {
	var req struct {
		Label string `json:"label"`
		Count int    `json:"count"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		seats, err := s.AddRow(req.Label, req.Count)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, echo.Map{"seats": seats, "state": stateOf(s, info)})
	})
}

// AddRows places several consecutive rows as one undo step.
func (h *EditorHandler) AddRows(c echo.Context) error {
	var req struct {
		Rows   int `json:"rows"`
		PerRow int `json:"per_row"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		seats, err := s.AddRows(req.Rows, req.PerRow)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, echo.Map{"added": len(seats), "state": stateOf(s, info)})
	})
}

// ApplyTemplate replaces the layout with a built-in venue template.
func (h *EditorHandler) ApplyTemplate(c echo.Context) error {
	var req struct {
		Template string `json:"template"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		id, err := template.Parse(req.Template)
		if err != nil {
			return err
		}
		bp, err := s.ApplyTemplate(id)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"template": bp.ID, "name": bp.Name, "seats": len(bp.Seats), "state": stateOf(s, info)})
	})
}

// Zoom steps, resets or fits the view.
func (h *EditorHandler) Zoom(c echo.Context) error {
	var req struct {
		Action string `json:"action"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		switch req.Action {
		case "in":
			s.ZoomIn()
		case "out":
			s.ZoomOut()
		case "reset":
			s.ResetView()
		case "fit":
			s.FitView()
		default:
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "action must be in, out, reset or fit"})
		}
		return c.JSON(http.StatusOK, stateOf(s, info))
	})
}

// Undo reverts the last change.
func (h *EditorHandler) Undo(c echo.Context) error {
	return h.with(c, func(s *editor.Session, info session.Info) error {
		if err := s.Undo(); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stateOf(s, info))
	})
}

// Redo reapplies the last undone change.
func (h *EditorHandler) Redo(c echo.Context) error {
	return h.with(c, func(s *editor.Session, info session.Info) error {
		if err := s.Redo(); err != nil {
			return err
		}
		return c.JSON(http.StatusOK, stateOf(s, info))
	})
}

// Select replaces the selection.
func (h *EditorHandler) Select(c echo.Context) error {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		if s.Preview() {
			return editor.ErrPreviewMode
		}
		s.Select(req.IDs)
		return c.JSON(http.StatusOK, stateOf(s, info))
	})
}

// AssignSelection moves the selected seats into a section.
func (h *EditorHandler) AssignSelection(c echo.Context) error {
	var req struct {
		SectionID string `json:"section_id"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		n, err := s.AssignSelection(req.SectionID)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"updated": n, "state": stateOf(s, info)})
	})
}

// SetSelectionType changes the type of the selected seats.
func (h *EditorHandler) SetSelectionType(c echo.Context) error {
	var req struct {
		Type string `json:"type"`
	}
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		t, ok := model.ParseSeatType(req.Type)
		if !ok {
			return layout.ErrInvalidSeatType
		}
		n, err := s.SetSelectionType(t)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"updated": n, "state": stateOf(s, info)})
	})
}

// DeleteSelection removes the selected seats.
func (h *EditorHandler) DeleteSelection(c echo.Context) error {
	return h.with(c, func(s *editor.Session, info session.Info) error {
		n, err := s.DeleteSelected()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"deleted": n, "state": stateOf(s, info)})
	})
}

// ClearSeats removes every seat.
func (h *EditorHandler) ClearSeats(c echo.Context) error {
	return h.with(c, func(s *editor.Session, info session.Info) error {
		n, err := s.ClearAll()
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"deleted": n, "state": stateOf(s, info)})
	})
}

// AddSection creates a section.
func (h *EditorHandler) AddSection(c echo.Context) error {
	var req model.Section
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		sec, err := s.AddSection(req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusCreated, echo.Map{"section": sec, "state": stateOf(s, info)})
	})
}

// UpdateSection renames, recolours or re-prices a section.
func (h *EditorHandler) UpdateSection(c echo.Context) error {
	var req layout.SectionPatch
	if err := bindOr400(c, &req); err != nil {
		return editorError(c, err)
	}
	return h.with(c, func(s *editor.Session, info session.Info) error {
		sec, err := s.UpdateSection(c.Param("section_id"), req)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"section": sec, "state": stateOf(s, info)})
	})
}

// DeleteSection removes a section; its seats move to the default section.
func (h *EditorHandler) DeleteSection(c echo.Context) error {
	return h.with(c, func(s *editor.Session, info session.Info) error {
		n, err := s.DeleteSection(c.Param("section_id"))
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echo.Map{"reassigned": n, "state": stateOf(s, info)})
	})
}

// Snapshot returns the layout in its persisted JSON shape.
func (h *EditorHandler) Snapshot(c echo.Context) error {
	return h.with(c, func(s *editor.Session, _ session.Info) error {
		data, err := codec.EncodeSnapshot(s.Layout().Snapshot())
		if err != nil {
			return err
		}
		return c.JSONBlob(http.StatusOK, data)
	})
}

// Save persists the layout.  The session is left as it is whether or not
// the save succeeds.
func (h *EditorHandler) Save(c echo.Context) error {
	var (
		snap model.Snapshot
		info session.Info
	)
	err := h.with(c, func(s *editor.Session, i session.Info) error {
		snap, info = s.Layout().Snapshot(), i
		return nil
	})
	if err != nil || c.Response().Committed {
		return err
	}

	ctx := c.Request().Context()
	rec, err := h.SeatMaps.Save(ctx, info.EventID, info.OwnerID, snap)
	if err != nil {
		if errors.Is(err, repository.ErrForbidden) {
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		log.Printf("seatmap: save event %d failed: %v", info.EventID, err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to save seat map"})
	}

	if h.Purger != nil {
		if err := h.Purger.PurgeEvent(ctx, info.EventID); err != nil {
			log.Printf("seatmap: purge cache for event %d: %v", info.EventID, err)
		}
	}
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()
	if err := h.Publisher.PublishSeatMapSaved(pctx, service.SeatMapSaved(rec, snap.Metadata)); err != nil {
		log.Printf("seatmap: publish seatmap.saved for event %d: %v", info.EventID, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"seat_map": rec, "etag": codec.ETag(rec.Fingerprint)})
}

// Close ends the session without saving.
func (h *EditorHandler) Close(c echo.Context) error {
	err := h.with(c, func(*editor.Session, session.Info) error { return nil })
	if err != nil || c.Response().Committed {
		return err
	}
	if err := h.Sessions.Delete(c.Param("sid")); err != nil {
		return editorError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTemplates lists the built-in venue templates.
func ListTemplates(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"templates": template.List()})
}
