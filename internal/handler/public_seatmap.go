package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/seatmap-studio/internal/codec"
	"github.com/iliyamo/seatmap-studio/internal/geometry"
	"github.com/iliyamo/seatmap-studio/internal/layout"
	"github.com/iliyamo/seatmap-studio/internal/model"
	"github.com/iliyamo/seatmap-studio/internal/picker"
	"github.com/iliyamo/seatmap-studio/internal/render"
	"github.com/iliyamo/seatmap-studio/internal/repository"
)

// TicketTypeLister reads the ticket types of an event.
type TicketTypeLister interface {
	ListByEvent(ctx context.Context, eventID uint64) ([]model.TicketType, error)
}

// PublicHandler serves published seat maps to guests.  No authentication is
// required.
type PublicHandler struct {
	SeatMaps    SeatMapStore
	TicketTypes TicketTypeLister
}

// NewPublicHandler constructs a PublicHandler and panics if any dependency is nil
func NewPublicHandler(seatMaps SeatMapStore, ticketTypes TicketTypeLister) *PublicHandler {
	if seatMaps == nil || ticketTypes == nil {
		panic("nil dependency passed to NewPublicHandler")
	}
	return &PublicHandler{SeatMaps: seatMaps, TicketTypes: ticketTypes}
}

// loadPublished loads the seat map of the requested event, writing the error
// response itself when it fails.
func (h *PublicHandler) loadPublished(c echo.Context) (uint64, model.Snapshot, bool, error) {
	eventID, err := parseEventID(c)
	if err != nil {
		return 0, model.Snapshot{}, false, c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	snap, _, err := h.SeatMaps.Load(c.Request().Context(), eventID)
	if errors.Is(err, repository.ErrSeatMapNotFound) {
		return 0, model.Snapshot{}, false, c.JSON(http.StatusNotFound, echo.Map{"error": "seat map not found"})
	}
	if err != nil {
		log.Printf("seatmap: public load event %d: %v", eventID, err)
		return 0, model.Snapshot{}, false, c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load seat map"})
	}
	return eventID, snap, true, nil
}

// GetSeatMap returns the published layout snapshot with occupancy.  The
// ETag covers the body, so a booking that changes occupancy changes it too.
func (h *PublicHandler) GetSeatMap(c echo.Context) error {
	_, snap, ok, err := h.loadPublished(c)
	if !ok {
		return err
	}
	body, err := codec.EncodeSnapshot(snap)
	if err != nil {
		return err
	}
	etag := codec.ETag(codec.Fingerprint(body))
	c.Response().Header().Set("ETag", etag)
	if match := c.Request().Header.Get("If-None-Match"); match != "" && match == etag {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSONBlob(http.StatusOK, body)
}

// GetSeatMapSVG draws the guest view.  ?picked=id1,id2 highlights held
// seats; ?width, ?height and ?ratio size the canvas.
func (h *PublicHandler) GetSeatMapSVG(c echo.Context) error {
	_, snap, ok, err := h.loadPublished(c)
	if !ok {
		return err
	}
	l := layout.FromSnapshot(snap)
	held := map[string]bool{}
	for _, id := range strings.Split(c.QueryParam("picked"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			held[id] = true
		}
	}
	f := render.RenderPicker(render.PickerView{
		Layout:     l,
		Picked:     held,
		Width:      queryFloat(c, "width", l.Settings.CanvasSize.Width),
		Height:     queryFloat(c, "height", l.Settings.CanvasSize.Height),
		PixelRatio: queryFloat(c, "ratio", 1),
	})
	return c.Blob(http.StatusOK, "image/svg+xml", []byte(f.SVG()))
}

type pickRequest struct {
	Picked []string `json:"picked"`
	Limit  int      `json:"limit"`
	X      float64  `json:"x"`
	Y      float64  `json:"y"`
	Width  float64  `json:"width"`
	Height float64  `json:"height"`
}

type pickResponse struct {
	Picked     []string      `json:"picked"`
	Changed    bool          `json:"changed"`
	Seat       *model.Seat   `json:"seat,omitempty"`
	Notice     string        `json:"notice,omitempty"`
	Complete   bool          `json:"complete"`
	Lines      []picker.Line `json:"lines"`
	TotalCents int64         `json:"total_cents"`
}

// Pick toggles the seat under a click on the guest canvas.  The client
// sends the seats it already holds and the quantity it wants; x and y are
// canvas coordinates of the click on a width by height canvas.
func (h *PublicHandler) Pick(c echo.Context) error {
	var req pickRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Limit < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be at least 1"})
	}
	eventID, snap, ok, err := h.loadPublished(c)
	if !ok {
		return err
	}
	ticketTypes, err := h.TicketTypes.ListByEvent(c.Request().Context(), eventID)
	if err != nil {
		log.Printf("seatmap: ticket types for event %d: %v", eventID, err)
		ticketTypes = nil // seats are still pickable, just unpriced
	}

	l := layout.FromSnapshot(snap)
	if req.Width <= 0 {
		req.Width = l.Settings.CanvasSize.Width
	}
	if req.Height <= 0 {
		req.Height = l.Settings.CanvasSize.Height
	}
	zoom, pan := render.PickerTransform(l, req.Width, req.Height)
	at := geometry.Pt(req.X, req.Y).Sub(pan).Div(zoom)

	p := picker.New(l, req.Limit, req.Picked)
	seat, changed, err := p.Toggle(at)
	resp := pickResponse{Changed: changed}
	switch {
	case errors.Is(err, picker.ErrLimitReached):
		resp.Notice = "Selection limit reached: you can only select " + pluralSeats(req.Limit) + "."
	case err != nil:
		return err
	}
	if changed {
		resp.Seat = &seat
	}
	resp.Picked = p.Picked()
	resp.Complete = p.Complete()
	resp.Lines = p.Lines(ticketTypes)
	resp.TotalCents = picker.Total(resp.Lines)
	return c.JSON(http.StatusOK, resp)
}

func pluralSeats(n int) string {
	if n == 1 {
		return "1 seat"
	}
	return strconv.Itoa(n) + " seats"
}
