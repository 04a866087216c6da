package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/seatmap-studio/internal/handler"    // handlers implementing each endpoint
	"github.com/iliyamo/seatmap-studio/internal/middleware" // JWT authentication, roles, cache and rate limit
)

// RegisterRoutes registers routes that do not require authentication on the
// provided Echo instance: liveness, readiness and the template catalogue.
func RegisterRoutes(e *echo.Echo, db handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(db))
	e.GET("/v1/templates", handler.ListTemplates)
}

// RegisterEditor registers the authoring API under /v1.  Every route
// requires a valid JWT carrying the OWNER role.
func RegisterEditor(e *echo.Echo, h *handler.EditorHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner),
	)
	g.POST("/events/:event_id/editor", h.Open)

	s := g.Group("/editor/:sid")
	s.GET("", h.State)
	s.DELETE("", h.Close)
	s.GET("/frame", h.Frame)
	s.POST("/events", h.Events)

	s.POST("/tool", h.SetTool)
	s.POST("/preview", h.SetPreview)
	s.POST("/settings", h.UpdateSettings)
	s.POST("/active", h.SetActive)
	s.POST("/zoom", h.Zoom)
	s.POST("/undo", h.Undo)
	s.POST("/redo", h.Redo)

	s.POST("/seats", h.PlaceSeat)
	s.DELETE("/seats", h.ClearSeats)
	s.POST("/row", h.AddRow)
	s.POST("/rows", h.AddRows)
	s.POST("/template", h.ApplyTemplate)

	s.POST("/selection", h.Select)
	s.DELETE("/selection", h.DeleteSelection)
	s.POST("/selection/assign", h.AssignSelection)
	s.POST("/selection/type", h.SetSelectionType)

	s.POST("/sections", h.AddSection)
	s.PATCH("/sections/:section_id", h.UpdateSection)
	s.DELETE("/sections/:section_id", h.DeleteSection)

	s.GET("/snapshot", h.Snapshot)
	s.POST("/save", h.Save)
}

// RegisterPublic registers the guest seat map endpoints.  They carry no
// JWT; the GET routes are response-cached and all of them are rate-limited.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1/events/:event_id", mw...)
	g.GET("/seatmap", p.GetSeatMap)
	g.GET("/seatmap.svg", p.GetSeatMapSVG)
	g.POST("/seatmap/pick", p.Pick)
}
