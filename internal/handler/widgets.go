package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/BrandishReveal_Go/internal/domain"
	"github.com/osse101/BrandishReveal_Go/internal/logger"
	"github.com/osse101/BrandishReveal_Go/internal/outcome"
	"github.com/osse101/BrandishReveal_Go/internal/sse"
	"github.com/osse101/BrandishReveal_Go/internal/widget"
)

// Registry is the widget store the HTTP API drives
type Registry interface {
	Create(ctx context.Context, spec widget.Spec) (*widget.Widget, error)
	Get(id string) (*widget.Widget, error)
	Exists(id string) bool
	Remove(id string) error
}

// PoolEntry is one candidate in a create request. Eligible defaults to true.
type PoolEntry struct {
	ID       string                 `json:"id" validate:"required,max=128,entryid"`
	Display  map[string]interface{} `json:"display,omitempty"`
	Eligible *bool                  `json:"eligible,omitempty"`
}

// CreateWidgetRequest creates a reveal widget
type CreateWidgetRequest struct {
	Mode string      `json:"mode" validate:"required,mode"`
	Game string      `json:"game" validate:"max=64,entryid"`
	Pool []PoolEntry `json:"pool" validate:"max=1000,dive"`
}

// CreateWidgetResponse names the created widget
type CreateWidgetResponse struct {
	WidgetID   string      `json:"widget_id"`
	Mode       domain.Mode `json:"mode"`
	Game       string      `json:"game"`
	EventsPath string      `json:"events_path"`
}

// PlayRequest is the play token forwarded to the game server
type PlayRequest struct {
	CellIndex *int  `json:"cell_index,omitempty" validate:"omitempty,min=0"`
	Digits    []int `json:"digits,omitempty" validate:"omitempty,len=3,dive,min=0,max=9"`
}

// PlayResponse identifies the started reveal
type PlayResponse struct {
	SessionID string `json:"session_id"`
}

// ViewportRequest reports a manual scroll of one reel
type ViewportRequest struct {
	ReelID int `json:"reel_id" validate:"min=0"`
	First  int `json:"first" validate:"min=0"`
}

// WidgetHandler serves the widget API
type WidgetHandler struct {
	registry Registry
	hub      *sse.Hub
}

// NewWidgetHandler creates a WidgetHandler
func NewWidgetHandler(registry Registry, hub *sse.Hub) *WidgetHandler {
	return &WidgetHandler{registry: registry, hub: hub}
}

// Routes mounts the widget API on r
func (h *WidgetHandler) Routes(r chi.Router) {
	r.Post("/widgets", h.HandleCreate)
	r.Route("/widgets/{"+ParamWidgetID+"}", func(r chi.Router) {
		r.Get("/", h.HandleGet)
		r.Delete("/", h.HandleDelete)
		r.Post("/play", h.HandlePlay)
		r.Post("/acknowledge", h.HandleAcknowledge)
		r.Post("/viewport", h.HandleViewport)
		r.Get("/events", h.HandleEvents())
	})
}

// HandleCreate creates a widget
func (h *WidgetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateWidgetRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpCreateWidget); err != nil {
		return
	}

	spec := widget.Spec{Mode: domain.Mode(req.Mode), Game: req.Game}
	for _, e := range req.Pool {
		eligible := e.Eligible == nil || *e.Eligible
		spec.Pool = append(spec.Pool, domain.CandidateEntry{
			ID:             domain.EntryID(e.ID),
			DisplayPayload: e.Display,
			Eligible:       eligible,
		})
	}

	wdg, err := h.registry.Create(r.Context(), spec)
	if err != nil {
		respondServiceError(w, r, OpCreateWidget, err)
		return
	}

	logger.FromContext(r.Context()).Info("Widget created", "widget_id", wdg.ID(), "mode", wdg.Mode())
	respondJSON(w, http.StatusCreated, CreateWidgetResponse{
		WidgetID:   wdg.ID(),
		Mode:       wdg.Mode(),
		Game:       req.Game,
		EventsPath: r.URL.Path + "/" + wdg.ID() + "/events",
	})
}

// HandleGet returns the status of a widget
func (h *WidgetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	wdg, err := h.registry.Get(widgetIDParam(r))
	if err != nil {
		respondServiceError(w, r, OpGetWidget, err)
		return
	}

	status, err := wdg.Status()
	if err != nil {
		respondServiceError(w, r, OpGetWidget, err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

// HandlePlay asks the game server for an outcome and starts the reveal.
// The response returns once the animation is scheduled; progress is streamed.
func (h *WidgetHandler) HandlePlay(w http.ResponseWriter, r *http.Request) {
	wdg, err := h.registry.Get(widgetIDParam(r))
	if err != nil {
		respondServiceError(w, r, OpPlay, err)
		return
	}

	var req PlayRequest
	if err := DecodeOptionalRequest(r, w, &req, OpPlay); err != nil {
		return
	}

	sessionID, err := wdg.Play(r.Context(), outcome.PlayToken{CellIndex: req.CellIndex, Digits: req.Digits})
	if err != nil {
		respondServiceError(w, r, OpPlay, err)
		return
	}
	respondJSON(w, http.StatusAccepted, PlayResponse{SessionID: sessionID})
}

// HandleAcknowledge returns a finished widget to idle
func (h *WidgetHandler) HandleAcknowledge(w http.ResponseWriter, r *http.Request) {
	wdg, err := h.registry.Get(widgetIDParam(r))
	if err != nil {
		respondServiceError(w, r, OpAcknowledge, err)
		return
	}
	if err := wdg.Acknowledge(); err != nil {
		respondServiceError(w, r, OpAcknowledge, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgAcknowledged})
}

// HandleViewport records a manual scroll reported by the renderer
func (h *WidgetHandler) HandleViewport(w http.ResponseWriter, r *http.Request) {
	wdg, err := h.registry.Get(widgetIDParam(r))
	if err != nil {
		respondServiceError(w, r, OpViewport, err)
		return
	}

	var req ViewportRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpViewport); err != nil {
		return
	}

	if err := wdg.ReportScroll(req.ReelID, req.First); err != nil {
		respondServiceError(w, r, OpViewport, err)
		return
	}
	respondJSON(w, http.StatusOK, wdg.Viewport(req.ReelID))
}

// HandleDelete closes a widget and cancels everything it scheduled
func (h *WidgetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.Remove(widgetIDParam(r)); err != nil {
		respondServiceError(w, r, OpDeleteWidget, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEvents streams the frames, effects and reveal events of a widget
func (h *WidgetHandler) HandleEvents() http.HandlerFunc {
	return sse.Handler(h.hub, func(r *http.Request) (string, bool) {
		id := widgetIDParam(r)
		return id, h.registry.Exists(id)
	})
}
