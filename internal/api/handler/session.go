package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/mcoot/cowsbulls-go/internal/api/middleware"
	"github.com/mcoot/cowsbulls-go/internal/api/request"
	"github.com/mcoot/cowsbulls-go/internal/api/response"
	"github.com/mcoot/cowsbulls-go/internal/model"
	"github.com/mcoot/cowsbulls-go/internal/services/session"
	"github.com/mcoot/cowsbulls-go/internal/sse"
)

// SessionHandler handles session endpoints
type SessionHandler struct {
	controller  session.ControllerInterface
	broadcaster *sse.Broadcaster
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(controller session.ControllerInterface, broadcaster *sse.Broadcaster) *SessionHandler {
	return &SessionHandler{
		controller:  controller,
		broadcaster: broadcaster,
	}
}

// sessionCode pulls the session code out of the route, normalized to
// lowercase so codes are case-insensitive on the wire.
func sessionCode(r *http.Request) model.SessionCode {
	return model.SessionCode(strings.ToLower(mux.Vars(r)["code"]))
}

// Create handles POST /api/v1/sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	created, playerID, err := h.controller.CreateSession(r.Context(), req.Name, req.DigitLength)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.JoinedSessionResponse{
		Session:  response.SessionFromModel(created),
		PlayerID: string(playerID),
	}
	response.JSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/v1/sessions/{code}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	code := sessionCode(r)

	s, err := h.controller.GetSession(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionResponse{Session: response.SessionFromModel(s)})
}

// Join handles POST /api/v1/sessions/{code}/join
func (h *SessionHandler) Join(w http.ResponseWriter, r *http.Request) {
	code := sessionCode(r)

	var req request.JoinSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	s, playerID, err := h.controller.JoinSession(r.Context(), code, req.Name, model.PlayerID(req.PlayerID))
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.JoinedSessionResponse{
		Session:  response.SessionFromModel(s),
		PlayerID: string(playerID),
	}
	response.JSON(w, http.StatusOK, resp)
}

// Ready handles POST /api/v1/sessions/{code}/ready
func (h *SessionHandler) Ready(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())
	code := sessionCode(r)

	s, err := h.controller.ToggleReady(r.Context(), code, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionResponse{Session: response.SessionFromModel(s)})
}

// Guess handles POST /api/v1/sessions/{code}/guess
func (h *SessionHandler) Guess(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())
	code := sessionCode(r)

	var req request.GuessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	result, err := h.controller.SubmitGuess(r.Context(), code, playerID, req.Value)
	if err != nil {
		WriteError(w, err)
		return
	}

	resp := response.GuessResponse{
		Guess:   response.GuessFromModel(result.Guess),
		Winning: result.Winning,
		Session: response.SessionFromModel(result.Session),
	}
	response.JSON(w, http.StatusOK, resp)
}

// Reset handles POST /api/v1/sessions/{code}/reset
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())
	code := sessionCode(r)

	s, err := h.controller.Reset(r.Context(), code, playerID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SessionResponse{Session: response.SessionFromModel(s)})
}

// RemovePlayer handles DELETE /api/v1/sessions/{code}/players/{player_id}
func (h *SessionHandler) RemovePlayer(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())
	code := sessionCode(r)
	target := model.PlayerID(mux.Vars(r)["player_id"])

	if _, err := h.controller.RemovePlayer(r.Context(), code, playerID, target); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Exit handles POST /api/v1/sessions/{code}/exit
func (h *SessionHandler) Exit(w http.ResponseWriter, r *http.Request) {
	playerID := middleware.MustGetPlayerID(r.Context())
	code := sessionCode(r)

	if _, err := h.controller.ExitSession(r.Context(), code, playerID); err != nil {
		WriteError(w, err)
		return
	}

	response.NoContent(w)
}

// Events handles GET /api/v1/sessions/{code}/events
// Streams every committed session record as a session-update SSE event.
func (h *SessionHandler) Events(w http.ResponseWriter, r *http.Request) {
	code := sessionCode(r)
	playerID := middleware.GetPlayerID(r.Context())

	// Reject streams for sessions that don't exist
	if _, err := h.controller.GetSession(r.Context(), code); err != nil {
		WriteError(w, err)
		return
	}

	hub, err := h.broadcaster.Connect(r.Context(), code)
	if err != nil {
		WriteError(w, err)
		return
	}

	sse.ServeSSE(w, r, hub, playerID)
	h.broadcaster.Release(code)
}
