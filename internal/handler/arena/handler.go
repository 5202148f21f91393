package arena

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tictacgo/backend/internal/service/arena"
	"github.com/tictacgo/backend/pkg/utils"
)

// Handler serves the game control surface: creation, status polling and
// the diagnostics listing.
type Handler struct {
	arenaSvc *arena.Service
}

// New creates the control surface handler.
func New(arenaSvc *arena.Service) *Handler {
	return &Handler{arenaSvc: arenaSvc}
}

// RegisterRoutes mounts the control routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/games/create", h.handleCreate)
	r.Get("/games", h.handleList)
	r.Get("/games/{gameID}", h.handleStatus)
}

type gameStatusResponse struct {
	PlayerCount   int       `json:"player_count"`
	Board         [9]string `json:"board"`
	CurrentPlayer string    `json:"current_player"`
	Winner        *string   `json:"winner"`
}

type gameListEntry struct {
	Board         [9]string `json:"board"`
	CurrentPlayer string    `json:"current_player"`
	Winner        *string   `json:"winner"`
	PlayerCount   int       `json:"player_count"`
	CreatedAt     string    `json:"created_at"`
}

// winnerField maps the unset outcome to JSON null.
func winnerField(st arena.Status) *string {
	if st.Outcome == "" {
		return nil
	}
	w := string(st.Outcome)
	return &w
}

// handleCreate provisions a new game and returns its identifier.
func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	s := h.arenaSvc.Create()
	utils.RespondJSON(w, http.StatusOK, map[string]string{"game_id": s.ID})
}

// handleStatus reports the current state of one game.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")

	st, err := h.arenaSvc.Status(gameID)
	if err != nil {
		if errors.Is(err, arena.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, "game not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, gameStatusResponse{
		PlayerCount:   st.PlayerCount,
		Board:         st.Board,
		CurrentPlayer: string(st.CurrentTurn),
		Winner:        winnerField(st),
	})
}

// handleList reports every live game, for diagnostics.
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	all := h.arenaSvc.SnapshotAll()

	games := make(map[string]gameListEntry, len(all))
	for id, st := range all {
		games[id] = gameListEntry{
			Board:         st.Board,
			CurrentPlayer: string(st.CurrentTurn),
			Winner:        winnerField(st),
			PlayerCount:   st.PlayerCount,
			CreatedAt:     st.CreatedAt.Format(time.RFC3339),
		}
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{"games": games})
}
