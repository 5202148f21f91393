package arena

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	arenaService "github.com/tictacgo/backend/internal/service/arena"
)

func setupRouter() (*chi.Mux, *arenaService.Service) {
	svc := arenaService.NewService(24*time.Hour, zerolog.Nop())
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func TestCreateGame(t *testing.T) {
	r, svc := setupRouter()

	req := httptest.NewRequest(http.MethodPost, "/games/create", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	gameID := body["game_id"]
	if gameID == "" {
		t.Fatal("missing game_id in response")
	}
	if _, err := svc.Get(gameID); err != nil {
		t.Fatalf("created game not in registry: %v", err)
	}
}

func TestGameStatus(t *testing.T) {
	r, svc := setupRouter()
	s := svc.Create()

	req := httptest.NewRequest(http.MethodGet, "/games/"+s.ID, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		PlayerCount   int       `json:"player_count"`
		Board         [9]string `json:"board"`
		CurrentPlayer string    `json:"current_player"`
		Winner        *string   `json:"winner"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.PlayerCount != 0 {
		t.Fatalf("unexpected player_count: %d", body.PlayerCount)
	}
	if body.CurrentPlayer != "X" {
		t.Fatalf("unexpected current_player: %s", body.CurrentPlayer)
	}
	if body.Winner != nil {
		t.Fatalf("fresh game should have no winner: %v", *body.Winner)
	}
	if body.Board != [9]string{} {
		t.Fatalf("fresh game board not empty: %v", body.Board)
	}
}

func TestGameStatusNotFound(t *testing.T) {
	r, _ := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/games/nope", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("missing error message")
	}
}

func TestListGames(t *testing.T) {
	r, svc := setupRouter()
	a := svc.Create()
	b := svc.Create()

	req := httptest.NewRequest(http.MethodGet, "/games", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Games map[string]struct {
			CurrentPlayer string `json:"current_player"`
			PlayerCount   int    `json:"player_count"`
			CreatedAt     string `json:"created_at"`
		} `json:"games"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Games) != 2 {
		t.Fatalf("expected 2 games, got %d", len(body.Games))
	}
	for _, id := range []string{a.ID, b.ID} {
		entry, ok := body.Games[id]
		if !ok {
			t.Fatalf("game %s missing from listing", id)
		}
		if _, err := time.Parse(time.RFC3339, entry.CreatedAt); err != nil {
			t.Fatalf("created_at not RFC3339: %q", entry.CreatedAt)
		}
	}
}
