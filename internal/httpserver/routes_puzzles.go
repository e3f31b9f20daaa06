// internal/httpserver/routes_puzzles.go
//
// Puzzle endpoints:
//   - GET  /puzzles        → recent saved puzzles
//   - GET  /puzzles/{id}   → one saved puzzle
//   - GET  /puzzles/solves → recent solve attempts with search stats
//   - POST /puzzles        → save a named puzzle (requires auth)
//
// Saved grids are validated (parsed) before they hit the store so the table
// only ever holds solvable-shaped input.

package httpserver

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/wrieger93/gridsolver/internal/grid"
	"github.com/wrieger93/gridsolver/internal/store"
)

// mountPuzzles registers all /puzzles routes.
func (s *Server) mountPuzzles() {
	s.r.Route("/puzzles", func(r chi.Router) {
		r.Get("/", s.handleListPuzzles)
		r.Get("/solves", s.handleRecentSolves)
		r.Get("/{id}", s.handleGetPuzzle)
		r.With(s.requireAuth()).Post("/", s.handleSavePuzzle)
	})
}

func (s *Server) handleListPuzzles(w http.ResponseWriter, r *http.Request) {
	out, err := s.st.ListPuzzles(r.Context(), 20)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

func (s *Server) handleGetPuzzle(w http.ResponseWriter, r *http.Request) {
	p, err := s.st.GetPuzzle(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

func (s *Server) handleRecentSolves(w http.ResponseWriter, r *http.Request) {
	out, err := s.st.RecentSolves(r.Context(), 20)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(out)
}

// savePuzzleReq is the payload for POST /puzzles.
type savePuzzleReq struct {
	Name string `json:"name"`
	Grid string `json:"grid"`
}

// handleSavePuzzle validates and stores a named grid for the current user.
func (s *Server) handleSavePuzzle(w http.ResponseWriter, r *http.Request) {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	if me == nil {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
		return
	}
	var req savePuzzleReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		http.Error(w, `{"error":"name_required"}`, http.StatusBadRequest)
		return
	}
	if _, err := grid.Parse(req.Grid); err != nil {
		http.Error(w, `{"error":"invalid_grid","detail":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}
	p := store.Puzzle{
		ID:        genID(),
		Name:      name,
		GridText:  req.Grid,
		UserID:    me.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.st.SavePuzzle(r.Context(), p); err != nil {
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}
