// internal/httpserver/server.go
//
// HTTP wiring for the grid-filling service.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/dict".
//   - POST /solve: fill a grid with the request's word list or the default
//     dictionary; solve statistics are logged to the store best-effort.
//   - Puzzle endpoints: list/fetch public, saving requires auth.
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Per-request solve time is bounded twice: a request timeout middleware
//     and an explicit per-solve context deadline, since worst-case search
//     time is unbounded.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/wrieger93/gridsolver/internal/dict"
	"github.com/wrieger93/gridsolver/internal/grid"
	"github.com/wrieger93/gridsolver/internal/solver"
	"github.com/wrieger93/gridsolver/internal/store"
)

// maxSolveTime caps the per-request search budget regardless of what the
// client asks for.
const maxSolveTime = 20 * time.Second

// Server bundles the router, the persistent store, and the default dictionary.
type Server struct {
	r    *chi.Mux
	st   *store.Store
	dict *dict.Dictionary
}

// New constructs a Server, installs middleware, and registers routes.
func New(st *store.Store, d *dict.Dictionary) *Server {
	s := &Server{r: chi.NewRouter(), st: st, dict: d}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(30 * time.Second))
	s.r.Use(jsonContentType)
	s.r.Use(corsFromEnv)

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"service":"gridsolver","endpoints":["/health","POST /solve","/puzzles","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	s.r.Get("/debug/dict", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"words":   s.dict.Len(),
			"lengths": s.dict.Lengths(),
		})
	})

	s.r.Post("/solve", s.handleSolve)
	s.mountPuzzles()
	s.mountAuthRoutes()

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"not_found","path":"`+r.URL.Path+`"}`, http.StatusNotFound)
	})

	return s
}

// Start begins serving HTTP on addr.
func (s *Server) Start(addr string) error { return http.ListenAndServe(addr, s.r) }

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// corsFromEnv enables credentialed CORS for a single origin.
// Uses CLIENT_ORIGIN env var; defaults to http://localhost:5173.
func corsFromEnv(next http.Handler) http.Handler {
	origin := os.Getenv("CLIENT_ORIGIN")
	if origin == "" {
		origin = "http://localhost:5173"
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ------------------------------ SOLVE --------------------------------------

// solveReq is the payload for POST /solve. Grid uses the text format from
// internal/grid ("width,height" header, '.' open, '#' blocked). Words, when
// present, replace the server's default dictionary for this request.
type solveReq struct {
	Grid         string   `json:"grid"`
	PuzzleID     string   `json:"puzzleId"` // load grid from a saved puzzle instead
	Words        []string `json:"words"`
	AllowRepeats bool     `json:"allowRepeats"`
	TimeoutMs    int      `json:"timeoutMs"`
}

type solveRes struct {
	Solved     bool            `json:"solved"`
	Reason     string          `json:"reason,omitempty"` // "unsolvable" | "timeout"
	Grid       string          `json:"grid,omitempty"`
	Entries    []solveResEntry `json:"entries,omitempty"`
	Nodes      int             `json:"nodes"`
	Backtracks int             `json:"backtracks"`
	DurationMs int             `json:"durationMs"`
}

type solveResEntry struct {
	Row  int    `json:"row"`
	Col  int    `json:"col"`
	Dir  string `json:"dir"`
	Word string `json:"word"`
}

// handleSolve parses the grid, picks a dictionary, runs the engine under a
// deadline, and reports the outcome. Unsolvable is a 200 with solved=false;
// only malformed input is a 4xx.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var req solveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}

	gridText := req.Grid
	if req.PuzzleID != "" {
		p, err := s.st.GetPuzzle(r.Context(), req.PuzzleID)
		if err != nil {
			http.Error(w, `{"error":"puzzle_not_found"}`, http.StatusNotFound)
			return
		}
		gridText = p.GridText
	}

	g, err := grid.Parse(gridText)
	if err != nil {
		http.Error(w, `{"error":"invalid_grid","detail":"`+err.Error()+`"}`, http.StatusBadRequest)
		return
	}

	d := s.dict
	if len(req.Words) > 0 {
		d, err = dict.New(req.Words)
		if err != nil {
			http.Error(w, `{"error":"empty_dictionary"}`, http.StatusBadRequest)
			return
		}
	}

	budget := maxSolveTime
	if req.TimeoutMs > 0 && time.Duration(req.TimeoutMs)*time.Millisecond < budget {
		budget = time.Duration(req.TimeoutMs) * time.Millisecond
	}
	ctx, cancel := context.WithTimeout(r.Context(), budget)
	defer cancel()

	sol, stats, err := solver.Solve(ctx, g, d, solver.Options{AllowRepeats: req.AllowRepeats})

	// Persist the attempt (best effort, non-fatal if it fails).
	rec := store.SolveRecord{
		PuzzleID:   req.PuzzleID,
		Solved:     err == nil,
		Nodes:      stats.Nodes,
		Backtracks: stats.Backtracks,
		DurationMs: int(stats.Duration.Milliseconds()),
	}
	if dbErr := s.st.RecordSolve(r.Context(), rec); dbErr != nil {
		log.Warn().Err(dbErr).Msg("record solve")
	}

	res := solveRes{
		Solved:     err == nil,
		Nodes:      stats.Nodes,
		Backtracks: stats.Backtracks,
		DurationMs: int(stats.Duration.Milliseconds()),
	}
	switch {
	case err == nil:
		res.Grid = sol.Render()
		for _, slot := range g.Slots {
			res.Entries = append(res.Entries, solveResEntry{
				Row:  slot.Cells[0].Row,
				Col:  slot.Cells[0].Col,
				Dir:  slot.Dir.String(),
				Word: sol.Words[slot.ID],
			})
		}
	case errors.Is(err, solver.ErrUnsolvable):
		res.Reason = "unsolvable"
	default:
		res.Reason = "timeout"
	}
	_ = json.NewEncoder(w).Encode(res)
}

// ------------------------------- small util --------------------------------

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
