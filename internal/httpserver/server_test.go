package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/wrieger93/gridsolver/internal/dict"
	"github.com/wrieger93/gridsolver/internal/store"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	d, err := dict.New([]string{"at", "no", "cat", "bat", "dog", "tip"})
	if err != nil {
		t.Fatalf("build dict: %v", err)
	}
	return New(st, d)
}

func doJSON(t *testing.T, s *Server, method, path string, body any, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	s.Router().ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	s := testServer(t)
	w := doJSON(t, s, http.MethodGet, "/health", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Fatalf("body %q", w.Body.String())
	}
}

func TestSolveEndpoint(t *testing.T) {
	s := testServer(t)
	w := doJSON(t, s, http.MethodPost, "/solve", map[string]any{"grid": "2,1\n..\n"}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var res struct {
		Solved  bool   `json:"solved"`
		Grid    string `json:"grid"`
		Entries []struct {
			Word string `json:"word"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Solved || len(res.Entries) != 1 {
		t.Fatalf("unexpected response: %+v", res)
	}
	if res.Entries[0].Word != "AT" {
		t.Fatalf("got %q, want first candidate \"AT\"", res.Entries[0].Word)
	}
	if !strings.Contains(res.Grid, "AT") {
		t.Fatalf("rendered grid missing word: %q", res.Grid)
	}
}

func TestSolveEndpointCustomWords(t *testing.T) {
	s := testServer(t)
	w := doJSON(t, s, http.MethodPost, "/solve", map[string]any{
		"grid":  "2,1\n..\n",
		"words": []string{"go"},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"word":"GO"`) {
		t.Fatalf("body %q", w.Body.String())
	}
}

func TestSolveEndpointUnsolvable(t *testing.T) {
	s := testServer(t)
	// Cross shape with middle-incompatible words only.
	w := doJSON(t, s, http.MethodPost, "/solve", map[string]any{
		"grid":  "3,3\n#.#\n...\n#.#\n",
		"words": []string{"cat", "dog", "tip"},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unsolvable should be 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"reason":"unsolvable"`) {
		t.Fatalf("body %q", w.Body.String())
	}
}

func TestSolveEndpointBadInput(t *testing.T) {
	s := testServer(t)
	if w := doJSON(t, s, http.MethodPost, "/solve", map[string]any{"grid": "####"}, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid grid: status %d", w.Code)
	}
	if w := doJSON(t, s, http.MethodPost, "/solve", map[string]any{
		"grid":  "2,1\n..\n",
		"words": []string{"123", ""},
	}, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("empty dictionary: status %d", w.Code)
	}
}

func TestPuzzleSaveRequiresAuth(t *testing.T) {
	s := testServer(t)
	w := doJSON(t, s, http.MethodPost, "/puzzles", map[string]any{"name": "x", "grid": "2,1\n..\n"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", w.Code)
	}
}

func TestSignupSaveAndFetchPuzzle(t *testing.T) {
	s := testServer(t)

	w := doJSON(t, s, http.MethodPost, "/auth/signup", map[string]any{
		"username": "setter",
		"password": "longenough",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signup: status %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("signup set no auth cookie")
	}

	w = doJSON(t, s, http.MethodPost, "/puzzles", map[string]any{
		"name": "monday mini",
		"grid": "2,2\n..\n..\n",
	}, cookies)
	if w.Code != http.StatusOK {
		t.Fatalf("save puzzle: status %d: %s", w.Code, w.Body.String())
	}
	var saved struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &saved); err != nil || saved.ID == "" {
		t.Fatalf("decode saved puzzle: %v %q", err, w.Body.String())
	}

	w = doJSON(t, s, http.MethodGet, "/puzzles/"+saved.ID, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get puzzle: status %d", w.Code)
	}

	// Solving by puzzle ID uses the stored grid.
	w = doJSON(t, s, http.MethodPost, "/solve", map[string]any{
		"puzzleId": saved.ID,
		"words":    []string{"ab", "cd", "ac", "bd"},
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("solve by id: status %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"solved":true`) {
		t.Fatalf("body %q", w.Body.String())
	}

	// The attempt shows up in the solve log.
	w = doJSON(t, s, http.MethodGet, "/puzzles/solves", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("solves: status %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), saved.ID) {
		t.Fatalf("solve log missing puzzle id: %q", w.Body.String())
	}
}

func TestSignupRejectsWeakInput(t *testing.T) {
	s := testServer(t)
	w := doJSON(t, s, http.MethodPost, "/auth/signup", map[string]any{
		"username": "ab",
		"password": "longenough",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short username: status %d", w.Code)
	}
	w = doJSON(t, s, http.MethodPost, "/auth/signup", map[string]any{
		"username": "goodname",
		"password": "short",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("short password: status %d", w.Code)
	}
}

func TestLoginFlow(t *testing.T) {
	s := testServer(t)
	w := doJSON(t, s, http.MethodPost, "/auth/signup", map[string]any{
		"username": "setter",
		"password": "longenough",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("signup: %d", w.Code)
	}

	if w = doJSON(t, s, http.MethodPost, "/auth/login", map[string]any{
		"username": "setter",
		"password": "wrongpassword",
	}, nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("bad password: status %d", w.Code)
	}

	w = doJSON(t, s, http.MethodPost, "/auth/login", map[string]any{
		"username": "setter",
		"password": "longenough",
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login: status %d: %s", w.Code, w.Body.String())
	}
	cookies := w.Result().Cookies()

	w = doJSON(t, s, http.MethodGet, "/auth/me", nil, cookies)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "setter") {
		t.Fatalf("me: status %d body %q", w.Code, w.Body.String())
	}
}
