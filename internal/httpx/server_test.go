// path: blockbrain/internal/httpx/server_test.go
package httpx

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"blockbrain/internal/brain"
	"blockbrain/internal/config"
	"blockbrain/internal/piece"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.MaxBodyBytes = 4096
	cfg.Checks = true
	srv, err := NewServer(piece.NewStandardTable(), cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
}

const clearingRows = `["....","....","....","....","....","###."]`

func TestBestMoveClearsRow(t *testing.T) {
	srv := newTestServer(t)
	for _, body := range []string{
		`{"rows":` + clearingRows + `,"shape":"stick"}`,
		`{"rows":` + clearingRows + `,"spec":"0 3 0 2 0 1 0 0"}`,
	} {
		rr := do(t, srv, http.MethodPost, "/api/bestmove", body)
		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		var resp bestMoveResponse
		decode(t, rr, &resp)
		want := bestMoveResponse{
			Found: true,
			Move: &moveDTO{
				Spec:     "0 0 1 0 2 0 3 0",
				X:        0,
				Y:        1,
				Score:    38,
				Rotation: 1,
				Width:    4,
				Height:   1,
			},
			RowsCleared: 1,
			Board:       []string{"....", "....", "....", "....", "....", "###."},
		}
		if diff := cmp.Diff(want, resp); diff != "" {
			t.Fatalf("response mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestBestMoveHandlerDirect(t *testing.T) {
	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/bestmove", strings.NewReader(`{"rows":["...","..."],"shape":"square","rater":"adversarial"}`))
	rr := httptest.NewRecorder()

	srv.withJSON(srv.handleBestMove)(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Security-Policy"); got != apiCSP {
		t.Fatalf("expected API CSP header, got %q", got)
	}
	var resp bestMoveResponse
	decode(t, rr, &resp)
	if !resp.Found || resp.Move == nil {
		t.Fatalf("expected a move, got %+v", resp)
	}
	if resp.Move.Score > brain.DefaultCeiling {
		t.Fatalf("expected an inverted score below %d, got %v", brain.DefaultCeiling, resp.Move.Score)
	}
}

func TestBestMoveNotFound(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/api/bestmove", `{"rows":["...","...","..."],"shape":"stick"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var resp bestMoveResponse
	decode(t, rr, &resp)
	if resp.Found || resp.Move != nil {
		t.Fatalf("expected no move, got %+v", resp)
	}
	if diff := cmp.Diff([]string{"...", "...", "..."}, resp.Board); diff != "" {
		t.Fatalf("board mismatch (-want +got):\n%s", diff)
	}
}

func TestBestMoveRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)
	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"ragged rows", `{"rows":["..","..."],"shape":"square"}`, http.StatusBadRequest},
		{"no rows", `{"rows":[],"shape":"square"}`, http.StatusBadRequest},
		{"too wide", `{"rows":["` + strings.Repeat(".", config.MaxWidth+1) + `"],"shape":"square"}`, http.StatusBadRequest},
		{"no piece", `{"rows":[".."]}`, http.StatusBadRequest},
		{"unknown shape", `{"rows":[".."],"shape":"zig"}`, http.StatusBadRequest},
		{"bad spec", `{"rows":[".."],"spec":"0 0 1"}`, http.StatusBadRequest},
		{"huge spec", `{"rows":[".."],"spec":"9223372036854775807 0"}`, http.StatusBadRequest},
		{"spec past bound", `{"rows":[".."],"spec":"0 0 1000000000000 0"}`, http.StatusBadRequest},
		{"spec wider than grid", `{"rows":["...","..."],"spec":"0 0 1 0 2 0 3 1"}`, http.StatusBadRequest},
		{"spec taller than grid", `{"rows":["...","..."],"spec":"0 0 0 1 0 2"}`, http.StatusBadRequest},
		{"bad limit", `{"rows":[".."],"shape":"square","heightLimit":5}`, http.StatusBadRequest},
		{"unknown rater", `{"rows":[".."],"shape":"square","rater":"oracle"}`, http.StatusBadRequest},
		{"too large", `{"rows":["` + strings.Repeat(".", 5000) + `"]}`, http.StatusRequestEntityTooLarge},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/api/bestmove", tc.body)
			if rr.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, rr.Code, rr.Body.String())
			}
			var resp map[string]string
			decode(t, rr, &resp)
			if resp["error"] == "" {
				t.Fatalf("expected an error message")
			}
		})
	}
}

func TestBestMoveMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)
	if rr := do(t, srv, http.MethodGet, "/api/bestmove", ""); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rr.Code)
	}
}

func TestDrop(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodPost, "/api/drop", `{"rows":["....","#...","##.."],"shape":"square","x":0}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var resp struct {
		Y      int    `json:"y"`
		Result string `json:"result"`
	}
	decode(t, rr, &resp)
	if resp.Y != 2 || resp.Result != "out_of_bounds" {
		t.Fatalf("expected y=2 out_of_bounds, got y=%d %s", resp.Y, resp.Result)
	}

	rr = do(t, srv, http.MethodPost, "/api/drop", `{"rows":["....","....","##.."],"shape":"square","x":2}`)
	decode(t, rr, &resp)
	if resp.Y != 0 || resp.Result != "row_filled" {
		t.Fatalf("expected y=0 row_filled, got y=%d %s", resp.Y, resp.Result)
	}

	if rr := do(t, srv, http.MethodPost, "/api/drop", `{"rows":["...."],"shape":"square","x":3}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400 for x past the edge, got %d", rr.Code)
	}
}

func TestDropRejectsUnusableShapes(t *testing.T) {
	srv := newTestServer(t)
	cases := []struct {
		name string
		body string
	}{
		{"off the left edge", `{"rows":["#.","#.","#.","#.","#."],"spec":"1 0","x":0}`},
		{"huge coordinate", `{"rows":["#."],"spec":"9223372036854775807 0","x":0}`},
		{"taller than grid", `{"rows":["....","...."],"shape":"stick","x":0}`},
		{"spec wider than grid", `{"rows":["..",".."],"spec":"0 0 1 0 2 0","x":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := do(t, srv, http.MethodPost, "/api/drop", tc.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d: %s", rr.Code, rr.Body.String())
			}
		})
	}
}

func TestShapesAndRaters(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/api/shapes", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	var shapes struct {
		Shapes []shapeDTO `json:"shapes"`
	}
	decode(t, rr, &shapes)
	var names []string
	rotations := map[string]int{}
	for _, s := range shapes.Shapes {
		names = append(names, s.Name)
		rotations[s.Name] = s.Rotations
	}
	if diff := cmp.Diff([]string{"stick", "l1", "l2", "s1", "s2", "square", "pyramid"}, names); diff != "" {
		t.Fatalf("shape names mismatch (-want +got):\n%s", diff)
	}
	if rotations["stick"] != 2 || rotations["square"] != 1 || rotations["pyramid"] != 4 {
		t.Fatalf("unexpected rotation counts %v", rotations)
	}

	rr = do(t, srv, http.MethodGet, "/api/raters", "")
	var raters struct {
		Raters  []string `json:"raters"`
		Default string   `json:"default"`
	}
	decode(t, rr, &raters)
	if raters.Default != brain.RaterDefault || len(raters.Raters) < 2 {
		t.Fatalf("unexpected raters payload %+v", raters)
	}
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t)
	rr := do(t, srv, http.MethodGet, "/healthz", "")
	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Fatalf("expected 200 ok, got %d %q", rr.Code, rr.Body.String())
	}
}

func TestNewServerValidates(t *testing.T) {
	if _, err := NewServer(nil, config.DefaultConfig()); err != ErrNoTable {
		t.Fatalf("expected ErrNoTable, got %v", err)
	}
	cfg := config.DefaultConfig()
	cfg.Rater = "oracle"
	if _, err := NewServer(piece.NewStandardTable(), cfg); err == nil {
		t.Fatalf("expected config validation error")
	}
}
