// path: blockbrain/internal/httpx/server.go
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"blockbrain/internal/brain"
	"blockbrain/internal/config"
	"blockbrain/internal/grid"
	"blockbrain/internal/piece"
)

// Server answers stateless placement queries: the caller sends a grid
// snapshot and a shape, the server replies with a recommendation.
type Server struct {
	table   *piece.Table
	cfg     config.Config
	handler http.Handler
	srvMu   sync.Mutex
	srv     *http.Server
}

const apiCSP = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"

var ErrNoTable = errors.New("httpx: nil shape table")

// NewServer validates cfg and builds the router. table is shared read-only
// by every request.
func NewServer(table *piece.Table, cfg config.Config) (*Server, error) {
	if table == nil {
		return nil, ErrNoTable
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Server{table: table, cfg: cfg}
	s.handler = s.routes()
	return s, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.handler }

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Info().Str("addr", addr).Msg("http listening")
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Post("/api/bestmove", s.withJSON(s.handleBestMove))
	r.Post("/api/drop", s.withJSON(s.handleDrop))
	r.Get("/api/shapes", s.withJSON(s.handleShapes))
	r.Get("/api/raters", s.withJSON(s.handleRaters))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("request_id", middleware.GetReqID(r.Context())).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header())
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

func applyAPISecurityHeaders(h http.Header) {
	h.Set("Content-Security-Policy", apiCSP)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Embedder-Policy", "require-corp")
	h.Set("X-Content-Type-Options", "nosniff")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// decodeBody writes the error response itself and reports whether the
// handler should continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

// ---- request parsing ----

func parseGrid(rows []string) (*grid.Grid, error) {
	if len(rows) > config.MaxHeight {
		return nil, fmt.Errorf("grid taller than %d rows", config.MaxHeight)
	}
	for _, row := range rows {
		if len(row) > config.MaxWidth {
			return nil, fmt.Errorf("grid wider than %d columns", config.MaxWidth)
		}
	}
	return grid.FromRows(rows)
}

// resolvePiece accepts a table shape name or a raw spec. Specs that match
// a table orientation pick up that shape's rotation cycle. Any other spec
// never rotates, so it must fit inside g as given.
func (s *Server) resolvePiece(g *grid.Grid, shape, spec string) (piece.Piece, error) {
	if name := strings.TrimSpace(shape); name != "" {
		c, err := s.table.Lookup(name)
		if err != nil {
			return piece.Piece{}, err
		}
		return c.Root(), nil
	}
	if strings.TrimSpace(spec) == "" {
		return piece.Piece{}, errors.New("shape or spec required")
	}
	p, err := piece.Parse(spec)
	if err != nil {
		return piece.Piece{}, err
	}
	if m, ok := s.table.Match(p); ok {
		return m, nil
	}
	if p.Width() > g.Width() || p.Height() > g.Height() {
		return piece.Piece{}, fmt.Errorf("spec is %dx%d, grid is %dx%d", p.Width(), p.Height(), g.Width(), g.Height())
	}
	return p, nil
}

// ---- API: best move ----

type bestMoveBody struct {
	Rows        []string       `json:"rows"`
	Shape       string         `json:"shape"`
	Spec        string         `json:"spec"`
	HeightLimit int            `json:"heightLimit"`
	Rater       string         `json:"rater"`
	Weights     *brain.Weights `json:"weights"`
}

type moveDTO struct {
	Spec     string  `json:"spec"`
	X        int     `json:"x"`
	Y        int     `json:"y"`
	Score    float64 `json:"score"`
	Rotation int     `json:"rotation"`
	Width    int     `json:"width"`
	Height   int     `json:"height"`
}

type bestMoveResponse struct {
	Found       bool     `json:"found"`
	Move        *moveDTO `json:"move,omitempty"`
	RowsCleared int      `json:"rowsCleared"`
	Board       []string `json:"board"`
}

func (s *Server) handleBestMove(w http.ResponseWriter, r *http.Request) {
	var body bestMoveBody
	if !decodeBody(w, r, &body) {
		return
	}
	g, err := parseGrid(body.Rows)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.resolvePiece(g, body.Shape, body.Spec)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit := body.HeightLimit
	if limit == 0 {
		limit = g.Height()
	}
	if limit < 0 || limit > g.Height() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("heightLimit %d outside 0..%d", body.HeightLimit, g.Height()))
		return
	}
	name := body.Rater
	if strings.TrimSpace(name) == "" {
		name = s.cfg.Rater
	}
	weights := s.cfg.Weights
	if body.Weights != nil {
		weights = *body.Weights
	}
	rater, err := brain.NewRater(name, weights)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	g.SetChecks(s.cfg.Checks)

	move, ok := brain.New(rater).BestMove(g, p, limit, nil)
	resp := bestMoveResponse{Found: ok}
	if ok {
		resp.Move = &moveDTO{
			Spec:     move.Piece.String(),
			X:        move.X,
			Y:        move.Y,
			Score:    move.Score,
			Rotation: move.Piece.Rotation(),
			Width:    move.Piece.Width(),
			Height:   move.Piece.Height(),
		}
		if g.Place(move.Piece, move.X, move.Y) == grid.RowFilled {
			resp.RowsCleared = g.ClearRows()
		}
		g.Commit()
	}
	resp.Board = g.Rows()
	writeJSON(w, resp)
}

// ---- API: drop ----

type dropBody struct {
	Rows  []string `json:"rows"`
	Shape string   `json:"shape"`
	Spec  string   `json:"spec"`
	X     int      `json:"x"`
}

func (s *Server) handleDrop(w http.ResponseWriter, r *http.Request) {
	var body dropBody
	if !decodeBody(w, r, &body) {
		return
	}
	g, err := parseGrid(body.Rows)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p, err := s.resolvePiece(g, body.Shape, body.Spec)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.Height() > g.Height() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("piece height %d exceeds grid height %d", p.Height(), g.Height()))
		return
	}
	if body.X < 0 || body.X+p.Width() > g.Width() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("x %d outside 0..%d", body.X, g.Width()-p.Width()))
		return
	}
	y := g.DropHeight(p, body.X)
	res := g.Place(p, body.X, y)
	g.Undo()
	writeJSON(w, map[string]any{"y": y, "result": res.String()})
}

// ---- API: catalogues ----

type shapeDTO struct {
	Name      string `json:"name"`
	Spec      string `json:"spec"`
	Rotations int    `json:"rotations"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

func (s *Server) handleShapes(w http.ResponseWriter, r *http.Request) {
	out := make([]shapeDTO, 0, s.table.Len())
	for i := 0; i < s.table.Len(); i++ {
		c, name := s.table.At(i)
		root := c.Root()
		out = append(out, shapeDTO{
			Name:      name,
			Spec:      root.String(),
			Rotations: c.Len(),
			Width:     root.Width(),
			Height:    root.Height(),
		})
	}
	writeJSON(w, map[string]any{"shapes": out})
}

func (s *Server) handleRaters(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{"raters": brain.RaterNames(), "default": s.cfg.Rater})
}
