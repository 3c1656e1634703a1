package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	tennisbracket "github.com/justinjudd/tennisbracket"
	"github.com/justinjudd/tennisbracket/hub"
	"github.com/justinjudd/tennisbracket/models"
	"github.com/justinjudd/tennisbracket/storage"
	"github.com/justinjudd/tennisbracket/tournament"
)

// Server exposes the board over HTTP
type Server struct {
	board    *tennisbracket.Board
	hub      *hub.Hub
	uploader storage.FileUploader
	logger   *slog.Logger
	origins  []string
	upgrader websocket.Upgrader
}

// Option configures a Server
type Option func(*Server)

// WithHub pushes every bracket change to websocket clients of h and serves /ws
func WithHub(h *hub.Hub) Option {
	return func(s *Server) { s.hub = h }
}

// WithUploader enables POST /export
func WithUploader(up storage.FileUploader) Option {
	return func(s *Server) { s.uploader = up }
}

// WithOrigins sets the origins allowed by CORS and by the websocket handshake
func WithOrigins(origins []string) Option {
	return func(s *Server) { s.origins = origins }
}

// WithLogger sets the logger used for request errors and server lifecycle
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a Server for board, subscribing the hub to board changes when one is given
func New(board *tennisbracket.Board, opts ...Option) *Server {
	s := &Server{board: board, logger: slog.Default(), origins: []string{"*"}}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}
	if s.hub != nil {
		board.Subscribe(func(b models.Bracket) {
			s.hub.Publish(hub.MessageBracketUpdated, b)
		})
	}
	return s
}

// Handler returns the routed, CORS wrapped handler
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "If-None-Match"},
		ExposedHeaders: []string{"ETag"},
		MaxAge:         300,
	}))

	r.HandleFunc("/bracket", s.getBracket).Methods(http.MethodGet)
	r.HandleFunc("/bracket.html", s.getBracketHTML).Methods(http.MethodGet)
	r.HandleFunc("/bracket.png", s.getBracketPNG).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}", s.getMatch).Methods(http.MethodGet)
	r.HandleFunc("/matches/{id}", s.updateMatch).Methods(http.MethodPut, http.MethodOptions)
	r.HandleFunc("/reset", s.reset).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/export", s.export).Methods(http.MethodPost, http.MethodOptions)
	if s.hub != nil {
		r.HandleFunc("/ws", s.serveWs).Methods(http.MethodGet)
	}
	return r
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	for _, o := range s.origins {
		if o == "*" || o == origin {
			return true
		}
	}
	return false
}

// UpdateRequest is the body of PUT /matches/{id}
type UpdateRequest struct {
	Teams [2]tournament.FormTeam `json:"teams"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("unable to write response", slog.Any("error", err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, errorResponse{Error: msg})
}

func (s *Server) writeBracket(w http.ResponseWriter, b models.Bracket) {
	if rev := s.board.Revision(); rev != "" {
		w.Header().Set("ETag", `"`+rev+`"`)
	}
	s.writeJSON(w, http.StatusOK, b)
}

func (s *Server) getBracket(w http.ResponseWriter, r *http.Request) {
	if rev := s.board.Revision(); rev != "" && r.Header.Get("If-None-Match") == `"`+rev+`"` {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	s.writeBracket(w, s.board.Bracket())
}

func (s *Server) getBracketHTML(w http.ResponseWriter, r *http.Request) {
	page, err := tennisbracket.GeneratePageHTML(s.board.Bracket())
	if err != nil {
		s.logger.Error("unable to render bracket", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "unable to render bracket")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(page)
}

func (s *Server) getBracketPNG(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	if err := tennisbracket.RenderPNG(w, s.board.Bracket()); err != nil {
		s.logger.Error("unable to render bracket image", slog.Any("error", err))
	}
}

func (s *Server) getMatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	m, ok := s.board.Match(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown match "+id)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) updateMatch(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, ok := s.board.Match(id); !ok {
		s.writeError(w, http.StatusNotFound, "unknown match "+id)
		return
	}

	var req UpdateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	b, err := s.board.UpdateForm(id, req.Teams)
	if errors.Is(err, tennisbracket.ErrUnknownMatch) {
		s.writeError(w, http.StatusNotFound, "unknown match "+id)
		return
	}
	if err != nil {
		s.logger.Error("unable to save bracket", slog.String("match", id), slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "unable to save bracket")
		return
	}
	s.writeBracket(w, b)
}

func (s *Server) reset(w http.ResponseWriter, r *http.Request) {
	b, err := s.board.Reset()
	if err != nil {
		s.logger.Error("unable to reset bracket", slog.Any("error", err))
		s.writeError(w, http.StatusInternalServerError, "unable to reset bracket")
		return
	}
	s.writeBracket(w, b)
}

func (s *Server) export(w http.ResponseWriter, r *http.Request) {
	if s.uploader == nil {
		s.writeError(w, http.StatusServiceUnavailable, "export is not configured")
		return
	}
	out, err := tennisbracket.ExportBracket(r.Context(), s.uploader, s.board.Bracket(), s.board.Revision())
	if err != nil {
		s.logger.Error("unable to export bracket", slog.Any("error", err))
		s.writeError(w, http.StatusBadGateway, "unable to export bracket")
		return
	}
	s.logger.Info("bracket exported", slog.String("image", out.Image))
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		s.logger.Warn("websocket upgrade failed", slog.Any("error", err))
		return
	}
	if s.hub.Attach(conn) == nil {
		return
	}
	// clients draw from the broadcast alone, so send the current state once on connect
	s.hub.Publish(hub.MessageBracketUpdated, s.board.Bracket())
}

// ListenAndServe runs the server on addr until ctx is cancelled, then gives open requests up to timeout to finish
func (s *Server) ListenAndServe(ctx context.Context, addr string, timeout time.Duration) error {
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("http server stopped")
	return nil
}
