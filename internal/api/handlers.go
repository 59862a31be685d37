package api

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/draftboard-cli/internal/model"
	"github.com/sells-group/draftboard-cli/internal/output"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// Health reports liveness.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// PlayersFile serves the players file as written.
func (h *Handler) PlayersFile(w http.ResponseWriter, _ *http.Request) {
	h.serveFile(w, h.opts.PlayersFile)
}

// SummaryFile serves the summary file as written.
func (h *Handler) SummaryFile(w http.ResponseWriter, _ *http.Request) {
	h.serveFile(w, h.opts.SummaryFile)
}

func (h *Handler) serveFile(w http.ResponseWriter, name string) {
	path, ok := h.locate(w, name)
	if !ok {
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		respondReadError(w, name, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// ListPlayers returns players filtered by the optional position, team and
// limit query parameters. File order is preserved.
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var position model.Position
	if raw := q.Get("position"); raw != "" {
		pos, ok := model.ParsePosition(raw)
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown position "+strconv.Quote(raw), nil)
			return
		}
		position = pos
	}
	team := strings.ToUpper(strings.TrimSpace(q.Get("team")))

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer", err)
			return
		}
		limit = n
	}

	players, ok := h.readPlayers(w)
	if !ok {
		return
	}

	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if position != "" && p.Position != position {
			continue
		}
		if team != "" && p.Team != team {
			continue
		}
		out = append(out, p)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	respondJSON(w, http.StatusOK, out)
}

// GetPlayer returns one player by id.
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "playerID"))
	if err != nil || id < 1 {
		respondError(w, http.StatusBadRequest, "player id must be a positive integer", err)
		return
	}

	players, ok := h.readPlayers(w)
	if !ok {
		return
	}
	for _, p := range players {
		if p.ID == id {
			respondJSON(w, http.StatusOK, p)
			return
		}
	}
	respondError(w, http.StatusNotFound, "player "+strconv.Itoa(id)+" not found", nil)
}

// GetSummary returns the dataset summary.
func (h *Handler) GetSummary(w http.ResponseWriter, _ *http.Request) {
	path, ok := h.locate(w, h.opts.SummaryFile)
	if !ok {
		return
	}
	s, err := output.ReadSummary(path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read "+h.opts.SummaryFile, err)
		return
	}
	respondJSON(w, http.StatusOK, s)
}

func (h *Handler) readPlayers(w http.ResponseWriter) ([]model.Player, bool) {
	path, ok := h.locate(w, h.opts.PlayersFile)
	if !ok {
		return nil, false
	}
	players, err := output.ReadPlayers(path)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to read "+h.opts.PlayersFile, err)
		return nil, false
	}
	return players, true
}

// locate resolves a dataset file, answering 404 when it has not been
// generated yet.
func (h *Handler) locate(w http.ResponseWriter, name string) (string, bool) {
	path := filepath.Join(h.opts.Dir, name)
	if _, err := os.Stat(path); err != nil {
		respondReadError(w, name, err)
		return "", false
	}
	return path, true
}

func respondReadError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		respondError(w, http.StatusNotFound, name+" has not been generated", nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "failed to read "+name, err)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("api: encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		zap.L().Debug("api: request failed", zap.String("message", message), zap.Error(err))
	}
	respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
