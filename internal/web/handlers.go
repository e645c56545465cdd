package web

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/timetravel-tic-tac-toe/internal/app"
	"github.com/jaminalder/timetravel-tic-tac-toe/internal/domain"
)

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       *slog.Logger
	heartbeat time.Duration
}

func (h *handlers) renderBoard(gs app.GameState, errMsg string) []byte {
	b, err := renderTemplate(h.tpl.board, "", newBoardData(gs, errMsg))
	if err != nil {
		h.log.Error("render board", "game", gs.ID, "error", err)
	}
	return b
}

func (h *handlers) writeHTML(w http.ResponseWriter, status int, b []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	b, err := renderTemplate(h.tpl.index, "base", summarize(h.svc.List()))
	if err != nil {
		h.log.Error("render index", "error", err)
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	h.writeHTML(w, http.StatusOK, b)
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	b, err := renderTemplate(h.tpl.game, "base", newBoardData(*gs, ""))
	if err != nil {
		h.log.Error("render game", "game", gs.ID, "error", err)
		http.Error(w, "failed to render", http.StatusInternalServerError)
		return
	}
	h.writeHTML(w, http.StatusOK, b)
}

// formInt reads an integer form value.
func formInt(r *http.Request, name string) (int, error) {
	if err := r.ParseForm(); err != nil {
		return 0, err
	}
	v := r.Form.Get(name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}

// respond sends the board fragment to htmx, and redirects plain form posts
// back to the game page.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, gs *app.GameState, status int, errMsg string) {
	if r.Header.Get("HX-Request") != "true" {
		http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
		return
	}
	h.writeHTML(w, status, h.renderBoard(*gs, errMsg))
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cell, err := formInt(r, "cell")
	if err != nil || !domain.ValidIndex(cell) {
		http.Error(w, "cell must be 0..8", http.StatusBadRequest)
		return
	}
	gs, accepted, err := h.svc.Play(id, cell)
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			http.NotFound(w, r)
			return
		}
		h.log.Error("play failed", "game", id, "error", err)
		http.Error(w, "failed to play", http.StatusInternalServerError)
		return
	}
	if !accepted {
		h.log.Debug("move ignored", "game", id, "cell", cell)
	}
	h.respond(w, r, gs, http.StatusOK, "")
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	step, err := formInt(r, "step")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	gs, err := h.svc.JumpTo(id, step)
	switch {
	case errors.Is(err, app.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, domain.ErrStepOutOfRange):
		h.log.Warn("jump rejected", "game", id, "error", err)
		if r.Header.Get("HX-Request") != "true" {
			http.Error(w, "no such step", http.StatusUnprocessableEntity)
			return
		}
		h.respond(w, r, gs, http.StatusUnprocessableEntity, "No such step")
	case err != nil:
		h.log.Error("jump failed", "game", id, "error", err)
		http.Error(w, "failed to jump", http.StatusInternalServerError)
	default:
		h.respond(w, r, gs, http.StatusOK, "")
	}
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// In tests or non-EventSource requests, just acknowledge headers and return
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()
	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	// Initial flush of headers
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			writeEvent(w, "board", b)
			flusher.Flush()
		}
	}
}

// writeEvent writes one SSE event; multi-line payloads get one data field per line.
func writeEvent(w io.Writer, event string, payload []byte) {
	_, _ = fmt.Fprintf(w, "event: %s\n", event)
	for _, line := range strings.Split(strings.TrimRight(string(payload), "\n"), "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = io.WriteString(w, "\n")
}
