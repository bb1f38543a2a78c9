// Package server hosts the embedded view: a browser shell page driven over
// a server-sent-event command stream, the generated output files, and the
// editor IPC endpoints.
package server

import (
	"bufio"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Command is one instruction pushed to the connected viewer shell.
type Command struct {
	Type  string `json:"type"`  // "navigate" or "eval"
	Value string `json:"value"` // URL or script text
}

// CommandHub manages SSE clients for viewer commands. A late-joining shell
// replays the last navigate command so a freshly opened tab shows the
// current preview.
type CommandHub struct {
	mu       sync.RWMutex
	nextID   int
	clients  map[int]*hubClient
	closed   bool
	lastNav  *Command
}

type hubClient struct {
	id   int
	ch   chan Command
	done chan struct{}
}

// NewCommandHub returns an empty hub.
func NewCommandHub() *CommandHub {
	return &CommandHub{clients: map[int]*hubClient{}}
}

// Broadcast pushes a command to every connected shell.
func (h *CommandHub) Broadcast(cmd Command) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	if cmd.Type == "navigate" {
		c := cmd
		h.lastNav = &c
	}
	clients := make([]*hubClient, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	h.mu.Unlock()

	for _, c := range clients {
		select {
		case c.ch <- cmd:
		default:
			slog.Debug("viewer command dropped, client backlogged", "client", c.id)
		}
	}
}

// ClientCount returns the number of connected shells.
func (h *CommandHub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Closed reports whether the hub has shut down.
func (h *CommandHub) Closed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

// Close disconnects all shells and rejects future connections.
func (h *CommandHub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, c := range h.clients {
		close(c.done)
		delete(h.clients, id)
	}
}

// ServeHTTP implements the SSE endpoint at /events.
func (h *CommandHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "viewer shutting down", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}

	client := &hubClient{ch: make(chan Command, 8), done: make(chan struct{})}
	h.mu.Lock()
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	replay := h.lastNav
	h.mu.Unlock()

	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(": connected\n\n"); err != nil {
		slog.Debug("viewer stream write", "error", err)
		return
	}
	if replay != nil {
		writeEvent(bw, *replay)
	}
	if err := bw.Flush(); err == nil {
		flusher.Flush()
	}

	hb := time.NewTicker(30 * time.Second)
	defer hb.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.removeClient(client.id)
			return
		case <-client.done:
			return
		case <-hb.C:
			if _, err := bw.WriteString(": ping\n\n"); err == nil {
				_ = bw.Flush()
				flusher.Flush()
			} else {
				h.removeClient(client.id)
				return
			}
		case cmd := <-client.ch:
			if writeEvent(bw, cmd) {
				_ = bw.Flush()
				flusher.Flush()
			} else {
				h.removeClient(client.id)
				return
			}
		}
	}
}

func writeEvent(bw *bufio.Writer, cmd Command) bool {
	payload, err := json.Marshal(cmd)
	if err != nil {
		return false
	}
	if _, err := bw.WriteString("data: "); err != nil {
		return false
	}
	if _, err := bw.Write(payload); err != nil {
		return false
	}
	_, err = bw.WriteString("\n\n")
	return err == nil
}

func (h *CommandHub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
}
