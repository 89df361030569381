package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sort"
	"strings"
	"time"

	"digitalthread/internal/codec"
	"digitalthread/internal/domain"
	"digitalthread/internal/service"
	"digitalthread/internal/view"
)

// ClientCounter reports connected event stream clients. *hub.Hub satisfies it.
type ClientCounter interface {
	ClientCount() int
}

// ThreadHandler handles digital thread API requests
type ThreadHandler struct {
	svc     *service.ThreadService
	clients ClientCounter
}

// NewThreadHandler creates a new thread handler
func NewThreadHandler(svc *service.ThreadService) *ThreadHandler {
	return &ThreadHandler{svc: svc}
}

// WithClients reports the event stream client count in /healthz
func (h *ThreadHandler) WithClients(c ClientCounter) *ThreadHandler {
	h.clients = c
	return h
}

// HealthResponse is served by /healthz
type HealthResponse struct {
	Status    string    `json:"status"`
	Digest    string    `json:"digest"`
	Artifacts int       `json:"artifacts"`
	LoadedAt  time.Time `json:"loadedAt"`
	Clients   int       `json:"clients"`
}

// Error response structure
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// KindLink is one kind-to-kind adjacency with its edge count
type KindLink struct {
	From  domain.Kind `json:"from"`
	To    domain.Kind `json:"to"`
	Count int         `json:"count"`
}

// NetworkResponse is the network view as served to clients
type NetworkResponse struct {
	*view.NetworkView
	KindLinks []KindLink `json:"kindLinks"`
}

// RegisterRoutes mounts the API on mux
func (h *ThreadHandler) RegisterRoutes(mux *http.ServeMux) {
	// Artifacts
	mux.HandleFunc("GET /api/artifacts", h.ListArtifacts)
	mux.HandleFunc("GET /api/artifacts/{id}", h.GetArtifact)
	mux.HandleFunc("GET /api/artifacts/{id}/linked", h.GetLinked)
	mux.HandleFunc("GET /api/artifacts/{id}/incoming", h.GetIncoming)
	mux.HandleFunc("GET /api/artifacts/{id}/connected", h.GetConnected)

	// Snapshot
	mux.HandleFunc("GET /api/stats", h.GetStats)
	mux.HandleFunc("GET /api/dangling", h.GetDangling)
	mux.HandleFunc("POST /api/reload", h.Reload)

	// Views
	mux.HandleFunc("GET /api/views/flow", h.FlowView)
	mux.HandleFunc("GET /api/views/network", h.NetworkView)
	mux.HandleFunc("GET /api/views/timeline", h.TimelineView)

	// Export
	mux.HandleFunc("GET /api/export/{format}", h.Export)

	mux.HandleFunc("GET /healthz", h.Health)
}

// Health reports liveness. Status is "empty" until the first successful load.
func (h *ThreadHandler) Health(w http.ResponseWriter, r *http.Request) {
	snap := h.svc.Snapshot()
	resp := HealthResponse{
		Status:    "ok",
		Digest:    snap.Digest,
		Artifacts: snap.Store.Len(),
		LoadedAt:  snap.LoadedAt,
	}
	if snap.Digest == "" {
		resp.Status = "empty"
	}
	if h.clients != nil {
		resp.Clients = h.clients.ClientCount()
	}
	writeJSON(w, resp, http.StatusOK)
}

// ListArtifacts returns all artifacts, optionally filtered by ?kind=
func (h *ThreadHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	var kind domain.Kind
	if raw := r.URL.Query().Get("kind"); raw != "" {
		k, ok := domain.ParseKind(raw)
		if !ok {
			writeError(w, "Invalid kind", fmt.Sprintf("unknown artifact kind %q", raw), http.StatusBadRequest)
			return
		}
		kind = k
	}

	if h.notModified(w, r) {
		return
	}
	writeJSON(w, h.svc.Artifacts(kind), http.StatusOK)
}

// GetArtifact returns a single artifact
func (h *ThreadHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	a, err := h.svc.Artifact(r.PathValue("id"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	if h.notModified(w, r) {
		return
	}
	writeJSON(w, a, http.StatusOK)
}

// GetLinked returns the resolvable outgoing links of an artifact
func (h *ThreadHandler) GetLinked(w http.ResponseWriter, r *http.Request) {
	h.serveRelation(w, r, h.svc.Linked)
}

// GetIncoming returns the artifacts referencing an artifact
func (h *ThreadHandler) GetIncoming(w http.ResponseWriter, r *http.Request) {
	h.serveRelation(w, r, h.svc.Incoming)
}

// GetConnected returns the artifacts adjacent to an artifact in either direction
func (h *ThreadHandler) GetConnected(w http.ResponseWriter, r *http.Request) {
	h.serveRelation(w, r, h.svc.Connected)
}

func (h *ThreadHandler) serveRelation(w http.ResponseWriter, r *http.Request, lookup func(string) ([]domain.Artifact, error)) {
	related, err := lookup(r.PathValue("id"))
	if err != nil {
		h.writeLookupError(w, err)
		return
	}
	if h.notModified(w, r) {
		return
	}
	writeJSON(w, related, http.StatusOK)
}

// GetStats returns snapshot counts
func (h *ThreadHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if h.notModified(w, r) {
		return
	}
	writeJSON(w, h.svc.Stats(), http.StatusOK)
}

// GetDangling lists links whose target is not loaded
func (h *ThreadHandler) GetDangling(w http.ResponseWriter, r *http.Request) {
	if h.notModified(w, r) {
		return
	}
	writeJSON(w, h.svc.DanglingLinks(), http.StatusOK)
}

// Reload reloads the dataset from its source
func (h *ThreadHandler) Reload(w http.ResponseWriter, r *http.Request) {
	ctx := service.WithReloadTrigger(r.Context(), service.ReloadTrigger{
		Cause:     service.CauseAPI,
		RequestID: RequestID(r.Context()),
	})
	if err := h.svc.Reload(ctx); err != nil {
		log.Printf("Reload failed: %v", err)
		writeError(w, "Reload failed", err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, h.svc.Stats(), http.StatusOK)
}

// FlowView groups artifacts by kind. ?order=Requirement,Test overrides the
// configured column order.
func (h *ThreadHandler) FlowView(w http.ResponseWriter, r *http.Request) {
	var order []domain.Kind
	if raw := r.URL.Query().Get("order"); raw != "" {
		order = view.ParseKindOrder(splitList(raw))
	}
	if h.notModified(w, r) {
		return
	}
	writeJSON(w, h.svc.Flow(order), http.StatusOK)
}

// NetworkView returns nodes grouped by kind, resolved edges and kind adjacency
func (h *ThreadHandler) NetworkView(w http.ResponseWriter, r *http.Request) {
	if h.notModified(w, r) {
		return
	}
	nv := h.svc.Network()
	writeJSON(w, NetworkResponse{NetworkView: nv, KindLinks: kindLinks(nv)}, http.StatusOK)
}

// kindLinks flattens the adjacency map in canonical kind order
func kindLinks(nv *view.NetworkView) []KindLink {
	adjacency := nv.KindAdjacency()
	links := make([]KindLink, 0, len(adjacency))
	for pair, n := range adjacency {
		links = append(links, KindLink{From: pair.From, To: pair.To, Count: n})
	}
	sort.Slice(links, func(i, j int) bool {
		if links[i].From != links[j].From {
			return kindLess(links[i].From, links[j].From)
		}
		return kindLess(links[i].To, links[j].To)
	})
	return links
}

// kindLess orders canonical kinds by lifecycle rank, unknown kinds by name after them
func kindLess(a, b domain.Kind) bool {
	ra, rb := a.Rank(), b.Rank()
	if ra < 0 {
		ra = len(domain.CanonicalKindOrder())
	}
	if rb < 0 {
		rb = len(domain.CanonicalKindOrder())
	}
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// TimelineView returns chronological events.
// Query: window=1W|1M|3M|6M|1Y|All, changes=true|false, group=month
func (h *ThreadHandler) TimelineView(w http.ResponseWriter, r *http.Request) {
	opts := h.svc.TimelineDefaults()
	q := r.URL.Query()

	if raw := q.Get("window"); raw != "" {
		window, err := domain.ParseTimeWindow(raw)
		if err != nil {
			writeError(w, "Invalid window", err.Error(), http.StatusBadRequest)
			return
		}
		opts.Window = window
	}
	if raw := q.Get("changes"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, "Invalid changes flag", err.Error(), http.StatusBadRequest)
			return
		}
		opts.IncludeChangeEvents = include
	}

	group := q.Get("group")
	if group != "" && group != "month" {
		writeError(w, "Invalid group", fmt.Sprintf("unsupported grouping %q", group), http.StatusBadRequest)
		return
	}

	// Relative windows move with the clock, so only unbounded timelines are cacheable
	if _, bounded := opts.Window.Start(time.Now()); !bounded && h.notModified(w, r) {
		return
	}

	if group == "month" {
		groups, err := h.svc.TimelineByMonth(opts)
		if err != nil {
			writeError(w, "Invalid window", err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, groups, http.StatusOK)
		return
	}
	events, err := h.svc.Timeline(opts)
	if err != nil {
		writeError(w, "Invalid window", err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, events, http.StatusOK)
}

// Export downloads the snapshot as json or yaml
func (h *ThreadHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := strings.ToLower(r.PathValue("format"))

	var buf bytes.Buffer
	if err := h.svc.Export(format, &buf); err != nil {
		if errors.Is(err, codec.ErrUnsupportedFormat) {
			writeError(w, "Unsupported format", err.Error(), http.StatusBadRequest)
			return
		}
		log.Printf("Failed to export %s: %v", format, err)
		writeError(w, "Failed to export", err.Error(), http.StatusInternalServerError)
		return
	}

	contentType := "application/json"
	if format == "yaml" || format == "yml" {
		contentType = "application/x-yaml"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=thread."+format)
	h.setETag(w)
	w.Write(buf.Bytes())
}

// Helper methods

// setETag tags the response with the snapshot digest
func (h *ThreadHandler) setETag(w http.ResponseWriter) string {
	digest := h.svc.Digest()
	if digest == "" {
		return ""
	}
	etag := `"` + digest + `"`
	w.Header().Set("ETag", etag)
	return etag
}

// notModified sets the ETag and answers 304 when the client already has the
// current snapshot
func (h *ThreadHandler) notModified(w http.ResponseWriter, r *http.Request) bool {
	etag := h.setETag(w)
	if etag == "" {
		return false
	}
	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == etag || candidate == "W/"+etag || candidate == "*" {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

func (h *ThreadHandler) writeLookupError(w http.ResponseWriter, err error) {
	if errors.Is(err, service.ErrNotFound) {
		writeError(w, "Not found", err.Error(), http.StatusNotFound)
		return
	}
	log.Printf("Lookup failed: %v", err)
	writeError(w, "Lookup failed", err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
