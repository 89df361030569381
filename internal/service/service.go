package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"digitalthread/internal/codec"
	"digitalthread/internal/domain"
	"digitalthread/internal/thread"
	"digitalthread/internal/view"

	"lukechampine.com/blake3"
)

// ErrNotFound is returned when a subject artifact id is not in the snapshot
var ErrNotFound = errors.New("artifact not found")

// Source supplies complete datasets. *loader.FileSource satisfies it.
type Source interface {
	Load(ctx context.Context) (*domain.Dataset, error)
}

// Snapshot is one immutable generation of the thread. Network is built once
// with the store and shared by every reader; callers must not modify it.
type Snapshot struct {
	Store    *thread.Store
	Network  *view.NetworkView
	Digest   string
	LoadedAt time.Time
}

// Stats summarizes the current snapshot
type Stats struct {
	Counts    map[domain.Kind]int `json:"counts"`
	Artifacts int                 `json:"artifacts"`
	Links     int                 `json:"links"`
	Dangling  int                 `json:"dangling"`
	Digest    string              `json:"digest"`
	LoadedAt  time.Time           `json:"loadedAt"`
}

// Option configures a ThreadService
type Option func(*ThreadService)

// WithClock sets the clock anchoring timeline windows
func WithClock(now func() time.Time) Option {
	return func(s *ThreadService) {
		s.now = now
	}
}

// WithKindOrder sets the flow order used when a caller passes none
func WithKindOrder(order []domain.Kind) Option {
	return func(s *ThreadService) {
		s.kindOrder = order
	}
}

// WithTimelineDefaults sets the timeline options used when a caller passes none
func WithTimelineDefaults(window domain.TimeWindow, includeChanges bool) Option {
	return func(s *ThreadService) {
		s.timeline = view.TimelineOptions{Window: window, IncludeChangeEvents: includeChanges}
	}
}

// ThreadService provides the snapshot lifecycle and read operations
type ThreadService struct {
	source    Source
	eventBus  *EventBus
	now       func() time.Time
	kindOrder []domain.Kind
	timeline  view.TimelineOptions
	builder   *view.Builder

	reloadMu sync.Mutex
	current  atomic.Pointer[Snapshot]
}

// NewThreadService creates a service holding an empty snapshot until the
// first Reload
func NewThreadService(source Source, eventBus *EventBus, opts ...Option) *ThreadService {
	s := &ThreadService{
		source:    source,
		eventBus:  eventBus,
		now:       time.Now,
		kindOrder: domain.CanonicalKindOrder(),
		timeline:  view.TimelineOptions{Window: domain.WindowAll},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.builder = &view.Builder{
		Now:           s.now,
		OnInvalidDate: s.onInvalidDate,
	}
	empty := thread.MustBuild(nil)
	s.current.Store(&Snapshot{Store: empty, Network: s.builder.Network(empty)})
	return s
}

// Reload loads a complete dataset from the source and swaps it in. On any
// failure the previous snapshot stays current. The trigger attached to ctx
// with WithReloadTrigger is echoed in the published event.
func (s *ThreadService) Reload(ctx context.Context) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	trigger := TriggerFrom(ctx)
	previous := s.Snapshot()

	start := time.Now()
	snap, err := s.load(ctx)
	reloadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		reloadsTotal.WithLabelValues("error").Inc()
		s.eventBus.Publish(Event{
			Type: EventSnapshotReloadFailed,
			Payload: ReloadFailure{
				ReloadTrigger: trigger,
				Error:         err.Error(),
				Digest:        previous.Digest,
			},
		})
		return fmt.Errorf("reload thread: %w", err)
	}

	s.current.Store(snap)
	reloadsTotal.WithLabelValues("success").Inc()

	counts := snap.Store.Counts()
	dangling := len(snap.Store.DanglingLinks())
	artifactsGauge.Reset()
	for kind, n := range counts {
		artifactsGauge.WithLabelValues(string(kind)).Set(float64(n))
	}
	danglingGauge.Set(float64(dangling))

	summary := ReloadSummary{
		ReloadTrigger:  trigger,
		Digest:         snap.Digest,
		PreviousDigest: previous.Digest,
		Changed:        snap.Digest != previous.Digest,
		Artifacts:      snap.Store.Len(),
		Links:          snap.Store.TotalLinkCount(),
		Dangling:       dangling,
		Counts:         counts,
		LoadedAt:       snap.LoadedAt,
	}
	log.Printf("Loaded thread snapshot %s (%s): %d artifacts, %d links (%d dangling)",
		shortDigest(summary.Digest), trigger, summary.Artifacts, summary.Links, summary.Dangling)
	s.eventBus.Publish(Event{Type: EventSnapshotReloaded, Payload: summary})

	return nil
}

func (s *ThreadService) load(ctx context.Context) (*Snapshot, error) {
	if s.source == nil {
		return nil, errors.New("no data source configured")
	}
	ds, err := s.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load dataset: %w", err)
	}
	if ds == nil {
		ds = domain.NewDataset()
	}
	store, err := thread.Build(ds.Artifacts)
	if err != nil {
		return nil, fmt.Errorf("build store: %w", err)
	}
	digest := ds.Digest
	if digest == "" {
		digest, err = contentDigest(ds.Artifacts)
		if err != nil {
			return nil, err
		}
	}
	viewBuilds.WithLabelValues("network").Inc()
	return &Snapshot{
		Store:    store,
		Network:  s.builder.Network(store),
		Digest:   digest,
		LoadedAt: s.now(),
	}, nil
}

// contentDigest hashes artifacts for sources that do not report a digest
func contentDigest(artifacts []domain.Artifact) (string, error) {
	data, err := json.Marshal(artifacts)
	if err != nil {
		return "", fmt.Errorf("digest dataset: %w", err)
	}
	sum := blake3.Sum256(data)
	return fmt.Sprintf("%x", sum[:]), nil
}

func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

func (s *ThreadService) onInvalidDate(d view.DroppedEvent) {
	droppedEvents.WithLabelValues(strings.ToLower(string(d.EventKind))).Inc()
	log.Printf("Skipping %s event of %s: %v", d.EventKind, d.ArtifactID, d.Err)
}

// Snapshot returns the current snapshot
func (s *ThreadService) Snapshot() *Snapshot {
	return s.current.Load()
}

// Digest returns the digest of the current snapshot, empty before the first
// successful reload
func (s *ThreadService) Digest() string {
	return s.Snapshot().Digest
}

// Artifacts returns all artifacts in insertion order, or only those of kind
// when kind is non-empty
func (s *ThreadService) Artifacts(kind domain.Kind) []domain.Artifact {
	store := s.Snapshot().Store
	if kind == "" {
		return store.All()
	}
	return store.AllOfKind(kind)
}

// Artifact returns one artifact by id
func (s *ThreadService) Artifact(id string) (domain.Artifact, error) {
	a, ok := s.Snapshot().Store.GetByID(id)
	if !ok {
		return domain.Artifact{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return a, nil
}

// Linked returns the resolvable outgoing links of id in linkedItems order
func (s *ThreadService) Linked(id string) ([]domain.Artifact, error) {
	store := s.Snapshot().Store
	if !store.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return store.GetLinked(id), nil
}

// Incoming returns the artifacts whose linkedItems reference id
func (s *ThreadService) Incoming(id string) ([]domain.Artifact, error) {
	store := s.Snapshot().Store
	if !store.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return store.GetIncoming(id), nil
}

// Connected returns the artifacts adjacent to id in either direction,
// de-duplicated in first-occurrence edge order. It is answered from the
// endpoint index of the snapshot's network view.
func (s *ThreadService) Connected(id string) ([]domain.Artifact, error) {
	snap := s.Snapshot()
	store := snap.Store
	if !store.Has(id) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	ids := snap.Network.Connected(id)
	out := make([]domain.Artifact, 0, len(ids))
	for _, other := range ids {
		if a, ok := store.GetByID(other); ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Stats summarizes the current snapshot
func (s *ThreadService) Stats() Stats {
	snap := s.Snapshot()
	return Stats{
		Counts:    snap.Store.Counts(),
		Artifacts: snap.Store.Len(),
		Links:     snap.Store.TotalLinkCount(),
		Dangling:  len(snap.Store.DanglingLinks()),
		Digest:    snap.Digest,
		LoadedAt:  snap.LoadedAt,
	}
}

// DanglingLinks lists links whose target is absent from the current snapshot
func (s *ThreadService) DanglingLinks() []thread.DanglingLink {
	return s.Snapshot().Store.DanglingLinks()
}

// Flow groups the snapshot by kind. A nil order uses the configured order.
func (s *ThreadService) Flow(order []domain.Kind) []view.FlowGroup {
	if len(order) == 0 {
		order = s.kindOrder
	}
	viewBuilds.WithLabelValues("flow").Inc()
	return s.builder.Flow(s.Snapshot().Store, order)
}

// Network returns the kind adjacency view of the current snapshot
func (s *ThreadService) Network() *view.NetworkView {
	return s.Snapshot().Network
}

// TimelineDefaults returns the configured timeline options
func (s *ThreadService) TimelineDefaults() view.TimelineOptions {
	return s.timeline
}

// Timeline computes the chronological event view. An unknown window is
// reported as domain.ErrInvalidTimeWindow.
func (s *ThreadService) Timeline(opts view.TimelineOptions) ([]domain.Event, error) {
	viewBuilds.WithLabelValues("timeline").Inc()
	return s.builder.Timeline(s.Snapshot().Store, opts)
}

// TimelineByMonth computes the timeline grouped into calendar months
func (s *ThreadService) TimelineByMonth(opts view.TimelineOptions) ([]domain.MonthGroup, error) {
	events, err := s.Timeline(opts)
	if err != nil {
		return nil, err
	}
	return view.GroupByMonth(events), nil
}

// Export writes the current snapshot in the given format ("json" or "yaml")
func (s *ThreadService) Export(format string, w io.Writer) error {
	c, err := codec.ForFormat(format)
	if err != nil {
		return err
	}
	ds := domain.NewDataset()
	ds.Artifacts = s.Snapshot().Store.All()
	if err := c.Export(ds, w); err != nil {
		return fmt.Errorf("export %s: %w", c.Format(), err)
	}
	return nil
}
