// Package view computes presentation-independent projections of the digital
// thread: the flow (grouped-by-kind) view, the network (kind adjacency) view
// and the timeline (chronological event) view.
//
// All projections are pure functions of a Source snapshot and their options.
// The only clock dependency is the timeline window, which reads Builder.Now.
package view

import (
	"time"

	"digitalthread/internal/domain"
)

// Source is the read-only snapshot the builder projects.
// *thread.Store satisfies it.
type Source interface {
	All() []domain.Artifact
	GetByID(id string) (domain.Artifact, bool)
}

// DroppedEvent describes a timeline event excluded because its date could not
// be parsed
type DroppedEvent struct {
	ArtifactID string
	EventKind  domain.EventKind
	RawDate    string
	Err        error
}

// Builder computes projections. The zero value is ready to use and reads the
// wall clock.
type Builder struct {
	// Now anchors relative timeline windows. Defaults to time.Now.
	Now func() time.Time

	// OnInvalidDate, if set, is called once per dropped timeline event
	OnInvalidDate func(DroppedEvent)
}

func (b *Builder) now() time.Time {
	if b == nil || b.Now == nil {
		return time.Now()
	}
	return b.Now()
}

func (b *Builder) dropped(d DroppedEvent) {
	if b != nil && b.OnInvalidDate != nil {
		b.OnInvalidDate(d)
	}
}

var defaultBuilder = &Builder{}

// BuildFlowView groups the snapshot by kind using the default builder
func BuildFlowView(src Source, kindOrder []domain.Kind) []FlowGroup {
	return defaultBuilder.Flow(src, kindOrder)
}

// BuildNetworkView computes the network projection using the default builder
func BuildNetworkView(src Source) *NetworkView {
	return defaultBuilder.Network(src)
}

// BuildTimelineView computes the timeline anchored to the wall clock
func BuildTimelineView(src Source, window domain.TimeWindow, includeChangeEvents bool) ([]domain.Event, error) {
	return defaultBuilder.Timeline(src, TimelineOptions{Window: window, IncludeChangeEvents: includeChangeEvents})
}
