package view

import (
	"testing"
	"time"

	"digitalthread/internal/domain"
	"digitalthread/internal/thread"
)

// fixedNow anchors relative windows in tests
var fixedNow = time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)

func testBuilder() *Builder {
	return &Builder{Now: func() time.Time { return fixedNow }}
}

func art(id string, kind domain.Kind, date string, links ...string) domain.Artifact {
	return domain.Artifact{
		ID:           id,
		Kind:         kind,
		Name:         id + " name",
		Status:       domain.StatusCurrent,
		LastModified: date,
		ModifiedBy:   "owner-" + id,
		Description:  id + " description",
		LinkedItems:  links,
	}
}

func build(t *testing.T, artifacts ...domain.Artifact) *thread.Store {
	t.Helper()
	store, err := thread.Build(artifacts)
	if err != nil {
		t.Fatalf("thread.Build() error = %v", err)
	}
	return store
}

func timeline(t *testing.T, b *Builder, src Source, opts TimelineOptions) []domain.Event {
	t.Helper()
	events, err := b.Timeline(src, opts)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}
	return events
}

func artifactIDs(artifacts []domain.Artifact) []string {
	out := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		out = append(out, a.ID)
	}
	return out
}
