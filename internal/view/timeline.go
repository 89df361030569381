package view

import (
	"sort"

	"digitalthread/internal/domain"
)

// TimelineOptions selects the timeline window and event sources
type TimelineOptions struct {
	Window              domain.TimeWindow
	IncludeChangeEvents bool
}

// Timeline merges creation and change events of every artifact into one list
// sorted ascending by date and bounded by the window.
//
// Each artifact contributes one Creation event from its own lastModified,
// modifiedBy and description, plus one Modification event per change record
// when IncludeChangeEvents is set. Events whose date cannot be parsed are
// dropped and reported through OnInvalidDate. Ties keep input order: the
// creation event of an artifact precedes its changes, artifacts in snapshot
// order, changes in record order.
//
// The window is parsed with domain.ParseTimeWindow, so case is ignored and an
// empty window means All. Any other unknown window is an error rather than an
// unbounded timeline.
func (b *Builder) Timeline(src Source, opts TimelineOptions) ([]domain.Event, error) {
	window, err := domain.ParseTimeWindow(string(opts.Window))
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0)

	for _, a := range src.All() {
		if date, err := domain.ParseDate(a.LastModified); err != nil {
			b.dropped(DroppedEvent{ArtifactID: a.ID, EventKind: domain.EventCreation, RawDate: a.LastModified, Err: err})
		} else {
			events = append(events, domain.Event{
				ArtifactID:  a.ID,
				Kind:        a.Kind,
				Name:        a.DisplayName(),
				Date:        date,
				Status:      a.Status,
				Description: a.Description,
				User:        a.ModifiedBy,
				EventKind:   domain.EventCreation,
			})
		}

		if !opts.IncludeChangeEvents {
			continue
		}
		for _, c := range a.Changes {
			date, err := domain.ParseDate(c.Date)
			if err != nil {
				b.dropped(DroppedEvent{ArtifactID: a.ID, EventKind: domain.EventModification, RawDate: c.Date, Err: err})
				continue
			}
			events = append(events, domain.Event{
				ArtifactID:  a.ID,
				Kind:        a.Kind,
				Name:        a.DisplayName(),
				Date:        date,
				Status:      a.Status,
				Description: c.Description,
				User:        c.User,
				EventKind:   domain.EventModification,
				ChangeKind:  c.ChangeKind,
			})
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	start, bounded := window.Start(b.now())
	if !bounded {
		return events, nil
	}

	filtered := events[:0]
	for _, e := range events {
		if !e.Date.Before(start) {
			filtered = append(filtered, e)
		}
	}
	return filtered, nil
}

// GroupByMonth buckets events by calendar month (UTC), months ascending.
// Events keep their relative order inside a month.
func GroupByMonth(events []domain.Event) []domain.MonthGroup {
	index := make(map[string]int)
	groups := make([]domain.MonthGroup, 0)

	for _, e := range events {
		key := domain.MonthKey(e.Date)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, domain.MonthGroup{Month: key})
		}
		groups[i].Events = append(groups[i].Events, e)
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Month < groups[j].Month
	})
	return groups
}
