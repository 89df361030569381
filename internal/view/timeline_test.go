package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digitalthread/internal/domain"
)

func day(s string) time.Time {
	t, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestTimelineConcreteScenario(t *testing.T) {
	store := build(t,
		art("B", domain.KindFunction, "2023-01-05"),
		art("A", domain.KindRequirement, "2023-01-01", "B"),
	)

	events := timeline(t, testBuilder(), store, TimelineOptions{Window: domain.WindowAll})

	require.Len(t, events, 2)
	assert.Equal(t, "A", events[0].ArtifactID)
	assert.Equal(t, day("2023-01-01"), events[0].Date)
	assert.Equal(t, domain.EventCreation, events[0].EventKind)
	assert.Equal(t, "B", events[1].ArtifactID)
	assert.Equal(t, day("2023-01-05"), events[1].Date)
}

func TestTimelineCreationEventFields(t *testing.T) {
	store := build(t, art("REQ-1", domain.KindRequirement, "2023-03-01"))

	events, err := BuildTimelineView(store, domain.WindowAll, false)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.Event{
		ArtifactID:  "REQ-1",
		Kind:        domain.KindRequirement,
		Name:        "REQ-1 name",
		Date:        day("2023-03-01"),
		Status:      domain.StatusCurrent,
		Description: "REQ-1 description",
		User:        "owner-REQ-1",
		EventKind:   domain.EventCreation,
	}, events[0])
}

func TestTimelineChangeEvents(t *testing.T) {
	req := art("REQ-1", domain.KindRequirement, "2023-03-01")
	req.Changes = []domain.ChangeEvent{
		{Date: "2023-05-01", User: "kim", Description: "second", ChangeKind: domain.ChangeModified},
		{Date: "2023-02-01", User: "lee", Description: "first", ChangeKind: domain.ChangeAdded},
	}
	fn := art("FN-1", domain.KindFunction, "2023-04-01")

	store := build(t, req, fn)

	t.Run("excluded when toggle is off", func(t *testing.T) {
		events := timeline(t, testBuilder(), store, TimelineOptions{Window: domain.WindowAll})
		assert.Len(t, events, 2)
		for _, e := range events {
			assert.Equal(t, domain.EventCreation, e.EventKind)
		}
	})

	t.Run("merged and sorted when toggle is on", func(t *testing.T) {
		events := timeline(t, testBuilder(), store, TimelineOptions{Window: domain.WindowAll, IncludeChangeEvents: true})
		require.Len(t, events, 4)

		var descriptions []string
		for _, e := range events {
			descriptions = append(descriptions, e.Description)
		}
		assert.Equal(t, []string{"first", "REQ-1 description", "FN-1 description", "second"}, descriptions)

		assert.Equal(t, domain.EventModification, events[0].EventKind)
		assert.Equal(t, "lee", events[0].User)
		assert.Equal(t, domain.ChangeAdded, events[0].ChangeKind)
		assert.Equal(t, "REQ-1 name", events[0].Name)
	})
}

func TestTimelineOrderingProperty(t *testing.T) {
	a := art("A", domain.KindScenario, "2023-06-01")
	a.Changes = []domain.ChangeEvent{{Date: "2023-01-10"}, {Date: "2024-01-01"}, {Date: "2023-06-01"}}
	b := art("B", domain.KindTest, "2022-12-31")
	b.Changes = []domain.ChangeEvent{{Date: "2023-06-01T08:00:00Z"}}
	c := art("C", domain.KindResult, "2023-06-01")

	store := build(t, a, b, c)
	events := timeline(t, testBuilder(), store, TimelineOptions{Window: domain.WindowAll, IncludeChangeEvents: true})

	require.Len(t, events, 7)
	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Date.Before(events[i-1].Date), "event %d out of order", i)
	}

	perArtifact := map[string]map[domain.EventKind]int{}
	for _, e := range events {
		if perArtifact[e.ArtifactID] == nil {
			perArtifact[e.ArtifactID] = map[domain.EventKind]int{}
		}
		perArtifact[e.ArtifactID][e.EventKind]++
	}
	assert.Equal(t, 1, perArtifact["A"][domain.EventCreation])
	assert.Equal(t, 3, perArtifact["A"][domain.EventModification])
	assert.Equal(t, 1, perArtifact["B"][domain.EventModification])

	t.Run("ties keep input order", func(t *testing.T) {
		var sameDay []string
		for _, e := range events {
			if e.Date.Equal(day("2023-06-01")) {
				sameDay = append(sameDay, e.ArtifactID+"/"+string(e.EventKind))
			}
		}
		assert.Equal(t, []string{"A/Creation", "A/Modification", "C/Creation"}, sameDay)
	})
}

func TestTimelineWindow(t *testing.T) {
	// fixedNow is 2024-06-15; one month back is 2024-05-15
	recent := art("REQ-1", domain.KindRequirement, "2024-06-01")
	boundary := art("REQ-2", domain.KindRequirement, "2024-05-15T12:00:00Z")
	stale := art("FN-1", domain.KindFunction, "2024-04-15")
	stale.Changes = []domain.ChangeEvent{{Date: "2024-04-20", Description: "old tweak"}}
	revived := art("CAD-1", domain.KindCAD, "2023-01-01")
	revived.Changes = []domain.ChangeEvent{{Date: "2024-06-10", Description: "new tweak"}}

	store := build(t, recent, boundary, stale, revived)

	events := timeline(t, testBuilder(), store, TimelineOptions{Window: domain.Window1M, IncludeChangeEvents: true})

	var got []string
	for _, e := range events {
		got = append(got, e.ArtifactID+"/"+string(e.EventKind))
	}
	assert.Equal(t, []string{"REQ-2/Creation", "REQ-1/Creation", "CAD-1/Modification"}, got)

	start, _ := domain.Window1M.Start(fixedNow)
	for _, e := range events {
		assert.False(t, e.Date.Before(start))
	}

	t.Run("artifact modified two months ago yields nothing", func(t *testing.T) {
		for _, e := range events {
			assert.NotEqual(t, "FN-1", e.ArtifactID)
		}
	})

	t.Run("all window keeps everything", func(t *testing.T) {
		all := timeline(t, testBuilder(), store, TimelineOptions{Window: domain.WindowAll, IncludeChangeEvents: true})
		assert.Len(t, all, 6)
	})
}

func TestTimelineInvalidDates(t *testing.T) {
	good := art("OK-1", domain.KindTest, "2023-01-01")
	good.Changes = []domain.ChangeEvent{{Date: "not a date"}, {Date: "2023-02-01"}}
	missing := art("BAD-1", domain.KindTest, "")
	garbage := art("BAD-2", domain.KindTest, "31/12/2023")

	store := build(t, good, missing, garbage)

	var dropped []DroppedEvent
	b := testBuilder()
	b.OnInvalidDate = func(d DroppedEvent) { dropped = append(dropped, d) }

	events := timeline(t, b, store, TimelineOptions{Window: domain.WindowAll, IncludeChangeEvents: true})

	require.Len(t, events, 2)
	assert.Equal(t, "OK-1", events[0].ArtifactID)
	assert.Equal(t, "OK-1", events[1].ArtifactID)

	require.Len(t, dropped, 3)
	assert.Equal(t, DroppedEvent{ArtifactID: "OK-1", EventKind: domain.EventModification, RawDate: "not a date", Err: dropped[0].Err}, dropped[0])
	assert.Equal(t, "BAD-1", dropped[1].ArtifactID)
	assert.Equal(t, "31/12/2023", dropped[2].RawDate)
	assert.ErrorIs(t, dropped[2].Err, domain.ErrInvalidDate)
}

func TestTimelineZeroBuilderUsesWallClock(t *testing.T) {
	store := build(t, art("NOW-1", domain.KindTest, time.Now().UTC().Format(time.RFC3339)))

	var b Builder
	events := timeline(t, &b, store, TimelineOptions{Window: domain.Window1W})
	assert.Len(t, events, 1)
}

func TestTimelineWindowParsing(t *testing.T) {
	store := build(t,
		art("OLD-1", domain.KindTest, "2020-01-01"),
		art("NEW-1", domain.KindTest, "2024-06-10"),
	)

	t.Run("lower case window is bounded", func(t *testing.T) {
		events := timeline(t, testBuilder(), store, TimelineOptions{Window: "1m"})
		assert.Equal(t, []string{"NEW-1"}, eventIDs(events))
	})

	t.Run("empty window is unbounded", func(t *testing.T) {
		events := timeline(t, testBuilder(), store, TimelineOptions{})
		assert.Equal(t, []string{"OLD-1", "NEW-1"}, eventIDs(events))
	})

	t.Run("unknown window is rejected", func(t *testing.T) {
		events, err := testBuilder().Timeline(store, TimelineOptions{Window: "2W"})
		assert.ErrorIs(t, err, domain.ErrInvalidTimeWindow)
		assert.Nil(t, events)
	})
}

func eventIDs(events []domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, e := range events {
		out = append(out, e.ArtifactID)
	}
	return out
}

func TestGroupByMonth(t *testing.T) {
	events := []domain.Event{
		{ArtifactID: "A", Date: day("2023-01-03")},
		{ArtifactID: "B", Date: day("2023-01-30")},
		{ArtifactID: "C", Date: day("2023-03-01")},
		{ArtifactID: "D", Date: day("2022-12-31")},
	}

	groups := GroupByMonth(events)

	require.Len(t, groups, 3)
	assert.Equal(t, "2022-12", groups[0].Month)
	assert.Equal(t, "2023-01", groups[1].Month)
	assert.Equal(t, "2023-03", groups[2].Month)
	require.Len(t, groups[1].Events, 2)
	assert.Equal(t, "A", groups[1].Events[0].ArtifactID)
	assert.Equal(t, "B", groups[1].Events[1].ArtifactID)

	assert.Empty(t, GroupByMonth(nil))
}
