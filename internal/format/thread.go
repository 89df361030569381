package format

import (
	"fmt"
	"strings"
	"time"

	"digitalthread/internal/domain"
	"digitalthread/internal/thread"
	"digitalthread/internal/view"

	"github.com/dustin/go-humanize"
)

// descriptionWidth caps free-text columns
const descriptionWidth = 48

// Artifacts renders one row per artifact
func Artifacts(m Mode, artifacts []domain.Artifact, now time.Time) string {
	t := NewTable(m)
	t.Header("ID", "Kind", "Name", "Status", "Version", "Modified", "Links")
	t.Columns(Column{Number: 7, Align: AlignRight})
	for _, a := range artifacts {
		t.Row(a.ID, a.Kind, a.DisplayName(), a.Status, a.Version, Ago(a.LastModified, now), len(a.LinkedItems))
	}
	t.Footer("", "", "", "", "", "Total", len(artifacts))
	return t.String()
}

// Stats renders per-kind counts in lifecycle order
func Stats(m Mode, store *thread.Store) string {
	t := NewTable(m)
	t.Header("Kind", "Artifacts")
	t.Columns(Column{Number: 2, Align: AlignRight})
	counts := store.Counts()
	for _, k := range store.Kinds() {
		t.Row(k, humanize.Comma(int64(counts[k])))
	}
	t.Footer("Total", humanize.Comma(int64(store.Len())))
	summary := fmt.Sprintf("%s links, %s dangling",
		humanize.Comma(int64(store.TotalLinkCount())), humanize.Comma(int64(len(store.DanglingLinks()))))
	return t.String() + "\n" + summary + "\n"
}

// Flow renders one row per kind with its member ids
func Flow(m Mode, groups []view.FlowGroup) string {
	t := NewTable(m)
	t.Title("Flow")
	t.Header("#", "Kind", "Count", "Artifacts")
	t.Columns(
		Column{Number: 3, Align: AlignRight},
		Column{Number: 4, MaxWidth: 60},
	)
	for i, g := range groups {
		ids := make([]string, 0, len(g.Artifacts))
		for _, a := range g.Artifacts {
			ids = append(ids, a.ID)
		}
		t.Row(i+1, g.Kind, len(g.Artifacts), strings.Join(ids, ", "))
	}
	return t.String()
}

// Network renders the resolved edges followed by kind adjacency counts
func Network(m Mode, nv *view.NetworkView) string {
	edges := NewTable(m)
	edges.Title("Edges")
	edges.Header("From", "From Kind", "To", "To Kind")
	for _, e := range nv.Edges {
		edges.Row(e.From, e.FromKind, e.To, e.ToKind)
	}
	edges.Footer("", "", "Total", len(nv.Edges))

	adjacency := nv.KindAdjacency()
	kinds := NewTable(m)
	kinds.Title("Kind adjacency")
	kinds.Header("From", "To", "Edges")
	kinds.Columns(Column{Number: 3, Align: AlignRight})
	order := domain.CanonicalKindOrder()
	order = append(order, extraKinds(nv, order)...)
	for _, from := range order {
		for _, to := range order {
			if n := adjacency[domain.KindPair{From: from, To: to}]; n > 0 {
				kinds.Row(from, to, n)
			}
		}
	}
	return edges.String() + "\n\n" + kinds.String()
}

// extraKinds lists kinds in the view that are not in order, first seen first
func extraKinds(nv *view.NetworkView, order []domain.Kind) []domain.Kind {
	known := make(map[domain.Kind]bool, len(order))
	for _, k := range order {
		known[k] = true
	}
	var out []domain.Kind
	for _, g := range nv.NodesByKind {
		if !known[g.Kind] {
			known[g.Kind] = true
			out = append(out, g.Kind)
		}
	}
	return out
}

// Timeline renders events in order
func Timeline(m Mode, events []domain.Event, now time.Time) string {
	t := NewTable(m)
	t.Header("Date", "When", "Artifact", "Kind", "Event", "User", "Description")
	t.Columns(Column{Number: 7, MaxWidth: descriptionWidth})
	for _, e := range events {
		t.Row(e.Date.Format(time.DateOnly), humanize.RelTime(e.Date, now, "ago", "from now"),
			e.ArtifactID, e.Kind, eventLabel(e), e.User, e.Description)
	}
	return t.String()
}

// Months renders one table per calendar month
func Months(m Mode, groups []domain.MonthGroup, now time.Time) string {
	parts := make([]string, 0, len(groups))
	for _, g := range groups {
		heading := fmt.Sprintf("%s (%d events)", g.Month, len(g.Events))
		if m == Markdown {
			heading = "### " + heading
		}
		parts = append(parts, heading+"\n"+Timeline(m, g.Events, now))
	}
	return strings.Join(parts, "\n\n")
}

// Ago renders a raw artifact date relative to now, or the raw text when it
// does not parse
func Ago(raw string, now time.Time) string {
	d, err := domain.ParseDate(raw)
	if err != nil {
		return raw
	}
	return humanize.RelTime(d, now, "ago", "from now")
}

func eventLabel(e domain.Event) string {
	if e.ChangeKind != "" {
		return fmt.Sprintf("%s (%s)", e.EventKind, e.ChangeKind)
	}
	return string(e.EventKind)
}
