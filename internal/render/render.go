package render

import (
	"fmt"
	"strconv"

	"github.com/sandeepkv93/tally/internal/model"
	"github.com/sandeepkv93/tally/internal/surface"
)

// Renderer projects the two sequences onto surface lists. It keeps no state of
// its own, so rendering the same input twice yields the same rows.
type Renderer struct {
	Completed      surface.List
	Given          surface.List
	CompletedLabel surface.Element
	GivenLabel     surface.Element
}

func (r Renderer) Render(completed []model.CompletedEntry, given []model.GivenEntry) {
	r.Completed.Clear()
	for _, e := range completed {
		r.Completed.Append(CompletedRow(e))
	}
	r.Given.Clear()
	for i, g := range given {
		r.Given.Append(GivenRow(g, len(given)-i))
	}
}

func (r Renderer) RenderCounts(nCompleted, nGiven int) {
	r.CompletedLabel.SetText(CompletedLabel(nCompleted))
	r.GivenLabel.SetText(GivenLabel(nGiven))
}

func CompletedLabel(n int) string {
	return fmt.Sprintf("Completed (%d)", n)
}

func GivenLabel(n int) string {
	return fmt.Sprintf("Given (%d)", n)
}

func CompletedRow(e model.CompletedEntry) surface.Row {
	return surface.Row{
		Key:          CompletedKey(e.ID),
		Primary:      e.Content,
		Transferable: true,
		EntryID:      e.ID,
	}
}

// GivenRow keys given rows by their position counted from the oldest entry, so
// a prepended row never reuses the key of an existing one.
func GivenRow(g model.GivenEntry, ordinal int) surface.Row {
	return surface.Row{
		Key:       "given-" + strconv.Itoa(ordinal),
		Primary:   g.CompletedOn,
		Secondary: g.GivenOn,
	}
}

func CompletedKey(id int64) string {
	return "completed-" + strconv.FormatInt(id, 10)
}

// EntryFromRow rebuilds the entry a completed row shows.
func EntryFromRow(row surface.Row) (model.CompletedEntry, bool) {
	if !row.Transferable {
		return model.CompletedEntry{}, false
	}
	return model.CompletedEntry{ID: row.EntryID, Content: row.Primary}, true
}
