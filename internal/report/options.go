package report

import (
	"sort"

	"github.com/mamadbah2/eventdash/internal/domain/models"
)

// Options are the distinct filter values present in a dataset.
type Options struct {
	Venues []models.Venue `json:"venues"`
	Stages []models.Stage `json:"stages"`
	Years  []int          `json:"years"`
}

// FilterOptions collects Venues, Stages and Years.
func FilterOptions(records []models.EventRecord) Options {
	return Options{Venues: Venues(records), Stages: Stages(records), Years: Years(records)}
}

// Venues returns the distinct venues in alphabetical order.
func Venues(records []models.EventRecord) []models.Venue {
	seen := make(map[models.Venue]bool)
	out := []models.Venue{}
	for _, r := range records {
		if !seen[r.Venue] {
			seen[r.Venue] = true
			out = append(out, r.Venue)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Stages returns the distinct stages ordered by stage code.
func Stages(records []models.EventRecord) []models.Stage {
	codes := make(map[models.Stage]int)
	out := []models.Stage{}
	for _, r := range records {
		if _, ok := codes[r.Stage]; !ok {
			codes[r.Stage] = r.StageCode
			out = append(out, r.Stage)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if codes[out[i]] != codes[out[j]] {
			return codes[out[i]] < codes[out[j]]
		}
		return out[i] < out[j]
	})
	return out
}

// Years returns the distinct event years, most recent first.
func Years(records []models.EventRecord) []int {
	seen := make(map[int]bool)
	out := []int{}
	for _, r := range records {
		if !seen[r.Year] {
			seen[r.Year] = true
			out = append(out, r.Year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
