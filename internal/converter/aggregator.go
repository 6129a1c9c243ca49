package converter

import "github.com/ginjaninja78/manga-csv-to-mal/internal/types"

// Summarize counts records per status. It is recomputed from the full slice
// on every call; nothing is tracked while rows are converted.
func Summarize(records []types.Record) types.Summary {
	summary := types.Summary{Total: len(records)}

	for _, record := range records {
		switch record.Status {
		case types.StatusReading:
			summary.Reading++
		case types.StatusCompleted:
			summary.Completed++
		case types.StatusOnHold:
			summary.OnHold++
		case types.StatusDropped:
			summary.Dropped++
		case types.StatusPlanToRead:
			summary.PlanToRead++
		}
	}

	return summary
}

// Count returns the count for one status.
func Count(s types.Summary, status types.Status) int {
	switch status {
	case types.StatusReading:
		return s.Reading
	case types.StatusCompleted:
		return s.Completed
	case types.StatusOnHold:
		return s.OnHold
	case types.StatusDropped:
		return s.Dropped
	case types.StatusPlanToRead:
		return s.PlanToRead
	}
	return 0
}
