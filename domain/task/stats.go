package task

import "math"

// CompletionStats summarises the live task set of a list.
type CompletionStats struct {
	Total                int     `json:"total"`
	Pending              int     `json:"pending"`
	InProgress           int     `json:"in_progress"`
	Completed            int     `json:"completed"`
	Cancelled            int     `json:"cancelled"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// ComputeStats counts tasks per status. The percentage is rounded half to
// even at one decimal and is 0 for an empty set.
func ComputeStats(tasks []Task) CompletionStats {
	var st CompletionStats
	for i := range tasks {
		st.Total++
		switch tasks[i].Status {
		case StatusPending:
			st.Pending++
		case StatusInProgress:
			st.InProgress++
		case StatusCompleted:
			st.Completed++
		case StatusCancelled:
			st.Cancelled++
		}
	}
	if st.Total > 0 {
		pct := float64(st.Completed) / float64(st.Total) * 100
		st.CompletionPercentage = math.RoundToEven(pct*10) / 10
	}
	return st
}
