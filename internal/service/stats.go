package service

import (
	"math"

	"github.com/wbsotracker/wbsotracker/internal/model"
)

// Stats summarizes a user's logged hours against their approved budget.
type Stats struct {
	TotalHours         float64 `json:"total_hours"`
	RemainingHours     float64 `json:"remaining_hours"`
	ApprovedHours      float64 `json:"approved_hours"`
	ProgressPercentage float64 `json:"progress_percentage"`
}

// ComputeStats aggregates hours over a set of entries.
// RemainingHours can go negative; logging past the budget is reported, not
// rejected. Progress is a percentage rounded to one decimal, 0 when no
// hours were approved.
func ComputeStats(entries []*model.TimeEntry, approvedHours float64) Stats {
	var total float64
	for _, entry := range entries {
		total += entry.Hours
	}

	stats := Stats{
		TotalHours:     total,
		RemainingHours: approvedHours - total,
		ApprovedHours:  approvedHours,
	}

	if approvedHours > 0 {
		stats.ProgressPercentage = math.Round(total/approvedHours*1000) / 10
	}

	return stats
}
