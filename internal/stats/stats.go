// Package stats computes dashboard aggregates over the current ticket set.
package stats

import (
	"sort"
	"time"

	"github.com/resolvely/ticket-tracker/internal/domain"
)

// DefaultMonths is the trailing window of the opened/completed series.
const DefaultMonths = 6

// Week is the look-back used for week-over-week deltas.
const Week = 7 * 24 * time.Hour

// MonthLayout formats time-series bucket keys.
const MonthLayout = "2006-01"

// Stats holds headline counts.
//
// WeeklyOpenChange and WeeklyClosedChange compare the current bucket count with the
// tickets in that bucket that already existed (open, by created_at) or were last
// touched (closed, by updated_at) a week ago. They approximate a week-over-week
// delta; no historical snapshot is kept.
type Stats struct {
	TotalCount         int
	OpenCount          int
	InProgressCount    int
	ClosedCount        int
	UserCount          int
	WeeklyOpenChange   int
	WeeklyClosedChange int
}

// Count is a grouped count row.
type Count struct {
	Name  string
	Count int
}

// Distribution groups tickets by status and priority name.
type Distribution struct {
	ByStatus   []Count
	ByPriority []Count
}

// MonthBucket holds per-month counters of the analytics series.
type MonthBucket struct {
	Month     string
	Opened    int
	Completed int
}

// Compute derives headline counts from tickets.
func Compute(tickets []domain.Ticket, userCount int, now time.Time) Stats {
	weekAgo := now.Add(-Week)
	result := Stats{TotalCount: len(tickets), UserCount: userCount}

	var openBefore, closedBefore int
	for i := range tickets {
		ticket := &tickets[i]
		switch domain.BucketOf(ticket.Status.Name) {
		case domain.BucketOpen:
			result.OpenCount++
			if ticket.CreatedAt.Before(weekAgo) {
				openBefore++
			}
		case domain.BucketInProgress:
			result.InProgressCount++
		case domain.BucketClosed:
			result.ClosedCount++
			if ticket.UpdatedAt.Before(weekAgo) {
				closedBefore++
			}
		}
	}

	result.WeeklyOpenChange = result.OpenCount - openBefore
	result.WeeklyClosedChange = result.ClosedCount - closedBefore
	return result
}

// Distribute returns one row per distinct status and priority name present among
// tickets, ordered by name.
func Distribute(tickets []domain.Ticket) Distribution {
	byStatus := make(map[string]int)
	byPriority := make(map[string]int)
	for i := range tickets {
		byStatus[tickets[i].Status.Name]++
		byPriority[tickets[i].Priority.Name]++
	}
	return Distribution{
		ByStatus:   sortedCounts(byStatus),
		ByPriority: sortedCounts(byPriority),
	}
}

// TimeSeries buckets tickets created within the trailing window by calendar month
// (UTC). Opened counts tickets not closed at query time, Completed those closed.
// Months without tickets are omitted.
func TimeSeries(tickets []domain.Ticket, now time.Time, months int) []MonthBucket {
	if months <= 0 {
		months = DefaultMonths
	}
	now = now.UTC()
	windowStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	buckets := make(map[string]*MonthBucket)
	for i := range tickets {
		created := tickets[i].CreatedAt.UTC()
		if created.Before(windowStart) || created.After(now) {
			continue
		}
		key := created.Format(MonthLayout)
		bucket, ok := buckets[key]
		if !ok {
			bucket = &MonthBucket{Month: key}
			buckets[key] = bucket
		}
		if domain.BucketOf(tickets[i].Status.Name) == domain.BucketClosed {
			bucket.Completed++
		} else {
			bucket.Opened++
		}
	}

	series := make([]MonthBucket, 0, len(buckets))
	for _, bucket := range buckets {
		series = append(series, *bucket)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Month < series[j].Month })
	return series
}

func sortedCounts(counts map[string]int) []Count {
	rows := make([]Count, 0, len(counts))
	for name, count := range counts {
		rows = append(rows, Count{Name: name, Count: count})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Name < rows[j].Name })
	return rows
}
