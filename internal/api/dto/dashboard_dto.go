package dto

import (
	"github.com/resolvely/ticket-tracker/internal/domain"
	"github.com/resolvely/ticket-tracker/internal/stats"
)

// StatsResponse renders headline counts.
type StatsResponse struct {
	TotalCount         int `json:"total_count"`
	OpenCount          int `json:"open_count"`
	InProgressCount    int `json:"in_progress_count"`
	ClosedCount        int `json:"closed_count"`
	UserCount          int `json:"user_count"`
	WeeklyOpenChange   int `json:"weekly_open_change"`
	WeeklyClosedChange int `json:"weekly_closed_change"`
}

// CountResponse is a grouped count.
type CountResponse struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
	Badge string `json:"badge"`
}

// DistributionResponse groups ticket counts.
type DistributionResponse struct {
	ByStatus   []CountResponse `json:"by_status"`
	ByPriority []CountResponse `json:"by_priority"`
}

// MonthBucketResponse is one point of the analytics series.
type MonthBucketResponse struct {
	Month     string `json:"month"`
	Opened    int    `json:"opened"`
	Completed int    `json:"completed"`
}

// AnalyticsResponse wraps the analytics series.
type AnalyticsResponse struct {
	TicketsOverTime []MonthBucketResponse `json:"tickets_over_time"`
}

// OverviewResponse bundles the dashboard landing sections.
type OverviewResponse struct {
	Stats         StatsResponse        `json:"stats"`
	Distribution  DistributionResponse `json:"distribution"`
	RecentTickets []TicketSummary      `json:"recent_tickets"`
}

// StatusResponse is a status catalog row.
type StatusResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Bucket string `json:"bucket"`
	Badge  string `json:"badge"`
}

// PriorityResponse is a priority catalog row.
type PriorityResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Rank  int    `json:"rank"`
	Badge string `json:"badge"`
}

// NewStatsResponse maps stats.
func NewStatsResponse(s stats.Stats) StatsResponse {
	return StatsResponse{
		TotalCount:         s.TotalCount,
		OpenCount:          s.OpenCount,
		InProgressCount:    s.InProgressCount,
		ClosedCount:        s.ClosedCount,
		UserCount:          s.UserCount,
		WeeklyOpenChange:   s.WeeklyOpenChange,
		WeeklyClosedChange: s.WeeklyClosedChange,
	}
}

// NewDistributionResponse maps a distribution.
func NewDistributionResponse(d stats.Distribution) DistributionResponse {
	resp := DistributionResponse{
		ByStatus:   make([]CountResponse, 0, len(d.ByStatus)),
		ByPriority: make([]CountResponse, 0, len(d.ByPriority)),
	}
	for _, c := range d.ByStatus {
		resp.ByStatus = append(resp.ByStatus, CountResponse{Name: c.Name, Count: c.Count, Badge: string(domain.StatusBadge(c.Name))})
	}
	for _, c := range d.ByPriority {
		resp.ByPriority = append(resp.ByPriority, CountResponse{Name: c.Name, Count: c.Count, Badge: string(domain.PriorityBadge(c.Name))})
	}
	return resp
}

// NewAnalyticsResponse maps the analytics series.
func NewAnalyticsResponse(series []stats.MonthBucket) AnalyticsResponse {
	points := make([]MonthBucketResponse, 0, len(series))
	for _, b := range series {
		points = append(points, MonthBucketResponse{Month: b.Month, Opened: b.Opened, Completed: b.Completed})
	}
	return AnalyticsResponse{TicketsOverTime: points}
}

// NewStatusResponses maps the status catalog.
func NewStatusResponses(statuses []domain.Status) []StatusResponse {
	items := make([]StatusResponse, 0, len(statuses))
	for _, s := range statuses {
		items = append(items, StatusResponse{
			ID:     s.ID,
			Name:   s.Name,
			Bucket: string(domain.BucketOf(s.Name)),
			Badge:  string(domain.StatusBadge(s.Name)),
		})
	}
	return items
}

// NewPriorityResponses maps the priority catalog.
func NewPriorityResponses(priorities []domain.Priority) []PriorityResponse {
	items := make([]PriorityResponse, 0, len(priorities))
	for _, p := range priorities {
		items = append(items, PriorityResponse{
			ID:    p.ID,
			Name:  p.Name,
			Rank:  int(domain.RankOf(p.Name)),
			Badge: string(domain.PriorityBadge(p.Name)),
		})
	}
	return items
}
