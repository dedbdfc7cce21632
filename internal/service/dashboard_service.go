package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/resolvely/ticket-tracker/internal/activity"
	"github.com/resolvely/ticket-tracker/internal/domain"
	"github.com/resolvely/ticket-tracker/internal/repository"
	"github.com/resolvely/ticket-tracker/internal/stats"
)

// DefaultActivityLimit is used by ActivityLog when no limit is given.
const DefaultActivityLimit = 10

// DashboardService serves read-only aggregates, catalog and user listings.
type DashboardService struct {
	tickets       repository.TicketRepository
	comments      repository.CommentRepository
	catalog       repository.CatalogRepository
	users         repository.UserRepository
	logger        *zap.Logger
	recentLimit   int
	activityLimit int
	months        int
	now           func() time.Time
}

// DashboardDependencies bundles repositories for the dashboard service.
type DashboardDependencies struct {
	TicketRepo      repository.TicketRepository
	CommentRepo     repository.CommentRepository
	CatalogRepo     repository.CatalogRepository
	UserRepo        repository.UserRepository
	Logger          *zap.Logger
	RecentLimit     int
	ActivityLimit   int
	AnalyticsMonths int
}

// Overview bundles the headline dashboard sections.
type Overview struct {
	Stats        stats.Stats
	Distribution stats.Distribution
	Recent       []domain.Ticket
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	recent := deps.RecentLimit
	if recent < MinListLimit || recent > MaxListLimit {
		recent = DefaultRecentLimit
	}
	activityLimit := deps.ActivityLimit
	if activityLimit < MinListLimit || activityLimit > MaxListLimit {
		activityLimit = DefaultActivityLimit
	}
	months := deps.AnalyticsMonths
	if months <= 0 {
		months = stats.DefaultMonths
	}
	return &DashboardService{
		tickets:       deps.TicketRepo,
		comments:      deps.CommentRepo,
		catalog:       deps.CatalogRepo,
		users:         deps.UserRepo,
		logger:        logger,
		recentLimit:   recent,
		activityLimit: activityLimit,
		months:        months,
		now:           time.Now,
	}
}

// Stats computes headline counts over the current ticket set.
func (s *DashboardService) Stats(ctx context.Context, caller *domain.User) (stats.Stats, error) {
	if err := requireCaller(caller); err != nil {
		return stats.Stats{}, err
	}
	return s.stats(ctx)
}

// Distribution groups tickets by status and priority name.
func (s *DashboardService) Distribution(ctx context.Context, caller *domain.User) (stats.Distribution, error) {
	if err := requireCaller(caller); err != nil {
		return stats.Distribution{}, err
	}
	return s.distribution(ctx)
}

// Analytics returns tickets opened and completed per month over the trailing window.
func (s *DashboardService) Analytics(ctx context.Context, caller *domain.User) ([]stats.MonthBucket, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	tickets, err := s.allTickets(ctx)
	if err != nil {
		return nil, err
	}
	return stats.TimeSeries(tickets, s.now(), s.months), nil
}

// ActivityLog returns the global activity feed, most recent first. Each source is
// sampled up to limit rows, so the feed is an approximation of all activity.
func (s *DashboardService) ActivityLog(ctx context.Context, caller *domain.User, limit int) ([]domain.ActivityEvent, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	limit, err := resolveLimit(limit, s.activityLimit)
	if err != nil {
		return nil, err
	}

	var (
		created  []domain.Ticket
		comments []domain.Comment
		assigned []domain.Ticket
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		created, err = s.tickets.List(gctx, repository.TicketFilter{Limit: limit})
		if err != nil {
			return storeFailure(s.logger, "ticket.list_recent", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		comments, err = s.comments.ListRecent(gctx, limit)
		if err != nil {
			return storeFailure(s.logger, "comment.list_recent", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		assigned, err = s.tickets.List(gctx, repository.TicketFilter{
			AssignedOnly: true,
			OrderBy:      repository.OrderByUpdated,
			Limit:        limit,
		})
		if err != nil {
			return storeFailure(s.logger, "ticket.list_assigned", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return activity.Feed(created, comments, assigned, limit), nil
}

// Overview gathers stats, distribution and recent tickets concurrently.
func (s *DashboardService) Overview(ctx context.Context, caller *domain.User) (*Overview, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}

	var overview Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		overview.Stats, err = s.stats(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		overview.Distribution, err = s.distribution(gctx)
		return err
	})
	g.Go(func() error {
		recent, err := s.tickets.List(gctx, repository.TicketFilter{Limit: s.recentLimit})
		if err != nil {
			return storeFailure(s.logger, "ticket.list_recent", err)
		}
		overview.Recent = recent
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &overview, nil
}

// Statuses lists the status catalog.
func (s *DashboardService) Statuses(ctx context.Context, caller *domain.User) ([]domain.Status, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	statuses, err := s.catalog.ListStatuses(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "catalog.list_statuses", err)
	}
	return statuses, nil
}

// Priorities lists the priority catalog.
func (s *DashboardService) Priorities(ctx context.Context, caller *domain.User) ([]domain.Priority, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	priorities, err := s.catalog.ListPriorities(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "catalog.list_priorities", err)
	}
	return priorities, nil
}

// Users lists every known user.
func (s *DashboardService) Users(ctx context.Context, caller *domain.User) ([]domain.User, error) {
	if err := requireCaller(caller); err != nil {
		return nil, err
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, storeFailure(s.logger, "user.list", err)
	}
	return users, nil
}

func (s *DashboardService) stats(ctx context.Context) (stats.Stats, error) {
	tickets, err := s.allTickets(ctx)
	if err != nil {
		return stats.Stats{}, err
	}
	userCount, err := s.users.Count(ctx)
	if err != nil {
		return stats.Stats{}, storeFailure(s.logger, "user.count", err)
	}
	return stats.Compute(tickets, userCount, s.now()), nil
}

func (s *DashboardService) distribution(ctx context.Context) (stats.Distribution, error) {
	tickets, err := s.allTickets(ctx)
	if err != nil {
		return stats.Distribution{}, err
	}
	return stats.Distribute(tickets), nil
}

func (s *DashboardService) allTickets(ctx context.Context) ([]domain.Ticket, error) {
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{})
	if err != nil {
		return nil, storeFailure(s.logger, "ticket.list", err)
	}
	return tickets, nil
}
