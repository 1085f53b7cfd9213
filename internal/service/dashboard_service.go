package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/domain"
	"github.com/betaops/beta-manager/internal/repository"
	"github.com/betaops/beta-manager/pkg/util"
)

// DashboardService computes program-level aggregates for the admin UI.
type DashboardService struct {
	testers   repository.TesterRepository
	feedback  repository.FeedbackRepository
	incidents repository.IncidentRepository
	comms     repository.CommunicationRepository
	logger    *zap.Logger
}

// DashboardDependencies bundles requirements for the dashboard service.
type DashboardDependencies struct {
	TesterRepo        repository.TesterRepository
	FeedbackRepo      repository.FeedbackRepository
	IncidentRepo      repository.IncidentRepository
	CommunicationRepo repository.CommunicationRepository
	Logger            *zap.Logger
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	return &DashboardService{
		testers:   deps.TesterRepo,
		feedback:  deps.FeedbackRepo,
		incidents: deps.IncidentRepo,
		comms:     deps.CommunicationRepo,
		logger:    deps.Logger,
	}
}

// ProgramStats is the headline numbers block.
type ProgramStats struct {
	TotalTesters    int     `json:"total_testers"`
	ActiveTesters   int     `json:"active_testers"`
	CompletedTests  int     `json:"completed_tests"`
	OpenIncidents   int     `json:"open_incidents"`
	PendingFeedback int     `json:"pending_feedback"`
	RetentionRate   float64 `json:"retention_rate"`
}

// FunnelStage is one step of the recruitment funnel.
type FunnelStage struct {
	Stage domain.TesterStage `json:"stage"`
	Count int                `json:"count"`
}

// Stats computes the headline program numbers in a single sweep over
// the tester table.
func (s *DashboardService) Stats(ctx context.Context) (*ProgramStats, error) {
	testers, err := s.testers.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ProgramStats{TotalTesters: len(testers)}
	started := 0
	for _, t := range testers {
		if domain.InActiveStage(t.Stage) {
			stats.ActiveTesters++
		}
		if t.StartedAt != nil {
			started++
		}
		if t.Stage == domain.StageCompleted || t.Stage == domain.StageTransitioned {
			stats.CompletedTests++
		}
	}
	// Retention measures how many testers who started a test reached the
	// end of it.
	if started > 0 {
		stats.RetentionRate = float64(stats.CompletedTests) / float64(started) * 100
	}

	openIncidents, err := s.incidents.CountOpen(ctx)
	if err != nil {
		return nil, err
	}
	stats.OpenIncidents = openIncidents

	pending, err := s.feedback.ListByStatus(ctx, domain.FeedbackStatusNew, baserowAlertLimit)
	if err != nil {
		return nil, err
	}
	stats.PendingFeedback = len(pending)

	return stats, nil
}

// Funnel returns per-stage tester counts in funnel order, including
// stages with zero testers.
func (s *DashboardService) Funnel(ctx context.Context) ([]FunnelStage, error) {
	testers, err := s.testers.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.TesterStage]int, len(domain.TesterStages))
	for _, t := range testers {
		counts[t.Stage]++
	}

	funnel := make([]FunnelStage, 0, len(domain.TesterStages))
	for _, stage := range domain.TesterStages {
		funnel = append(funnel, FunnelStage{Stage: stage, Count: counts[stage]})
	}
	return funnel, nil
}

// ActivityEntry is one item in the recent-activity feed.
type ActivityEntry struct {
	Type       string    `json:"type"`
	ID         int       `json:"id"`
	TesterID   int       `json:"tester_id,omitempty"`
	TesterName string    `json:"tester_name,omitempty"`
	Date       time.Time `json:"date"`
	Title      string    `json:"title"`
}

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
	baserowAlertLimit    = 200
)

// Activity merges recent feedback, incidents and communications into a
// single feed, newest first, capped at limit entries.
func (s *DashboardService) Activity(ctx context.Context, limit int) ([]ActivityEntry, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	feedback, err := s.feedback.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	incidents, err := s.incidents.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}
	comms, err := s.comms.ListRecent(ctx, limit)
	if err != nil {
		return nil, err
	}

	feed := make([]ActivityEntry, 0, len(feedback)+len(incidents)+len(comms))
	for _, f := range feedback {
		feed = append(feed, ActivityEntry{
			Type:       "feedback",
			ID:         f.ID,
			TesterID:   f.TesterID,
			TesterName: f.TesterName,
			Date:       f.CreatedAt,
			Title:      f.Title,
		})
	}
	for _, i := range incidents {
		feed = append(feed, ActivityEntry{
			Type:       "incident",
			ID:         i.ID,
			TesterID:   i.TesterID,
			TesterName: i.TesterName,
			Date:       i.CreatedAt,
			Title:      i.Title,
		})
	}
	for _, c := range comms {
		title := c.Subject
		if title == "" {
			title = string(c.Channel) + " " + string(c.Direction)
		}
		feed = append(feed, ActivityEntry{
			Type:       "communication",
			ID:         c.ID,
			TesterID:   c.TesterID,
			TesterName: c.TesterName,
			Date:       c.SentAt,
			Title:      title,
		})
	}

	sort.Slice(feed, func(a, b int) bool {
		return feed[a].Date.After(feed[b].Date)
	})
	if len(feed) > limit {
		feed = feed[:limit]
	}
	return feed, nil
}

// InactiveTester is a tester flagged on the alerts panel.
type InactiveTester struct {
	ID           int                `json:"id"`
	Name         string             `json:"name"`
	Email        string             `json:"email"`
	Stage        domain.TesterStage `json:"stage"`
	LastActive   *time.Time         `json:"last_active"`
	DaysInactive int                `json:"days_inactive"`
}

// Alerts is the attention-needed panel.
type Alerts struct {
	InactiveTesters  []InactiveTester  `json:"inactive_testers"`
	PendingFeedback  []domain.Feedback `json:"pending_feedback"`
	OpenIncidents    []domain.Incident `json:"open_incidents"`
	InactiveCount    int               `json:"inactive_count"`
	PendingCount     int               `json:"pending_count"`
	OpenIncidentsNum int               `json:"open_incidents_count"`
}

// AlertsOverview collects testers gone quiet, untriaged feedback and
// open incidents.
func (s *DashboardService) AlertsOverview(ctx context.Context) (*Alerts, error) {
	testers, err := s.testers.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	alerts := &Alerts{
		InactiveTesters: []InactiveTester{},
		PendingFeedback: []domain.Feedback{},
		OpenIncidents:   []domain.Incident{},
	}
	for _, t := range testers {
		if !domain.InActiveStage(t.Stage) {
			continue
		}
		if !util.IsInactive(t.LastActive, domain.InactivityThresholdDays) {
			continue
		}
		entry := InactiveTester{
			ID:         t.ID,
			Name:       t.Name,
			Email:      t.Email,
			Stage:      t.Stage,
			LastActive: t.LastActive,
		}
		if t.LastActive != nil {
			entry.DaysInactive = int(time.Since(*t.LastActive).Hours() / 24)
		}
		alerts.InactiveTesters = append(alerts.InactiveTesters, entry)
	}

	pending, err := s.feedback.ListByStatus(ctx, domain.FeedbackStatusNew, baserowAlertLimit)
	if err != nil {
		return nil, err
	}
	alerts.PendingFeedback = pending

	open, err := s.incidents.ListOpen(ctx, baserowAlertLimit)
	if err != nil {
		return nil, err
	}
	alerts.OpenIncidents = open

	alerts.InactiveCount = len(alerts.InactiveTesters)
	alerts.PendingCount = len(alerts.PendingFeedback)
	alerts.OpenIncidentsNum = len(alerts.OpenIncidents)
	return alerts, nil
}
