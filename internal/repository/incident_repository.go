package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/betaops/beta-manager/internal/baserow"
	"github.com/betaops/beta-manager/internal/domain"
)

// IncidentFilter captures list parameters. Type, Status and Severity are
// single-select and narrow in memory.
type IncidentFilter struct {
	TesterID int
	Type     domain.IncidentType
	Status   domain.IncidentStatus
	Severity domain.IncidentSeverity
	Page     int
	Size     int
}

// IncidentPatch describes a partial update; nil fields are left untouched.
type IncidentPatch struct {
	Type            *domain.IncidentType
	Severity        *domain.IncidentSeverity
	Title           *string
	Description     *string
	Status          *domain.IncidentStatus
	ResolvedAt      *time.Time
	ResolutionNotes *string
}

// IncidentRepository encapsulates incident persistence in the row-store.
type IncidentRepository interface {
	List(ctx context.Context, filter IncidentFilter) ([]domain.Incident, int, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Incident, error)
	ListOpen(ctx context.Context, limit int) ([]domain.Incident, error)
	CountOpen(ctx context.Context) (int, error)
	CountByTester(ctx context.Context, testerID int) (int, error)
	ListByTester(ctx context.Context, testerID, limit int) ([]domain.Incident, error)
	HasOpenDropout(ctx context.Context, testerID int) (bool, error)
	GetByID(ctx context.Context, id int) (*domain.Incident, error)
	Create(ctx context.Context, incident *domain.Incident) error
	Update(ctx context.Context, id int, patch IncidentPatch) (*domain.Incident, error)
	Delete(ctx context.Context, id int) error
}

type incidentRepository struct {
	client *baserow.Client
}

// NewIncidentRepository instantiates repository.
func NewIncidentRepository(client *baserow.Client) IncidentRepository {
	return &incidentRepository{client: client}
}

type incidentRow struct {
	ID              int                 `json:"id"`
	Tester          baserow.LinkList    `json:"tester"`
	Type            baserow.SelectValue `json:"type"`
	Severity        baserow.SelectValue `json:"severity"`
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	Status          baserow.SelectValue `json:"status"`
	Source          baserow.SelectValue `json:"source"`
	CrashID         string              `json:"crash_id"`
	ResolvedAt      *time.Time          `json:"resolved_at"`
	ResolutionNotes string              `json:"resolution_notes"`
	CreatedOn       time.Time           `json:"created_on"`
	UpdatedOn       time.Time           `json:"updated_on"`
}

func (r incidentRow) toDomain() domain.Incident {
	link := r.Tester.First()
	return domain.Incident{
		ID:              r.ID,
		TesterID:        link.ID,
		TesterName:      link.Value,
		Type:            domain.IncidentType(r.Type.Value),
		Severity:        domain.IncidentSeverity(r.Severity.Value),
		Title:           r.Title,
		Description:     r.Description,
		Status:          domain.IncidentStatus(r.Status.Value),
		Source:          domain.IncidentSource(r.Source.Value),
		CrashID:         r.CrashID,
		ResolvedAt:      r.ResolvedAt,
		ResolutionNotes: r.ResolutionNotes,
		CreatedAt:       r.CreatedOn,
		UpdatedAt:       r.UpdatedOn,
	}
}

func decodeIncidents(raw []json.RawMessage) ([]domain.Incident, error) {
	items := make([]domain.Incident, 0, len(raw))
	for _, item := range raw {
		var row incidentRow
		if err := json.Unmarshal(item, &row); err != nil {
			return nil, err
		}
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *incidentRepository) List(ctx context.Context, filter IncidentFilter) ([]domain.Incident, int, error) {
	page, size := NormalizePage(filter.Page, filter.Size)

	filters := map[string]string{}
	if filter.TesterID > 0 {
		filters["tester"] = strconv.Itoa(filter.TesterID)
	}

	narrowed := filter.Type != "" || filter.Status != "" || filter.Severity != ""
	opts := baserow.ListOptions{Page: page, Size: size, OrderBy: "-created_on", Filters: filters}
	if narrowed {
		opts.Page = 1
		opts.Size = baserow.MaxPageSize
	}

	result, err := r.client.ListRows(ctx, baserow.TableIncidents, opts)
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeIncidents(result.Results)
	if err != nil {
		return nil, 0, err
	}

	if !narrowed {
		return items, result.Count, nil
	}

	filtered := items[:0:0]
	for _, i := range items {
		if filter.Type != "" && i.Type != filter.Type {
			continue
		}
		if filter.Status != "" && i.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && i.Severity != filter.Severity {
			continue
		}
		filtered = append(filtered, i)
	}
	return paginate(filtered, page, size), len(filtered), nil
}

func (r *incidentRepository) ListRecent(ctx context.Context, limit int) ([]domain.Incident, error) {
	result, err := r.client.ListRows(ctx, baserow.TableIncidents, baserow.ListOptions{
		Size:    limit,
		OrderBy: "-created_on",
	})
	if err != nil {
		return nil, err
	}
	return decodeIncidents(result.Results)
}

func (r *incidentRepository) ListOpen(ctx context.Context, limit int) ([]domain.Incident, error) {
	items, _, err := r.List(ctx, IncidentFilter{
		Status: domain.IncidentStatusOpen,
		Page:   1,
		Size:   limit,
	})
	return items, err
}

func (r *incidentRepository) CountOpen(ctx context.Context) (int, error) {
	_, count, err := r.List(ctx, IncidentFilter{Status: domain.IncidentStatusOpen, Page: 1, Size: 1})
	return count, err
}

func (r *incidentRepository) CountByTester(ctx context.Context, testerID int) (int, error) {
	result, err := r.client.ListRows(ctx, baserow.TableIncidents, baserow.ListOptions{
		Size:    1,
		Filters: map[string]string{"tester": strconv.Itoa(testerID)},
	})
	if err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (r *incidentRepository) ListByTester(ctx context.Context, testerID, limit int) ([]domain.Incident, error) {
	result, err := r.client.ListRows(ctx, baserow.TableIncidents, baserow.ListOptions{
		Size:    limit,
		OrderBy: "-created_on",
		Filters: map[string]string{"tester": strconv.Itoa(testerID)},
	})
	if err != nil {
		return nil, err
	}
	return decodeIncidents(result.Results)
}

// HasOpenDropout reports whether an open dropout incident already exists
// for the tester. The check is read-then-write; concurrent job runs can
// race and double-create (accepted risk, the store has no unique key).
func (r *incidentRepository) HasOpenDropout(ctx context.Context, testerID int) (bool, error) {
	result, err := r.client.ListRows(ctx, baserow.TableIncidents, baserow.ListOptions{
		Size:    baserow.MaxPageSize,
		Filters: map[string]string{"tester": strconv.Itoa(testerID)},
	})
	if err != nil {
		return false, err
	}
	items, err := decodeIncidents(result.Results)
	if err != nil {
		return false, err
	}
	for _, incident := range items {
		if incident.Type == domain.IncidentDropout && incident.Status == domain.IncidentStatusOpen {
			return true, nil
		}
	}
	return false, nil
}

func (r *incidentRepository) GetByID(ctx context.Context, id int) (*domain.Incident, error) {
	raw, err := r.client.GetRow(ctx, baserow.TableIncidents, id)
	if err != nil {
		return nil, err
	}
	var row incidentRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	incident := row.toDomain()
	return &incident, nil
}

func (r *incidentRepository) Create(ctx context.Context, incident *domain.Incident) error {
	fields := map[string]any{
		"type":        string(incident.Type),
		"severity":    string(incident.Severity),
		"title":       incident.Title,
		"description": incident.Description,
		"status":      string(incident.Status),
		"source":      string(incident.Source),
	}
	if incident.TesterID > 0 {
		fields["tester"] = []int{incident.TesterID}
	}
	if incident.CrashID != "" {
		fields["crash_id"] = incident.CrashID
	}

	raw, err := r.client.CreateRow(ctx, baserow.TableIncidents, fields)
	if err != nil {
		return err
	}
	var row incidentRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return err
	}
	*incident = row.toDomain()
	return nil
}

func (r *incidentRepository) Update(ctx context.Context, id int, patch IncidentPatch) (*domain.Incident, error) {
	fields := map[string]any{}
	if patch.Type != nil {
		fields["type"] = string(*patch.Type)
	}
	if patch.Severity != nil {
		fields["severity"] = string(*patch.Severity)
	}
	if patch.Title != nil {
		fields["title"] = *patch.Title
	}
	if patch.Description != nil {
		fields["description"] = *patch.Description
	}
	if patch.Status != nil {
		fields["status"] = string(*patch.Status)
	}
	if patch.ResolvedAt != nil {
		fields["resolved_at"] = patch.ResolvedAt.UTC().Format(time.RFC3339)
	}
	if patch.ResolutionNotes != nil {
		fields["resolution_notes"] = *patch.ResolutionNotes
	}

	raw, err := r.client.UpdateRow(ctx, baserow.TableIncidents, id, fields)
	if err != nil {
		return nil, err
	}
	var row incidentRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	incident := row.toDomain()
	return &incident, nil
}

func (r *incidentRepository) Delete(ctx context.Context, id int) error {
	return r.client.DeleteRow(ctx, baserow.TableIncidents, id)
}
