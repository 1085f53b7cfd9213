package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/betaops/beta-manager/internal/baserow"
	"github.com/betaops/beta-manager/internal/domain"
)

// TesterFilter captures list parameters. Stage, Source and Search are
// applied in memory after a widened fetch; the store cannot filter
// single-select fields or substrings server-side.
type TesterFilter struct {
	Stage   domain.TesterStage
	Source  domain.TesterSource
	Search  string
	OrderBy string
	Page    int
	Size    int
}

// TesterPatch describes a partial update; nil fields are left untouched.
type TesterPatch struct {
	Name        *string
	Email       *string
	Phone       *string
	Source      *domain.TesterSource
	Stage       *domain.TesterStage
	Notes       *string
	InvitedAt   *time.Time
	StartedAt   *time.Time
	LastActive  *time.Time
	CompletedAt *time.Time
}

// TesterRepository encapsulates tester persistence in the row-store.
type TesterRepository interface {
	List(ctx context.Context, filter TesterFilter) ([]domain.Tester, int, error)
	ListAll(ctx context.Context) ([]domain.Tester, error)
	GetByID(ctx context.Context, id int) (*domain.Tester, error)
	Create(ctx context.Context, tester *domain.Tester) error
	Update(ctx context.Context, id int, patch TesterPatch) (*domain.Tester, error)
	Delete(ctx context.Context, id int) error
}

type testerRepository struct {
	client *baserow.Client
}

// NewTesterRepository instantiates repository.
func NewTesterRepository(client *baserow.Client) TesterRepository {
	return &testerRepository{client: client}
}

type testerRow struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Email       string              `json:"email"`
	Phone       string              `json:"phone"`
	Source      baserow.SelectValue `json:"source"`
	Stage       baserow.SelectValue `json:"stage"`
	InvitedAt   *time.Time          `json:"invited_at"`
	StartedAt   *time.Time          `json:"started_at"`
	LastActive  *time.Time          `json:"last_active"`
	CompletedAt *time.Time          `json:"completed_at"`
	Notes       string              `json:"notes"`
	CreatedOn   time.Time           `json:"created_on"`
	UpdatedOn   time.Time           `json:"updated_on"`
}

func (r testerRow) toDomain() domain.Tester {
	return domain.Tester{
		ID:          r.ID,
		Name:        r.Name,
		Email:       r.Email,
		Phone:       r.Phone,
		Source:      domain.TesterSource(r.Source.Value),
		Stage:       domain.TesterStage(r.Stage.Value),
		InvitedAt:   r.InvitedAt,
		StartedAt:   r.StartedAt,
		LastActive:  r.LastActive,
		CompletedAt: r.CompletedAt,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedOn,
		UpdatedAt:   r.UpdatedOn,
	}
}

func decodeTesters(raw []json.RawMessage) ([]domain.Tester, error) {
	testers := make([]domain.Tester, 0, len(raw))
	for _, item := range raw {
		var row testerRow
		if err := json.Unmarshal(item, &row); err != nil {
			return nil, err
		}
		testers = append(testers, row.toDomain())
	}
	return testers, nil
}

func (r *testerRepository) List(ctx context.Context, filter TesterFilter) ([]domain.Tester, int, error) {
	page, size := NormalizePage(filter.Page, filter.Size)
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "-created_on"
	}

	narrowed := filter.Stage != "" || filter.Source != "" || filter.Search != ""
	opts := baserow.ListOptions{Page: page, Size: size, OrderBy: orderBy}
	if narrowed {
		opts.Page = 1
		opts.Size = baserow.MaxPageSize
	}

	result, err := r.client.ListRows(ctx, baserow.TableTesters, opts)
	if err != nil {
		return nil, 0, err
	}
	testers, err := decodeTesters(result.Results)
	if err != nil {
		return nil, 0, err
	}

	if !narrowed {
		return testers, result.Count, nil
	}

	filtered := testers[:0:0]
	search := strings.ToLower(filter.Search)
	for _, t := range testers {
		if filter.Stage != "" && t.Stage != filter.Stage {
			continue
		}
		if filter.Source != "" && t.Source != filter.Source {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Name), search) &&
			!strings.Contains(strings.ToLower(t.Email), search) {
			continue
		}
		filtered = append(filtered, t)
	}
	return paginate(filtered, page, size), len(filtered), nil
}

// ListAll fetches every tester in one sweep-sized page. Used by the
// nightly jobs and the dashboard aggregates.
func (r *testerRepository) ListAll(ctx context.Context) ([]domain.Tester, error) {
	result, err := r.client.ListRows(ctx, baserow.TableTesters, baserow.ListOptions{
		Size: baserow.MaxSweepSize,
	})
	if err != nil {
		return nil, err
	}
	return decodeTesters(result.Results)
}

func (r *testerRepository) GetByID(ctx context.Context, id int) (*domain.Tester, error) {
	raw, err := r.client.GetRow(ctx, baserow.TableTesters, id)
	if err != nil {
		return nil, err
	}
	var row testerRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	tester := row.toDomain()
	return &tester, nil
}

func (r *testerRepository) Create(ctx context.Context, tester *domain.Tester) error {
	fields := map[string]any{
		"name":   tester.Name,
		"email":  tester.Email,
		"source": string(tester.Source),
		"stage":  string(tester.Stage),
	}
	if tester.Phone != "" {
		fields["phone"] = tester.Phone
	}
	if tester.Notes != "" {
		fields["notes"] = tester.Notes
	}

	raw, err := r.client.CreateRow(ctx, baserow.TableTesters, fields)
	if err != nil {
		return err
	}
	var row testerRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return err
	}
	*tester = row.toDomain()
	return nil
}

func (r *testerRepository) Update(ctx context.Context, id int, patch TesterPatch) (*domain.Tester, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Email != nil {
		fields["email"] = *patch.Email
	}
	if patch.Phone != nil {
		fields["phone"] = *patch.Phone
	}
	if patch.Source != nil {
		fields["source"] = string(*patch.Source)
	}
	if patch.Stage != nil {
		fields["stage"] = string(*patch.Stage)
	}
	if patch.Notes != nil {
		fields["notes"] = *patch.Notes
	}
	if patch.InvitedAt != nil {
		fields["invited_at"] = patch.InvitedAt.UTC().Format(time.RFC3339)
	}
	if patch.StartedAt != nil {
		fields["started_at"] = patch.StartedAt.UTC().Format(time.RFC3339)
	}
	if patch.LastActive != nil {
		fields["last_active"] = patch.LastActive.UTC().Format(time.RFC3339)
	}
	if patch.CompletedAt != nil {
		fields["completed_at"] = patch.CompletedAt.UTC().Format(time.RFC3339)
	}

	raw, err := r.client.UpdateRow(ctx, baserow.TableTesters, id, fields)
	if err != nil {
		return nil, err
	}
	var row testerRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	tester := row.toDomain()
	return &tester, nil
}

func (r *testerRepository) Delete(ctx context.Context, id int) error {
	return r.client.DeleteRow(ctx, baserow.TableTesters, id)
}
