package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/betaops/beta-manager/internal/baserow"
	"github.com/betaops/beta-manager/internal/domain"
)

// FeedbackFilter captures list parameters. TesterID narrows server-side
// (link fields are filterable); Type, Status and Severity are
// single-select and narrow in memory.
type FeedbackFilter struct {
	TesterID int
	Type     domain.FeedbackType
	Status   domain.FeedbackStatus
	Severity domain.FeedbackSeverity
	Page     int
	Size     int
}

// FeedbackPatch describes a partial update; nil fields are left untouched.
type FeedbackPatch struct {
	Type       *domain.FeedbackType
	Severity   *domain.FeedbackSeverity
	Title      *string
	Content    *string
	Status     *domain.FeedbackStatus
	AdminNotes *string
}

// FeedbackRepository encapsulates feedback persistence in the row-store.
type FeedbackRepository interface {
	List(ctx context.Context, filter FeedbackFilter) ([]domain.Feedback, int, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Feedback, error)
	ListByStatus(ctx context.Context, status domain.FeedbackStatus, limit int) ([]domain.Feedback, error)
	GetByID(ctx context.Context, id int) (*domain.Feedback, error)
	CountByTester(ctx context.Context, testerID int) (int, error)
	Create(ctx context.Context, feedback *domain.Feedback) error
	Update(ctx context.Context, id int, patch FeedbackPatch) (*domain.Feedback, error)
	Delete(ctx context.Context, id int) error
}

type feedbackRepository struct {
	client *baserow.Client
}

// NewFeedbackRepository instantiates repository.
func NewFeedbackRepository(client *baserow.Client) FeedbackRepository {
	return &feedbackRepository{client: client}
}

type feedbackRow struct {
	ID            int                 `json:"id"`
	Tester        baserow.LinkList    `json:"tester"`
	Type          baserow.SelectValue `json:"type"`
	Severity      baserow.SelectValue `json:"severity"`
	Title         string              `json:"title"`
	Content       string              `json:"content"`
	Status        baserow.SelectValue `json:"status"`
	DeviceInfo    string              `json:"device_info"`
	AppVersion    string              `json:"app_version"`
	ScreenshotURL string              `json:"screenshot_url"`
	AdminNotes    string              `json:"admin_notes"`
	CreatedOn     time.Time           `json:"created_on"`
	UpdatedOn     time.Time           `json:"updated_on"`
}

func (r feedbackRow) toDomain() domain.Feedback {
	link := r.Tester.First()
	return domain.Feedback{
		ID:            r.ID,
		TesterID:      link.ID,
		TesterName:    link.Value,
		Type:          domain.FeedbackType(r.Type.Value),
		Severity:      domain.FeedbackSeverity(r.Severity.Value),
		Title:         r.Title,
		Content:       r.Content,
		Status:        domain.FeedbackStatus(r.Status.Value),
		DeviceInfo:    r.DeviceInfo,
		AppVersion:    r.AppVersion,
		ScreenshotURL: r.ScreenshotURL,
		AdminNotes:    r.AdminNotes,
		CreatedAt:     r.CreatedOn,
		UpdatedAt:     r.UpdatedOn,
	}
}

func decodeFeedback(raw []json.RawMessage) ([]domain.Feedback, error) {
	items := make([]domain.Feedback, 0, len(raw))
	for _, item := range raw {
		var row feedbackRow
		if err := json.Unmarshal(item, &row); err != nil {
			return nil, err
		}
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *feedbackRepository) List(ctx context.Context, filter FeedbackFilter) ([]domain.Feedback, int, error) {
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

	result, err := r.client.ListRows(ctx, baserow.TableFeedback, opts)
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeFeedback(result.Results)
	if err != nil {
		return nil, 0, err
	}

	if !narrowed {
		return items, result.Count, nil
	}

	filtered := items[:0:0]
	for _, f := range items {
		if filter.Type != "" && f.Type != filter.Type {
			continue
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		if filter.Severity != "" && f.Severity != filter.Severity {
			continue
		}
		filtered = append(filtered, f)
	}
	return paginate(filtered, page, size), len(filtered), nil
}

func (r *feedbackRepository) ListRecent(ctx context.Context, limit int) ([]domain.Feedback, error) {
	result, err := r.client.ListRows(ctx, baserow.TableFeedback, baserow.ListOptions{
		Size:    limit,
		OrderBy: "-created_on",
	})
	if err != nil {
		return nil, err
	}
	return decodeFeedback(result.Results)
}

func (r *feedbackRepository) ListByStatus(ctx context.Context, status domain.FeedbackStatus, limit int) ([]domain.Feedback, error) {
	result, err := r.client.ListRows(ctx, baserow.TableFeedback, baserow.ListOptions{
		Size:    baserow.MaxPageSize,
		OrderBy: "-created_on",
	})
	if err != nil {
		return nil, err
	}
	items, err := decodeFeedback(result.Results)
	if err != nil {
		return nil, err
	}
	filtered := items[:0:0]
	for _, f := range items {
		if f.Status == status {
			filtered = append(filtered, f)
		}
		if limit > 0 && len(filtered) >= limit {
			break
		}
	}
	return filtered, nil
}

func (r *feedbackRepository) GetByID(ctx context.Context, id int) (*domain.Feedback, error) {
	raw, err := r.client.GetRow(ctx, baserow.TableFeedback, id)
	if err != nil {
		return nil, err
	}
	var row feedbackRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	feedback := row.toDomain()
	return &feedback, nil
}

func (r *feedbackRepository) CountByTester(ctx context.Context, testerID int) (int, error) {
	result, err := r.client.ListRows(ctx, baserow.TableFeedback, baserow.ListOptions{
		Size:    1,
		Filters: map[string]string{"tester": strconv.Itoa(testerID)},
	})
	if err != nil {
		return 0, err
	}
	return result.Count, nil
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *domain.Feedback) error {
	fields := map[string]any{
		"tester":  []int{feedback.TesterID},
		"type":    string(feedback.Type),
		"title":   feedback.Title,
		"content": feedback.Content,
		"status":  string(feedback.Status),
	}
	if feedback.Severity != "" {
		fields["severity"] = string(feedback.Severity)
	}
	if feedback.DeviceInfo != "" {
		fields["device_info"] = feedback.DeviceInfo
	}
	if feedback.AppVersion != "" {
		fields["app_version"] = feedback.AppVersion
	}
	if feedback.ScreenshotURL != "" {
		fields["screenshot_url"] = feedback.ScreenshotURL
	}

	raw, err := r.client.CreateRow(ctx, baserow.TableFeedback, fields)
	if err != nil {
		return err
	}
	var row feedbackRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return err
	}
	*feedback = row.toDomain()
	return nil
}

func (r *feedbackRepository) Update(ctx context.Context, id int, patch FeedbackPatch) (*domain.Feedback, error) {
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
	if patch.Content != nil {
		fields["content"] = *patch.Content
	}
	if patch.Status != nil {
		fields["status"] = string(*patch.Status)
	}
	if patch.AdminNotes != nil {
		fields["admin_notes"] = *patch.AdminNotes
	}

	raw, err := r.client.UpdateRow(ctx, baserow.TableFeedback, id, fields)
	if err != nil {
		return nil, err
	}
	var row feedbackRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	feedback := row.toDomain()
	return &feedback, nil
}

func (r *feedbackRepository) Delete(ctx context.Context, id int) error {
	return r.client.DeleteRow(ctx, baserow.TableFeedback, id)
}
