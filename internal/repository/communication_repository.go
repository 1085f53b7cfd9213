package repository

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/betaops/beta-manager/internal/baserow"
	"github.com/betaops/beta-manager/internal/domain"
)

// CommunicationFilter captures list parameters. Channel and Direction
// are single-select and narrow in memory.
type CommunicationFilter struct {
	TesterID  int
	Channel   domain.CommunicationChannel
	Direction domain.CommunicationDirection
	Page      int
	Size      int
}

// CommunicationRepository encapsulates the append-only contact log.
// Communications are never updated or deleted.
type CommunicationRepository interface {
	List(ctx context.Context, filter CommunicationFilter) ([]domain.Communication, int, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Communication, error)
	ListByTester(ctx context.Context, testerID, limit int) ([]domain.Communication, error)
	GetByID(ctx context.Context, id int) (*domain.Communication, error)
	Create(ctx context.Context, comm *domain.Communication) error
}

type communicationRepository struct {
	client *baserow.Client
}

// NewCommunicationRepository instantiates repository.
func NewCommunicationRepository(client *baserow.Client) CommunicationRepository {
	return &communicationRepository{client: client}
}

type communicationRow struct {
	ID           int                 `json:"id"`
	Tester       baserow.LinkList    `json:"tester"`
	Channel      baserow.SelectValue `json:"channel"`
	Direction    baserow.SelectValue `json:"direction"`
	Subject      string              `json:"subject"`
	Content      string              `json:"content"`
	TemplateName string              `json:"template_name"`
	Status       baserow.SelectValue `json:"status"`
	SentAt       time.Time           `json:"sent_at"`
	OpenedAt     *time.Time          `json:"opened_at"`
	ClickedAt    *time.Time          `json:"clicked_at"`
	CreatedOn    time.Time           `json:"created_on"`
}

func (r communicationRow) toDomain() domain.Communication {
	link := r.Tester.First()
	return domain.Communication{
		ID:           r.ID,
		TesterID:     link.ID,
		TesterName:   link.Value,
		Channel:      domain.CommunicationChannel(r.Channel.Value),
		Direction:    domain.CommunicationDirection(r.Direction.Value),
		Subject:      r.Subject,
		Content:      r.Content,
		TemplateName: r.TemplateName,
		Status:       domain.CommunicationStatus(r.Status.Value),
		SentAt:       r.SentAt,
		OpenedAt:     r.OpenedAt,
		ClickedAt:    r.ClickedAt,
		CreatedAt:    r.CreatedOn,
	}
}

func decodeCommunications(raw []json.RawMessage) ([]domain.Communication, error) {
	items := make([]domain.Communication, 0, len(raw))
	for _, item := range raw {
		var row communicationRow
		if err := json.Unmarshal(item, &row); err != nil {
			return nil, err
		}
		items = append(items, row.toDomain())
	}
	return items, nil
}

func (r *communicationRepository) List(ctx context.Context, filter CommunicationFilter) ([]domain.Communication, int, error) {
	page, size := NormalizePage(filter.Page, filter.Size)

	filters := map[string]string{}
	if filter.TesterID > 0 {
		filters["tester"] = strconv.Itoa(filter.TesterID)
	}

	narrowed := filter.Channel != "" || filter.Direction != ""
	opts := baserow.ListOptions{Page: page, Size: size, OrderBy: "-sent_at", Filters: filters}
	if narrowed {
		opts.Page = 1
		opts.Size = baserow.MaxPageSize
	}

	result, err := r.client.ListRows(ctx, baserow.TableCommunications, opts)
	if err != nil {
		return nil, 0, err
	}
	items, err := decodeCommunications(result.Results)
	if err != nil {
		return nil, 0, err
	}

	if !narrowed {
		return items, result.Count, nil
	}

	filtered := items[:0:0]
	for _, c := range items {
		if filter.Channel != "" && c.Channel != filter.Channel {
			continue
		}
		if filter.Direction != "" && c.Direction != filter.Direction {
			continue
		}
		filtered = append(filtered, c)
	}
	return paginate(filtered, page, size), len(filtered), nil
}

func (r *communicationRepository) ListRecent(ctx context.Context, limit int) ([]domain.Communication, error) {
	result, err := r.client.ListRows(ctx, baserow.TableCommunications, baserow.ListOptions{
		Size:    limit,
		OrderBy: "-sent_at",
	})
	if err != nil {
		return nil, err
	}
	return decodeCommunications(result.Results)
}

func (r *communicationRepository) ListByTester(ctx context.Context, testerID, limit int) ([]domain.Communication, error) {
	result, err := r.client.ListRows(ctx, baserow.TableCommunications, baserow.ListOptions{
		Size:    limit,
		OrderBy: "-sent_at",
		Filters: map[string]string{"tester": strconv.Itoa(testerID)},
	})
	if err != nil {
		return nil, err
	}
	return decodeCommunications(result.Results)
}

func (r *communicationRepository) GetByID(ctx context.Context, id int) (*domain.Communication, error) {
	raw, err := r.client.GetRow(ctx, baserow.TableCommunications, id)
	if err != nil {
		return nil, err
	}
	var row communicationRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	comm := row.toDomain()
	return &comm, nil
}

func (r *communicationRepository) Create(ctx context.Context, comm *domain.Communication) error {
	if comm.SentAt.IsZero() {
		comm.SentAt = time.Now()
	}
	fields := map[string]any{
		"tester":    []int{comm.TesterID},
		"channel":   string(comm.Channel),
		"direction": string(comm.Direction),
		"content":   comm.Content,
		"sent_at":   comm.SentAt.UTC().Format(time.RFC3339),
	}
	if comm.Subject != "" {
		fields["subject"] = comm.Subject
	}
	if comm.TemplateName != "" {
		fields["template_name"] = comm.TemplateName
	}
	if comm.Status != "" {
		fields["status"] = string(comm.Status)
	}

	raw, err := r.client.CreateRow(ctx, baserow.TableCommunications, fields)
	if err != nil {
		return err
	}
	var row communicationRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return err
	}
	*comm = row.toDomain()
	return nil
}
