package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/betaops/beta-manager/internal/baserow"
	"github.com/betaops/beta-manager/internal/domain"
	apperrors "github.com/betaops/beta-manager/pkg/util"
)

// TemplatePatch describes a partial update; nil fields are left untouched.
type TemplatePatch struct {
	Name      *string
	Subject   *string
	Body      *string
	Variables []string
	IsActive  *bool
}

// TemplateRepository encapsulates email template persistence.
type TemplateRepository interface {
	List(ctx context.Context) ([]domain.EmailTemplate, int, error)
	GetByID(ctx context.Context, id int) (*domain.EmailTemplate, error)
	GetByName(ctx context.Context, name string) (*domain.EmailTemplate, error)
	Create(ctx context.Context, template *domain.EmailTemplate) error
	Update(ctx context.Context, id int, patch TemplatePatch) (*domain.EmailTemplate, error)
	Delete(ctx context.Context, id int) error
}

type templateRepository struct {
	client *baserow.Client
}

// NewTemplateRepository instantiates repository.
func NewTemplateRepository(client *baserow.Client) TemplateRepository {
	return &templateRepository{client: client}
}

// The variables column is stored as a JSON-encoded string array.
type templateRow struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	Variables string    `json:"variables"`
	IsActive  bool      `json:"is_active"`
	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

func (r templateRow) toDomain() domain.EmailTemplate {
	var variables []string
	if r.Variables != "" {
		// Ignore malformed variable lists rather than failing the row.
		_ = json.Unmarshal([]byte(r.Variables), &variables)
	}
	return domain.EmailTemplate{
		ID:        r.ID,
		Name:      r.Name,
		Subject:   r.Subject,
		Body:      r.Body,
		Variables: variables,
		IsActive:  r.IsActive,
		CreatedAt: r.CreatedOn,
		UpdatedAt: r.UpdatedOn,
	}
}

func (r *templateRepository) List(ctx context.Context) ([]domain.EmailTemplate, int, error) {
	result, err := r.client.ListRows(ctx, baserow.TableTemplates, baserow.ListOptions{
		Size: baserow.MaxPageSize,
	})
	if err != nil {
		return nil, 0, err
	}
	templates := make([]domain.EmailTemplate, 0, len(result.Results))
	for _, item := range result.Results {
		var row templateRow
		if err := json.Unmarshal(item, &row); err != nil {
			return nil, 0, err
		}
		templates = append(templates, row.toDomain())
	}
	return templates, result.Count, nil
}

func (r *templateRepository) GetByID(ctx context.Context, id int) (*domain.EmailTemplate, error) {
	raw, err := r.client.GetRow(ctx, baserow.TableTemplates, id)
	if err != nil {
		return nil, err
	}
	var row templateRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	template := row.toDomain()
	return &template, nil
}

func (r *templateRepository) GetByName(ctx context.Context, name string) (*domain.EmailTemplate, error) {
	result, err := r.client.ListRows(ctx, baserow.TableTemplates, baserow.ListOptions{
		Size:    1,
		Filters: map[string]string{"name": name},
	})
	if err != nil {
		return nil, err
	}
	if len(result.Results) == 0 {
		return nil, apperrors.NewNotFound("template", map[string]any{"name": name})
	}
	var row templateRow
	if err := json.Unmarshal(result.Results[0], &row); err != nil {
		return nil, err
	}
	template := row.toDomain()
	return &template, nil
}

func (r *templateRepository) Create(ctx context.Context, template *domain.EmailTemplate) error {
	variables, err := json.Marshal(template.Variables)
	if err != nil {
		return err
	}
	fields := map[string]any{
		"name":      template.Name,
		"subject":   template.Subject,
		"body":      template.Body,
		"variables": string(variables),
		"is_active": template.IsActive,
	}

	raw, err := r.client.CreateRow(ctx, baserow.TableTemplates, fields)
	if err != nil {
		return err
	}
	var row templateRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return err
	}
	*template = row.toDomain()
	return nil
}

func (r *templateRepository) Update(ctx context.Context, id int, patch TemplatePatch) (*domain.EmailTemplate, error) {
	fields := map[string]any{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.Subject != nil {
		fields["subject"] = *patch.Subject
	}
	if patch.Body != nil {
		fields["body"] = *patch.Body
	}
	if patch.Variables != nil {
		variables, err := json.Marshal(patch.Variables)
		if err != nil {
			return nil, err
		}
		fields["variables"] = string(variables)
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	raw, err := r.client.UpdateRow(ctx, baserow.TableTemplates, id, fields)
	if err != nil {
		return nil, err
	}
	var row templateRow
	if err := json.Unmarshal(raw, &row); err != nil {
		return nil, err
	}
	template := row.toDomain()
	return &template, nil
}

func (r *templateRepository) Delete(ctx context.Context, id int) error {
	return r.client.DeleteRow(ctx, baserow.TableTemplates, id)
}
