// Package baserow wraps the hosted row-store HTTP API. All persistent
// state lives there; this service keeps nothing locally.
package baserow

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/betaops/beta-manager/internal/config"
	apperrors "github.com/betaops/beta-manager/pkg/util"
)

// Table identifies one of the five backing tables.
type Table string

const (
	TableTesters        Table = "testers"
	TableFeedback       Table = "feedback"
	TableIncidents      Table = "incidents"
	TableCommunications Table = "communications"
	TableTemplates      Table = "email_templates"
)

const (
	// MaxPageSize is the widest page the store serves on a normal list
	// call. Callers that filter enum fields in memory fetch this many.
	MaxPageSize = 200
	// MaxSweepSize is the page ceiling used by the nightly full-table
	// sweeps. Correctness of the jobs depends on all qualifying rows
	// fitting in one page of this size.
	MaxSweepSize = 1000
)

// ListOptions control pagination, ordering and server-side filtering.
// Filters are exact matches; single-select fields are not filterable
// server-side and must be narrowed by the caller afterwards.
type ListOptions struct {
	Page    int
	Size    int
	OrderBy string
	Filters map[string]string
}

// ListResult is one page of rows plus the unfiltered total.
type ListResult struct {
	Count   int               `json:"count"`
	Results []json.RawMessage `json:"results"`
}

// Client issues typed CRUD calls against the row-store. Construct with
// NewClient and inject it; there is deliberately no package-level instance.
type Client struct {
	http     *resty.Client
	logger   *zap.Logger
	tableIDs map[Table]string
}

// NewClient builds a client from configuration.
func NewClient(cfg config.BaserowConfig, logger *zap.Logger) *Client {
	httpClient := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout()).
		SetHeader("Authorization", "Token "+cfg.APIToken).
		SetHeader("Content-Type", "application/json")

	return &Client{
		http:   httpClient,
		logger: logger,
		tableIDs: map[Table]string{
			TableTesters:        cfg.TestersTableID,
			TableFeedback:       cfg.FeedbackTableID,
			TableIncidents:      cfg.IncidentsTableID,
			TableCommunications: cfg.CommunicationsTableID,
			TableTemplates:      cfg.TemplatesTableID,
		},
	}
}

func (c *Client) tableID(table Table) (string, error) {
	id := c.tableIDs[table]
	if id == "" {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown table: %s", table), nil)
	}
	return id, nil
}

// ListRows fetches one page of rows.
func (c *Client) ListRows(ctx context.Context, table Table, opts ListOptions) (*ListResult, error) {
	tableID, err := c.tableID(table)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Size > 0 {
		params.Set("size", strconv.Itoa(opts.Size))
	}
	if opts.OrderBy != "" {
		params.Set("order_by", opts.OrderBy)
	}
	for field, value := range opts.Filters {
		if value == "" {
			continue
		}
		params.Set(fmt.Sprintf("filter__%s__equal", field), value)
	}
	params.Set("user_field_names", "true")

	var result ListResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParamsFromValues(params).
		SetResult(&result).
		Get(fmt.Sprintf("/database/rows/table/%s/", tableID))
	if err := c.checkResponse(resp, err, table, "list"); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRow fetches a single row by id.
func (c *Client) GetRow(ctx context.Context, table Table, id int) (json.RawMessage, error) {
	tableID, err := c.tableID(table)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_field_names", "true").
		Get(fmt.Sprintf("/database/rows/table/%s/%d/", tableID, id))
	if err := c.checkResponse(resp, err, table, "get"); err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

// CreateRow inserts a row and returns it as stored.
func (c *Client) CreateRow(ctx context.Context, table Table, fields map[string]any) (json.RawMessage, error) {
	tableID, err := c.tableID(table)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_field_names", "true").
		SetBody(fields).
		Post(fmt.Sprintf("/database/rows/table/%s/", tableID))
	if err := c.checkResponse(resp, err, table, "create"); err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

// UpdateRow applies a partial field update and returns the updated row.
func (c *Client) UpdateRow(ctx context.Context, table Table, id int, fields map[string]any) (json.RawMessage, error) {
	tableID, err := c.tableID(table)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_field_names", "true").
		SetBody(fields).
		Patch(fmt.Sprintf("/database/rows/table/%s/%d/", tableID, id))
	if err := c.checkResponse(resp, err, table, "update"); err != nil {
		return nil, err
	}
	return json.RawMessage(resp.Body()), nil
}

// DeleteRow removes a row by id.
func (c *Client) DeleteRow(ctx context.Context, table Table, id int) error {
	tableID, err := c.tableID(table)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		Delete(fmt.Sprintf("/database/rows/table/%s/%d/", tableID, id))
	return c.checkResponse(resp, err, table, "delete")
}

// CreateRows inserts multiple rows in one call.
func (c *Client) CreateRows(ctx context.Context, table Table, items []map[string]any) ([]json.RawMessage, error) {
	tableID, err := c.tableID(table)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []json.RawMessage `json:"items"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_field_names", "true").
		SetBody(map[string]any{"items": items}).
		SetResult(&result).
		Post(fmt.Sprintf("/database/rows/table/%s/batch/", tableID))
	if err := c.checkResponse(resp, err, table, "batch create"); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// UpdateRows applies partial updates to multiple rows in one call. Each
// item must carry an "id" key.
func (c *Client) UpdateRows(ctx context.Context, table Table, items []map[string]any) ([]json.RawMessage, error) {
	tableID, err := c.tableID(table)
	if err != nil {
		return nil, err
	}

	var result struct {
		Items []json.RawMessage `json:"items"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("user_field_names", "true").
		SetBody(map[string]any{"items": items}).
		SetResult(&result).
		Patch(fmt.Sprintf("/database/rows/table/%s/batch/", tableID))
	if err := c.checkResponse(resp, err, table, "batch update"); err != nil {
		return nil, err
	}
	return result.Items, nil
}

// DeleteRows removes multiple rows in one call.
func (c *Client) DeleteRows(ctx context.Context, table Table, ids []int) error {
	tableID, err := c.tableID(table)
	if err != nil {
		return err
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"items": ids}).
		Post(fmt.Sprintf("/database/rows/table/%s/batch-delete/", tableID))
	return c.checkResponse(resp, err, table, "batch delete")
}

// Ping verifies row-store reachability by listing a single row from the
// testers table.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.ListRows(ctx, TableTesters, ListOptions{Size: 1})
	return err
}

// checkResponse normalizes transport and HTTP failures into the error
// taxonomy: 404 NotFound, 400 InvalidRequest, 401/403 AuthFailure,
// everything else UpstreamError.
func (c *Client) checkResponse(resp *resty.Response, err error, table Table, operation string) error {
	if err != nil {
		c.logger.Error("row-store request failed",
			zap.String("table", string(table)),
			zap.String("operation", operation),
			zap.Error(err))
		return apperrors.NewUpstreamError(fmt.Sprintf("row-store %s failed", operation), err)
	}
	if resp.IsError() {
		detail := storeErrorDetail(resp.Body())
		c.logger.Warn("row-store error response",
			zap.String("table", string(table)),
			zap.String("operation", operation),
			zap.Int("status", resp.StatusCode()),
			zap.String("detail", detail))
		switch resp.StatusCode() {
		case 404:
			return apperrors.NewNotFound("row", map[string]any{"table": string(table)})
		case 400:
			return apperrors.NewValidationError(fmt.Sprintf("invalid request: %s", detail), nil)
		case 401, 403:
			return apperrors.NewDomainError("UNAUTHORIZED", "row-store authentication failed", resp.StatusCode(), nil)
		default:
			return apperrors.NewUpstreamError(fmt.Sprintf("row-store %s failed: %s", operation, detail), nil)
		}
	}
	c.logger.Debug("row-store request",
		zap.String("table", string(table)),
		zap.String("operation", operation),
		zap.Int("status", resp.StatusCode()))
	return nil
}

func storeErrorDetail(body []byte) string {
	var payload struct {
		Error  string `json:"error"`
		Detail any    `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(body)
	}
	if payload.Error != "" {
		return payload.Error
	}
	if payload.Detail != nil {
		return fmt.Sprint(payload.Detail)
	}
	return string(body)
}
