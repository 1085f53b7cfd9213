package dto

import (
	"time"

	"github.com/betaops/beta-manager/internal/domain"
)

// CreateFeedbackRequest payload for the authenticated endpoint.
type CreateFeedbackRequest struct {
	TesterID      int    `json:"tester_id" validate:"required,gt=0"`
	Type          string `json:"type" validate:"required"`
	Severity      string `json:"severity"`
	Title         string `json:"title" validate:"required"`
	Content       string `json:"content" validate:"required"`
	DeviceInfo    string `json:"device_info"`
	AppVersion    string `json:"app_version"`
	ScreenshotURL string `json:"screenshot_url"`
}

// PublicFeedbackRequest payload for the unauthenticated submission form.
type PublicFeedbackRequest struct {
	TesterID      int    `json:"tester_id" validate:"required,gt=0"`
	Type          string `json:"type" validate:"required"`
	Severity      string `json:"severity"`
	Title         string `json:"title" validate:"required"`
	Content       string `json:"content" validate:"required"`
	DeviceInfo    string `json:"device_info"`
	AppVersion    string `json:"app_version"`
	ScreenshotURL string `json:"screenshot_url"`
}

// UpdateFeedbackRequest payload.
type UpdateFeedbackRequest struct {
	Type       *string `json:"type"`
	Severity   *string `json:"severity"`
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Status     *string `json:"status"`
	AdminNotes *string `json:"admin_notes"`
}

// FeedbackResponse representation.
type FeedbackResponse struct {
	ID            int                     `json:"id"`
	TesterID      int                     `json:"tester_id"`
	TesterName    string                  `json:"tester_name,omitempty"`
	Type          domain.FeedbackType     `json:"type"`
	Severity      domain.FeedbackSeverity `json:"severity,omitempty"`
	Title         string                  `json:"title"`
	Content       string                  `json:"content"`
	Status        domain.FeedbackStatus   `json:"status"`
	DeviceInfo    string                  `json:"device_info,omitempty"`
	AppVersion    string                  `json:"app_version,omitempty"`
	ScreenshotURL string                  `json:"screenshot_url,omitempty"`
	AdminNotes    string                  `json:"admin_notes,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// ToFeedbackResponse maps a domain feedback record.
func ToFeedbackResponse(f domain.Feedback) FeedbackResponse {
	return FeedbackResponse{
		ID:            f.ID,
		TesterID:      f.TesterID,
		TesterName:    f.TesterName,
		Type:          f.Type,
		Severity:      f.Severity,
		Title:         f.Title,
		Content:       f.Content,
		Status:        f.Status,
		DeviceInfo:    f.DeviceInfo,
		AppVersion:    f.AppVersion,
		ScreenshotURL: f.ScreenshotURL,
		AdminNotes:    f.AdminNotes,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
}

// ToFeedbackListResponse maps a page of feedback records.
func ToFeedbackListResponse(items []domain.Feedback) []FeedbackResponse {
	out := make([]FeedbackResponse, 0, len(items))
	for _, f := range items {
		out = append(out, ToFeedbackResponse(f))
	}
	return out
}
