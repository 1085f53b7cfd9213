package domain

import "time"

// FeedbackType enumerates feedback categories.
type FeedbackType string

const (
	FeedbackBug            FeedbackType = "bug"
	FeedbackFeatureRequest FeedbackType = "feature_request"
	FeedbackUXIssue        FeedbackType = "ux_issue"
	FeedbackGeneral        FeedbackType = "general"
)

// FeedbackSeverity enumerates impact levels.
type FeedbackSeverity string

const (
	SeverityCritical FeedbackSeverity = "critical"
	SeverityMajor    FeedbackSeverity = "major"
	SeverityMinor    FeedbackSeverity = "minor"
)

// FeedbackStatus enumerates triage states. The workflow is advisory
// (new, in_review, addressed, closed); transitions are not enforced.
type FeedbackStatus string

const (
	FeedbackStatusNew       FeedbackStatus = "new"
	FeedbackStatusInReview  FeedbackStatus = "in_review"
	FeedbackStatusAddressed FeedbackStatus = "addressed"
	FeedbackStatusClosed    FeedbackStatus = "closed"
)

// FeedbackTypes lists valid feedback categories.
var FeedbackTypes = []FeedbackType{FeedbackBug, FeedbackFeatureRequest, FeedbackUXIssue, FeedbackGeneral}

// FeedbackSeverities lists valid impact levels.
var FeedbackSeverities = []FeedbackSeverity{SeverityCritical, SeverityMajor, SeverityMinor}

// FeedbackStatuses lists valid triage states.
var FeedbackStatuses = []FeedbackStatus{FeedbackStatusNew, FeedbackStatusInReview, FeedbackStatusAddressed, FeedbackStatusClosed}

// Feedback is a report submitted by or on behalf of a tester.
type Feedback struct {
	ID            int
	TesterID      int
	TesterName    string
	Type          FeedbackType
	Severity      FeedbackSeverity
	Title         string
	Content       string
	Status        FeedbackStatus
	DeviceInfo    string
	AppVersion    string
	ScreenshotURL string
	AdminNotes    string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
