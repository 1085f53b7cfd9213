package domain

import "time"

// Template names used by the scheduled email jobs.
const (
	TemplateDay3Checkin     = "day_3_checkin"
	TemplateDay7Checkin     = "day_7_checkin"
	TemplateDay12FinalPush  = "day_12_final_push"
	TemplateDay14Completion = "day_14_completion"
	TemplateReengagement    = "reengagement"
)

// EmailTemplate holds a reusable email with {{variable}} placeholders in
// its subject and body. Name is unique across templates.
type EmailTemplate struct {
	ID        int
	Name      string
	Subject   string
	Body      string
	Variables []string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
