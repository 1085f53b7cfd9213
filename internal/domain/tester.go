package domain

import "time"

// TesterStage enumerates lifecycle phases for a beta tester. The enum is
// flat: any stage may be set from any other, so manual corrections in the
// dashboard stay possible.
type TesterStage string

const (
	StageProspect     TesterStage = "prospect"
	StageInvited      TesterStage = "invited"
	StageAccepted     TesterStage = "accepted"
	StageInstalled    TesterStage = "installed"
	StageOnboarded    TesterStage = "onboarded"
	StageActive       TesterStage = "active"
	StageCompleted    TesterStage = "completed"
	StageTransitioned TesterStage = "transitioned"
	StageDeclined     TesterStage = "declined"
	StageDroppedOut   TesterStage = "dropped_out"
	StageUnresponsive TesterStage = "unresponsive"
)

// TesterStages lists all stages in funnel order.
var TesterStages = []TesterStage{
	StageProspect,
	StageInvited,
	StageAccepted,
	StageInstalled,
	StageOnboarded,
	StageActive,
	StageCompleted,
	StageTransitioned,
	StageDeclined,
	StageDroppedOut,
	StageUnresponsive,
}

// ActiveStages are the stages swept by the scheduled jobs.
var ActiveStages = []TesterStage{StageActive, StageOnboarded, StageInstalled}

// ValidStage reports whether s is one of the known stages.
func ValidStage(s TesterStage) bool {
	for _, stage := range TesterStages {
		if stage == s {
			return true
		}
	}
	return false
}

// InActiveStage reports whether the tester is in a stage eligible for
// lifecycle emails and inactivity checks.
func InActiveStage(s TesterStage) bool {
	for _, stage := range ActiveStages {
		if stage == s {
			return true
		}
	}
	return false
}

// TesterSource enumerates recruitment channels.
type TesterSource string

const (
	SourceEmail    TesterSource = "email"
	SourceLinkedIn TesterSource = "linkedin"
	SourceWhatsApp TesterSource = "whatsapp"
	SourceReferral TesterSource = "referral"
	SourceOther    TesterSource = "other"
)

// TesterSources lists valid recruitment channels.
var TesterSources = []TesterSource{SourceEmail, SourceLinkedIn, SourceWhatsApp, SourceReferral, SourceOther}

// ValidSource reports whether s is a known recruitment channel.
func ValidSource(s TesterSource) bool {
	for _, src := range TesterSources {
		if src == s {
			return true
		}
	}
	return false
}

// InactivityThresholdDays is the number of days without activity after
// which a tester counts as inactive.
const InactivityThresholdDays = 3

// Tester is the aggregate for a beta program participant.
type Tester struct {
	ID          int
	Name        string
	Email       string
	Phone       string
	Source      TesterSource
	Stage       TesterStage
	InvitedAt   *time.Time
	StartedAt   *time.Time
	LastActive  *time.Time
	CompletedAt *time.Time
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
