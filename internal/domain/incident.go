package domain

import "time"

// IncidentType enumerates incident categories.
type IncidentType string

const (
	IncidentCrash       IncidentType = "crash"
	IncidentBug         IncidentType = "bug"
	IncidentUXComplaint IncidentType = "ux_complaint"
	IncidentDropout     IncidentType = "dropout"
	IncidentUninstall   IncidentType = "uninstall"
)

// IncidentSeverity enumerates impact levels.
type IncidentSeverity string

const (
	IncidentSeverityCritical IncidentSeverity = "critical"
	IncidentSeverityMajor    IncidentSeverity = "major"
	IncidentSeverityMinor    IncidentSeverity = "minor"
)

// IncidentStatus enumerates resolution states.
type IncidentStatus string

const (
	IncidentStatusOpen          IncidentStatus = "open"
	IncidentStatusInvestigating IncidentStatus = "investigating"
	IncidentStatusResolved      IncidentStatus = "resolved"
)

// IncidentSource identifies how an incident was recorded.
type IncidentSource string

const (
	IncidentSourceManual      IncidentSource = "manual"
	IncidentSourceCrashlytics IncidentSource = "crashlytics"
	IncidentSourceAutomated   IncidentSource = "automated"
)

// IncidentTypes lists valid incident categories.
var IncidentTypes = []IncidentType{IncidentCrash, IncidentBug, IncidentUXComplaint, IncidentDropout, IncidentUninstall}

// IncidentSeverities lists valid impact levels.
var IncidentSeverities = []IncidentSeverity{IncidentSeverityCritical, IncidentSeverityMajor, IncidentSeverityMinor}

// IncidentStatuses lists valid resolution states.
var IncidentStatuses = []IncidentStatus{IncidentStatusOpen, IncidentStatusInvestigating, IncidentStatusResolved}

// IncidentSources lists valid recording channels.
var IncidentSources = []IncidentSource{IncidentSourceManual, IncidentSourceCrashlytics, IncidentSourceAutomated}

// Incident records a problem affecting the program or a single tester.
// TesterID is 0 for program-wide incidents.
type Incident struct {
	ID              int
	TesterID        int
	TesterName      string
	Type            IncidentType
	Severity        IncidentSeverity
	Title           string
	Description     string
	Status          IncidentStatus
	Source          IncidentSource
	CrashID         string
	ResolvedAt      *time.Time
	ResolutionNotes string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
