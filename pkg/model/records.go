package model

// ApplicationStatus is the coarse lifecycle bucket shown on the dashboard.
type ApplicationStatus string

const (
	StatusInProgress ApplicationStatus = "in-progress"
	StatusPending    ApplicationStatus = "pending"
	StatusCompleted  ApplicationStatus = "completed"
)

// ApplicationSummary is a dashboard row.
type ApplicationSummary struct {
	ID          string            `json:"id" yaml:"id"`
	Type        string            `json:"type" yaml:"type"`
	Location    string            `json:"location" yaml:"location"`
	Status      ApplicationStatus `json:"status" yaml:"status"`
	StatusLabel string            `json:"statusLabel" yaml:"statusLabel"`
	Date        string            `json:"date" yaml:"date"`
	Progress    int               `json:"progress" yaml:"progress"`
}

// TimelineStatus marks where a tracked application sits in its timeline.
type TimelineStatus string

const (
	TimelineCompleted TimelineStatus = "completed"
	TimelineCurrent   TimelineStatus = "current"
	TimelinePending   TimelineStatus = "pending"
)

// TimelineEvent is one processing stage of a tracked application.
type TimelineEvent struct {
	Step        string         `json:"step" yaml:"step"`
	Date        string         `json:"date" yaml:"date"`
	Status      TimelineStatus `json:"status" yaml:"status"`
	Description string         `json:"description" yaml:"description"`
}

// TrackedApplication is the detail view behind the track page.
type TrackedApplication struct {
	ID            string            `json:"id" yaml:"id"`
	Type          string            `json:"type" yaml:"type"`
	Status        ApplicationStatus `json:"status" yaml:"status"`
	SubmittedDate string            `json:"submittedDate" yaml:"submittedDate"`
	Applicant     string            `json:"applicant" yaml:"applicant"`
	NIN           string            `json:"nin" yaml:"nin"`
	Phone         string            `json:"phone" yaml:"phone"`
	Location      string            `json:"location" yaml:"location"`
	District      string            `json:"district" yaml:"district"`
	Fee           string            `json:"fee" yaml:"fee"`
	PaymentStatus string            `json:"paymentStatus" yaml:"paymentStatus"`
	Timeline      []TimelineEvent   `json:"timeline" yaml:"timeline"`
}

// CompletedSteps counts timeline events already done.
func (a TrackedApplication) CompletedSteps() int {
	count := 0
	for _, event := range a.Timeline {
		if event.Status == TimelineCompleted {
			count++
		}
	}
	return count
}

// VerifiedTitle is the registry record returned by a successful verification.
type VerifiedTitle struct {
	PlotNumber      string `json:"plotNumber" yaml:"plotNumber"`
	District        string `json:"district" yaml:"district"`
	County          string `json:"county" yaml:"county"`
	Parish          string `json:"parish" yaml:"parish"`
	Area            string `json:"area" yaml:"area"`
	Tenure          string `json:"tenure" yaml:"tenure"`
	RegisteredOwner string `json:"registeredOwner" yaml:"registeredOwner"`
	TitleNumber     string `json:"titleNumber" yaml:"titleNumber"`
	IssueDate       string `json:"issueDate" yaml:"issueDate"`
	Status          string `json:"status" yaml:"status"`
	Encumbrances    string `json:"encumbrances" yaml:"encumbrances"`
}
