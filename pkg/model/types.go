package model

import (
	"strconv"
	"strings"
)

// FieldType is the simplified enum for the input kinds the wizard renders.
type FieldType string

const (
	FieldTypeString   FieldType = "string"
	FieldTypeNumber   FieldType = "number"
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypePhone    FieldType = "tel"
	FieldTypePassword FieldType = "password"
)

// Field describes a single input rendered by a wizard step or an auth form.
type Field struct {
	Name        string    `json:"name" yaml:"name"`
	Type        FieldType `json:"type" yaml:"type"`
	Label       string    `json:"label" yaml:"label"`
	Placeholder string    `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Optional    bool      `json:"optional,omitempty" yaml:"optional,omitempty"`
	Uppercase   bool      `json:"uppercase,omitempty" yaml:"uppercase,omitempty"`
}

// StepID identifies one of the fixed wizard stages.
type StepID int

const (
	StepApplicationType StepID = iota + 1
	StepPersonalDetails
	StepLocation
	StepDocuments
	StepReview
)

// FirstStep and LastStep bound the wizard step index.
const (
	FirstStep = StepApplicationType
	LastStep  = StepReview
)

// Step is a single stage of the application wizard.
type Step struct {
	ID          StepID  `json:"id" yaml:"id"`
	Title       string  `json:"title" yaml:"title"`
	Heading     string  `json:"heading" yaml:"heading"`
	Description string  `json:"description" yaml:"description"`
	Fields      []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// ApplicationTypeID is one of the four service variants a citizen can apply for.
type ApplicationTypeID string

const (
	ApplicationNewTitle    ApplicationTypeID = "new-title"
	ApplicationTransfer    ApplicationTypeID = "transfer"
	ApplicationMutation    ApplicationTypeID = "mutation"
	ApplicationSubdivision ApplicationTypeID = "subdivision"
)

// Valid reports whether id names one of the catalog variants.
func (id ApplicationTypeID) Valid() bool {
	switch id {
	case ApplicationNewTitle, ApplicationTransfer, ApplicationMutation, ApplicationSubdivision:
		return true
	default:
		return false
	}
}

// ApplicationType is an immutable catalog entry.
type ApplicationType struct {
	ID          ApplicationTypeID `json:"id" yaml:"id"`
	Title       string            `json:"title" yaml:"title"`
	Description string            `json:"description" yaml:"description"`
	Fee         int64             `json:"fee" yaml:"fee"`
}

// FeeLabel formats the fee the way the registry prints it, e.g. "450,000".
func (t ApplicationType) FeeLabel() string {
	return FormatAmount(t.Fee)
}

// FormatAmount groups thousands with commas.
func FormatAmount(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}
	digits := strconv.FormatInt(amount, 10)
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	lead := len(digits) % 3
	if lead == 0 {
		lead = 3
	}
	b.WriteString(digits[:lead])
	for i := lead; i < len(digits); i += 3 {
		b.WriteByte(',')
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// DocumentRequirement is a placeholder upload slot on the documents step.
type DocumentRequirement struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Coordinates is a validated latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// SubmissionResult is returned by the submission pipeline.
type SubmissionResult struct {
	ConfirmationID string `json:"confirmationId"`
	Redirect       string `json:"redirect"`
}

// User is the identity read model exposed by the auth collaborator.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Profile carries the optional personal details captured at sign-up.
type Profile struct {
	FullName string `json:"fullName,omitempty"`
	Phone    string `json:"phone,omitempty"`
	NIN      string `json:"nin,omitempty"`
}

// DisplayName mirrors the navbar greeting: profile name, then the local part
// of the email, then "User".
func DisplayName(user *User, profile *Profile) string {
	if profile != nil && strings.TrimSpace(profile.FullName) != "" {
		return strings.TrimSpace(profile.FullName)
	}
	if user != nil {
		if local, _, ok := strings.Cut(user.Email, "@"); ok && local != "" {
			return local
		}
	}
	return "User"
}
