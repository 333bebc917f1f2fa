package validation

import (
	"strings"

	"github.com/goliatone/go-ekonde/pkg/model"
)

// Credentials is the payload of the login page in either mode.
type Credentials struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword,omitempty"`
	FullName        string `json:"fullName,omitempty"`
	Phone           string `json:"phone,omitempty"`
	NIN             string `json:"nin,omitempty"`
}

// SignIn checks the email and password shape and stops at the first failure.
func SignIn(c Credentials) error {
	if err := Email(c.Email); err != nil {
		return err
	}
	return Password(c.Password)
}

// SignUp runs the sign-in checks, then the confirmation and name-presence
// checks, in that order, stopping at the first failure.
func SignUp(c Credentials) error {
	if err := SignIn(c); err != nil {
		return err
	}
	if err := Confirmation(c.Password, c.ConfirmPassword); err != nil {
		return err
	}
	return NamePresent(c.FullName)
}

// Step completeness messages used by the optional wizard gate, plus the
// message for a type outside the catalog.
const (
	MessageTypeRequired     = "Please select an application type"
	MessageTypeUnknown      = "Please choose one of the listed application types"
	MessageNINRequired      = "Please enter your National ID Number"
	MessagePhoneRequired    = "Please enter your phone number"
	MessageDistrictRequired = "Please enter the district"
)

// StepComplete reports the fields still missing before the wizard may leave
// step. Steps without required fields always pass. It is only consulted when
// the wizard is configured with a completeness gate.
func StepComplete(step model.StepID, draft model.ApplicationDraft) error {
	var issues Issues
	require := func(field, value, message string) {
		if strings.TrimSpace(value) == "" {
			issues = append(issues, newError(field, message))
		}
	}

	switch step {
	case model.StepApplicationType:
		if !draft.ApplicationType.Valid() {
			issues = append(issues, newError(model.FieldApplicationType, MessageTypeRequired))
		}
	case model.StepPersonalDetails:
		require(model.FieldFullName, draft.FullName, MessageFullNameRequired)
		require(model.FieldNIN, draft.NIN, MessageNINRequired)
		require(model.FieldPhone, draft.Phone, MessagePhoneRequired)
		if strings.TrimSpace(draft.Email) != "" {
			issues.Add(Email(strings.TrimSpace(draft.Email)))
		}
	case model.StepLocation:
		require(model.FieldDistrict, draft.District, MessageDistrictRequired)
		if lat, lng := draft.Latitude, draft.Longitude; lat != nil && lng != nil {
			issues.Add(Coordinates(*lat, *lng))
		}
	}
	return issues.Err()
}
