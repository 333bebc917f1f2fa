package wizard

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-ekonde/pkg/model"
)

// NotProvided replaces empty values on the review step.
const NotProvided = "Not provided"

// TypeLookup resolves an application type id, usually catalog.ApplicationType.
type TypeLookup func(model.ApplicationTypeID) (model.ApplicationType, bool)

// ReviewRow is one label/value line of the review summary.
type ReviewRow struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Review is the summary shown on the last step.
type Review struct {
	TypeTitle string      `json:"typeTitle"`
	Rows      []ReviewRow `json:"rows"`
	Fee       string      `json:"fee"`
	FeeLabel  string      `json:"feeLabel"`
	Submit    string      `json:"submit"`
}

// BuildReview renders draft as the review summary. Empty fields read
// "Not provided" and a missing application type yields a fee of "0".
func BuildReview(draft model.ApplicationDraft, lookup TypeLookup) Review {
	var selected model.ApplicationType
	found := false
	if lookup != nil {
		selected, found = lookup(draft.ApplicationType)
	}
	fee := "0"
	if found {
		fee = selected.FeeLabel()
	}

	landSize := NotProvided
	if size := strings.TrimSpace(draft.LandSize); size != "" {
		landSize = size + " Acres"
	}
	location := fmt.Sprintf("Block %s, Plot %s, %s",
		orDefault(draft.BlockNumber, "-"),
		orDefault(draft.PlotNumber, "-"),
		orDefault(draft.District, NotProvided))

	return Review{
		TypeTitle: selected.Title,
		Rows: []ReviewRow{
			{Label: "Application Type", Value: selected.Title},
			{Label: "Applicant", Value: orDefault(draft.FullName, NotProvided)},
			{Label: "NIN", Value: orDefault(draft.NIN, NotProvided)},
			{Label: "Location", Value: location},
			{Label: "Land Size", Value: landSize},
		},
		Fee:      fee,
		FeeLabel: "UGX " + fee,
		Submit:   "Submit & Pay UGX " + fee,
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
