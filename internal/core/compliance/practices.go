package compliance

import (
	"github.com/l3montree-dev/sbomcheck/internal/core/normalize"
	"github.com/l3montree-dev/sbomcheck/internal/utils"
)

// EvaluatePracticesAndProcesses produces advisory organizational signals.
// Absent information yields unknown, never fail - these checks do not block
// compliance.
func EvaluatePracticesAndProcesses(sbom *normalize.NormalizedSBOM) SectionResult {
	checks := []CheckResult{
		checkUpdateCadence(sbom),
		{
			Element:  "sbom_depth",
			Title:    "Depth and Known Unknowns",
			Status:   CheckStatusPass,
			Message:  "The component inventory was accepted as-is; depth is not independently verified.",
			Affected: []string{},
		},
		checkDistributionChannel(sbom),
	}

	section := SectionResult{
		Name:   SectionPracticesAndProcesses,
		Title:  "Practices and Processes",
		Checks: checks,
	}
	section.Summary = summarizeSection(section)
	return section
}

func checkUpdateCadence(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  "update_cadence",
		Title:    "Frequency of Updates",
		Status:   CheckStatusPass,
		Message:  "The creation timestamp allows tracking the document's age.",
		Affected: []string{},
	}
	if sbom.CreationTimestamp == nil {
		check.Status = CheckStatusUnknown
		check.Message = "Without a creation timestamp the update cadence cannot be assessed."
	}
	return check
}

func checkDistributionChannel(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  "distribution",
		Title:    "Distribution and Delivery",
		Status:   CheckStatusPass,
		Message:  "The document carries contact or distribution information.",
		Affected: []string{},
	}
	if len(sbom.Contacts) == 0 && len(sbom.ExternalReferences) == 0 {
		check.Status = CheckStatusUnknown
		check.Message = "The document carries no contact or distribution information."
		check.Suggestion = utils.Ptr("Record a contact address or external reference so consumers can reach the supplier.")
	}
	return check
}
