package compliance

import (
	"time"
)

type CheckStatus string

const (
	CheckStatusPass    CheckStatus = "pass"
	CheckStatusWarning CheckStatus = "warning"
	CheckStatusFail    CheckStatus = "fail"
	CheckStatusUnknown CheckStatus = "unknown"
)

type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "compliant"
	StatusPartial      ComplianceStatus = "partial"
	StatusNonCompliant ComplianceStatus = "non_compliant"
	StatusUnknown      ComplianceStatus = "unknown"
)

// stable element ids of the data-fields pillar (the NTIA minimum elements)
const (
	ElementSupplierName            = "supplier_name"
	ElementComponentName           = "component_name"
	ElementComponentVersion        = "component_version"
	ElementUniqueIdentifiers       = "unique_identifiers"
	ElementDependencyRelationships = "dependency_relationships"
	ElementSBOMAuthor              = "sbom_author"
	ElementTimestamp               = "timestamp"
)

// section names
const (
	SectionDataFields            = "data_fields"
	SectionAutomationSupport     = "automation_support"
	SectionPracticesAndProcesses = "practices_and_processes"
)

// CheckResult is one evaluated rule. Affected carries human-readable labels
// of the violating components and stays empty for document-level checks.
type CheckResult struct {
	Element    string      `json:"element"`
	Title      string      `json:"title"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion *string     `json:"suggestion"`
	Affected   []string    `json:"affected"`
}

// SectionResult groups the checks of one pillar.
type SectionResult struct {
	Name    string        `json:"name"`
	Title   string        `json:"title"`
	Summary string        `json:"summary"`
	Checks  []CheckResult `json:"checks"`
}

func (s SectionResult) HasFailures() bool {
	for _, check := range s.Checks {
		if check.Status == CheckStatusFail {
			return true
		}
	}
	return false
}

func (s SectionResult) HasWarnings() bool {
	for _, check := range s.Checks {
		if check.Status == CheckStatusWarning {
			return true
		}
	}
	return false
}

// ValidationError is the flattened per-check error shape kept for
// backward-compatible consumers of the report.
type ValidationError struct {
	Field      string `json:"field"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// ValidationResult is the full compliance report.
type ValidationResult struct {
	IsCompliant bool              `json:"is_compliant"`
	Status      ComplianceStatus  `json:"status"`
	Errors      []ValidationError `json:"errors"`
	Warnings    []ValidationError `json:"warnings"`
	Sections    []SectionResult   `json:"sections"`
	CheckedAt   time.Time         `json:"checked_at"`
}

// elementFieldAliases maps internal element ids to the stable field names
// external consumers expect in the flattened error list.
var elementFieldAliases = map[string]string{
	ElementSupplierName:            "supplier",
	ElementComponentName:           "component_name",
	ElementComponentVersion:        "version",
	ElementUniqueIdentifiers:       "unique_id",
	ElementDependencyRelationships: "dependencies",
	ElementSBOMAuthor:              "sbom_author",
	ElementTimestamp:               "timestamp",
}

func fieldAlias(element string) string {
	if alias, ok := elementFieldAliases[element]; ok {
		return alias
	}
	return element
}

// aggregate rolls the per-check verdicts of all sections into the final
// report: any fail wins over any warning wins over compliant.
func aggregate(sections []SectionResult) ValidationResult {
	result := ValidationResult{
		Status:      StatusCompliant,
		IsCompliant: true,
		Errors:      []ValidationError{},
		Warnings:    []ValidationError{},
		Sections:    sections,
		CheckedAt:   time.Now().UTC(),
	}

	for _, section := range sections {
		for _, check := range section.Checks {
			entry := ValidationError{
				Field:      fieldAlias(check.Element),
				Message:    check.Message,
				Suggestion: suggestionText(check),
			}
			switch check.Status {
			case CheckStatusFail:
				result.Errors = append(result.Errors, entry)
			case CheckStatusWarning:
				result.Warnings = append(result.Warnings, entry)
			}
		}
	}

	if len(result.Errors) > 0 {
		result.Status = StatusNonCompliant
		result.IsCompliant = false
	} else if len(result.Warnings) > 0 {
		result.Status = StatusPartial
		result.IsCompliant = false
	}

	return result
}

func suggestionText(check CheckResult) string {
	if check.Suggestion == nil {
		return ""
	}
	return *check.Suggestion
}
