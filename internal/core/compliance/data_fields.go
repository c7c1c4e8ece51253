package compliance

import (
	"fmt"

	"github.com/l3montree-dev/sbomcheck/internal/core/normalize"
	"github.com/l3montree-dev/sbomcheck/internal/utils"
)

// EvaluateDataFields runs the NTIA "seven minimum elements" check battery
// against a normalized SBOM, one tri-state check per element.
func EvaluateDataFields(sbom *normalize.NormalizedSBOM) SectionResult {
	checks := []CheckResult{
		checkSupplier(sbom),
		checkComponentNames(sbom),
		checkVersions(sbom),
		checkUniqueIdentifiers(sbom),
		checkDependencyRelationships(sbom),
		checkAuthor(sbom),
		checkTimestamp(sbom),
	}

	section := SectionResult{
		Name:   SectionDataFields,
		Title:  "Data Fields",
		Checks: checks,
	}
	section.Summary = summarizeSection(section)
	return section
}

func componentLabels(components []normalize.NormalizedComponent) []string {
	return utils.Map(components, func(c normalize.NormalizedComponent) string {
		return c.Label()
	})
}

func checkSupplier(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  ElementSupplierName,
		Title:    "Supplier Name",
		Status:   CheckStatusPass,
		Message:  "All components declare a supplier.",
		Affected: []string{},
	}

	missing := utils.Filter(sbom.Components, func(c normalize.NormalizedComponent) bool {
		return c.Supplier == nil
	})
	if len(missing) > 0 {
		check.Status = CheckStatusFail
		check.Message = fmt.Sprintf("%d component(s) have no supplier information.", len(missing))
		check.Suggestion = utils.Ptr("Add a supplier (CycloneDX supplier/publisher, SPDX supplier/originator) to every component.")
		check.Affected = componentLabels(missing)
		return check
	}

	placeholders := utils.Filter(sbom.Components, func(c normalize.NormalizedComponent) bool {
		return normalize.IsPlaceholder(c.Supplier)
	})
	if len(placeholders) > 0 {
		check.Status = CheckStatusWarning
		check.Message = fmt.Sprintf("%d component(s) only carry a placeholder supplier such as NOASSERTION.", len(placeholders))
		check.Suggestion = utils.Ptr("Replace placeholder supplier values with the actual supplying organization or person.")
		check.Affected = componentLabels(placeholders)
	}
	return check
}

func checkComponentNames(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  ElementComponentName,
		Title:    "Component Name",
		Status:   CheckStatusPass,
		Message:  "All components are named.",
		Affected: []string{},
	}

	unnamed := utils.Filter(sbom.Components, func(c normalize.NormalizedComponent) bool {
		if !c.NameIsPlaceholder {
			return false
		}
		// an anonymous root element that mirrors the document name is an
		// intentional self-describing idiom, not a data gap
		return sbom.DocumentName == nil || c.Name != *sbom.DocumentName
	})
	if len(unnamed) > 0 {
		check.Status = CheckStatusFail
		check.Message = fmt.Sprintf("%d component(s) have no meaningful name.", len(unnamed))
		check.Suggestion = utils.Ptr("Name every component; generated placeholders cannot be matched against vulnerability databases.")
		check.Affected = componentLabels(unnamed)
	}
	return check
}

func checkVersions(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  ElementComponentVersion,
		Title:    "Component Version",
		Status:   CheckStatusPass,
		Message:  "All components declare a version.",
		Affected: []string{},
	}

	missing := utils.Filter(sbom.Components, func(c normalize.NormalizedComponent) bool {
		return c.Version == nil
	})
	if len(missing) > 0 {
		check.Status = CheckStatusFail
		check.Message = fmt.Sprintf("%d component(s) have no version information.", len(missing))
		check.Suggestion = utils.Ptr("Record the exact version string of every component.")
		check.Affected = componentLabels(missing)
		return check
	}

	placeholders := utils.Filter(sbom.Components, func(c normalize.NormalizedComponent) bool {
		return normalize.IsPlaceholder(c.Version)
	})
	if len(placeholders) > 0 {
		check.Status = CheckStatusWarning
		check.Message = fmt.Sprintf("%d component(s) only carry a placeholder version such as UNKNOWN.", len(placeholders))
		check.Suggestion = utils.Ptr("Replace placeholder version values with the released version of the component.")
		check.Affected = componentLabels(placeholders)
	}
	return check
}

func checkUniqueIdentifiers(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  ElementUniqueIdentifiers,
		Title:    "Other Unique Identifiers",
		Status:   CheckStatusPass,
		Message:  "All components carry globally-resolvable identifiers.",
		Affected: []string{},
	}

	withoutAny := utils.Filter(sbom.Components, func(c normalize.NormalizedComponent) bool {
		return !c.HasAnyIdentifier()
	})
	if len(withoutAny) > 0 {
		check.Status = CheckStatusFail
		check.Message = fmt.Sprintf("%d component(s) carry no identifier of any kind.", len(withoutAny))
		check.Suggestion = utils.Ptr("Add at least one identifier (purl, CPE, SWID tag or content hash) to every component.")
		check.Affected = componentLabels(withoutAny)
		return check
	}

	withoutGlobal := utils.Filter(sbom.Components, func(c normalize.NormalizedComponent) bool {
		return !c.HasGlobalIdentifier()
	})
	if len(withoutGlobal) == 0 {
		return check
	}
	check.Affected = componentLabels(withoutGlobal)
	check.Suggestion = utils.Ptr("Prefer globally-resolvable identifier schemes: package URL, CPE, SWID or a content hash.")
	if len(withoutGlobal) == len(sbom.Components) {
		check.Status = CheckStatusFail
		check.Message = "No component carries a globally-resolvable identifier."
	} else {
		check.Status = CheckStatusWarning
		check.Message = fmt.Sprintf("%d component(s) lack a globally-resolvable identifier.", len(withoutGlobal))
	}
	return check
}

func checkDependencyRelationships(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  ElementDependencyRelationships,
		Title:    "Dependency Relationships",
		Status:   CheckStatusPass,
		Message:  "All components are part of the dependency graph.",
		Affected: []string{},
	}

	if len(sbom.Components) == 1 {
		// a lone component still needs a relationship entry, usually the
		// document describing itself; an empty graph means the producer
		// skipped relationships entirely
		if !sbom.HasDependencyGraph() {
			check.Status = CheckStatusFail
			check.Message = "The document contains a single component but no dependency relationship."
			check.Suggestion = utils.Ptr("Declare a relationship for the component, e.g. the document describing it.")
			check.Affected = componentLabels(sbom.Components)
		}
		return check
	}

	if !sbom.HasDependencyGraph() {
		check.Status = CheckStatusFail
		check.Message = "The document declares no dependency relationships at all."
		check.Suggestion = utils.Ptr("Emit the dependency graph (CycloneDX dependencies, SPDX relationships).")
		return check
	}

	orphans := sbom.ComponentsWithoutDependencies()
	if len(orphans) == 0 {
		return check
	}
	check.Affected = componentLabels(orphans)
	check.Suggestion = utils.Ptr("Connect every component to the dependency graph as a source or target of a relationship.")
	if len(orphans) == len(sbom.Components) {
		check.Status = CheckStatusFail
		check.Message = "No component is connected to the dependency graph."
	} else {
		check.Status = CheckStatusWarning
		check.Message = fmt.Sprintf("%d component(s) are not connected to the dependency graph.", len(orphans))
	}
	return check
}

func checkAuthor(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  ElementSBOMAuthor,
		Title:    "Author of SBOM Data",
		Status:   CheckStatusPass,
		Message:  "The document declares its author or generating tool.",
		Affected: []string{},
	}
	// lenient interpretation: a generating tool qualifies as author
	if len(sbom.Authors) == 0 && len(sbom.Tools) == 0 {
		check.Status = CheckStatusFail
		check.Message = "The document does not declare who created it."
		check.Suggestion = utils.Ptr("Record the creating entity or tool (CycloneDX metadata.authors/tools, SPDX creationInfo.creators).")
	}
	return check
}

func checkTimestamp(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  ElementTimestamp,
		Title:    "Timestamp",
		Status:   CheckStatusPass,
		Message:  "The document carries a creation timestamp.",
		Affected: []string{},
	}
	if sbom.CreationTimestamp == nil {
		check.Status = CheckStatusFail
		check.Message = "The document has no parseable creation timestamp."
		check.Suggestion = utils.Ptr("Record the creation time as an ISO-8601 timestamp (CycloneDX metadata.timestamp, SPDX creationInfo.created).")
	}
	return check
}

func summarizeSection(section SectionResult) string {
	failures := 0
	warnings := 0
	for _, check := range section.Checks {
		switch check.Status {
		case CheckStatusFail:
			failures++
		case CheckStatusWarning:
			warnings++
		}
	}
	if failures == 0 && warnings == 0 {
		return fmt.Sprintf("All %d checks passed.", len(section.Checks))
	}
	return fmt.Sprintf("%d of %d checks failed, %d with warnings.", failures, len(section.Checks), warnings)
}
