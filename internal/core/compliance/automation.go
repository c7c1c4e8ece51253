package compliance

import (
	"fmt"

	"github.com/l3montree-dev/sbomcheck/internal/core/normalize"
	"github.com/l3montree-dev/sbomcheck/internal/utils"
)

// EvaluateAutomationSupport produces best-effort document-quality signals.
// These checks never fail a document outright, warnings here push the overall
// verdict to partial at most.
func EvaluateAutomationSupport(sbom *normalize.NormalizedSBOM) SectionResult {
	checks := []CheckResult{
		{
			Element:  "machine_readable",
			Title:    "Machine Readability",
			Status:   CheckStatusPass,
			Message:  "The document parsed successfully as JSON.",
			Affected: []string{},
		},
		{
			Element:  "standard_format",
			Title:    "Standard Format",
			Status:   CheckStatusPass,
			Message:  fmt.Sprintf("Detected %s %s.", formatDisplayName(sbom.Format), sbom.SpecVersion),
			Affected: []string{},
		},
		checkToolingMetadata(sbom),
		checkComponentReferences(sbom),
		checkGraphPresence(sbom),
	}

	section := SectionResult{
		Name:   SectionAutomationSupport,
		Title:  "Automation Support",
		Checks: checks,
	}
	section.Summary = summarizeSection(section)
	return section
}

func formatDisplayName(format normalize.Format) string {
	switch format {
	case normalize.FormatSPDX:
		return "SPDX"
	case normalize.FormatCycloneDX:
		return "CycloneDX"
	default:
		return string(format)
	}
}

func checkToolingMetadata(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  "tooling_metadata",
		Title:    "Generation Tooling",
		Status:   CheckStatusPass,
		Message:  "The document records how it was generated.",
		Affected: []string{},
	}
	if len(sbom.Tools) == 0 && len(sbom.Authors) == 0 {
		check.Status = CheckStatusWarning
		check.Message = "The document does not record the generating tool or author."
		check.Suggestion = utils.Ptr("Let the SBOM generator stamp its identity into the document metadata.")
	}
	return check
}

func checkComponentReferences(sbom *normalize.NormalizedSBOM) CheckResult {
	withReference := utils.Filter(sbom.Components, func(c normalize.NormalizedComponent) bool {
		return c.Reference != nil
	})
	check := CheckResult{
		Element:  "component_references",
		Title:    "Component References",
		Status:   CheckStatusPass,
		Message:  fmt.Sprintf("%d of %d components carry a reference id.", len(withReference), len(sbom.Components)),
		Affected: []string{},
	}
	if len(sbom.Components) > 0 && len(withReference) == 0 {
		check.Status = CheckStatusWarning
		check.Suggestion = utils.Ptr("Assign a bom-ref / SPDXID to every component so tools can address them.")
	}
	return check
}

func checkGraphPresence(sbom *normalize.NormalizedSBOM) CheckResult {
	check := CheckResult{
		Element:  "dependency_graph",
		Title:    "Dependency Graph",
		Status:   CheckStatusPass,
		Message:  fmt.Sprintf("The document declares %d dependency edge(s).", sbom.DependencyEdges()),
		Affected: []string{},
	}
	if !sbom.HasDependencyGraph() {
		check.Status = CheckStatusWarning
		check.Message = "The document declares no dependency edges."
		check.Suggestion = utils.Ptr("Emit the dependency graph so consumers can reason about transitive exposure.")
	}
	return check
}
