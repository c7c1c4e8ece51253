// Copyright (C) 2026 l3montree GmbH
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package plugin exposes the compliance evaluator as a named, versioned
// assessment unit with a fixed contract, consumable by a generic assessment
// orchestrator that treats it as one interchangeable plugin among others.
package plugin

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/l3montree-dev/sbomcheck/internal/core/compliance"
	"github.com/l3montree-dev/sbomcheck/internal/core/normalize"
	"github.com/pkg/errors"
)

const (
	PluginName         = "ntia-minimum-elements-2021"
	PluginVersion      = "1.0.0"
	CategoryCompliance = "compliance"
)

type FindingStatus string

const (
	FindingStatusPass    FindingStatus = "pass"
	FindingStatusWarning FindingStatus = "warning"
	FindingStatusFail    FindingStatus = "fail"
	FindingStatusError   FindingStatus = "error"
)

type Metadata struct {
	Name     string `json:"name"`
	Version  string `json:"version"`
	Category string `json:"category"`
}

type Finding struct {
	Element    string        `json:"element"`
	Title      string        `json:"title"`
	Status     FindingStatus `json:"status"`
	Message    string        `json:"message"`
	Suggestion *string       `json:"suggestion"`
	Affected   []string      `json:"affected"`
}

type Summary struct {
	TotalFindings int `json:"total_findings"`
	PassCount     int `json:"pass_count"`
	WarningCount  int `json:"warning_count"`
	FailCount     int `json:"fail_count"`
	ErrorCount    int `json:"error_count"`
}

type AssessmentResult struct {
	ID            string    `json:"id"`
	PluginName    string    `json:"plugin_name"`
	PluginVersion string    `json:"plugin_version"`
	Category      string    `json:"category"`
	SubjectID     string    `json:"subject_id"`
	Timestamp     string    `json:"timestamp"`
	Summary       Summary   `json:"summary"`
	Findings      []Finding `json:"findings"`
}

// NTIAMinimumElements is the plugin adapter. It surfaces only the data-fields
// pillar: the orchestrator contract expects exactly one finding per NTIA
// element, the advisory pillars stay internal to the full report.
type NTIAMinimumElements struct{}

func (NTIAMinimumElements) GetMetadata() Metadata {
	return Metadata{
		Name:     PluginName,
		Version:  PluginVersion,
		Category: CategoryCompliance,
	}
}

// Assess reads an SBOM document from disk and evaluates the NTIA data-fields
// checks. Failures to read or parse the document are reported as a single
// error-status finding, Assess never returns an error to the orchestrator.
func (n NTIAMinimumElements) Assess(subjectID string, documentPath string) AssessmentResult {
	data, err := os.ReadFile(documentPath)
	if err != nil {
		return n.errorResult(subjectID, errors.Wrap(err, "could not read SBOM document"))
	}

	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return n.errorResult(subjectID, errors.Wrap(err, "invalid JSON"))
	}

	format, ok := normalize.DetectFormat(doc)
	if !ok {
		return n.errorResult(subjectID, errors.New("the document is neither SPDX nor CycloneDX"))
	}

	var sbom *normalize.NormalizedSBOM
	switch format {
	case normalize.FormatSPDX:
		sbom = normalize.FromSPDX(doc)
	default:
		sbom = normalize.FromCycloneDX(doc)
	}

	section := compliance.EvaluateDataFields(sbom)
	findings := make([]Finding, 0, len(section.Checks))
	for _, check := range section.Checks {
		findings = append(findings, Finding{
			Element:    check.Element,
			Title:      check.Title,
			Status:     FindingStatus(check.Status),
			Message:    check.Message,
			Suggestion: check.Suggestion,
			Affected:   check.Affected,
		})
	}

	return n.result(subjectID, findings)
}

func (n NTIAMinimumElements) errorResult(subjectID string, err error) AssessmentResult {
	return n.result(subjectID, []Finding{{
		Element:  "document",
		Title:    "Document Parsing",
		Status:   FindingStatusError,
		Message:  err.Error(),
		Affected: []string{},
	}})
}

func (n NTIAMinimumElements) result(subjectID string, findings []Finding) AssessmentResult {
	summary := Summary{TotalFindings: len(findings)}
	for _, finding := range findings {
		switch finding.Status {
		case FindingStatusPass:
			summary.PassCount++
		case FindingStatusWarning:
			summary.WarningCount++
		case FindingStatusFail:
			summary.FailCount++
		case FindingStatusError:
			summary.ErrorCount++
		}
	}

	return AssessmentResult{
		ID:            uuid.NewString(),
		PluginName:    PluginName,
		PluginVersion: PluginVersion,
		Category:      CategoryCompliance,
		SubjectID:     subjectID,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Summary:       summary,
		Findings:      findings,
	}
}
