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

package compliance

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/l3montree-dev/sbomcheck/internal/core/normalize"
	"github.com/pkg/errors"
)

// Validate evaluates an already-parsed SBOM document against the NTIA
// minimum-elements checklist. It never panics and never returns an error:
// every failure mode becomes a typed result. Safe to call concurrently, each
// invocation builds its own state.
func Validate(doc map[string]any, format normalize.Format) (result ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = unexpectedFailureResult(errors.Errorf("unexpected validation failure: %v", r))
		}
	}()

	var sbom *normalize.NormalizedSBOM
	switch format {
	case normalize.FormatSPDX:
		sbom = normalize.FromSPDX(doc)
	case normalize.FormatCycloneDX:
		sbom = normalize.FromCycloneDX(doc)
	default:
		return unsupportedFormatResult(format)
	}

	return aggregate([]SectionResult{
		EvaluateDataFields(sbom),
		EvaluateAutomationSupport(sbom),
		EvaluatePracticesAndProcesses(sbom),
	})
}

// ValidateBytes sniffs the format of a raw JSON document and validates it.
func ValidateBytes(data []byte) ValidationResult {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return unexpectedFailureResult(errors.Wrap(err, "could not parse SBOM document"))
	}
	format, ok := normalize.DetectFormat(doc)
	if !ok {
		return unsupportedFormatResult("")
	}
	return Validate(doc, format)
}

func unsupportedFormatResult(format normalize.Format) ValidationResult {
	message := "The document is neither SPDX nor CycloneDX."
	if format != "" {
		message = fmt.Sprintf("Unsupported SBOM format %q.", string(format))
	}
	return ValidationResult{
		IsCompliant: false,
		Status:      StatusNonCompliant,
		Errors: []ValidationError{{
			Field:      "format",
			Message:    message,
			Suggestion: "Provide an SPDX or CycloneDX JSON document.",
		}},
		Warnings:  []ValidationError{},
		Sections:  []SectionResult{},
		CheckedAt: time.Now().UTC(),
	}
}

func unexpectedFailureResult(err error) ValidationResult {
	return ValidationResult{
		IsCompliant: false,
		Status:      StatusUnknown,
		Errors: []ValidationError{{
			Field:   "validation",
			Message: err.Error(),
		}},
		Warnings:  []ValidationError{},
		Sections:  []SectionResult{},
		CheckedAt: time.Now().UTC(),
	}
}
