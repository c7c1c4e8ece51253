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

package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/l3montree-dev/sbomcheck/internal/core/compliance"
	"github.com/l3montree-dev/sbomcheck/internal/core/normalize"
	"github.com/l3montree-dev/sbomcheck/internal/utils"
	spdxjson "github.com/spdx/tools-golang/json"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func NewComplianceCommand() *cobra.Command {
	complianceCmd := &cobra.Command{
		Use:   "compliance",
		Short: "Evaluate SBOM documents against the NTIA minimum elements",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			bindFlags(cmd)
		},
	}

	complianceCmd.AddCommand(newComplianceValidateCommand())
	complianceCmd.AddCommand(newComplianceInspectCommand())
	return complianceCmd
}

func readDocument(args []string) ([]byte, error) {
	var src io.Reader
	if len(args) == 0 || args[0] == "-" {
		src = os.Stdin
	} else {
		file, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("failed to read SBOM: %w", err)
	}
	return data, nil
}

func newComplianceValidateCommand() *cobra.Command {
	validateCmd := &cobra.Command{
		Use:   "validate [sbom.json|-]",
		Short: "Check an SPDX or CycloneDX SBOM against the NTIA minimum elements",
		Long: `Check an SPDX or CycloneDX SBOM against the NTIA 2021 minimum elements checklist.

Exits with code 0 if the SBOM is compliant, non-zero otherwise.
Pass a file path, '-' to read from stdin, or omit the argument to read from stdin.`,
		Example: `  # Validate an SBOM file
  sbomcheck-cli compliance validate sbom.json

  # Validate from stdin, print the raw report
  cat sbom.json | sbomcheck-cli compliance validate --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(args)
			if err != nil {
				return err
			}

			result := compliance.ValidateBytes(data)

			if viper.GetString("output") == "json" {
				encoded, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode report: %w", err)
				}
				fmt.Println(string(encoded))
			} else {
				printValidationResult(result)
			}

			if result.Status != compliance.StatusCompliant {
				return fmt.Errorf("SBOM is %s", result.Status)
			}
			return nil
		},
	}

	validateCmd.Flags().StringP("output", "o", "table", "output format: table or json")
	return validateCmd
}

func newComplianceInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [sbom.json|-]",
		Short: "Print the normalized view of an SBOM document",
		Long: `Print the normalized view of an SPDX or CycloneDX SBOM.

The document is additionally parsed with the strict format decoder, conformance
problems are logged but do not abort the inspection.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readDocument(args)
			if err != nil {
				return err
			}

			var doc map[string]any
			if err := json.Unmarshal(data, &doc); err != nil {
				return fmt.Errorf("failed to parse SBOM document: %w", err)
			}
			format, ok := normalize.DetectFormat(doc)
			if !ok {
				return fmt.Errorf("the document is neither SPDX nor CycloneDX")
			}

			var sbom *normalize.NormalizedSBOM
			switch format {
			case normalize.FormatSPDX:
				if _, err := spdxjson.Read(bytes.NewReader(data)); err != nil {
					slog.Warn("document does not strictly conform to SPDX", "err", err)
				}
				sbom = normalize.FromSPDX(doc)
			default:
				var bom cdx.BOM
				if err := json.Unmarshal(data, &bom); err != nil {
					slog.Warn("document does not strictly conform to CycloneDX", "err", err)
					sbom = normalize.FromCycloneDX(doc)
				} else {
					sbom, err = normalize.NormalizeCycloneDXBOM(&bom)
					if err != nil {
						return fmt.Errorf("failed to normalize CycloneDX SBOM: %w", err)
					}
				}
			}

			printNormalizedSummary(sbom)
			return nil
		},
	}
}

func printValidationResult(result compliance.ValidationResult) {
	tw := table.NewWriter()
	tw.SetAllowedRowLength(130)

	for _, section := range result.Sections {
		tw.AppendRow(table.Row{text.Bold.Sprint(section.Title), section.Summary})
		for _, check := range section.Checks {
			row := table.Row{check.Title, colorizeStatus(string(check.Status)), text.WrapText(check.Message, 80)}
			tw.AppendRow(row)
			if len(check.Affected) > 0 {
				tw.AppendRow(table.Row{"", "", text.WrapText(strings.Join(check.Affected, ", "), 80)})
			}
		}
		tw.AppendSeparator()
	}

	tw.AppendRow(table.Row{text.Bold.Sprint("Overall"), colorizeStatus(string(result.Status)), fmt.Sprintf("%d error(s), %d warning(s)", len(result.Errors), len(result.Warnings))})
	fmt.Println(tw.Render())
}

func printNormalizedSummary(sbom *normalize.NormalizedSBOM) {
	tw := table.NewWriter()
	tw.SetAllowedRowLength(130)

	orphans := sbom.ComponentsWithoutDependencies()
	rows := []table.Row{
		{"Format:", fmt.Sprintf("%s %s", sbom.Format, sbom.SpecVersion)},
		{"Document:", utils.SafeDereference(sbom.DocumentName)},
		{"Components:", fmt.Sprintf("%d", len(sbom.Components))},
		{"Dependency edges:", fmt.Sprintf("%d", sbom.DependencyEdges())},
		{"Unconnected components:", fmt.Sprintf("%d", len(orphans))},
		{"Authors:", strings.Join(sbom.Authors, ", ")},
		{"Tools:", strings.Join(sbom.Tools, ", ")},
	}
	if sbom.CreationTimestamp != nil {
		rows = append(rows, table.Row{"Created:", sbom.CreationTimestamp.String()})
	}
	tw.AppendRows(rows)
	fmt.Println(tw.Render())
}

func colorizeStatus(status string) string {
	switch status {
	case "pass", "compliant":
		return text.FgGreen.Sprint(status)
	case "warning", "partial":
		return text.FgYellow.Sprint(status)
	case "fail", "non_compliant":
		return text.FgRed.Sprint(status)
	default:
		return status
	}
}
