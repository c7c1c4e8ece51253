package normalize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRelationshipDirection(t *testing.T) {
	t.Run("forward relationships", func(t *testing.T) {
		for _, keyword := range []string{"DEPENDS_ON", "CONTAINS", "DESCRIBES", "STATIC_LINK", "DYNAMIC_LINK", "GENERATED_FROM", "HAS_PREREQUISITE", "descendant_of"} {
			assert.Equal(t, directionForward, relationshipDirection(keyword), "expected %s to be forward", keyword)
		}
	})

	t.Run("reverse relationships", func(t *testing.T) {
		for _, keyword := range []string{"DEPENDENCY_OF", "DESCRIBED_BY", "CONTAINED_BY", "BUILD_DEPENDENCY_OF", "ANCESTOR_OF", "PREREQUISITE_FOR", "build_tool_of"} {
			assert.Equal(t, directionReverse, relationshipDirection(keyword), "expected %s to be reverse", keyword)
		}
	})

	t.Run("non-dependency relationships yield no edge", func(t *testing.T) {
		for _, keyword := range []string{"FILE_ADDED", "FILE_DELETED", "AMENDS", "OTHER", "SOMETHING_MADE_UP"} {
			assert.Equal(t, directionNone, relationshipDirection(keyword), "expected %s to produce no edge", keyword)
		}
	})

	t.Run("unrecognized keywords fall back to textual matching", func(t *testing.T) {
		assert.Equal(t, directionForward, relationshipDirection("USES_FRAMEWORK"))
		assert.Equal(t, directionForward, relationshipDirection("REQUIRES_RUNTIME"))
		assert.Equal(t, directionReverse, relationshipDirection("USED_BY_APPLICATION"))
		assert.Equal(t, directionReverse, relationshipDirection("REQUIRED_BY_BUILD"))
	})

	t.Run("table keys are lowercase", func(t *testing.T) {
		for keyword := range relationshipDirections {
			assert.Equal(t, strings.ToLower(keyword), keyword)
		}
	})
}

func TestFromSPDX(t *testing.T) {
	t.Run("supplier and originator actor strings", func(t *testing.T) {
		sbom := FromSPDX(map[string]any{
			"packages": []any{
				map[string]any{"name": "a", "supplier": "Organization: Acme Corp"},
				map[string]any{"name": "b", "originator": "Person: Jane Doe (jane@example.com)"},
				map[string]any{"name": "c", "supplier": "NOASSERTION"},
				map[string]any{"name": "d"},
			},
		})

		assert.Equal(t, "Acme Corp", *sbom.Components[0].Supplier)
		assert.Equal(t, "Jane Doe (jane@example.com)", *sbom.Components[1].Supplier)
		// the raw placeholder is kept so the evaluator warns instead of fails
		assert.Equal(t, "NOASSERTION", *sbom.Components[2].Supplier)
		assert.Nil(t, sbom.Components[3].Supplier)
		assert.Contains(t, sbom.Contacts, "jane@example.com")
	})

	t.Run("missing names are synthesized", func(t *testing.T) {
		sbom := FromSPDX(map[string]any{
			"packages": []any{map[string]any{"versionInfo": "1.0.0"}},
		})
		assert.Equal(t, "Package 1", sbom.Components[0].Name)
		assert.True(t, sbom.Components[0].NameIsPlaceholder)
	})

	t.Run("identifier harvesting", func(t *testing.T) {
		sbom := FromSPDX(map[string]any{
			"packages": []any{
				map[string]any{
					"name":             "a",
					"SPDXID":           "SPDXRef-Package-A",
					"downloadLocation": "https://example.com/a.tar.gz",
					"homepage":         "NOASSERTION",
					"externalRefs": []any{
						map[string]any{"referenceType": "purl", "referenceLocator": "pkg:npm/a@1.0.0"},
						map[string]any{"referenceType": "cpe23Type", "referenceLocator": "cpe:2.3:a:acme:a:1.0.0:*:*:*:*:*:*:*"},
						map[string]any{"referenceType": "maven-central", "referenceLocator": "acme:a:1.0.0"},
					},
					"checksums": []any{
						map[string]any{"algorithm": "SHA256", "checksumValue": "cafe"},
					},
					"packageVerificationCode": map[string]any{"packageVerificationCodeValue": "deadbeef"},
				},
			},
		})

		component := sbom.Components[0]
		assert.Contains(t, component.GlobalIdentifiers, "pkg:npm/a@1.0.0")
		assert.Contains(t, component.GlobalIdentifiers, "cpe:2.3:a:acme:a:1.0.0:*:*:*:*:*:*:*")
		assert.Contains(t, component.GlobalIdentifiers, "https://example.com/a.tar.gz")
		assert.Contains(t, component.GlobalIdentifiers, "SHA256:cafe")
		assert.Contains(t, component.Identifiers, "SPDXRef-Package-A")
		assert.Contains(t, component.Identifiers, "acme:a:1.0.0")
		assert.Contains(t, component.Identifiers, "deadbeef")
		assert.NotContains(t, component.GlobalIdentifiers, "acme:a:1.0.0")
		assert.NotContains(t, component.Identifiers, "NOASSERTION")
	})

	t.Run("file checksum fallback for identifier-less packages", func(t *testing.T) {
		sbom := FromSPDX(map[string]any{
			"packages": []any{
				map[string]any{"name": "a", "downloadLocation": "NOASSERTION"},
			},
			"files": []any{
				map[string]any{
					"fileName":  "a.bin",
					"checksums": []any{map[string]any{"algorithm": "SHA1", "checksumValue": "beef"}},
				},
			},
		})

		assert.Contains(t, sbom.Components[0].GlobalIdentifiers, "SHA1:beef")
	})

	t.Run("relationships build a forward adjacency map", func(t *testing.T) {
		sbom := FromSPDX(map[string]any{
			"SPDXID": "SPDXRef-DOCUMENT",
			"packages": []any{
				map[string]any{"name": "a", "SPDXID": "SPDXRef-A"},
				map[string]any{"name": "b", "SPDXID": "SPDXRef-B"},
			},
			"relationships": []any{
				map[string]any{"spdxElementId": "SPDXRef-A", "relatedSpdxElement": "SPDXRef-B", "relationshipType": "DEPENDS_ON"},
				// reverse relationship gets flipped into forward form
				map[string]any{"spdxElementId": "SPDXRef-B", "relatedSpdxElement": "SPDXRef-A", "relationshipType": "DEPENDENCY_OF"},
				// malformed entries are skipped, not fatal
				map[string]any{"relatedSpdxElement": "SPDXRef-B", "relationshipType": "DEPENDS_ON"},
				map[string]any{"spdxElementId": "SPDXRef-A", "relationshipType": "DEPENDS_ON"},
			},
			"documentDescribes": []any{"SPDXRef-A"},
		})

		assert.Contains(t, sbom.Dependencies["SPDXRef-A"], "SPDXRef-B")
		assert.Contains(t, sbom.Dependencies["SPDXRef-DOCUMENT"], "SPDXRef-A")
		assert.Equal(t, []string{"SPDXRef-A"}, sbom.DocumentDescribes)
		// one DEPENDS_ON, one flipped DEPENDENCY_OF (same edge, deduplicated),
		// one documentDescribes edge
		assert.Equal(t, 2, sbom.DependencyEdges())
	})

	t.Run("creators split into tools and authors", func(t *testing.T) {
		sbom := FromSPDX(map[string]any{
			"spdxVersion": "SPDX-2.3",
			"name":        "example-sbom",
			"creationInfo": map[string]any{
				"created": "2023-01-01T00:00:00Z",
				"creators": []any{
					"Tool: syft-0.100.0",
					"Organization: Acme Corp <security@acme.example>",
					"Person: NOASSERTION",
				},
			},
			"externalDocumentRefs": []any{
				map[string]any{"uri": "https://example.com/other.spdx.json"},
			},
			"annotations": []any{
				map[string]any{"comment": "pipeline: release-42"},
			},
		})

		assert.Equal(t, "SPDX-2.3", sbom.SpecVersion)
		assert.Equal(t, []string{"syft-0.100.0"}, sbom.Tools)
		assert.Equal(t, []string{"Acme Corp <security@acme.example>"}, sbom.Authors)
		assert.Contains(t, sbom.Contacts, "security@acme.example")
		assert.NotNil(t, sbom.CreationTimestamp)
		assert.Equal(t, "example-sbom", *sbom.DocumentName)
		assert.Equal(t, []string{"https://example.com/other.spdx.json"}, sbom.ExternalReferences)
		assert.Equal(t, "release-42", sbom.Properties["pipeline"])
	})

	t.Run("components without dependencies", func(t *testing.T) {
		sbom := FromSPDX(map[string]any{
			"packages": []any{
				map[string]any{"name": "a", "SPDXID": "SPDXRef-A"},
				map[string]any{"name": "b", "SPDXID": "SPDXRef-B"},
				map[string]any{"name": "c", "SPDXID": "SPDXRef-C"},
			},
			"relationships": []any{
				map[string]any{"spdxElementId": "SPDXRef-A", "relatedSpdxElement": "SPDXRef-B", "relationshipType": "DEPENDS_ON"},
			},
		})

		orphans := sbom.ComponentsWithoutDependencies()
		assert.Len(t, orphans, 1)
		assert.Equal(t, "c", orphans[0].Name)
	})
}
