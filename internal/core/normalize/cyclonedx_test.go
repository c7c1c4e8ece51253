package normalize

import (
	"testing"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/stretchr/testify/assert"
)

func TestFromCycloneDX(t *testing.T) {
	t.Run("supplier fallback chain", func(t *testing.T) {
		sbom := FromCycloneDX(map[string]any{
			"components": []any{
				map[string]any{"name": "a", "supplier": map[string]any{"name": "Acme Corp"}},
				map[string]any{"name": "b", "supplier": map[string]any{"name": "NOASSERTION"}, "publisher": "Example Inc"},
				map[string]any{"name": "c", "manufacturer": map[string]any{"name": "Hardware GmbH"}},
				map[string]any{"name": "d", "publisher": "NOASSERTION"},
				map[string]any{"name": "e"},
			},
		})

		assert.Equal(t, "Acme Corp", *sbom.Components[0].Supplier)
		assert.Equal(t, "Example Inc", *sbom.Components[1].Supplier)
		assert.Equal(t, "Hardware GmbH", *sbom.Components[2].Supplier)
		// a placeholder-only supplier is kept so the evaluator can warn
		// instead of fail
		assert.Equal(t, "NOASSERTION", *sbom.Components[3].Supplier)
		assert.Nil(t, sbom.Components[4].Supplier)
	})

	t.Run("supplier contact array", func(t *testing.T) {
		sbom := FromCycloneDX(map[string]any{
			"components": []any{
				map[string]any{"name": "a", "supplier": map[string]any{
					"contact": []any{map[string]any{"email": "sec@acme.example"}},
				}},
			},
		})
		assert.Equal(t, "sec@acme.example", *sbom.Components[0].Supplier)
	})

	t.Run("missing names are synthesized and marked", func(t *testing.T) {
		sbom := FromCycloneDX(map[string]any{
			"components": []any{
				map[string]any{"version": "1.0.0"},
				map[string]any{"name": "NOASSERTION"},
				map[string]any{"name": "real-component"},
			},
		})

		assert.Equal(t, "Component 1", sbom.Components[0].Name)
		assert.True(t, sbom.Components[0].NameIsPlaceholder)
		assert.Equal(t, "Component 2", sbom.Components[1].Name)
		assert.True(t, sbom.Components[1].NameIsPlaceholder)
		assert.Equal(t, "real-component", sbom.Components[2].Name)
		assert.False(t, sbom.Components[2].NameIsPlaceholder)
	})

	t.Run("identifier harvesting", func(t *testing.T) {
		sbom := FromCycloneDX(map[string]any{
			"components": []any{
				map[string]any{
					"name":    "a",
					"bom-ref": "ref-a",
					"purl":    "pkg:npm/a@1.0.0",
					"cpe":     "cpe:2.3:a:acme:a:1.0.0:*:*:*:*:*:*:*",
					"swid":    map[string]any{"tagId": "swid-a"},
					"hashes": []any{
						map[string]any{"alg": "SHA-256", "content": "cafe"},
						map[string]any{"algorithm": "SHA-1", "value": "beef"},
					},
					"externalReferences": []any{
						map[string]any{"type": "distribution", "url": "https://example.com/a.tgz"},
						map[string]any{"type": "website", "url": "https://example.com"},
					},
				},
			},
		})

		component := sbom.Components[0]
		assert.Contains(t, component.GlobalIdentifiers, "pkg:npm/a@1.0.0")
		assert.Contains(t, component.GlobalIdentifiers, "cpe:2.3:a:acme:a:1.0.0:*:*:*:*:*:*:*")
		assert.Contains(t, component.GlobalIdentifiers, "swid-a")
		assert.Contains(t, component.GlobalIdentifiers, "SHA-256:cafe")
		assert.Contains(t, component.GlobalIdentifiers, "SHA-1:beef")
		assert.Contains(t, component.GlobalIdentifiers, "https://example.com/a.tgz")
		// bom-ref and plain website urls are local identifiers only
		assert.Contains(t, component.Identifiers, "ref-a")
		assert.Contains(t, component.Identifiers, "https://example.com")
		assert.NotContains(t, component.GlobalIdentifiers, "ref-a")
		assert.NotContains(t, component.GlobalIdentifiers, "https://example.com")
	})

	t.Run("global identifiers are a subset of identifiers", func(t *testing.T) {
		sbom := FromCycloneDX(map[string]any{
			"components": []any{
				map[string]any{
					"name":   "a",
					"purl":   "pkg:npm/a@1.0.0",
					"hashes": []any{map[string]any{"alg": "SHA-256", "content": "cafe"}},
				},
			},
		})
		for _, component := range sbom.Components {
			for id := range component.GlobalIdentifiers {
				assert.Contains(t, component.Identifiers, id)
			}
		}
	})

	t.Run("dependency refs as strings and objects", func(t *testing.T) {
		sbom := FromCycloneDX(map[string]any{
			"components": []any{
				map[string]any{"name": "a", "bom-ref": "ref-a"},
				map[string]any{"name": "b", "bom-ref": "ref-b"},
			},
			"dependencies": []any{
				map[string]any{"ref": "ref-a", "dependsOn": []any{"ref-b"}},
				map[string]any{
					"ref":       map[string]any{"bomRef": "ref-b"},
					"dependsOn": []any{map[string]any{"ref": "ref-a"}},
				},
			},
		})

		assert.Contains(t, sbom.Dependencies["ref-a"], "ref-b")
		assert.Contains(t, sbom.Dependencies["ref-b"], "ref-a")
		assert.Equal(t, 2, sbom.DependencyEdges())
	})

	t.Run("malformed dependency entries are skipped", func(t *testing.T) {
		sbom := FromCycloneDX(map[string]any{
			"components": []any{map[string]any{"name": "a", "bom-ref": "ref-a"}},
			"dependencies": []any{
				"not-an-object",
				map[string]any{"dependsOn": []any{"ref-a"}},
				map[string]any{"ref": "ref-a"},
			},
		})
		assert.Equal(t, 0, sbom.DependencyEdges())
	})

	t.Run("document metadata", func(t *testing.T) {
		sbom := FromCycloneDX(map[string]any{
			"specVersion": "1.5",
			"metadata": map[string]any{
				"timestamp": "2023-01-01T00:00:00Z",
				"authors": []any{
					map[string]any{"name": "Jane Doe", "email": "jane@example.com"},
					map[string]any{"name": "Security Team"},
				},
				"tools": []any{
					map[string]any{"vendor": "anchore", "name": "syft", "version": "0.100.0"},
				},
				"component": map[string]any{"name": "acme-app", "bom-ref": "ref-root"},
				"properties": []any{
					map[string]any{"name": "build", "value": "42"},
				},
				"externalReferences": []any{
					map[string]any{"type": "distribution", "url": "https://sboms.example.com"},
				},
			},
		})

		assert.Equal(t, "1.5", sbom.SpecVersion)
		assert.Equal(t, []string{"Jane Doe jane@example.com", "Security Team"}, sbom.Authors)
		assert.Equal(t, []string{"jane@example.com"}, sbom.Contacts)
		assert.Equal(t, []string{"anchore syft 0.100.0"}, sbom.Tools)
		assert.NotNil(t, sbom.CreationTimestamp)
		assert.Equal(t, "acme-app", *sbom.DocumentName)
		assert.Equal(t, "ref-root", *sbom.MetadataComponentRef)
		assert.Equal(t, []string{"ref-root"}, sbom.DocumentDescribes)
		assert.Equal(t, "42", sbom.Properties["build"])
		assert.Equal(t, []string{"https://sboms.example.com"}, sbom.ExternalReferences)
	})

	t.Run("tools wrapped in a components object", func(t *testing.T) {
		sbom := FromCycloneDX(map[string]any{
			"metadata": map[string]any{
				"tools": map[string]any{
					"components": []any{map[string]any{"name": "trivy", "version": "0.50.0"}},
				},
			},
		})
		assert.Equal(t, []string{"trivy 0.50.0"}, sbom.Tools)
	})
}

func TestNormalizeCycloneDXBOM(t *testing.T) {
	bom := &cdx.BOM{
		BOMFormat:   "CycloneDX",
		SpecVersion: cdx.SpecVersion1_6,
		Metadata: &cdx.Metadata{
			Component: &cdx.Component{BOMRef: "ref-root", Name: "acme-app"},
		},
		Components: &[]cdx.Component{{
			BOMRef:     "pkg:npm/left-pad@1.3.0",
			Name:       "left-pad",
			Version:    "1.3.0",
			PackageURL: "pkg:npm/left-pad@1.3.0",
			Type:       cdx.ComponentTypeLibrary,
		}},
		Dependencies: &[]cdx.Dependency{
			{Ref: "ref-root", Dependencies: &[]string{"pkg:npm/left-pad@1.3.0"}},
		},
	}

	sbom, err := NormalizeCycloneDXBOM(bom)
	assert.NoError(t, err)
	assert.Equal(t, FormatCycloneDX, sbom.Format)
	assert.Len(t, sbom.Components, 1)
	assert.Equal(t, "left-pad", sbom.Components[0].Name)
	assert.Contains(t, sbom.Components[0].GlobalIdentifiers, "pkg:npm/left-pad@1.3.0")
	assert.Contains(t, sbom.Dependencies["ref-root"], "pkg:npm/left-pad@1.3.0")
}
