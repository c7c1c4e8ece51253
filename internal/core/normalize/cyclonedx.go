package normalize

import (
	"encoding/json"
	"fmt"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
)

// FromCycloneDX walks a loosely-parsed CycloneDX JSON document and produces
// the unified SBOM view. Unknown or malformed entries are skipped, a
// partially-conforming document still normalizes.
func FromCycloneDX(doc map[string]any) *NormalizedSBOM {
	sbom := newNormalizedSBOM(FormatCycloneDX)
	sbom.SpecVersion = stringField(doc, "specVersion")

	for index, entry := range asSlice(doc["components"]) {
		raw := asMap(entry)
		if raw == nil {
			continue
		}
		sbom.Components = append(sbom.Components, normalizeCdxComponent(raw, index))
	}

	for _, entry := range asSlice(doc["dependencies"]) {
		dependency := asMap(entry)
		if dependency == nil {
			continue
		}
		ref := resolveRef(dependency["ref"])
		if ref == "" {
			continue
		}
		for _, target := range asSlice(dependency["dependsOn"]) {
			sbom.addDependency(ref, resolveRef(target))
		}
	}

	normalizeCdxMetadata(doc, sbom)
	return sbom
}

// NormalizeCycloneDXBOM normalizes an already-decoded cyclonedx-go BOM by
// routing it through the loose walker, so the strict and lenient entry points
// share one semantics.
func NormalizeCycloneDXBOM(bom *cdx.BOM) (*NormalizedSBOM, error) {
	data, err := json.Marshal(bom)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return FromCycloneDX(doc), nil
}

func normalizeCdxComponent(raw map[string]any, index int) NormalizedComponent {
	component := newComponent()

	if ref := stringField(raw, "bom-ref", "bomRef"); ref != "" {
		component.Reference = &ref
		component.addIdentifier(ref)
	}

	component.Supplier = resolveCdxSupplier(raw)

	name := stringField(raw, "name")
	if isPlaceholderString(name) {
		name = fmt.Sprintf("Component %d", index+1)
		component.NameIsPlaceholder = true
	}
	component.Name = name

	if version := stringField(raw, "version"); version != "" {
		component.Version = &version
	}

	if serial := stringField(raw, "serialNumber"); serial != "" {
		component.addIdentifier(serial)
	}
	if purl := stringField(raw, "purl"); purl != "" {
		component.addGlobalIdentifier(purl)
	}
	if cpe := stringField(raw, "cpe"); cpe != "" {
		component.addGlobalIdentifier(cpe)
	}
	if swid := mapField(raw, "swid"); swid != nil {
		if tagID := stringField(swid, "tagId", "tagID"); tagID != "" {
			component.addGlobalIdentifier(tagID)
		}
		if uniqueID := stringField(swid, "uniqueId", "uniqueID"); uniqueID != "" {
			component.addGlobalIdentifier(uniqueID)
		}
	}

	for _, entry := range asSlice(raw["hashes"]) {
		hash := asMap(entry)
		if hash == nil {
			continue
		}
		formatted := formatHash(stringField(hash, "alg", "algorithm"), stringField(hash, "content", "value"))
		if formatted != "" {
			component.addGlobalIdentifier(formatted)
		}
	}

	for _, entry := range asSlice(raw["externalReferences"]) {
		reference := asMap(entry)
		if reference == nil {
			continue
		}
		refURL := stringField(reference, "url")
		if refURL == "" {
			continue
		}
		refType := strings.ToLower(stringField(reference, "type"))
		if _, ok := globalCdxReferenceTypes[refType]; ok {
			component.addGlobalIdentifier(refURL)
		} else {
			component.addIdentifier(refURL)
		}
	}

	return component
}

// resolveCdxSupplier walks the supplier fallback chain. The first
// non-placeholder value wins, a placeholder-only value is kept so the
// evaluator can distinguish "stated but uninformative" from "absent".
func resolveCdxSupplier(raw map[string]any) *string {
	var candidates []string
	if supplier := mapField(raw, "supplier"); supplier != nil {
		candidates = append(candidates, stringField(supplier, "name"))
		candidates = append(candidates, resolveCdxContact(supplier["contact"]))
	}
	candidates = append(candidates, stringField(raw, "publisher"))
	if manufacturer := mapField(raw, "manufacturer"); manufacturer != nil {
		candidates = append(candidates, stringField(manufacturer, "name"))
	}

	var placeholder *string
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if !isPlaceholderString(candidate) {
			value := candidate
			return &value
		}
		if placeholder == nil {
			value := candidate
			placeholder = &value
		}
	}
	return placeholder
}

// resolveCdxContact accepts both a single contact object and the
// schema-conforming contact array, returning the first name or email found.
func resolveCdxContact(value any) string {
	switch contact := value.(type) {
	case string:
		return strings.TrimSpace(contact)
	case map[string]any:
		return stringField(contact, "name", "email")
	case []any:
		for _, entry := range contact {
			if resolved := resolveCdxContact(entry); resolved != "" {
				return resolved
			}
		}
	}
	return ""
}

func normalizeCdxMetadata(doc map[string]any, sbom *NormalizedSBOM) {
	metadata := mapField(doc, "metadata")
	if metadata == nil {
		return
	}

	for _, entry := range asSlice(metadata["authors"]) {
		author := asMap(entry)
		if author == nil {
			continue
		}
		name := stringField(author, "name")
		email := stringField(author, "email")
		if email != "" {
			sbom.Contacts = append(sbom.Contacts, email)
		}
		composed := strings.TrimSpace(strings.Join([]string{name, email}, " "))
		if composed != "" {
			sbom.Authors = append(sbom.Authors, composed)
		}
	}

	for _, entry := range cdxToolEntries(metadata["tools"]) {
		var parts []string
		for _, key := range []string{"vendor", "name", "version"} {
			if part := stringField(entry, key); part != "" {
				parts = append(parts, part)
			}
		}
		if len(parts) > 0 {
			sbom.Tools = append(sbom.Tools, strings.Join(parts, " "))
		}
	}

	if timestamp := stringField(metadata, "timestamp"); timestamp != "" {
		sbom.CreationTimestamp = ParseISOTimestamp(timestamp)
	}

	if component := mapField(metadata, "component"); component != nil {
		if name := stringField(component, "name"); name != "" {
			sbom.DocumentName = &name
		}
		if ref := stringField(component, "bom-ref", "bomRef"); ref != "" {
			sbom.MetadataComponentRef = &ref
			sbom.DocumentDescribes = append(sbom.DocumentDescribes, ref)
		}
	}

	for _, entry := range asSlice(metadata["properties"]) {
		property := asMap(entry)
		if property == nil {
			continue
		}
		if name := stringField(property, "name"); name != "" {
			sbom.Properties[name] = stringField(property, "value")
		}
	}

	for _, entry := range asSlice(metadata["externalReferences"]) {
		reference := asMap(entry)
		if reference == nil {
			continue
		}
		if refURL := stringField(reference, "url"); refURL != "" {
			sbom.ExternalReferences = append(sbom.ExternalReferences, refURL)
		}
	}
}

// cdxToolEntries handles both the legacy tools array and the CycloneDX 1.5
// wrapper object carrying components/services.
func cdxToolEntries(value any) []map[string]any {
	var entries []map[string]any
	switch tools := value.(type) {
	case []any:
		for _, entry := range tools {
			if tool := asMap(entry); tool != nil {
				entries = append(entries, tool)
			}
		}
	case map[string]any:
		for _, key := range []string{"components", "services"} {
			for _, entry := range asSlice(tools[key]) {
				if tool := asMap(entry); tool != nil {
					entries = append(entries, tool)
				}
			}
		}
	}
	return entries
}
