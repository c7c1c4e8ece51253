package normalize

import (
	"fmt"
	"log/slog"
	"strings"
)

type edgeDirection int

const (
	directionNone edgeDirection = iota
	// directionForward: the relationship source depends on / contains /
	// describes the related element.
	directionForward
	// directionReverse: the source is depended on by the related element, the
	// edge gets flipped so the adjacency map stays forward-looking.
	directionReverse
)

// relationshipDirections maps every SPDX relationship-type keyword to the
// dependency-edge direction it implies. Keywords without a dependency meaning
// map to directionNone. Kept as one table, its completeness is checked by the
// package tests.
var relationshipDirections = map[string]edgeDirection{
	"describes":              directionForward,
	"described_by":           directionReverse,
	"contains":               directionForward,
	"contained_by":           directionReverse,
	"depends_on":             directionForward,
	"dependency_of":          directionReverse,
	"build_dependency_of":    directionReverse,
	"dev_dependency_of":      directionReverse,
	"optional_dependency_of": directionReverse,
	"provided_dependency_of": directionReverse,
	"test_dependency_of":     directionReverse,
	"runtime_dependency_of":  directionReverse,
	"dependency_manifest_of": directionReverse,
	"generated_from":         directionForward,
	"generates":              directionReverse,
	"ancestor_of":            directionReverse,
	"descendant_of":          directionForward,
	"variant_of":             directionForward,
	"distribution_artifact":  directionForward,
	"patch_for":              directionForward,
	"patch_applied":          directionForward,
	"copy_of":                directionForward,
	"expanded_from_archive":  directionForward,
	"static_link":            directionForward,
	"dynamic_link":           directionForward,
	"has_prerequisite":       directionForward,
	"prerequisite_for":       directionReverse,
	"build_tool_of":          directionReverse,
	"dev_tool_of":            directionReverse,
	"test_tool_of":           directionReverse,
	"test_of":                directionReverse,
	"test_case_of":           directionReverse,
	"example_of":             directionReverse,
	"documentation_of":       directionReverse,
	"metafile_of":            directionReverse,
	"package_of":             directionReverse,
	"optional_component_of":  directionReverse,
	"file_added":             directionNone,
	"file_deleted":           directionNone,
	"file_modified":          directionNone,
	"amends":                 directionNone,
	"other":                  directionNone,
}

func relationshipDirection(relationshipType string) edgeDirection {
	keyword := strings.ToLower(strings.TrimSpace(relationshipType))
	if direction, ok := relationshipDirections[keyword]; ok {
		return direction
	}
	// unrecognized vocabulary: fall back to a textual match so forks of the
	// SPDX vocabulary still produce edges
	if strings.Contains(keyword, "used_by") || strings.Contains(keyword, "required_by") {
		return directionReverse
	}
	if strings.Contains(keyword, "uses") || strings.Contains(keyword, "requires") {
		return directionForward
	}
	return directionNone
}

// FromSPDX walks a loosely-parsed SPDX JSON document and produces the unified
// SBOM view. Malformed package or relationship entries are skipped rather than
// failing the document - real-world SPDX is rarely fully conformant.
func FromSPDX(doc map[string]any) *NormalizedSBOM {
	sbom := newNormalizedSBOM(FormatSPDX)
	sbom.SpecVersion = stringField(doc, "spdxVersion")

	fileChecksums := collectSpdxFileChecksums(doc)

	for index, entry := range asSlice(doc["packages"]) {
		raw := asMap(entry)
		if raw == nil {
			continue
		}
		component := normalizeSpdxPackage(raw, index, sbom)
		if !component.HasAnyIdentifier() {
			// some producers checksum files instead of packages - fall back to
			// the document-wide file checksums so the package is still
			// resolvable by content
			for _, checksum := range fileChecksums {
				component.addGlobalIdentifier(checksum)
			}
		}
		sbom.Components = append(sbom.Components, component)
	}

	normalizeSpdxRelationships(doc, sbom)
	normalizeSpdxMetadata(doc, sbom)
	return sbom
}

func normalizeSpdxPackage(raw map[string]any, index int, sbom *NormalizedSBOM) NormalizedComponent {
	component := newComponent()

	if id := stringField(raw, "SPDXID"); id != "" {
		component.Reference = &id
		component.addIdentifier(id)
	}

	component.Supplier = resolveSpdxSupplier(raw, sbom)

	name := stringField(raw, "name")
	if isPlaceholderString(name) {
		name = fmt.Sprintf("Package %d", index+1)
		component.NameIsPlaceholder = true
	}
	component.Name = name

	if version := stringField(raw, "versionInfo", "version"); version != "" {
		component.Version = &version
	}

	if purl := stringField(raw, "purl"); purl != "" {
		component.addGlobalIdentifier(purl)
	}
	for _, key := range []string{"downloadLocation", "homepage"} {
		value := stringField(raw, key)
		if value == "" || isPlaceholderString(value) {
			continue
		}
		if looksLikeGlobalIdentifier(value) {
			component.addGlobalIdentifier(value)
		} else {
			component.addIdentifier(value)
		}
	}

	for _, entry := range asSlice(raw["externalRefs"]) {
		reference := asMap(entry)
		if reference == nil {
			continue
		}
		locator := stringField(reference, "referenceLocator")
		if locator == "" {
			continue
		}
		refType := strings.ToLower(stringField(reference, "referenceType"))
		if _, ok := globalSpdxReferenceTypes[refType]; ok {
			component.addGlobalIdentifier(locator)
		} else {
			component.addIdentifier(locator)
		}
	}

	if verification := mapField(raw, "packageVerificationCode"); verification != nil {
		if value := stringField(verification, "packageVerificationCodeValue", "value"); value != "" {
			component.addIdentifier(value)
		}
	}

	for _, entry := range asSlice(raw["checksums"]) {
		checksum := asMap(entry)
		if checksum == nil {
			continue
		}
		formatted := formatHash(stringField(checksum, "algorithm", "alg"), stringField(checksum, "checksumValue", "value"))
		if formatted != "" {
			component.addGlobalIdentifier(formatted)
		}
	}

	return component
}

// resolveSpdxSupplier tries the supplier then originator actor strings. Any
// email embedded in an actor string is collected into the document contact
// set along the way.
func resolveSpdxSupplier(raw map[string]any, sbom *NormalizedSBOM) *string {
	var placeholder *string
	for _, key := range []string{"supplier", "originator"} {
		value := stringField(raw, key)
		if value == "" {
			continue
		}
		sbom.Contacts = append(sbom.Contacts, ExtractEmails(value)...)
		if actor := NormalizeActor(value); actor != nil {
			return actor
		}
		if placeholder == nil {
			remainder := strings.TrimSpace(actorKindRegexp.ReplaceAllString(value, ""))
			if remainder != "" {
				placeholder = &remainder
			}
		}
	}
	return placeholder
}

func collectSpdxFileChecksums(doc map[string]any) []string {
	var checksums []string
	for _, entry := range asSlice(doc["files"]) {
		file := asMap(entry)
		if file == nil {
			continue
		}
		for _, checksumEntry := range asSlice(file["checksums"]) {
			checksum := asMap(checksumEntry)
			if checksum == nil {
				continue
			}
			formatted := formatHash(stringField(checksum, "algorithm", "alg"), stringField(checksum, "checksumValue", "value"))
			if formatted != "" {
				checksums = append(checksums, formatted)
			}
		}
	}
	return checksums
}

func normalizeSpdxRelationships(doc map[string]any, sbom *NormalizedSBOM) {
	for _, entry := range asSlice(doc["relationships"]) {
		relationship := asMap(entry)
		if relationship == nil {
			continue
		}
		source := stringField(relationship, "spdxElementId", "spdx_element_id")
		target := stringField(relationship, "relatedSpdxElement", "related_spdx_element")
		if source == "" || target == "" {
			// deliberately lenient: a relationship entry missing either end is
			// skipped instead of failing the whole document
			slog.Debug("skipping relationship entry without source or target", "entry", relationship)
			continue
		}
		switch relationshipDirection(stringField(relationship, "relationshipType", "relationship_type")) {
		case directionForward:
			sbom.addDependency(source, target)
		case directionReverse:
			sbom.addDependency(target, source)
		}
	}

	// documentDescribes is shorthand for DESCRIBES relationships from the
	// document root
	documentRef := stringField(doc, "SPDXID")
	if documentRef == "" {
		documentRef = "SPDXRef-DOCUMENT"
	}
	for _, entry := range asSlice(doc["documentDescribes"]) {
		described := resolveRef(entry)
		if described == "" {
			continue
		}
		sbom.DocumentDescribes = append(sbom.DocumentDescribes, described)
		sbom.addDependency(documentRef, described)
	}
}

func normalizeSpdxMetadata(doc map[string]any, sbom *NormalizedSBOM) {
	if name := stringField(doc, "name"); name != "" {
		sbom.DocumentName = &name
	}

	creationInfo := mapField(doc, "creationInfo")
	if creationInfo != nil {
		for _, entry := range asSlice(creationInfo["creators"]) {
			creator := asString(entry)
			if creator == "" {
				continue
			}
			sbom.Contacts = append(sbom.Contacts, ExtractEmails(creator)...)
			if strings.HasPrefix(strings.ToLower(creator), "tool:") {
				if tool := NormalizeActor(creator); tool != nil {
					sbom.Tools = append(sbom.Tools, *tool)
				}
				continue
			}
			if author := NormalizeActor(creator); author != nil {
				sbom.Authors = append(sbom.Authors, *author)
			}
		}

		if created := stringField(creationInfo, "created"); created != "" {
			sbom.CreationTimestamp = ParseISOTimestamp(created)
		}

		if sbom.DocumentName == nil {
			if comment := stringField(creationInfo, "comment"); comment != "" {
				sbom.DocumentName = &comment
			}
		}
	}

	for _, entry := range asSlice(doc["externalDocumentRefs"]) {
		reference := asMap(entry)
		if reference == nil {
			continue
		}
		if uri := stringField(reference, "uri", "spdxDocument"); uri != "" {
			sbom.ExternalReferences = append(sbom.ExternalReferences, uri)
		}
	}

	// annotations sometimes smuggle structured metadata as "key: value"
	// comments
	for _, entry := range asSlice(doc["annotations"]) {
		annotation := asMap(entry)
		if annotation == nil {
			continue
		}
		comment := stringField(annotation, "comment")
		key, value, found := strings.Cut(comment, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key != "" && value != "" {
			sbom.Properties[key] = value
		}
	}
}
