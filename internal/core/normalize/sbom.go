package normalize

import (
	"fmt"
	"strings"
	"time"
)

type Format string

const (
	FormatSPDX      Format = "spdx"
	FormatCycloneDX Format = "cyclonedx"
)

// DetectFormat sniffs the schema family of a parsed SBOM document by the
// presence of format-identifying top-level keys.
func DetectFormat(doc map[string]any) (Format, bool) {
	if _, ok := doc["spdxVersion"]; ok {
		return FormatSPDX, true
	}
	if _, ok := doc["SPDXID"]; ok {
		return FormatSPDX, true
	}
	if _, ok := doc["bomFormat"]; ok {
		return FormatCycloneDX, true
	}
	if _, ok := doc["specVersion"]; ok {
		if _, ok := doc["components"]; ok {
			return FormatCycloneDX, true
		}
	}
	return "", false
}

// NormalizedComponent is one package/component regardless of source format.
type NormalizedComponent struct {
	// Reference is the opaque identifier used for graph edges
	// (SPDX SPDXID / CycloneDX bom-ref).
	Reference         *string
	Name              string
	NameIsPlaceholder bool
	Supplier          *string
	Version           *string
	// Identifiers holds every locally-unique string found on the component.
	Identifiers map[string]struct{}
	// GlobalIdentifiers is the subset of Identifiers restricted to
	// globally-resolvable schemes (purl, CPE, SWID, distribution URL, hash).
	GlobalIdentifiers map[string]struct{}
}

func newComponent() NormalizedComponent {
	return NormalizedComponent{
		Identifiers:       map[string]struct{}{},
		GlobalIdentifiers: map[string]struct{}{},
	}
}

func (c *NormalizedComponent) addIdentifier(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	c.Identifiers[id] = struct{}{}
}

// addGlobalIdentifier also records the identifier in Identifiers, keeping the
// subset invariant by construction.
func (c *NormalizedComponent) addGlobalIdentifier(id string) {
	id = strings.TrimSpace(id)
	if id == "" {
		return
	}
	c.Identifiers[id] = struct{}{}
	c.GlobalIdentifiers[id] = struct{}{}
}

func (c *NormalizedComponent) HasAnyIdentifier() bool {
	return len(c.Identifiers) > 0
}

func (c *NormalizedComponent) HasGlobalIdentifier() bool {
	return len(c.GlobalIdentifiers) > 0
}

// Label returns a human-readable handle for reports: "name version" when a
// meaningful version exists, otherwise just the name.
func (c *NormalizedComponent) Label() string {
	if c.Version != nil && !IsPlaceholder(c.Version) {
		return fmt.Sprintf("%s %s", c.Name, *c.Version)
	}
	return c.Name
}

// NormalizedSBOM is the unified document view both format normalizers
// produce. The compliance evaluator never branches on Format again after
// normalization.
type NormalizedSBOM struct {
	Format      Format
	SpecVersion string
	// Components keeps source document order so output stays deterministic.
	Components []NormalizedComponent
	// Dependencies is a forward-looking adjacency map: ref -> set of refs it
	// depends on. Reverse-direction source relationships are flipped during
	// normalization.
	Dependencies map[string]map[string]struct{}

	Authors  []string
	Tools    []string
	Contacts []string

	CreationTimestamp    *time.Time
	DocumentName         *string
	DocumentDescribes    []string
	MetadataComponentRef *string
	ExternalReferences   []string
	Properties           map[string]string
}

func newNormalizedSBOM(format Format) *NormalizedSBOM {
	return &NormalizedSBOM{
		Format:       format,
		Dependencies: map[string]map[string]struct{}{},
		Properties:   map[string]string{},
	}
}

func (s *NormalizedSBOM) addDependency(from string, to string) {
	from = strings.TrimSpace(from)
	to = strings.TrimSpace(to)
	if from == "" || to == "" {
		return
	}
	if s.Dependencies[from] == nil {
		s.Dependencies[from] = map[string]struct{}{}
	}
	s.Dependencies[from][to] = struct{}{}
}

// DependencyEdges returns the total number of edges in the adjacency map.
func (s *NormalizedSBOM) DependencyEdges() int {
	count := 0
	for _, targets := range s.Dependencies {
		count += len(targets)
	}
	return count
}

func (s *NormalizedSBOM) HasDependencyGraph() bool {
	return s.DependencyEdges() > 0
}

// ComponentsWithoutDependencies returns the components that are neither a
// source nor a target of any dependency edge. Components without a reference
// cannot appear in the graph and therefore always count as orphaned.
func (s *NormalizedSBOM) ComponentsWithoutDependencies() []NormalizedComponent {
	connected := map[string]struct{}{}
	for from, targets := range s.Dependencies {
		connected[from] = struct{}{}
		for to := range targets {
			connected[to] = struct{}{}
		}
	}

	var orphans []NormalizedComponent
	for _, component := range s.Components {
		if component.Reference != nil {
			if _, ok := connected[*component.Reference]; ok {
				continue
			}
		}
		orphans = append(orphans, component)
	}
	return orphans
}
