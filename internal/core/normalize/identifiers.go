package normalize

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/package-url/packageurl-go"
)

// CycloneDX external reference types whose URL is globally resolvable.
var globalCdxReferenceTypes = map[string]struct{}{
	"purl":         {},
	"cpe22uri":     {},
	"cpe23uri":     {},
	"swid":         {},
	"vcs":          {},
	"distribution": {},
	"other":        {},
}

// SPDX external reference types (security + package-manager categories) that
// identify a package globally, plus the "other" category locators that do.
var globalSpdxReferenceTypes = map[string]struct{}{
	"purl":         {},
	"cpe22type":    {},
	"cpe23type":    {},
	"swid":         {},
	"website":      {},
	"distribution": {},
	"vcs":          {},
}

// looksLikeGlobalIdentifier reports whether a bare locator string uses a
// globally-resolvable scheme: a valid purl, a CPE, or a fetchable URL.
func looksLikeGlobalIdentifier(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "pkg:") {
		_, err := packageurl.FromString(value)
		return err == nil
	}
	if strings.HasPrefix(strings.ToLower(value), "cpe:") {
		return true
	}
	if parsed, err := url.Parse(value); err == nil {
		switch parsed.Scheme {
		case "http", "https", "git", "git+https", "git+ssh", "ftp":
			return parsed.Host != "" || parsed.Opaque != ""
		}
	}
	return false
}

// formatHash renders a checksum entry as "ALG:value". Hashes count as global
// identifiers since a content hash resolves the exact artifact.
func formatHash(algorithm string, value string) string {
	algorithm = strings.ToUpper(strings.TrimSpace(algorithm))
	value = strings.TrimSpace(value)
	if algorithm == "" || value == "" {
		return ""
	}
	return fmt.Sprintf("%s:%s", algorithm, value)
}
