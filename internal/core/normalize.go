package core

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/github/go-spdx/v2/spdxexp"
)

// DefaultRegistry is the origin assumed when a manifest does not pin one
// through publishConfig.registry. The exact string matters: registry values
// are compared against it verbatim, so it stays scheme and all.
const DefaultRegistry = "http://npmjs.org"

// Normalize parses an npm document and derives its canonical record. The
// input may be a plain package manifest or a full registry document.
func Normalize(data []byte) (*Package, error) {
	doc, err := ParseDocument(data)
	if err != nil {
		return nil, err
	}
	return NormalizeDocument(doc)
}

// NormalizeDocument derives the canonical record from a parsed document.
func NormalizeDocument(doc Document) (*Package, error) {
	manifest, version := ResolveLatest(doc)

	name := doc.str("_id")
	if name == "" {
		name = doc.str("name")
	}

	registry := registryOrigin(doc)

	sourceURL, err := extractRepoURL(manifest.value("repository"))
	if err != nil {
		return nil, err
	}

	contributors, err := aggregateContributors(manifest)
	if err != nil {
		return nil, err
	}

	license := extractLicense(doc.value("license"))

	return &Package{
		Name:                     name,
		Description:              doc.str("description"),
		Keywords:                 extractKeywords(doc.value("keywords")),
		License:                  license,
		LicenseValid:             validLicense(license),
		Private:                  doc.boolean("private"),
		PublishConfig:            doc.anyMap("publishConfig"),
		Version:                  version,
		LatestVersionPublishedAt: doc.object("time").str("modified"),
		Registry:                 registry,
		UsesPublicRegistry:       registry == DefaultRegistry,
		NpmURL:                   strings.TrimRight(registry, "/") + "/package/" + name,
		SourceURL:                sourceURL,
		Dependencies:             parseDependencies(manifest["dependencies"]),
		Contributors:             contributors,
		Dist:                     extractDist(manifest),
	}, nil
}

// registryOrigin returns the origin the package installs from.
// publishConfig.registry is the only place a manifest can pin one;
// everything else publishes to the public registry. The raw value is kept
// for the record, so "http://npmjs.org/" still counts as a private registry
// even though it names the same host as the default.
func registryOrigin(doc Document) string {
	if reg := doc.object("publishConfig").str("registry"); reg != "" {
		return reg
	}
	return DefaultRegistry
}

// parseDependencies walks the raw bytes of a dependencies object and emits
// one Dependency per entry, preserving document order. Decoding into a map
// first would lose that order. An absent or non-object mapping yields an
// empty list; range values that are not strings coerce to "".
func parseDependencies(raw json.RawMessage) []Dependency {
	deps := []Dependency{}
	if len(raw) == 0 {
		return deps
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return deps
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return deps
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return deps
		}
		name, _ := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return deps
		}
		rng, _ := value.(string)
		deps = append(deps, Dependency{Name: name, SemverRange: rng})
	}
	return deps
}

// extractRepoURL derives the canonical source URL from a manifest's
// repository field. A string value is the URL itself; an object carries it
// under url. Anything else is a deliberate absence, except an object whose
// url is present but not a string, which fails the whole record.
func extractRepoURL(repo any) (string, error) {
	var raw any
	switch r := repo.(type) {
	case string:
		raw = r
	case map[string]any:
		raw = r["url"]
	default:
		return "", nil
	}

	switch u := raw.(type) {
	case nil:
		return "", nil
	case string:
		if u == "" {
			return "", nil
		}
		return normalizeRepoURL(u), nil
	default:
		return "", &MetadataError{Field: "repository", Reason: "url is not a string"}
	}
}

// githubHost matches everything up through a github.com host reference,
// covering ssh-style git@github.com:owner forms and every URL scheme.
var githubHost = regexp.MustCompile(`^.*github\.com[:/]`)

// normalizeRepoURL canonicalizes a repository URL: GitHub references
// collapse to http://github.com/{owner}/{repo}, a trailing .git suffix is
// stripped, and the result always ends with exactly one slash. Non-GitHub
// URLs keep their host and scheme but receive the same suffix treatment.
func normalizeRepoURL(u string) string {
	u = githubHost.ReplaceAllString(u, "http://github.com/")
	u = strings.TrimSuffix(u, ".git")
	return strings.TrimRight(u, "/") + "/"
}

func extractLicense(v any) string {
	switch l := v.(type) {
	case string:
		return l
	case map[string]any:
		if t, ok := l["type"].(string); ok {
			return t
		}
	case []any:
		var licenses []string
		for _, item := range l {
			switch li := item.(type) {
			case string:
				licenses = append(licenses, li)
			case map[string]any:
				if t, ok := li["type"].(string); ok {
					licenses = append(licenses, t)
				}
			}
		}
		return strings.Join(licenses, ",")
	}
	return ""
}

func extractKeywords(v any) []string {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	keywords := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok && s != "" {
			keywords = append(keywords, s)
		}
	}
	return keywords
}

// extractDist copies the resolved version's dist block. Older registry
// entries carry only a shasum; those get the equivalent sha1 integrity.
func extractDist(manifest Document) Dist {
	d := manifest.object("dist")
	dist := Dist{
		Tarball:   d.str("tarball"),
		Shasum:    d.str("shasum"),
		Integrity: d.str("integrity"),
	}
	if dist.Integrity == "" && dist.Shasum != "" {
		dist.Integrity = "sha1-" + dist.Shasum
	}
	return dist
}

// validLicense reports whether a license value parses as a valid SPDX
// expression. Multi-license values joined with "," never do; that is fine,
// the flag only vouches for values npm itself would accept.
func validLicense(license string) bool {
	if license == "" {
		return false
	}
	valid, _ := spdxexp.ValidateLicenses([]string{license})
	return valid
}
