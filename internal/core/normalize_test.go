package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
)

func TestNormalizeFlatManifest(t *testing.T) {
	pkg, err := Normalize([]byte(`{
		"name": "left-pad",
		"version": "1.3.0",
		"description": "String left pad",
		"license": "WTFPL",
		"keywords": ["leftpad", "left", "pad"],
		"repository": {"type": "git", "url": "git+https://github.com/stevemao/left-pad.git"},
		"author": "azer",
		"dependencies": {"wcwidth": "^1.0.0"}
	}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if pkg.Name != "left-pad" {
		t.Errorf("expected name 'left-pad', got %q", pkg.Name)
	}
	if pkg.Version != "1.3.0" {
		t.Errorf("expected version '1.3.0', got %q", pkg.Version)
	}
	if pkg.Description != "String left pad" {
		t.Errorf("unexpected description: %q", pkg.Description)
	}
	if pkg.License != "WTFPL" {
		t.Errorf("expected license 'WTFPL', got %q", pkg.License)
	}
	if len(pkg.Keywords) != 3 || pkg.Keywords[0] != "leftpad" {
		t.Errorf("unexpected keywords: %v", pkg.Keywords)
	}
	if pkg.SourceURL != "http://github.com/stevemao/left-pad/" {
		t.Errorf("unexpected sourceUrl: %q", pkg.SourceURL)
	}
	if len(pkg.Dependencies) != 1 || pkg.Dependencies[0].Name != "wcwidth" || pkg.Dependencies[0].SemverRange != "^1.0.0" {
		t.Errorf("unexpected dependencies: %v", pkg.Dependencies)
	}
	if len(pkg.Contributors) != 1 || pkg.Contributors[0].Name != "azer" {
		t.Errorf("unexpected contributors: %v", pkg.Contributors)
	}
}

func TestNormalizeRegistryDocument(t *testing.T) {
	pkg, err := Normalize([]byte(`{
		"_id": "express",
		"name": "express",
		"description": "Fast, unopinionated, minimalist web framework",
		"license": "MIT",
		"dist-tags": {"latest": "4.19.0"},
		"time": {"created": "2010-12-29T19:38:25.450Z", "modified": "2024-03-25T15:42:15.553Z"},
		"versions": {
			"4.18.0": {
				"version": "4.18.0",
				"dependencies": {"accepts": "~1.3.7"},
				"author": {"name": "Old Author"}
			},
			"4.19.0": {
				"version": "4.19.0",
				"repository": "git://github.com/expressjs/express",
				"dependencies": {"accepts": "~1.3.8", "body-parser": "1.20.2"},
				"author": {"name": "TJ Holowaychuk", "email": "tj@vision-media.ca"},
				"maintainers": [{"name": "dougwilson", "email": "doug@somethingdoug.com"}],
				"dist": {
					"tarball": "https://registry.npmjs.org/express/-/express-4.19.0.tgz",
					"integrity": "sha512-abc123"
				}
			}
		}
	}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if pkg.Name != "express" {
		t.Errorf("expected name 'express', got %q", pkg.Name)
	}
	if pkg.Version != "4.19.0" {
		t.Errorf("expected version '4.19.0', got %q", pkg.Version)
	}
	if pkg.LatestVersionPublishedAt != "2024-03-25T15:42:15.553Z" {
		t.Errorf("expected time.modified verbatim, got %q", pkg.LatestVersionPublishedAt)
	}
	if pkg.SourceURL != "http://github.com/expressjs/express/" {
		t.Errorf("unexpected sourceUrl: %q", pkg.SourceURL)
	}

	// Everything version-scoped must come from versions["4.19.0"], not 4.18.0.
	if len(pkg.Dependencies) != 2 {
		t.Fatalf("expected 2 dependencies, got %d", len(pkg.Dependencies))
	}
	if pkg.Dependencies[0].Name != "accepts" || pkg.Dependencies[0].SemverRange != "~1.3.8" {
		t.Errorf("unexpected first dependency: %+v", pkg.Dependencies[0])
	}
	if len(pkg.Contributors) != 2 {
		t.Fatalf("expected 2 contributors, got %d", len(pkg.Contributors))
	}
	if pkg.Contributors[0].Name != "TJ Holowaychuk" || pkg.Contributors[0].Email != "tj@vision-media.ca" {
		t.Errorf("unexpected author entry: %+v", pkg.Contributors[0])
	}
	if pkg.Contributors[1].Name != "dougwilson" {
		t.Errorf("unexpected maintainer entry: %+v", pkg.Contributors[1])
	}
	if pkg.Dist.Tarball != "https://registry.npmjs.org/express/-/express-4.19.0.tgz" {
		t.Errorf("unexpected dist tarball: %q", pkg.Dist.Tarball)
	}
	if pkg.Dist.Integrity != "sha512-abc123" {
		t.Errorf("unexpected dist integrity: %q", pkg.Dist.Integrity)
	}
}

func TestNormalizeNameFromID(t *testing.T) {
	pkg, err := Normalize([]byte(`{"_id": "@babel/core", "name": "core", "version": "7.24.0"}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	if pkg.Name != "@babel/core" {
		t.Errorf("expected _id to win, got %q", pkg.Name)
	}
}

func TestNormalizeRegistryDefault(t *testing.T) {
	pkg, err := Normalize([]byte(`{"name": "lodash", "version": "4.17.21"}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if pkg.Registry != "http://npmjs.org" {
		t.Errorf("expected default registry, got %q", pkg.Registry)
	}
	if !pkg.UsesPublicRegistry {
		t.Error("expected usesPublicRegistry to be true")
	}
	if pkg.NpmURL != "http://npmjs.org/package/lodash" {
		t.Errorf("unexpected npmUrl: %q", pkg.NpmURL)
	}
}

func TestNormalizeTrailingSlashStrictness(t *testing.T) {
	// The same host with a trailing slash is deliberately not the default.
	pkg, err := Normalize([]byte(`{
		"name": "lodash",
		"version": "4.17.21",
		"publishConfig": {"registry": "http://npmjs.org/"}
	}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if pkg.Registry != "http://npmjs.org/" {
		t.Errorf("expected raw registry value, got %q", pkg.Registry)
	}
	if pkg.UsesPublicRegistry {
		t.Error("expected usesPublicRegistry to be false for trailing-slash variant")
	}
	if pkg.NpmURL != "http://npmjs.org/package/lodash" {
		t.Errorf("expected slash-stripped npmUrl, got %q", pkg.NpmURL)
	}
}

func TestNormalizePrivateRegistry(t *testing.T) {
	pkg, err := Normalize([]byte(`{
		"name": "@corp/secrets",
		"version": "0.1.0",
		"private": true,
		"publishConfig": {"registry": "https://npm.corp.example/"}
	}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if !pkg.Private {
		t.Error("expected private to be true")
	}
	if pkg.UsesPublicRegistry {
		t.Error("expected usesPublicRegistry to be false")
	}
	// Scoped names pass through verbatim, no URL-encoding.
	if pkg.NpmURL != "https://npm.corp.example/package/@corp/secrets" {
		t.Errorf("unexpected npmUrl: %q", pkg.NpmURL)
	}
	if pkg.PublishConfig["registry"] != "https://npm.corp.example/" {
		t.Errorf("expected publishConfig copied, got %v", pkg.PublishConfig)
	}
}

func TestExtractRepoURL(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"ssh style", `{"repository": "git@github.com:owner/repo.git"}`, "http://github.com/owner/repo/"},
		{"git scheme", `{"repository": "git://github.com/owner/repo"}`, "http://github.com/owner/repo/"},
		{"https with .git", `{"repository": "https://github.com/owner/repo.git"}`, "http://github.com/owner/repo/"},
		{"git+https", `{"repository": "git+https://github.com/owner/repo.git"}`, "http://github.com/owner/repo/"},
		{"trailing slashes", `{"repository": "https://github.com/owner/repo//"}`, "http://github.com/owner/repo/"},
		{"object form", `{"repository": {"type": "git", "url": "git@github.com:owner/repo.git"}}`, "http://github.com/owner/repo/"},
		{"non-github", `{"repository": "https://gitlab.com/owner/repo.git"}`, "https://gitlab.com/owner/repo/"},
		{"absent", `{}`, ""},
		{"null", `{"repository": null}`, ""},
		{"number", `{"repository": 42}`, ""},
		{"array", `{"repository": ["https://github.com/owner/repo"]}`, ""},
		{"object without url", `{"repository": {"type": "git"}}`, ""},
		{"object with null url", `{"repository": {"url": null}}`, ""},
		{"object with empty url", `{"repository": {"url": ""}}`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.doc)
			got, err := extractRepoURL(doc.value("repository"))
			if err != nil {
				t.Fatalf("extractRepoURL failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestExtractRepoURLMalformed(t *testing.T) {
	_, err := Normalize([]byte(`{
		"name": "broken",
		"version": "1.0.0",
		"repository": {"url": 42}
	}`))
	if !errors.Is(err, ErrInvalidMetadata) {
		t.Errorf("expected ErrInvalidMetadata, got %v", err)
	}

	var metaErr *MetadataError
	if !errors.As(err, &metaErr) {
		t.Fatalf("expected *MetadataError, got %T", err)
	}
	if metaErr.Field != "repository" {
		t.Errorf("expected field 'repository', got %q", metaErr.Field)
	}
}

func TestDependenciesPreserveOrder(t *testing.T) {
	// Not alphabetical on purpose: the order is the document's, not a sort.
	pkg, err := Normalize([]byte(`{
		"name": "ordered",
		"version": "1.0.0",
		"dependencies": {"zeta": "^1.0.0", "alpha": "~2.0.0", "mid": "3.x"}
	}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	want := []Dependency{
		{Name: "zeta", SemverRange: "^1.0.0"},
		{Name: "alpha", SemverRange: "~2.0.0"},
		{Name: "mid", SemverRange: "3.x"},
	}
	if len(pkg.Dependencies) != len(want) {
		t.Fatalf("expected %d dependencies, got %d", len(want), len(pkg.Dependencies))
	}
	for i, dep := range want {
		if pkg.Dependencies[i] != dep {
			t.Errorf("dependency %d: expected %+v, got %+v", i, dep, pkg.Dependencies[i])
		}
	}
}

func TestDependenciesAbsent(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing", `{"name": "bare", "version": "1.0.0"}`},
		{"null", `{"name": "bare", "version": "1.0.0", "dependencies": null}`},
		{"not an object", `{"name": "bare", "version": "1.0.0", "dependencies": ["wat"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg, err := Normalize([]byte(tt.doc))
			if err != nil {
				t.Fatalf("Normalize failed: %v", err)
			}
			if pkg.Dependencies == nil {
				t.Fatal("expected non-nil dependencies")
			}
			if len(pkg.Dependencies) != 0 {
				t.Errorf("expected empty dependencies, got %v", pkg.Dependencies)
			}
		})
	}
}

func TestExtractLicenseShapes(t *testing.T) {
	tests := []struct {
		name      string
		doc       string
		want      string
		wantValid bool
	}{
		{"string", `{"license": "MIT"}`, "MIT", true},
		{"expression", `{"license": "(MIT OR Apache-2.0)"}`, "(MIT OR Apache-2.0)", true},
		{"legacy object", `{"license": {"type": "ISC", "url": "https://opensource.org/licenses/ISC"}}`, "ISC", true},
		{"legacy array", `{"license": [{"type": "MIT"}, "ISC"]}`, "MIT,ISC", false},
		{"unknown identifier", `{"license": "SEE LICENSE IN LICENSE.txt"}`, "SEE LICENSE IN LICENSE.txt", false},
		{"absent", `{}`, "", false},
		{"number", `{"license": 7}`, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := mustParse(t, tt.doc)
			got := extractLicense(doc.value("license"))
			if got != tt.want {
				t.Errorf("expected license %q, got %q", tt.want, got)
			}
			if valid := validLicense(got); valid != tt.wantValid {
				t.Errorf("expected valid=%v for %q, got %v", tt.wantValid, got, valid)
			}
		})
	}
}

func TestExtractDist(t *testing.T) {
	pkg, err := Normalize([]byte(`{
		"dist-tags": {"latest": "1.0.0"},
		"versions": {
			"1.0.0": {
				"version": "1.0.0",
				"dist": {"tarball": "https://registry.npmjs.org/a/-/a-1.0.0.tgz", "shasum": "deadbeef"}
			}
		}
	}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if pkg.Dist.Shasum != "deadbeef" {
		t.Errorf("unexpected shasum: %q", pkg.Dist.Shasum)
	}
	if pkg.Dist.Integrity != "sha1-deadbeef" {
		t.Errorf("expected sha1 fallback integrity, got %q", pkg.Dist.Integrity)
	}
}

func TestNormalizeUnresolvableVersion(t *testing.T) {
	// versions lacks the latest entry: version-scoped fields degrade to
	// empty, top-level fields still populate, and nothing errors.
	pkg, err := Normalize([]byte(`{
		"_id": "ghost",
		"description": "spooky",
		"dist-tags": {"latest": "2.0.0"},
		"versions": {"1.0.0": {"version": "1.0.0", "dependencies": {"a": "1"}}}
	}`))
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}

	if pkg.Name != "ghost" || pkg.Description != "spooky" {
		t.Errorf("expected top-level fields populated, got %+v", pkg)
	}
	if pkg.Version != "2.0.0" {
		t.Errorf("expected version '2.0.0', got %q", pkg.Version)
	}
	if len(pkg.Dependencies) != 0 {
		t.Errorf("expected empty dependencies, got %v", pkg.Dependencies)
	}
	if len(pkg.Contributors) != 0 {
		t.Errorf("expected empty contributors, got %v", pkg.Contributors)
	}
	if pkg.SourceURL != "" {
		t.Errorf("expected empty sourceUrl, got %q", pkg.SourceURL)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	input := []byte(`{
		"_id": "express",
		"license": "MIT",
		"publishConfig": {"registry": "https://npm.corp.example", "access": "restricted"},
		"dist-tags": {"latest": "4.19.0"},
		"time": {"modified": "2024-03-25T15:42:15.553Z"},
		"versions": {
			"4.19.0": {
				"version": "4.19.0",
				"repository": "git@github.com:expressjs/express.git",
				"dependencies": {"accepts": "~1.3.8", "body-parser": "1.20.2"},
				"author": "TJ Holowaychuk",
				"contributors": [{"name": "dougwilson"}]
			}
		}
	}`)

	first, err := Normalize(input)
	if err != nil {
		t.Fatalf("Normalize failed: %v", err)
	}
	second, err := Normalize(input)
	if err != nil {
		t.Fatalf("Normalize failed on second run: %v", err)
	}

	a, err := json.Marshal(first)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	b, err := json.Marshal(second)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Errorf("records differ between runs:\n%s\n%s", a, b)
	}
}
