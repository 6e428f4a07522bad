// Package core normalizes npm package documents into canonical records.
package core

// Package is the canonical record derived from an npm document. The same
// record shape is produced whether the input was a plain package manifest or
// a full registry document.
type Package struct {
	Name                     string         `json:"name"`
	Description              string         `json:"description,omitempty"`
	Keywords                 []string       `json:"keywords,omitempty"`
	License                  string         `json:"license,omitempty"`
	LicenseValid             bool           `json:"licenseValid"`
	Private                  bool           `json:"private"`
	PublishConfig            map[string]any `json:"publishConfig,omitempty"`
	Version                  string         `json:"version,omitempty"`
	LatestVersionPublishedAt string         `json:"latestVersionPublishedAt,omitempty"`
	Registry                 string         `json:"registry"`
	UsesPublicRegistry       bool           `json:"usesPublicRegistry"`
	NpmURL                   string         `json:"npmUrl"`
	SourceURL                string         `json:"sourceUrl,omitempty"`
	Dependencies             []Dependency   `json:"dependencies"`
	Contributors             []Contributor  `json:"contributors"`
	Dist                     Dist           `json:"dist,omitzero"`
}

// Dependency is one entry of a manifest's dependencies mapping.
type Dependency struct {
	Name        string `json:"name"`
	SemverRange string `json:"semverRange"`
}

// Contributor is a person merged from author, contributors, or maintainers.
type Contributor struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// Dist describes the published tarball of the resolved version.
type Dist struct {
	Tarball   string `json:"tarball,omitempty"`
	Shasum    string `json:"shasum,omitempty"`
	Integrity string `json:"integrity,omitempty"` // sha1-..., sha512-...
}
