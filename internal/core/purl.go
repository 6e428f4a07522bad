package core

import (
	"fmt"

	packageurl "github.com/package-url/packageurl-go"
)

// PURL wraps packageurl.PackageURL with npm-specific helpers.
type PURL struct {
	packageurl.PackageURL
}

// FullName returns the registry-facing package name. packageurl-go keeps
// the @ in the namespace, so "@babel" + "/" + "core" = "@babel/core".
func (p PURL) FullName() string {
	if p.Namespace == "" {
		return p.Name
	}
	return p.Namespace + "/" + p.Name
}

// RegistryBase returns the repository_url qualifier when the PURL pins a
// private registry, or "" for the public default.
func (p PURL) RegistryBase() string {
	return p.Qualifiers.Map()["repository_url"]
}

// ParsePURL parses a Package URL string into its components. Only npm PURLs
// are accepted; every other type belongs to some other registry.
func ParsePURL(purl string) (*PURL, error) {
	p, err := packageurl.FromString(purl)
	if err != nil {
		return nil, err
	}
	if p.Type != "npm" {
		return nil, fmt.Errorf("unsupported purl type %q in %s", p.Type, purl)
	}
	return &PURL{p}, nil
}
