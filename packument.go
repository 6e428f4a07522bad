// Package packument normalizes npm package documents into canonical
// package records.
//
// A document is either a plain package manifest (the package.json shape) or
// a full registry document with dist-tags and a versions table. Normalize
// accepts both and derives one flat record: resolved version, canonical
// repository URL, merged contributor list, registry origin, and the rest.
//
// Basic usage:
//
//	import "github.com/git-pkgs/packument"
//
//	rec, err := packument.Normalize(data)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(rec.Name, rec.Version, rec.SourceURL)
//
// Records can also be fetched straight from a registry:
//
//	reg := packument.New("", nil)
//	rec, err := reg.FetchRecord(context.Background(), "express")
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Println(rec.NpmURL)
package packument

import (
	"github.com/git-pkgs/purl"

	"github.com/git-pkgs/packument/client"
	"github.com/git-pkgs/packument/internal/core"
)

// Re-export types from internal/core
type (
	// Package is the canonical record derived from a package document.
	Package = core.Package

	// Document is a parsed package document, manifest or registry shaped.
	Document = core.Document

	// Dependency is one entry of a manifest's dependencies mapping.
	Dependency = core.Dependency

	// Contributor is a normalized author, contributor, or maintainer.
	Contributor = core.Contributor

	// Dist describes the tarball of a resolved version.
	Dist = core.Dist
)

// Re-export types from client
type (
	// Client is an HTTP client with retry logic for registry APIs.
	Client = client.Client

	// URLBuilder constructs URLs for a registry.
	URLBuilder = client.URLBuilder

	// RateLimiter controls request pacing.
	RateLimiter = client.RateLimiter
)

// DefaultRegistry is the registry origin assumed when a manifest does not
// pin one through publishConfig.
const DefaultRegistry = core.DefaultRegistry

// Re-export errors
var (
	// ErrInvalidFormat marks input that does not parse as a package document.
	ErrInvalidFormat = core.ErrInvalidFormat

	// ErrInvalidMetadata marks a document whose shape defeats normalization.
	ErrInvalidMetadata = core.ErrInvalidMetadata

	// ErrNotFound marks a package the registry does not know.
	ErrNotFound = client.ErrNotFound
)

// Error types
type (
	FormatError    = core.FormatError
	MetadataError  = core.MetadataError
	HTTPError      = client.HTTPError
	NotFoundError  = client.NotFoundError
	RateLimitError = client.RateLimitError
)

// Normalize parses a package document and derives its canonical record.
// The input may be a plain manifest or a full registry document.
func Normalize(data []byte) (*Package, error) {
	return core.Normalize(data)
}

// ParseDocument parses raw bytes into a Document without deriving anything.
func ParseDocument(data []byte) (Document, error) {
	return core.ParseDocument(data)
}

// NormalizeDocument derives the canonical record from an already parsed
// document.
func NormalizeDocument(doc Document) (*Package, error) {
	return core.NormalizeDocument(doc)
}

// ResolveLatest returns the manifest and version a document's record is
// derived from: the document itself for a plain manifest, or the entry
// dist-tags.latest points at for a registry document.
func ResolveLatest(doc Document) (Document, string) {
	return core.ResolveLatest(doc)
}

// DefaultClient returns a client with sensible defaults:
// - 30s timeout
// - 5 retries with exponential backoff
// - Retry on 429 and 5xx responses
func DefaultClient() *Client {
	return client.DefaultClient()
}

// NewClient creates a new client with the given options.
func NewClient(opts ...Option) *Client {
	return client.NewClient(opts...)
}

// Option configures a Client.
type Option = client.Option

// WithTimeout sets the HTTP client timeout.
var WithTimeout = client.WithTimeout

// WithMaxRetries sets the maximum number of retries.
var WithMaxRetries = client.WithMaxRetries

// BuildURLs returns a map of all non-empty URLs for a package.
// Keys are "registry", "download", "docs", and "purl".
func BuildURLs(urls URLBuilder, name, version string) map[string]string {
	return client.BuildURLs(urls, name, version)
}

// PURL represents a parsed Package URL.
type PURL = purl.PURL

// ParsePURL parses a Package URL string into its components.
// Supports both package PURLs (pkg:npm/lodash) and version PURLs
// (pkg:npm/lodash@4.17.21).
func ParsePURL(purlStr string) (*PURL, error) {
	return purl.Parse(purlStr)
}
