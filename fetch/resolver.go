package fetch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/git-pkgs/packument"
	"github.com/git-pkgs/packument/client"
)

var ErrNoDownloadURL = errors.New("no download URL available")

// TarballInfo contains information about a downloadable tarball.
type TarballInfo struct {
	URL       string
	Filename  string
	Integrity string // sha1-... or sha512-...
}

// Resolver determines download URLs for package tarballs.
type Resolver struct {
	urls client.URLBuilder
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithURLBuilder sets a URL builder consulted when a record carries no
// tarball URL of its own. Mirrors use this to redirect downloads.
func WithURLBuilder(u client.URLBuilder) ResolverOption {
	return func(r *Resolver) {
		r.urls = u
	}
}

// NewResolver creates a new tarball URL resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the download URL and filename for a normalized package
// record. The record's own dist.tarball wins; otherwise the configured URL
// builder is consulted, and finally the conventional registry layout.
func (r *Resolver) Resolve(rec *packument.Package) (*TarballInfo, error) {
	if rec == nil || rec.Name == "" || rec.Version == "" {
		return nil, ErrNoDownloadURL
	}

	if rec.Dist.Tarball != "" {
		return &TarballInfo{
			URL:       rec.Dist.Tarball,
			Filename:  filenameFromURL(rec.Dist.Tarball),
			Integrity: rec.Dist.Integrity,
		}, nil
	}

	if r.urls != nil {
		if url := r.urls.Download(rec.Name, rec.Version); url != "" {
			return &TarballInfo{
				URL:      url,
				Filename: filenameFromURL(url),
			}, nil
		}
	}

	return conventionalURL(rec), nil
}

// conventionalURL builds the standard {registry}/{name}/-/{short}-{version}.tgz
// layout. Records pinned to a private registry download from that registry;
// everything else goes to the public npm host.
func conventionalURL(rec *packument.Package) *TarballInfo {
	base := packument.DefaultURL
	if !rec.UsesPublicRegistry && rec.Registry != "" {
		base = strings.TrimSuffix(rec.Registry, "/")
	}

	short := shortName(rec.Name)
	return &TarballInfo{
		URL:      fmt.Sprintf("%s/%s/-/%s-%s.tgz", base, rec.Name, short, rec.Version),
		Filename: fmt.Sprintf("%s-%s.tgz", short, rec.Version),
	}
}

// shortName strips the scope from a package name: @babel/core becomes core.
func shortName(name string) string {
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		return name[idx+1:]
	}
	return name
}

func filenameFromURL(url string) string {
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}
