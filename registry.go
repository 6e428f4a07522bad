package packument

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/git-pkgs/packument/client"
	"github.com/git-pkgs/packument/internal/core"
)

// DefaultURL is the public npm registry API endpoint.
const DefaultURL = "https://registry.npmjs.org"

const defaultConcurrency = 15

// Registry fetches package documents from an npm registry API.
type Registry struct {
	baseURL string
	client  *client.Client
	urls    *client.URLs
}

// New creates a registry client for the given base URL.
// If baseURL is empty, the public npm registry is used.
// If c is nil, DefaultClient() is used.
func New(baseURL string, c *client.Client) *Registry {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if c == nil {
		c = client.DefaultClient()
	}
	r := &Registry{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  c,
	}
	r.urls = client.NewURLs(r.baseURL)
	return r
}

// BaseURL returns the registry API endpoint this client talks to.
func (r *Registry) BaseURL() string {
	return r.baseURL
}

// URLs returns the URL builder for this registry.
func (r *Registry) URLs() client.URLBuilder {
	return r.urls
}

// FetchDocument retrieves the raw registry document for a package.
// Scoped names are escaped the way the registry expects: @babel/core
// becomes @babel%2Fcore.
func (r *Registry) FetchDocument(ctx context.Context, name string) ([]byte, error) {
	docURL := fmt.Sprintf("%s/%s", r.baseURL, url.PathEscape(name))

	body, err := r.client.GetBody(ctx, docURL)
	if err != nil {
		if httpErr, ok := err.(*client.HTTPError); ok && httpErr.IsNotFound() {
			return nil, &client.NotFoundError{Name: name}
		}
		return nil, err
	}
	return body, nil
}

// FetchRecord retrieves a package's registry document and normalizes it
// into the canonical record.
func (r *Registry) FetchRecord(ctx context.Context, name string) (*Package, error) {
	body, err := r.FetchDocument(ctx, name)
	if err != nil {
		return nil, err
	}
	return core.Normalize(body)
}

// NewFromPURL creates a registry client from a PURL and returns the parsed
// components. A repository_url qualifier selects the registry; otherwise
// the public registry is used. Returns the registry, full package name,
// and version (empty if not in the PURL).
func NewFromPURL(purlStr string, c *client.Client) (*Registry, string, string, error) {
	p, err := core.ParsePURL(purlStr)
	if err != nil {
		return nil, "", "", err
	}
	return New(p.RegistryBase(), c), p.FullName(), p.Version, nil
}

// FetchRecordFromPURL fetches and normalizes a package record using a PURL.
func FetchRecordFromPURL(ctx context.Context, purlStr string, c *client.Client) (*Package, error) {
	reg, name, _, err := NewFromPURL(purlStr, c)
	if err != nil {
		return nil, err
	}
	return reg.FetchRecord(ctx, name)
}

// BulkFetchRecords fetches records for multiple PURLs in parallel.
// Individual fetch errors are silently ignored - those PURLs are omitted
// from results. Returns a map of PURL to Package.
func BulkFetchRecords(ctx context.Context, purls []string, c *client.Client) map[string]*Package {
	return BulkFetchRecordsWithConcurrency(ctx, purls, c, defaultConcurrency)
}

// BulkFetchRecordsWithConcurrency fetches records with a custom concurrency limit.
func BulkFetchRecordsWithConcurrency(ctx context.Context, purls []string, c *client.Client, concurrency int) map[string]*Package {
	results := make(map[string]*Package)
	var mu sync.Mutex
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for _, purl := range purls {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			rec, err := FetchRecordFromPURL(ctx, p, c)
			if err == nil && rec != nil {
				mu.Lock()
				results[p] = rec
				mu.Unlock()
			}
		}(purl)
	}

	wg.Wait()
	return results
}
