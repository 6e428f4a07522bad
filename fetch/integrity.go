package fetch

import (
	"bytes"
	"context"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"
)

// ErrIntegrityMismatch reports a tarball whose bytes do not match the
// digest the registry published for it.
var ErrIntegrityMismatch = errors.New("integrity mismatch")

// IntegrityError carries the digest comparison that failed. Digests are
// reported in base64, the spelling npm uses in dist.integrity.
type IntegrityError struct {
	Algorithm string
	Expected  string
	Actual    string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("integrity mismatch: %s digest %s, want %s", e.Algorithm, e.Actual, e.Expected)
}

func (e *IntegrityError) Unwrap() error {
	return ErrIntegrityMismatch
}

// integrityAlgorithms ranks the digest algorithms npm publishes, strongest
// first. Verification uses the strongest one present in an integrity string.
var integrityAlgorithms = []struct {
	name string
	size int
	new  func() hash.Hash
}{
	{"sha512", sha512.Size, sha512.New},
	{"sha384", sha512.Size384, sha512.New384},
	{"sha256", sha256.Size, sha256.New},
	{"sha1", sha1.Size, sha1.New},
}

// sriDigest is the digest selected from an integrity string.
type sriDigest struct {
	algorithm string
	want      []byte
	newHash   func() hash.Hash
}

// parseIntegrity parses a Subresource Integrity string as npm publishes it
// in dist.integrity: space-separated "algorithm-digest" entries with base64
// digests. Records normalized from shasum-only dists carry "sha1-" plus a
// hex digest instead; both spellings are accepted. The strongest supported
// entry wins; entries without a recognizable algorithm are skipped, and an
// integrity string with no usable entry is an error.
func parseIntegrity(integrity string) (*sriDigest, error) {
	found := map[string]string{}
	for _, field := range strings.Fields(integrity) {
		alg, digest, ok := strings.Cut(field, "-")
		if !ok || digest == "" {
			continue
		}
		if _, dup := found[alg]; !dup {
			found[alg] = digest
		}
	}

	for _, alg := range integrityAlgorithms {
		digest, ok := found[alg.name]
		if !ok {
			continue
		}
		want, err := decodeDigest(alg.name, alg.size, digest)
		if err != nil {
			return nil, fmt.Errorf("parsing %s digest: %w", alg.name, err)
		}
		return &sriDigest{algorithm: alg.name, want: want, newHash: alg.new}, nil
	}
	return nil, fmt.Errorf("no supported digest in integrity %q", integrity)
}

// decodeDigest decodes one digest value. A 40-char sha1 value is tried as
// hex first: that is the shape a legacy shasum takes after normalization,
// and it would otherwise decode as base64 to the wrong length.
func decodeDigest(alg string, size int, digest string) ([]byte, error) {
	if alg == "sha1" && len(digest) == sha1.Size*2 {
		if d, err := hex.DecodeString(digest); err == nil {
			return d, nil
		}
	}
	d, err := base64.StdEncoding.DecodeString(digest)
	if err != nil {
		return nil, err
	}
	if len(d) != size {
		return nil, fmt.Errorf("digest is %d bytes, want %d", len(d), size)
	}
	return d, nil
}

// verifyingReader hashes a tarball body as the consumer drains it and
// rejects the read that hits EOF when the digest does not match, so
// streaming costs no second pass over the data.
type verifyingReader struct {
	body   io.ReadCloser
	hash   hash.Hash
	digest *sriDigest
}

func (r *verifyingReader) Read(p []byte) (int, error) {
	n, err := r.body.Read(p)
	if n > 0 {
		_, _ = r.hash.Write(p[:n])
	}
	if err == io.EOF {
		if got := r.hash.Sum(nil); !bytes.Equal(got, r.digest.want) {
			return n, &IntegrityError{
				Algorithm: r.digest.algorithm,
				Expected:  base64.StdEncoding.EncodeToString(r.digest.want),
				Actual:    base64.StdEncoding.EncodeToString(got),
			}
		}
	}
	return n, err
}

func (r *verifyingReader) Close() error {
	return r.body.Close()
}

// FetchWithIntegrity downloads a tarball and verifies its bytes against the
// integrity string the registry published for that version. The body still
// streams; the digest check happens as the consumer drains it, and the
// final read reports ErrIntegrityMismatch for a corrupted payload. An empty
// integrity string fetches without verification, and a malformed one fails
// before any request is made.
func (f *Fetcher) FetchWithIntegrity(ctx context.Context, url, integrity string) (*Tarball, error) {
	if integrity == "" {
		return f.Fetch(ctx, url)
	}

	digest, err := parseIntegrity(integrity)
	if err != nil {
		return nil, err
	}

	tarball, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	tarball.Body = &verifyingReader{body: tarball.Body, hash: digest.newHash(), digest: digest}
	return tarball, nil
}

// FetchResolved downloads the tarball a Resolver picked for a record,
// verified when the record carried a dist integrity or shasum.
func (f *Fetcher) FetchResolved(ctx context.Context, info *TarballInfo) (*Tarball, error) {
	if info == nil || info.URL == "" {
		return nil, ErrNoDownloadURL
	}
	return f.FetchWithIntegrity(ctx, info.URL, info.Integrity)
}
