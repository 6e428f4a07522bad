package core

// ResolveLatest selects the manifest of record and the effective version
// from a document.
//
// A document carrying dist-tags is a registry document: the effective
// version is dist-tags.latest and the manifest is the matching entry of
// versions. When dist-tags lacks latest, or versions lacks the entry, the
// manifest degrades to an empty Document so downstream derivations see
// absent fields instead of failing. There is deliberately no fallback from
// a present dist-tags to the document's own version field.
//
// Any other document is a flat manifest describing exactly one version, and
// is its own manifest of record.
//
// The returned pair is computed once and reused for every later derivation,
// so dependencies, sourceUrl, and contributors always come from the same
// manifest as version, never a mismatched pair.
func ResolveLatest(doc Document) (Document, string) {
	tags := doc.stringMap("dist-tags")
	if tags == nil {
		return doc, doc.str("version")
	}

	version := tags["latest"]
	manifest := doc.object("versions").object(version)
	if manifest == nil {
		manifest = Document{}
	}
	return manifest, version
}
