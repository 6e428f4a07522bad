package core

// aggregateContributors merges author, contributors, and maintainers from
// the resolved manifest into one list deduplicated by name. The author
// seeds the list, so on a name collision the author entry wins; after that
// first occurrence wins and first-seen order is preserved.
func aggregateContributors(manifest Document) ([]Contributor, error) {
	var merged []Contributor

	if author := manifest.value("author"); author != nil {
		c, err := normalizePerson("author", author)
		if err != nil {
			return nil, err
		}
		merged = append(merged, c)
	}

	for _, field := range []string{"contributors", "maintainers"} {
		entries, ok := manifest.value(field).([]any)
		if !ok {
			continue
		}
		for _, entry := range entries {
			c, err := normalizePerson(field, entry)
			if err != nil {
				return nil, err
			}
			merged = append(merged, c)
		}
	}

	seen := make(map[string]bool, len(merged))
	contributors := make([]Contributor, 0, len(merged))
	for _, c := range merged {
		if seen[c.Name] {
			continue
		}
		seen[c.Name] = true
		contributors = append(contributors, c)
	}
	return contributors, nil
}

// normalizePerson coerces one author, contributor, or maintainer entry: a
// plain name string, or an object carrying name and email fields. Mis-typed
// name or email values inside an object coerce to empty strings, the same
// leniency mis-typed scalar document fields get. Entries of any other shape
// fail the whole record.
func normalizePerson(field string, entry any) (Contributor, error) {
	switch p := entry.(type) {
	case string:
		return Contributor{Name: p}, nil
	case map[string]any:
		var c Contributor
		if name, ok := p["name"].(string); ok {
			c.Name = name
		}
		if email, ok := p["email"].(string); ok {
			c.Email = email
		}
		return c, nil
	default:
		return Contributor{}, &MetadataError{Field: field, Reason: "entry is neither a string nor an object"}
	}
}
