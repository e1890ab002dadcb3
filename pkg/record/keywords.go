package record

import "fmt"

// keywordSetRef identifies a thesaurus by type, title and edition.
func keywordSetRef(k KeywordSet) string {
	return fmt.Sprintf("%s/%s/%s", k.Type, k.Thesaurus.Title.Value, k.Thesaurus.Edition)
}

// UniqueKeywords merges keyword sets drawn from the same thesaurus and drops repeated
// terms. Sets keep the order they are first seen in, terms the order they are first added.
func UniqueKeywords(sets []KeywordSet) []KeywordSet {
	var order []string
	merged := map[string]*KeywordSet{}

	for _, k := range sets {
		ref := keywordSetRef(k)
		existing, ok := merged[ref]
		if !ok {
			copied := k
			copied.Terms = nil
			existing = &copied
			merged[ref] = existing
			order = append(order, ref)
		}
		existing.Terms = dedupe(append(existing.Terms, k.Terms...))
	}

	out := make([]KeywordSet, 0, len(order))
	for _, ref := range order {
		out = append(out, *merged[ref])
	}
	return out
}

// UniqueTopics removes repeated ISO topic categories, keeping first occurrences.
func UniqueTopics(topics []string) []string {
	return dedupe(topics)
}

// dedupe keeps the first occurrence of each value.
func dedupe[T comparable](items []T) []T {
	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, v := range items {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
