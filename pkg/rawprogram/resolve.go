package rawprogram

import (
	"errors"
	"fmt"
	"strings"
)

var labelFallbacks = map[string][]string{
	"boot": {"boot_a", "boot_b"},
}

// Resolver looks partitions up by label across an ordered list of documents.
type Resolver struct {
	// OnError is called once for every document that fails to parse; the scan continues.
	OnError func(*ParseError)
}

// Resolve finds label in docs using a Resolver that ignores parse errors.
func Resolve(label string, docs []Document) (*Partition, error) {
	var r Resolver
	return r.Resolve(label, docs)
}

// Resolve returns the first partition whose label matches (case-insensitively).
// Documents are scanned in order; "boot" falls back to "boot_a" then "boot_b".
func (r *Resolver) Resolve(label string, docs []Document) (*Partition, error) {
	if len(docs) == 0 {
		return nil, ErrNoSourceDocuments
	}

	var parts []Partition
	for _, doc := range docs {
		p, err := Parse(doc)
		if err != nil {
			var pe *ParseError
			if errors.As(err, &pe) && r.OnError != nil {
				r.OnError(pe)
			}
			continue
		}
		parts = append(parts, p...)
	}

	candidates := append([]string{label}, labelFallbacks[strings.ToLower(label)]...)
	for _, candidate := range candidates {
		for _, p := range parts {
			if strings.EqualFold(p.Label, candidate) {
				return &p, nil
			}
		}
	}

	return nil, fmt.Errorf("%w: %q", ErrPartitionNotFound, label)
}
