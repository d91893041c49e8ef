// Package patch implements exact byte pattern search-and-replace over firmware images and documents.
package patch

import (
	"bytes"
	"errors"
	"fmt"
)

var (
	// ErrInvalidPatternLength is returned when an in-place patch would resize the buffer.
	ErrInvalidPatternLength = errors.New("patch: target and replacement lengths differ")
	// ErrEmptyPattern is returned for an operation with an empty target.
	ErrEmptyPattern = errors.New("patch: empty target pattern")
)

// State is the terminal state of a patch run.
type State uint8

const (
	NotApplicable State = iota
	AlreadyApplied
	Patched
)

func (s State) String() string {
	switch s {
	case Patched:
		return "patched"
	case AlreadyApplied:
		return "already patched"
	case NotApplicable:
		return "not applicable"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// Operation replaces every non-overlapping occurrence of Target with Replacement.
type Operation struct {
	Target      []byte
	Replacement []byte
}

func (o Operation) String() string {
	return fmt.Sprintf("%X -> %X", o.Target, o.Replacement)
}

// Rule groups operations that are applied together.
type Rule struct {
	Name string
	Ops  []Operation
}

// Patch is an ordered set of rules. The first rule with any match is applied
// and evaluation stops there. When no rule matches, Applied markers decide
// between AlreadyApplied and NotApplicable.
type Patch struct {
	Name    string
	Rules   []Rule
	Applied [][]byte
	// InPlace requires every target/replacement pair to be the same length.
	InPlace bool
}

// Result describes the outcome of Apply.
type Result struct {
	Changed     bool
	Occurrences int
	State       State
	Message     string
}

func (r Result) String() string {
	return r.Message
}

// Validate checks the patch operations without touching any buffer.
func (p *Patch) Validate() error {
	for _, rule := range p.Rules {
		for _, op := range rule.Ops {
			if len(op.Target) == 0 {
				return fmt.Errorf("%w: rule %q", ErrEmptyPattern, rule.Name)
			}
			if p.InPlace && len(op.Target) != len(op.Replacement) {
				return fmt.Errorf("%w: rule %q: %d != %d", ErrInvalidPatternLength, rule.Name, len(op.Target), len(op.Replacement))
			}
		}
	}
	return nil
}

// Apply runs the patch over buf. buf is never modified; the returned slice is
// a new buffer when Changed is true and buf itself otherwise.
func Apply(buf []byte, p *Patch) ([]byte, Result, error) {
	if err := p.Validate(); err != nil {
		return nil, Result{}, err
	}

	for _, rule := range p.Rules {
		out := buf
		total := 0
		for _, op := range rule.Ops {
			n := bytes.Count(out, op.Target)
			if n == 0 {
				continue
			}
			out = bytes.ReplaceAll(out, op.Target, op.Replacement)
			total += n
		}
		if total > 0 {
			return out, Result{
				Changed:     true,
				Occurrences: total,
				State:       Patched,
				Message:     fmt.Sprintf("%d instance(s) replaced", total),
			}, nil
		}
	}

	for _, marker := range p.Applied {
		if len(marker) > 0 && bytes.Contains(buf, marker) {
			return buf, Result{
				State:   AlreadyApplied,
				Message: fmt.Sprintf("%X found (already patched)", marker),
			}, nil
		}
	}

	return buf, Result{
		State:   NotApplicable,
		Message: "no patterns found",
	}, nil
}

// ApplyString is Apply for text documents.
func ApplyString(doc string, p *Patch) (string, Result, error) {
	out, res, err := Apply([]byte(doc), p)
	if err != nil {
		return doc, res, err
	}
	return string(out), res, nil
}

// Replace returns a single-rule patch of the given target/replacement pairs.
func Replace(name string, inPlace bool, pairs ...[2][]byte) *Patch {
	ops := make([]Operation, 0, len(pairs))
	for _, pair := range pairs {
		ops = append(ops, Operation{Target: pair[0], Replacement: pair[1]})
	}
	return &Patch{
		Name:    name,
		Rules:   []Rule{{Name: name, Ops: ops}},
		InPlace: inPlace,
	}
}
