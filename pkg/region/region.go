// Package region finds and swaps the padded region code token embedded in devinfo/persist images.
package region

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/blacktop/ltbox/pkg/patch"
	"gopkg.in/yaml.v3"
)

// CodeSize is the length of a region code.
const CodeSize = 2

var (
	// ErrInvalidCode indicates a code that is not exactly two ASCII letters or digits.
	ErrInvalidCode = errors.New("region: invalid code")

	pad    = []byte{0x00, 0x00, 0x00}
	suffix = []byte("XX")
)

//go:embed codes.yaml
var codesYAML []byte

// Normalize upper-cases and validates a region code.
func Normalize(code string) (string, error) {
	if len(code) != CodeSize {
		return "", fmt.Errorf("%w: %q must be %d characters", ErrInvalidCode, code, CodeSize)
	}
	code = strings.ToUpper(code)
	for i := 0; i < len(code); i++ {
		c := code[i]
		if (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
	}
	return code, nil
}

// Token returns the unpadded "<CODE>XX" token.
func Token(code string) ([]byte, error) {
	code, err := Normalize(code)
	if err != nil {
		return nil, err
	}
	return append([]byte(code), suffix...), nil
}

// Pattern returns the padded 00 00 00 <CODE> XX 00 00 00 token.
func Pattern(code string) ([]byte, error) {
	tok, err := Token(code)
	if err != nil {
		return nil, err
	}
	return slices.Concat(pad, tok, pad), nil
}

// Scan returns the first code (in the order given) whose padded token occurs in image.
// Invalid codes are ignored.
func Scan(image []byte, codes []string) (string, bool) {
	for _, code := range codes {
		pat, err := Pattern(code)
		if err != nil {
			continue
		}
		if bytes.Contains(image, pat) {
			return strings.ToUpper(code), true
		}
	}
	return "", false
}

// Contains reports whether the unpadded "<CODE>XX" token occurs in image.
func Contains(image []byte, code string) bool {
	tok, err := Token(code)
	if err != nil {
		return false
	}
	return bytes.Contains(image, tok)
}

// NewPatch builds the in-place patch that swaps current for replacement.
// When both codes are the same the patch only reports AlreadyApplied/NotApplicable.
func NewPatch(current, replacement string) (*patch.Patch, error) {
	target, err := Pattern(current)
	if err != nil {
		return nil, err
	}
	repl, err := Pattern(replacement)
	if err != nil {
		return nil, err
	}
	p := &patch.Patch{
		Name:    fmt.Sprintf("region %s->%s", strings.ToUpper(current), strings.ToUpper(replacement)),
		Applied: [][]byte{repl},
		InPlace: true,
	}
	if !bytes.Equal(target, repl) {
		p.Rules = []patch.Rule{{
			Name: p.Name,
			Ops:  []patch.Operation{{Target: target, Replacement: repl}},
		}}
	}
	return p, nil
}

// LoadCodes returns the built-in region code table.
func LoadCodes() (map[string]string, error) {
	codes := make(map[string]string)
	if err := yaml.Unmarshal(codesYAML, &codes); err != nil {
		return nil, fmt.Errorf("failed to parse region code table: %v", err)
	}
	return codes, nil
}

// SortedCodes returns the codes of a table in a stable scan order.
func SortedCodes(table map[string]string) []string {
	codes := make([]string, 0, len(table))
	for code := range table {
		codes = append(codes, strings.ToUpper(code))
	}
	slices.Sort(codes)
	return slices.Compact(codes)
}
