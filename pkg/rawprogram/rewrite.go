package rawprogram

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/blacktop/ltbox/pkg/patch"
)

// Mode selects whether user data entries stay in the flashing list.
type Mode int

const (
	NoWipe Mode = iota
	Wipe
)

func (m Mode) String() string {
	if m == Wipe {
		return "wipe"
	}
	return "no-wipe"
}

// NoWipeTokens are the image names stripped in NoWipe mode.
func NoWipeTokens() []string {
	var tokens []string
	for i := 1; i <= 10; i++ {
		tokens = append(tokens, fmt.Sprintf("metadata_%d.img", i))
	}
	for i := 1; i <= 20; i++ {
		tokens = append(tokens, fmt.Sprintf("userdata_%d.img", i))
	}
	return tokens
}

// StripEntries removes every literal filename="<token>" assignment from doc.
func StripEntries(doc []byte, tokens []string) ([]byte, patch.Result, error) {
	rule := patch.Rule{Name: "strip"}
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		rule.Ops = append(rule.Ops, patch.Operation{
			Target: []byte(`filename="` + tok + `"`),
		})
	}
	return patch.Apply(doc, &patch.Patch{Name: "strip", Rules: []patch.Rule{rule}})
}

// ApplyWipeMode strips user data entries in NoWipe mode and returns doc untouched in Wipe mode.
func ApplyWipeMode(doc []byte, mode Mode) ([]byte, patch.Result, error) {
	if mode == Wipe {
		return doc, patch.Result{State: patch.NotApplicable, Message: "wipe mode; entries kept"}, nil
	}
	return StripEntries(doc, NoWipeTokens())
}

// RetargetFilename sets the filename attribute of every <program> element labelled label.
// Attribute order inside the element does not matter.
func RetargetFilename(doc []byte, label, filename string) ([]byte, int) {
	var out bytes.Buffer
	out.Grow(len(doc))

	last := 0
	count := 0
	for _, tag := range scanTags(doc) {
		if tag.name != programElement {
			continue
		}
		lbl, ok := tag.attr("label")
		if !ok || !strings.EqualFold(string(doc[lbl.valStart:lbl.valEnd]), label) {
			continue
		}
		edited := false
		for _, a := range tag.attrs {
			if a.name != "filename" {
				continue
			}
			out.Write(doc[last:a.valStart])
			out.WriteString(escapeAttr(filename, doc[a.valStart-1]))
			last = a.valEnd
			edited = true
		}
		if edited {
			count++
		}
	}
	out.Write(doc[last:])

	return out.Bytes(), count
}

func escapeAttr(s string, quote byte) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	if quote == '\'' {
		return strings.ReplaceAll(s, "'", "&apos;")
	}
	return strings.ReplaceAll(s, `"`, "&quot;")
}
