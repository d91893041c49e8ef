package rawprogram

import "bytes"

type attr struct {
	name     string
	valStart int // offset of the first byte of the value, after the opening quote
	valEnd   int // offset of the closing quote
}

type tag struct {
	name  string
	attrs []attr
}

func (t tag) attr(name string) (attr, bool) {
	for _, a := range t.attrs {
		if a.name == name {
			return a, true
		}
	}
	return attr{}, false
}

var skipSections = []struct{ open, close string }{
	{"<!--", "-->"},
	{"<![CDATA[", "]]>"},
	{"<?", "?>"},
	{"<!", ">"},
}

// scanTags returns the start (and self-closing) tags of doc with attribute value offsets.
// Comments, CDATA, processing instructions and declarations are skipped.
func scanTags(doc []byte) []tag {
	var tags []tag
	i := 0
outer:
	for i < len(doc) {
		lt := bytes.IndexByte(doc[i:], '<')
		if lt < 0 {
			break
		}
		i += lt
		for _, s := range skipSections {
			if bytes.HasPrefix(doc[i:], []byte(s.open)) {
				end := bytes.Index(doc[i+len(s.open):], []byte(s.close))
				if end < 0 {
					break outer
				}
				i += len(s.open) + end + len(s.close)
				continue outer
			}
		}
		t, next, ok := parseTag(doc, i)
		if !ok {
			i++
			continue
		}
		tags = append(tags, t)
		i = next
	}
	return tags
}

// parseTag parses the tag starting at doc[start] == '<' and returns the offset after '>'.
func parseTag(doc []byte, start int) (tag, int, bool) {
	i := start + 1
	if i < len(doc) && doc[i] == '/' {
		end := bytes.IndexByte(doc[i:], '>')
		if end < 0 {
			return tag{}, 0, false
		}
		return tag{}, i + end + 1, false
	}

	nameStart := i
	for i < len(doc) && !isSpace(doc[i]) && doc[i] != '>' && doc[i] != '/' {
		i++
	}
	if i == nameStart {
		return tag{}, 0, false
	}
	t := tag{name: string(doc[nameStart:i])}

	for {
		for i < len(doc) && isSpace(doc[i]) {
			i++
		}
		if i >= len(doc) {
			return tag{}, 0, false
		}
		switch doc[i] {
		case '>':
			return t, i + 1, true
		case '/':
			if i+1 < len(doc) && doc[i+1] == '>' {
				return t, i + 2, true
			}
			return tag{}, 0, false
		}

		an := i
		for i < len(doc) && !isSpace(doc[i]) && doc[i] != '=' && doc[i] != '>' && doc[i] != '/' {
			i++
		}
		name := string(doc[an:i])
		for i < len(doc) && isSpace(doc[i]) {
			i++
		}
		if name == "" || i >= len(doc) || doc[i] != '=' {
			return tag{}, 0, false
		}
		i++
		for i < len(doc) && isSpace(doc[i]) {
			i++
		}
		if i >= len(doc) || (doc[i] != '"' && doc[i] != '\'') {
			return tag{}, 0, false
		}
		quote := doc[i]
		i++
		end := bytes.IndexByte(doc[i:], quote)
		if end < 0 {
			return tag{}, 0, false
		}
		t.attrs = append(t.attrs, attr{name: name, valStart: i, valEnd: i + end})
		i += end + 1
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
