package utils

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/blacktop/ltbox/internal/colors"
)

var colorMatch = colors.BoldHiGreen().SprintFunc()

// HexContext returns a `hexdump -C` style dump of data around [off, off+n)
// with window bytes of context on each side. Offsets are absolute and the
// lines holding the match are highlighted.
func HexContext(data []byte, off, n, window int) string {
	if off < 0 || n <= 0 || off+n > len(data) {
		return ""
	}

	start := max(0, off-window) &^ 0xf
	end := min(len(data), off+n+window)

	var buf strings.Builder
	for lineOff := start; lineOff < end; lineOff += 16 {
		line := hex.Dump(data[lineOff:min(lineOff+16, end)])
		line = fmt.Sprintf("%08x", lineOff) + line[8:]
		if lineOff < off+n && lineOff+16 > off {
			line = colorMatch(strings.TrimSuffix(line, "\n")) + "\n"
		}
		buf.WriteString(line)
	}

	return buf.String()
}
