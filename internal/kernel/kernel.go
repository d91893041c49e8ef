// Package kernel extracts the Linux version string from a raw kernel image.
package kernel

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/hashicorp/go-version"
)

// ErrVersionNotFound is returned when no usable "Linux version" banner exists.
var ErrVersionNotFound = errors.New("kernel: could not find or parse 'Linux version' string")

const banner = "Linux version "

var (
	printableRE = regexp.MustCompile(`[ -~]{10,}`)
	versionRE   = regexp.MustCompile(`\d+\.\d+\.\d+`)
)

// Info is the kernel banner and its base version.
type Info struct {
	Banner  string
	Version *version.Version
}

func (i Info) String() string {
	return i.Version.String()
}

// Parse finds the first printable run containing the "Linux version " banner
// and returns it along with its x.y.z version.
func Parse(data []byte) (*Info, error) {
	for _, run := range printableRE.FindAll(data, -1) {
		line := string(run)
		if !strings.Contains(line, banner) {
			continue
		}
		match := versionRE.FindString(line)
		if match == "" {
			continue
		}
		v, err := version.NewVersion(match)
		if err != nil {
			return nil, fmt.Errorf("kernel: invalid version %q: %v", match, err)
		}
		return &Info{Banner: strings.TrimSpace(line), Version: v}, nil
	}
	return nil, ErrVersionNotFound
}

// Version returns the x.y.z version of the kernel image.
func Version(data []byte) (string, error) {
	info, err := Parse(data)
	if err != nil {
		return "", err
	}
	return info.Version.String(), nil
}
