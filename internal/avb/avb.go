// Package avb reads the fields ltbox needs from `avbtool info_image` output.
package avb

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/blacktop/ltbox/internal/utils"
)

// FingerprintProp is the vendor_boot build fingerprint property.
const FingerprintProp = "com.android.build.vendor_boot.fingerprint"

var (
	pubKeyRE    = regexp.MustCompile(`Public key \(sha1\):\s*([0-9a-fA-F]+)`)
	algorithmRE = regexp.MustCompile(`Algorithm:\s*(\w+)`)
	imgSizeRE   = regexp.MustCompile(`Image size:\s*(\d+)\s*bytes`)
	saltRE      = regexp.MustCompile(`Salt:\s*([0-9a-fA-F]+)`)
	propRE      = regexp.MustCompile(`Prop: ` + regexp.QuoteMeta(FingerprintProp) + ` -> '([^']+)'`)
)

// Info holds the parsed fields; missing fields are empty.
type Info struct {
	PublicKey string
	Algorithm string
	ImageSize string
	Salt      string
	PropKey   string
	PropValue string
}

// ParseInfo extracts the known fields from avbtool output.
func ParseInfo(out string) Info {
	var i Info
	if m := pubKeyRE.FindStringSubmatch(out); m != nil {
		i.PublicKey = m[1]
	}
	if m := algorithmRE.FindStringSubmatch(out); m != nil {
		i.Algorithm = m[1]
	}
	if m := imgSizeRE.FindStringSubmatch(out); m != nil {
		i.ImageSize = m[1]
	}
	if m := saltRE.FindStringSubmatch(out); m != nil {
		i.Salt = m[1]
	}
	if m := propRE.FindStringSubmatch(out); m != nil {
		i.PropKey = FingerprintProp
		i.PropValue = m[1]
	}
	return i
}

// Merge fills empty fields of i from o.
func (i Info) Merge(o Info) Info {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return Info{
		PublicKey: pick(i.PublicKey, o.PublicKey),
		Algorithm: pick(i.Algorithm, o.Algorithm),
		ImageSize: pick(i.ImageSize, o.ImageSize),
		Salt:      pick(i.Salt, o.Salt),
		PropKey:   pick(i.PropKey, o.PropKey),
		PropValue: pick(i.PropValue, o.PropValue),
	}
}

// Env renders the fields as KEY=value lines, skipping empty ones.
func (i Info) Env() string {
	var sb strings.Builder
	for _, kv := range [][2]string{
		{"PUBLIC_KEY", i.PublicKey},
		{"ALGORITHM", i.Algorithm},
		{"IMG_SIZE", i.ImageSize},
		{"SALT", i.Salt},
		{"PROP_KEY", i.PropKey},
	} {
		if kv[1] != "" {
			fmt.Fprintf(&sb, "%s=%s\n", kv[0], kv[1])
		}
	}
	if i.PropValue != "" {
		fmt.Fprintf(&sb, "PROP_VAL='%s'\n", i.PropValue)
	}
	return sb.String()
}

// Tool runs avbtool through a python interpreter.
type Tool struct {
	Runner  utils.Runner
	Python  string
	Avbtool string
}

// Inspect runs `avbtool info_image --image <image>` and parses the result.
func (t *Tool) Inspect(ctx context.Context, image string) (Info, error) {
	out, err := t.Runner.Run(ctx, "", t.Python, t.Avbtool, "info_image", "--image", image)
	if err != nil {
		return Info{}, fmt.Errorf("failed to inspect %s: %v", image, err)
	}
	return ParseInfo(out), nil
}

// Signing returns the vbmeta key/algorithm merged with the vendor_boot footer fields.
func (t *Tool) Signing(ctx context.Context, vendorBoot, vbmeta string) (Info, error) {
	meta, err := t.Inspect(ctx, vbmeta)
	if err != nil {
		return Info{}, err
	}
	footer, err := t.Inspect(ctx, vendorBoot)
	if err != nil {
		return Info{}, err
	}
	return Info{PublicKey: meta.PublicKey, Algorithm: meta.Algorithm}.Merge(Info{
		ImageSize: footer.ImageSize,
		Salt:      footer.Salt,
		PropKey:   footer.PropKey,
		PropValue: footer.PropValue,
	}), nil
}
