package avb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const vbmetaOut = `Minimum libavb version:   1.0
Header Block:             256 bytes
Authentication Block:     576 bytes
Auxiliary Block:          3328 bytes
Public key (sha1):        2597c218aae470a130f61162feaae70afd97f011
Algorithm:                SHA256_RSA4096
Rollback Index:           0
`

const vendorBootOut = `Footer version:           1.0
Image size:               100663296 bytes
Original image size:      26198016 bytes
VBMeta offset:            26198016
VBMeta size:              2176 bytes
--
Minimum libavb version:   1.0
Algorithm:                NONE
Descriptors:
    Hash descriptor:
      Image Size:            26198016 bytes
      Hash Algorithm:        sha256
      Partition Name:        vendor_boot
      Salt:                  6c1b2ab0a6cd0f25ad8e8b5b2b8ab7a3c2d1e0f9
      Digest:                0f9e2d
    Prop: com.android.build.vendor_boot.fingerprint -> 'Lenovo/TB320FC_PRC/TB320FC:15/AQ3A/ZUI_17:user/release-keys'
`

type fakeRunner struct {
	outputs map[string]string
}

func (f fakeRunner) Run(_ context.Context, _, _ string, args ...string) (string, error) {
	image := args[len(args)-1]
	out, ok := f.outputs[image]
	if !ok {
		return "", errors.New("no such image")
	}
	return out, nil
}

func TestParseInfo(t *testing.T) {
	i := ParseInfo(vendorBootOut)
	assert.Equal(t, "100663296", i.ImageSize)
	assert.Equal(t, "6c1b2ab0a6cd0f25ad8e8b5b2b8ab7a3c2d1e0f9", i.Salt)
	assert.Equal(t, FingerprintProp, i.PropKey)
	assert.Equal(t, "Lenovo/TB320FC_PRC/TB320FC:15/AQ3A/ZUI_17:user/release-keys", i.PropValue)
	assert.Equal(t, "NONE", i.Algorithm)
	assert.Empty(t, i.PublicKey)

	assert.Equal(t, Info{}, ParseInfo(""))
}

func TestSigning(t *testing.T) {
	tool := &Tool{
		Runner: fakeRunner{outputs: map[string]string{
			"vbmeta.img":      vbmetaOut,
			"vendor_boot.img": vendorBootOut,
		}},
		Python:  "python3",
		Avbtool: "avbtool.py",
	}
	info, err := tool.Signing(context.Background(), "vendor_boot.img", "vbmeta.img")
	require.NoError(t, err)
	assert.Equal(t, "2597c218aae470a130f61162feaae70afd97f011", info.PublicKey)
	assert.Equal(t, "SHA256_RSA4096", info.Algorithm)
	assert.Equal(t, "100663296", info.ImageSize)

	assert.Equal(t, `PUBLIC_KEY=2597c218aae470a130f61162feaae70afd97f011
ALGORITHM=SHA256_RSA4096
IMG_SIZE=100663296
SALT=6c1b2ab0a6cd0f25ad8e8b5b2b8ab7a3c2d1e0f9
PROP_KEY=com.android.build.vendor_boot.fingerprint
PROP_VAL='Lenovo/TB320FC_PRC/TB320FC:15/AQ3A/ZUI_17:user/release-keys'
`, info.Env())

	_, err = tool.Signing(context.Background(), "vendor_boot.img", "missing.img")
	assert.Error(t, err)
}
