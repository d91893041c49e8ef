// Package vendorboot contains the vendor_boot ROW->PRC command.
package vendorboot

import (
	"path/filepath"

	"github.com/blacktop/ltbox/internal/utils"
	"github.com/blacktop/ltbox/pkg/patch"
	"github.com/spf13/afero"
)

// Output is the name of the patched image written next to the input.
const Output = "vendor_boot_prc.img"

// Patch converts a ROW vendor_boot image to PRC and returns the output path.
func Patch(fs afero.Fs, input string) (string, patch.Result, error) {
	out := filepath.Join(filepath.Dir(input), Output)
	res, err := utils.PatchFile(fs, input, out, patch.VendorBoot())
	if err != nil {
		return "", res, err
	}
	return out, res, nil
}
