/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/colors"
	"github.com/blacktop/ltbox/internal/commands/vendorboot"
	"github.com/blacktop/ltbox/pkg/patch"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(vendorBootCmd)
}

// vendorBootCmd represents the vendor-boot command
var vendorBootCmd = &cobra.Command{
	Use:     "vendor-boot <vendor_boot.img>",
	Aliases: []string{"vb"},
	Short:   "Convert a ROW vendor_boot image to PRC",
	Example: heredoc.Doc(`
		# Writes vendor_boot_prc.img next to the input
		$ ltbox vendor-boot image/vendor_boot.img
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, res, err := vendorboot.Patch(afero.NewOsFs(), args[0])
		if err != nil {
			return err
		}

		switch res.State {
		case patch.Patched:
			fmt.Println(colors.Success(fmt.Sprintf("vendor_boot converted to PRC: %s", out)))
		case patch.AlreadyApplied:
			fmt.Println(colors.Warning(fmt.Sprintf("vendor_boot is already PRC; copied to %s", out)))
		default:
			log.Warnf("No .ROW or .PRC patterns found in %s", args[0])
		}
		return nil
	},
}
