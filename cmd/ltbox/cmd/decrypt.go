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
	"os"
	"path/filepath"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/colors"
	rcmd "github.com/blacktop/ltbox/internal/commands/rawprogram"
	"github.com/blacktop/ltbox/internal/utils"
	"github.com/blacktop/ltbox/pkg/container"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(decryptCmd)

	decryptCmd.Flags().BoolP("info", "i", false, "Print container header and derived key only")
	decryptCmd.Flags().StringP("output", "o", "", "Folder to write decrypted XML to (default: next to input)")
	decryptCmd.MarkFlagDirname("output")
	viper.BindPFlag("decrypt.info", decryptCmd.Flags().Lookup("info"))
	viper.BindPFlag("decrypt.output", decryptCmd.Flags().Lookup("output"))
}

// decryptCmd represents the decrypt command
var decryptCmd = &cobra.Command{
	Use:     "decrypt <file.x>...",
	Aliases: []string{"dec"},
	Short:   "Decrypt .x firmware containers to rawprogram XML",
	Example: heredoc.Doc(`
		# Decrypt a partition table next to the input
		$ ltbox decrypt image/rawprogram4.x

		# Decrypt every container into a folder
		$ ltbox decrypt -o output_xml image/*.x

		# Show the container header
		$ ltbox decrypt --info image/rawprogram4.x
	`),
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		// flags
		showInfo := viper.GetBool("decrypt.info")
		output := viper.GetString("decrypt.output")

		fs := afero.NewOsFs()

		if output != "" {
			if err := os.MkdirAll(output, 0o750); err != nil {
				return err
			}
		}

		var failed int
		for _, in := range args {
			if showInfo {
				data, err := os.ReadFile(in)
				if err != nil {
					return err
				}
				hdr, err := container.ParseHeader(data)
				if err != nil {
					return fmt.Errorf("failed to parse %s: %w", in, err)
				}
				fmt.Printf("%s\n", colors.Bold().Sprint(filepath.Base(in)))
				fmt.Printf("  %s %x\n", colors.Key("IV:  "), hdr.IV[:])
				fmt.Printf("  %s %x\n", colors.Key("Salt:"), hdr.Salt[:])
				fmt.Printf("  %s %x\n", colors.Key("Key: "), container.DeriveKey(hdr.Salt[:]))
				continue
			}

			dir := output
			if dir == "" {
				dir = filepath.Dir(in)
			}
			out := filepath.Join(dir, strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))+".xml")
			n, err := rcmd.DecryptFile(fs, in, out)
			if err != nil {
				log.WithError(err).Error("Decryption failed")
				failed++
				continue
			}
			utils.Indent(log.WithField("size", n).Info, 2)(fmt.Sprintf("Decrypted: %s -> %s", filepath.Base(in), out))
		}

		if failed > 0 {
			fmt.Println(colors.Failure(fmt.Sprintf("%d of %d file(s) failed to decrypt", failed, len(args))))
			return fmt.Errorf("decryption failed for %d file(s)", failed)
		}
		return nil
	},
}
