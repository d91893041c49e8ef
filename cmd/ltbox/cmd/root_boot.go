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
	"context"
	"errors"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/colors"
	"github.com/blacktop/ltbox/internal/commands/boot"
	"github.com/blacktop/ltbox/internal/config"
	"github.com/blacktop/ltbox/internal/download"
	"github.com/blacktop/ltbox/internal/utils"
	"github.com/caarlos0/ctrlc"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(rootBootCmd)

	rootBootCmd.Flags().String("kernel-url", "", "GKI kernel URL template (e.g. https://host/{{.Version}}/Image)")
	rootBootCmd.Flags().String("magiskboot", "", "Path to magiskboot")
	rootBootCmd.Flags().Bool("no-progress", false, "Hide download progress bar")
	rootBootCmd.Flags().String("proxy", "", "HTTP/HTTPS proxy")
	rootBootCmd.Flags().Bool("insecure", false, "do not verify ssl certs")
	viper.BindPFlag("boot.kernel-url", rootBootCmd.Flags().Lookup("kernel-url"))
	viper.BindPFlag("tools.magiskboot", rootBootCmd.Flags().Lookup("magiskboot"))
	viper.BindPFlag("boot.no-progress", rootBootCmd.Flags().Lookup("no-progress"))
	viper.BindPFlag("boot.proxy", rootBootCmd.Flags().Lookup("proxy"))
	viper.BindPFlag("boot.insecure", rootBootCmd.Flags().Lookup("insecure"))
}

// rootBootCmd represents the root-boot command
var rootBootCmd = &cobra.Command{
	Use:   "root-boot <boot.img>",
	Short: "Replace the boot image kernel with the matching GKI kernel",
	Example: heredoc.Doc(`
		# Writes boot.root.img to the base folder
		$ ltbox root-boot --kernel-url 'https://example.com/gki/{{.Version}}/Image' image/boot.img
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}

		fetcher := download.NewHTTPFetcher(viper.GetString("boot.proxy"), viper.GetBool("boot.insecure"))
		fetcher.Progress = !viper.GetBool("boot.no-progress")

		bcfg := &boot.Config{
			Fs:         afero.NewOsFs(),
			Runner:     utils.ExecRunner{},
			Fetcher:    fetcher,
			Magiskboot: conf.Tools.Magiskboot,
			KernelURL:  conf.Boot.KernelURL,
			WorkDir:    conf.WorkDir(),
			OutputDir:  conf.Dirs.Base,
		}

		var out string
		if err := utils.Interruptible(context.Background(), func(ctx context.Context) error {
			var err error
			out, err = boot.Root(ctx, bcfg, args[0])
			return err
		}); err != nil {
			if errors.As(err, &ctrlc.ErrorCtrlC{}) {
				log.Warn("Exiting...")
				return nil
			}
			return err
		}

		fmt.Println(colors.Success(fmt.Sprintf("Rooted boot image written to %s", out)))
		return nil
	},
}
