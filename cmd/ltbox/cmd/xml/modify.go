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
package xml

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/colors"
	rcmd "github.com/blacktop/ltbox/internal/commands/rawprogram"
	"github.com/blacktop/ltbox/internal/utils"
	"github.com/blacktop/ltbox/pkg/rawprogram"
	"github.com/caarlos0/ctrlc"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	XMLCmd.AddCommand(modifyCmd)

	modifyCmd.Flags().BoolP("wipe", "w", false, "Keep metadata/userdata entries (factory reset on flash)")
	modifyCmd.Flags().Bool("skip-dp", false, "Don't create the devinfo/persist write XMLs")
	viper.BindPFlag("xml.modify.wipe", modifyCmd.Flags().Lookup("wipe"))
	viper.BindPFlag("xml.modify.skip-dp", modifyCmd.Flags().Lookup("skip-dp"))
}

// modifyCmd represents the xml modify command
var modifyCmd = &cobra.Command{
	Use:     "modify",
	Aliases: []string{"mod"},
	Short:   "Prepare the partition tables in the image folder for flashing",
	Example: heredoc.Doc(`
		# Keep user data (strips metadata/userdata entries)
		$ ltbox xml modify

		# Factory reset on flash
		$ ltbox xml modify --wipe
	`),
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig()
		if err != nil {
			return err
		}

		opts := rcmd.Options{
			Mode:              rawprogram.NoWipe,
			SkipWriteVariants: viper.GetBool("xml.modify.skip-dp"),
		}
		if viper.GetBool("xml.modify.wipe") {
			opts.Mode = rawprogram.Wipe
		}

		log.Infof("Waiting for image folder '%s'", filepath.Base(cfg.ImageDir))

		var report *rcmd.Report
		if err := utils.Interruptible(context.Background(), func(ctx context.Context) error {
			var err error
			report, err = rcmd.Modify(ctx, cfg, opts)
			return err
		}); err != nil {
			if errors.As(err, &ctrlc.ErrorCtrlC{}) {
				log.Warn("Exiting...")
				return nil
			}
			return err
		}

		if len(report.Failed) > 0 {
			fmt.Println(colors.Warning(fmt.Sprintf("%d container(s) could not be decrypted", len(report.Failed))))
		}
		fmt.Println(colors.Success(fmt.Sprintf("XML processing complete (%s): %s", opts.Mode, cfg.OutputDir)))
		return nil
	},
}
