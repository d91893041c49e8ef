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
package region

import (
	"fmt"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/colors"
	rcmd "github.com/blacktop/ltbox/internal/commands/region"
	"github.com/blacktop/ltbox/internal/config"
	"github.com/blacktop/ltbox/pkg/patch"
	"github.com/blacktop/ltbox/pkg/region"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	RegionCmd.AddCommand(patchCmd)
}

// patchCmd represents the region patch command
var patchCmd = &cobra.Command{
	Use:   "patch [CODE]",
	Short: "Replace the region code of devinfo.img and persist.img",
	Example: heredoc.Doc(`
		# Pick the new region interactively
		$ ltbox region patch

		# Writes devinfo_modified.img and persist_modified.img
		$ ltbox region patch US
	`),
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}

		fs := afero.NewOsFs()
		codes := region.SortedCodes(conf.Region.Codes)

		detected := rcmd.Detect(fs, conf.Dirs.Base, codes)
		var found bool
		for _, name := range rcmd.ImageNames() {
			if code := detected[name]; code != "" {
				log.WithField("code", code).Infof("Detected region in %s", name)
				found = true
			}
		}
		if !found {
			return fmt.Errorf("no known region code found in %v", rcmd.ImageNames())
		}

		var replacement string
		if len(args) > 0 {
			replacement = args[0]
		} else {
			choices := make([]string, 0, len(codes))
			for _, code := range codes {
				choices = append(choices, fmt.Sprintf("%s - %s", code, conf.Region.Codes[code]))
			}
			var selected int
			prompt := &survey.Select{
				Message:  "Select the new region:",
				Options:  choices,
				PageSize: 15,
			}
			if err := survey.AskOne(prompt, &selected); err == terminal.InterruptErr {
				log.Warn("Exiting...")
				os.Exit(0)
			} else if err != nil {
				return err
			}
			replacement = codes[selected]
		}

		if rcmd.TargetExists(fs, conf.Dirs.Base, replacement) {
			log.Warnf("Images already contain region '%s'", replacement)
		}

		results, err := rcmd.Patch(fs, conf.Dirs.Base, replacement, detected)
		if err != nil {
			return err
		}

		for _, name := range rcmd.ImageNames() {
			res, ok := results[name]
			if !ok {
				continue
			}
			switch res.State {
			case patch.Patched:
				fmt.Printf("%s %s\n", colors.Key(rcmd.Images[name]+":"), colors.Success(res.String()))
			default:
				fmt.Printf("%s %s\n", colors.Key(rcmd.Images[name]+":"), colors.Warning(res.String()))
			}
		}
		return nil
	},
}
