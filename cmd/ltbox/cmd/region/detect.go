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

	"github.com/blacktop/ltbox/internal/colors"
	rcmd "github.com/blacktop/ltbox/internal/commands/region"
	"github.com/blacktop/ltbox/internal/config"
	"github.com/blacktop/ltbox/pkg/region"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func init() {
	RegionCmd.AddCommand(detectCmd)
}

// detectCmd represents the region detect command
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Show the region code of devinfo.img and persist.img",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}

		detected := rcmd.Detect(afero.NewOsFs(), conf.Dirs.Base, region.SortedCodes(conf.Region.Codes))
		for _, name := range rcmd.ImageNames() {
			code := detected[name]
			if code == "" {
				fmt.Printf("%s %s\n", colors.Key(name+":"), colors.Faint().Sprint("not found"))
				continue
			}
			fmt.Printf("%s %s (%s)\n", colors.Key(name+":"), code, conf.Region.Codes[code])
		}
		return nil
	},
}
