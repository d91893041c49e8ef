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
	"encoding/json"
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/blacktop/ltbox/internal/colors"
	rcmd "github.com/blacktop/ltbox/internal/commands/rawprogram"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	XMLCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolP("json", "j", false, "Output as JSON")
	viper.BindPFlag("xml.info.json", infoCmd.Flags().Lookup("json"))
}

// infoCmd represents the xml info command
var infoCmd = &cobra.Command{
	Use:   "info <label>",
	Short: "Look up a partition by label",
	Example: heredoc.Doc(`
		# boot falls back to boot_a then boot_b
		$ ltbox xml info boot

		# JSON for scripts
		$ ltbox xml info persist --json
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig()
		if err != nil {
			return err
		}

		p, err := rcmd.PartitionInfo(cfg, args[0])
		if err != nil {
			return err
		}

		if viper.GetBool("xml.info.json") {
			dat, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(dat))
			return nil
		}

		fmt.Printf("%s %s\n", colors.Key("Label:       "), p.Label)
		fmt.Printf("%s %s\n", colors.Key("LUN:         "), p.LUN)
		fmt.Printf("%s %s\n", colors.Key("StartSector: "), p.StartSector)
		fmt.Printf("%s %s\n", colors.Key("NumSectors:  "), p.NumSectors)
		fmt.Printf("%s %s\n", colors.Key("Filename:    "), p.Filename)
		fmt.Printf("%s %s\n", colors.Key("Source:      "), p.Source)
		return nil
	},
}
