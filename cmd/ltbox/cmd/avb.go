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
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/blacktop/ltbox/internal/avb"
	"github.com/blacktop/ltbox/internal/config"
	"github.com/blacktop/ltbox/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(avbCmd)
	avbCmd.AddCommand(avbInfoCmd)

	avbInfoCmd.Flags().String("avbtool", "", "Path to avbtool.py")
	avbInfoCmd.Flags().String("python", "", "Python interpreter")
	viper.BindPFlag("tools.avbtool", avbInfoCmd.Flags().Lookup("avbtool"))
	viper.BindPFlag("tools.python", avbInfoCmd.Flags().Lookup("python"))
}

// avbCmd represents the avb command
var avbCmd = &cobra.Command{
	Use:   "avb",
	Short: "Android Verified Boot helpers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// avbInfoCmd represents the avb info command
var avbInfoCmd = &cobra.Command{
	Use:   "info <vendor_boot.img> <vbmeta.img>",
	Short: "Print the signing parameters needed to re-sign vendor_boot",
	Example: heredoc.Doc(`
		# Print KEY=value lines for the vendor_boot footer and vbmeta key
		$ ltbox avb info image/vendor_boot.img image/vbmeta.img
	`),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}

		tool := &avb.Tool{
			Runner:  utils.ExecRunner{},
			Python:  conf.Tools.Python,
			Avbtool: conf.Tools.Avbtool,
		}
		info, err := tool.Signing(context.Background(), args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Print(info.Env())
		return nil
	},
}
