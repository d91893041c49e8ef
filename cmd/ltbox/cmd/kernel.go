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

	"github.com/blacktop/ltbox/internal/colors"
	"github.com/blacktop/ltbox/internal/kernel"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(kernelCmd)
	kernelCmd.AddCommand(kernelVersionCmd)

	kernelVersionCmd.Flags().BoolP("banner", "b", false, "Print the full 'Linux version' banner")
	viper.BindPFlag("kernel.version.banner", kernelVersionCmd.Flags().Lookup("banner"))
}

// kernelCmd represents the kernel command
var kernelCmd = &cobra.Command{
	Use:   "kernel",
	Short: "Kernel image commands",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// kernelVersionCmd represents the kernel version command
var kernelVersionCmd = &cobra.Command{
	Use:   "version <kernel>",
	Short: "Print the Linux version of a raw kernel image",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		info, err := kernel.Parse(data)
		if err != nil {
			return err
		}
		if viper.GetBool("kernel.version.banner") {
			fmt.Printf("%s %s\n", colors.Key("Banner:"), info.Banner)
		}
		fmt.Println(info.Version.Original())
		return nil
	},
}
