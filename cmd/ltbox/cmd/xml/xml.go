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
	"github.com/apex/log"
	"github.com/blacktop/ltbox/internal/colors"
	rcmd "github.com/blacktop/ltbox/internal/commands/rawprogram"
	"github.com/blacktop/ltbox/internal/config"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// XMLCmd represents the xml command
var XMLCmd = &cobra.Command{
	Use:   "xml",
	Short: "Partition table (rawprogram*.xml) commands",
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		viper.BindPFlag("color", cmd.Flags().Lookup("color"))
		viper.BindPFlag("no-color", cmd.Flags().Lookup("no-color"))
		viper.BindPFlag("verbose", cmd.Flags().Lookup("verbose"))
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
		colors.FromFlags(viper.GetBool("color"), viper.GetBool("no-color"))
	},
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func commandConfig() (*rcmd.Config, error) {
	conf, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	return &rcmd.Config{
		Fs:        afero.NewOsFs(),
		ImageDir:  conf.ImageDir(),
		OutputDir: conf.OutputDir(),
		WorkDir:   conf.WorkDir(),
	}, nil
}
