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
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/blacktop/ltbox/cmd/ltbox/cmd/region"
	"github.com/blacktop/ltbox/cmd/ltbox/cmd/xml"
	"github.com/blacktop/ltbox/internal/colors"
	"github.com/blacktop/ltbox/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// Verbose enables debug logging
	Verbose bool
	// Color forces colored output
	Color bool
	// AppVersion is set from main at build time
	AppVersion string
	// AppBuildTime is set from main at build time
	AppBuildTime string
)

// rootCmd is the ltbox entry point; subcommands hang off it
var rootCmd = &cobra.Command{
	Use:   "ltbox",
	Short: "Decrypt and patch Lenovo/Qualcomm tablet firmware",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
		colors.FromFlags(viper.GetBool("color"), viper.GetBool("no-color"))
	},
}

// Execute runs the command tree and exits non-zero on failure.
func Execute() {
	rootCmd.Version = versionString()
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func versionString() string {
	if AppVersion == "" {
		return "dev"
	}
	if AppBuildTime == "" {
		return AppVersion
	}
	return fmt.Sprintf("%s (%s)", AppVersion, AppBuildTime)
}

func init() {
	log.SetHandler(clihander.Default)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/ltbox/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&Color, "color", false, "colorize output")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colorize output")
	rootCmd.PersistentFlags().String("base-dir", "", "folder holding image/, output_xml/ and working/")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))
	viper.BindPFlag("dirs.base", rootCmd.PersistentFlags().Lookup("base-dir"))
	viper.BindEnv("color", "CLICOLOR")
	config.SetDefaults(viper.GetViper())
	rootCmd.AddCommand(region.RegionCmd)
	rootCmd.AddCommand(xml.XMLCmd)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// initConfig wires the optional config file and LTBOX_* env overrides into viper.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		// ~/.config/ltbox/config.yaml
		viper.AddConfigPath(filepath.Join(home, ".config", "ltbox"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("ltbox")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.WithError(err).Warn("ignoring unreadable config file")
		}
		return
	}
	log.Debugf("Using config file: %s", viper.ConfigFileUsed())
}
