/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/notargets/meshxdr/mesh/xdrio"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	stopProfile func()
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "meshxdr",
	Short: "Convert unstructured meshes between the DEAL, MGF and LIBM formats",
	Long: `
Reads and writes unstructured meshes and their solution fields in three file
format generations (DEAL, MGF, LIBM), each as ascii or binary.

meshxdr convert square.su2 square.xdr --format LIBM --binary`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("profile") {
			stopProfile = profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if stopProfile != nil {
			stopProfile()
			stopProfile = nil
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.meshxdr.yaml)")
	rootCmd.PersistentFlags().BoolP("binary", "b", false, "use the binary encoding instead of ascii")
	rootCmd.PersistentFlags().StringP("format", "f", "LIBM", "file format generation: DEAL, MGF or LIBM")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("profile", false, "write a CPU profile to the working directory")
	for _, name := range []string{"binary", "format", "verbose", "profile"} {
		if err := viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".meshxdr" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".meshxdr")
	}

	viper.SetEnvPrefix("MESHXDR")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// newLogger writes timestamped messages to w, at debug level with --verbose.
func newLogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if viper.GetBool("verbose") {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// settings is the encoding and format selected by flags, env or config.
type settings struct {
	binary bool
	format xdrio.Format
	logger *log.Logger
}

func loadSettings(cmd *cobra.Command) (s settings, err error) {
	s.binary = viper.GetBool("binary")
	if s.format, err = xdrio.ParseFormat(strings.TrimSpace(viper.GetString("format"))); err != nil {
		return
	}
	s.logger = newLogger(cmd.ErrOrStderr())
	return
}

func (s settings) codec() *xdrio.IO {
	return xdrio.New(s.binary, xdrio.WithLogger(s.logger))
}
