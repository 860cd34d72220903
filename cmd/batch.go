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

	"github.com/notargets/meshxdr/jobfile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <plan.yaml>",
	Short: "Run the conversions listed in a YAML job file",
	Long: `
Runs each job of a plan like:

########################################
Title: "legacy exports"
Binary: true
Jobs:
  - Input: tree.xda
    Output: tree.deal
    Format: DEAL
  - Input: tree.xda
    Output: tree.mgf
    Format: MGF
    Binary: false
########################################
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		plan, err := jobfile.Load(args[0])
		if err != nil {
			return err
		}
		if viper.GetBool("verbose") {
			plan.Print(cmd.OutOrStdout())
		}
		outcomes, err := plan.Run(s.logger)
		for _, o := range outcomes {
			status := "ok"
			switch {
			case o.Err != nil:
				status = "FAILED"
			case o.Result.Flattened:
				status = fmt.Sprintf("ok, flattened, %d boundary sides dropped", o.Result.DroppedSides)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s: %s\n", o.Job.Input, o.Job.Output, status)
		}
		return err
	},
}

func init() {
	rootCmd.AddCommand(batchCmd)
}
