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

	"github.com/ghodss/yaml"
	"github.com/notargets/meshxdr/mesh"
	"github.com/notargets/meshxdr/mesh/readers"
	"github.com/notargets/meshxdr/mesh/xdrio"
	"github.com/spf13/cobra"
)

// infoReport is printed as YAML by the info command
type infoReport struct {
	File     string `json:"file"`
	Tag      string `json:"tag,omitempty"`
	Encoding string `json:"encoding,omitempty"`
	mesh.Summary
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <mesh>",
	Short: "Print a YAML summary of a mesh file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		m, err := readers.ReadMeshFile(args[0], xdrio.WithLogger(s.logger))
		if err != nil {
			return err
		}
		rep := infoReport{File: args[0], Summary: mesh.Summarize(m)}
		if tag, binary, err := xdrio.SniffFile(args[0]); err == nil {
			rep.Tag, rep.Encoding = tag, encoding(binary)
		}
		out, err := yaml.Marshal(rep)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
