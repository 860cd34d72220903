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

	"github.com/notargets/meshxdr/mesh/readers"
	"github.com/notargets/meshxdr/mesh/xdrio"
	"github.com/spf13/cobra"
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Rewrite a mesh file in another format or encoding",
	Long: `
Reads any supported mesh (.su2, .neu, .xda, .xdr, or a sniffed DEAL/MGF/LIBM
file) and writes it in the format selected by --format and --binary.
Writing a refined mesh to DEAL or MGF keeps only the active elements.

meshxdr convert tree.xda tree.mgf --format MGF`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		m, err := readers.ReadMeshFile(args[0], xdrio.WithLogger(s.logger))
		if err != nil {
			return err
		}
		res, err := s.codec().Write(args[1], s.format, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s [%s %s]\n", args[0], args[1], res.Format, encoding(s.binary))
		if res.Flattened {
			fmt.Fprintf(cmd.OutOrStdout(), "refinement flattened, %d boundary sides dropped\n", res.DroppedSides)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
}

func encoding(binary bool) string {
	if binary {
		return "binary"
	}
	return "ascii"
}
