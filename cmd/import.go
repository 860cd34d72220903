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
	"path/filepath"
	"strings"

	"github.com/notargets/meshxdr/mesh"
	"github.com/notargets/meshxdr/mesh/readers"
	"github.com/spf13/cobra"
)

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <grid.su2|grid.neu> <output>",
	Short: "Import an SU2 or Gambit grid, optionally marking its open boundary",
	Long: `
Reads a foreign grid, checks it, and writes it in the format selected by
--format and --binary. With --mark-exterior, every exterior side without a
boundary marker is given the named marker.

meshxdr import wing.su2 wing.xdr -b --mark-exterior farfield`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		var m *mesh.Mesh
		switch ext := strings.ToLower(filepath.Ext(args[0])); ext {
		case ".su2":
			m, err = readers.ReadSU2(args[0])
		case ".neu":
			m, err = readers.ReadGambitNeutral(args[0])
		default:
			return fmt.Errorf("import reads .su2 or .neu grids, not %q", ext)
		}
		if err != nil {
			return err
		}
		if err = mesh.Validate(m); err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if name, _ := cmd.Flags().GetString("mark-exterior"); name != "" {
			marker, ok := mesh.ParseBCName(name)
			if !ok {
				return fmt.Errorf("unknown boundary marker %q", name)
			}
			n := m.MarkExterior(marker)
			s.logger.Info("marked exterior sides", "marker", marker, "sides", n)
		}
		res, err := s.codec().Write(args[1], s.format, m)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s [%s %s] %d nodes, %d elements, %d boundary sides\n",
			args[0], args[1], res.Format, encoding(s.binary), m.NumNodes(), m.NumElements(), len(m.Boundary()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().StringP("mark-exterior", "m", "", "marker for exterior sides left unmarked")
}
