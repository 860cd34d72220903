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

type solnReport struct {
	Mesh      string                      `json:"mesh"`
	Solution  string                      `json:"solution"`
	Centering string                      `json:"centering"`
	Count     int                         `json:"count"`
	Fields    map[string]xdrio.FieldStats `json:"fields"`
}

// solnCmd represents the soln command
var solnCmd = &cobra.Command{
	Use:   "soln <mesh> <solution>",
	Short: "Check a solution file against its mesh and print field statistics",
	Long: `
Loads the mesh, then the solution file bound to it, and prints the range and
L2 norm of every field. With --coords the node coordinates are written to the
solution file as nodal fields x, y, z instead.`,
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
		codec := s.codec()
		if coords, _ := cmd.Flags().GetBool("coords"); coords {
			if err = codec.WriteSolution(args[1], m, xdrio.Nodal, coordinateFields(m)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d coordinate fields to %s\n", m.Dimension, args[1])
			return nil
		}
		c, fields, err := codec.ReadSolution(args[1], m)
		if err != nil {
			return err
		}
		rep := solnReport{
			Mesh:      args[0],
			Solution:  args[1],
			Centering: c.String(),
			Fields:    make(map[string]xdrio.FieldStats, len(fields)),
		}
		for _, f := range fields {
			rep.Count = len(f.Values)
			rep.Fields[f.Name] = f.Stats()
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
	rootCmd.AddCommand(solnCmd)
	solnCmd.Flags().Bool("coords", false, "write node coordinates as a nodal solution")
}

func coordinateFields(m *mesh.Mesh) []xdrio.Field {
	names := []string{"x", "y", "z"}
	fields := make([]xdrio.Field, m.Dimension)
	for d := range fields {
		vals := make([]float64, m.NumNodes())
		for i, x := range m.Vertices {
			vals[i] = x[d]
		}
		fields[d] = xdrio.Field{Name: names[d], Values: vals}
	}
	return fields
}
