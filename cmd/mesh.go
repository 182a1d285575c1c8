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
	"os"

	"github.com/spf13/cobra"

	"github.com/nordlys/goiono/comm"
	"github.com/nordlys/goiono/ionosphere"
)

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Build and refine the ionosphere mesh, reporting statistics",
	Long: `
Builds the base shape, runs the latitude band refinement passes and
prints the resulting node, element and hanging node counts per level,

goiono mesh -f parameters.yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		cfg, err := loadParameters(file)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		io, err := ionosphere.New(cfg, comm.Self{})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		cfg.Print()
		io.Grid.PrintStats()
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("file", "f", "", "YAML parameter file, defaults used when omitted")
}
