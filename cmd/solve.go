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
	"math"
	"os"
	"time"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/nordlys/goiono/InputParameters"
	"github.com/nordlys/goiono/comm"
	"github.com/nordlys/goiono/fsgrid"
	"github.com/nordlys/goiono/geometry3D"
	"github.com/nordlys/goiono/ionomesh"
	"github.com/nordlys/goiono/ionosphere"
	"github.com/nordlys/goiono/potential"
	"github.com/nordlys/goiono/utils"
)

// SolveCmd represents the solve command
var SolveCmd = &cobra.Command{
	Use:   "solve",
	Short: "Standalone potential solve on an analytic current pattern",
	Long: `
Drives the potential solver without an outer simulation: a region 1 /
region 2 field aligned current system is painted onto the mesh, the net
current is closed and the solver runs across N lock-step ranks,

goiono solve -f parameters.yaml --ranks 4`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			file, _    = cmd.Flags().GetString("file")
			ranks, _   = cmd.Flags().GetInt("ranks")
			cpuProf, _ = cmd.Flags().GetBool("cpuprofile")
			perfOn, _  = cmd.Flags().GetBool("perf")
			dump, _    = cmd.Flags().GetString("dump-operator")
		)
		cfg, err := loadParameters(file)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		if cpuProf {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		run := func() { runSolve(cfg, ranks, dump) }
		if perfOn {
			if instr, ok := utils.CountInstructions(run); ok {
				fmt.Printf("Retired instructions: %d\n", instr)
			} else {
				fmt.Println("perf counters unavailable, ran unprofiled")
			}
			return
		}
		run()
	},
}

func init() {
	rootCmd.AddCommand(SolveCmd)
	SolveCmd.Flags().StringP("file", "f", "", "YAML parameter file, defaults used when omitted")
	SolveCmd.Flags().IntP("ranks", "r", 1, "number of lock-step solver ranks")
	SolveCmd.Flags().Bool("cpuprofile", false, "write a CPU profile for the solve")
	SolveCmd.Flags().Bool("perf", false, "count retired instructions (Linux perf counters)")
	SolveCmd.Flags().String("dump-operator", "", "write the assembled operator triplets to this file")
}

func runSolve(cfg *InputParameters.IonosphereParameters, ranks int, dump string) {
	if ranks < 1 {
		ranks = 1
	}
	body := func(cc comm.Communicator) {
		io, err := ionosphere.New(cfg, cc)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		tech := fsgrid.New[fsgrid.Technical](cc, cfg.FsGridCells, cfg.FsGridMin, cfg.FsGridMax)
		io.AssignBoundaryCells(tech)
		io.Couple(tech)

		regionCurrents(io.Grid)
		potential.OffsetFAC(io.Grid)

		start := time.Now()
		report := io.Solver.Solve()
		elapsed := time.Since(start)

		if cc.Rank() != 0 {
			return
		}
		io.Grid.PrintStats()
		fmt.Printf("solver %v: %d iterations, residual %.3e, %.3f s on %d ranks\n",
			report.State, report.Iterations, report.Residual, elapsed.Seconds(), cc.Size())
		fmt.Printf("cross polar cap potential = %8.2f kV\n",
			potential.CrossPolarCapPotential(io.Grid)/1.e3)
		if dump != "" {
			f, err := os.Create(dump)
			if err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			defer f.Close()
			if err = io.Solver.DumpOperator(f, false); err != nil {
				fmt.Println(err)
				os.Exit(1)
			}
			fmt.Printf("operator written to %s\n", dump)
		}
	}
	if ranks == 1 {
		body(comm.Self{})
		return
	}
	grp := comm.NewGroup(ranks)
	grp.Launch(func(cc *comm.Member) { body(cc) })
}

// regionCurrents paints a region 1 / region 2 field aligned current
// system onto the node sources: two auroral rings of opposite polarity
// per hemisphere, modulated in local time. Amplitudes are typical strong
// driving, a few uA/m^2.
func regionCurrents(g *ionomesh.Grid) {
	const (
		j0       = 1.e-6
		region1  = 75.
		region2  = 67.
		ringHalf = 3.
	)
	ring := func(lat, centre float64) float64 {
		d := (math.Abs(lat) - centre) / ringHalf
		return math.Exp(-d * d)
	}
	for i := range g.Nodes {
		var (
			p   = g.Nodes[i].X
			lat = geometry3D.LatitudeDeg(p)
			mlt = math.Atan2(p.Y, p.X)
		)
		g.Nodes[i].Parameters[ionomesh.ParamSource] =
			j0 * math.Sin(mlt) * (ring(lat, region1) - ring(lat, region2))
	}
}
