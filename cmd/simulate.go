package cmd

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/RagotXavier/French-INSEE/aiyagari"
)

var (
	simModelPath string
	simRawPath   []int
	simA0        float64
	simC0        float64
	simOutPath   string

	simFixedState int
	simHorizon    int
	simX0         float64
	simVariable   string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate an agent's trajectory from the solved policy grids",
	Long: "Income-driven mode (default): severance-expand --path and forward-simulate\n" +
		"asset and consumption trajectories from (--a0, --c0).\n" +
		"Fixed-state mode (--fixed-state >= 0): iterate one policy variable from --x0\n" +
		"assuming the agent stays in that income state for --horizon periods.",
	Run: func(cmd *cobra.Command, args []string) {
		econ, sol, err := aiyagari.LoadModel(simModelPath)
		if err != nil {
			logrus.Fatalf("Failed to load model: %v", err)
		}

		if simFixedState >= 0 {
			runFixedState(econ, sol)
			return
		}
		runIncomeDriven(econ, sol)
	},
}

func runIncomeDriven(econ *aiyagari.Economy, sol *aiyagari.Solution) {
	if len(simRawPath) == 0 {
		logrus.Fatalf("--path is required in income-driven mode")
	}

	expanded, err := aiyagari.ExpandPath(simRawPath, econ)
	if err != nil {
		logrus.Fatalf("Expansion failed: %v", err)
	}
	logrus.Infof("Expanded %d raw periods into %d income states", len(simRawPath), len(expanded))

	assets, consumption, err := aiyagari.SimulatePath(expanded, simA0, simC0, sol, econ)
	if err != nil {
		logrus.Fatalf("Simulation failed: %v", err)
	}

	if simOutPath != "" {
		if err := aiyagari.WriteTrajectoriesCSV(simOutPath, assets, consumption); err != nil {
			logrus.Fatalf("Failed to write trajectories: %v", err)
		}
		return
	}
	fmt.Println("period,asset,consumption")
	for i := range assets {
		fmt.Printf("%d,%g,%g\n", i, assets[i], consumption[i])
	}
}

func runFixedState(econ *aiyagari.Economy, sol *aiyagari.Solution) {
	variable, err := aiyagari.ParsePolicyVariable(simVariable)
	if err != nil {
		logrus.Fatalf("%v", err)
	}

	out, err := aiyagari.SimulateFixedState(simFixedState, simHorizon, simX0, sol, econ, variable)
	if err != nil {
		logrus.Fatalf("Simulation failed: %v", err)
	}

	if simOutPath != "" {
		if err := aiyagari.WriteSeriesCSV(simOutPath, variable.String(), out); err != nil {
			logrus.Fatalf("Failed to write trajectory: %v", err)
		}
		return
	}
	fmt.Printf("period,%s\n", variable)
	for i, v := range out {
		fmt.Printf("%d,%g\n", i, v)
	}
}

func init() {
	simulateCmd.Flags().StringVar(&simModelPath, "model", "", "Path to solved model YAML file")
	simulateCmd.Flags().IntSliceVar(&simRawPath, "path", nil, "Comma-separated raw income categories (income-driven mode)")
	simulateCmd.Flags().Float64Var(&simA0, "a0", 0, "Initial asset level")
	simulateCmd.Flags().Float64Var(&simC0, "c0", 0, "Initial consumption level")
	simulateCmd.Flags().StringVar(&simOutPath, "out", "", "CSV output path (default: stdout)")

	simulateCmd.Flags().IntVar(&simFixedState, "fixed-state", -1, "Income state for fixed-state mode (-1 = income-driven)")
	simulateCmd.Flags().IntVar(&simHorizon, "horizon", 100, "Horizon for fixed-state mode")
	simulateCmd.Flags().Float64Var(&simX0, "x0", 0, "Initial value for fixed-state mode")
	simulateCmd.Flags().StringVar(&simVariable, "variable", "asset", "Policy variable (asset, consumption)")
	_ = simulateCmd.MarkFlagRequired("model")

	rootCmd.AddCommand(simulateCmd)
}
