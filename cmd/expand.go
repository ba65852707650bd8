package cmd

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/RagotXavier/French-INSEE/aiyagari"
)

var (
	expandModelPath string
	expandRawPath   []int
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Expand a raw income path into severance-decay income states",
	Long: "Convert a raw categorical employment path (0 = unemployed) into the expanded\n" +
		"income-state-index path the policy grids are defined over. Output is written\n" +
		"to stdout as a comma-separated list.",
	Run: func(cmd *cobra.Command, args []string) {
		econ, _, err := aiyagari.LoadModel(expandModelPath)
		if err != nil {
			logrus.Fatalf("Failed to load model: %v", err)
		}

		expanded, err := aiyagari.ExpandPath(expandRawPath, econ)
		if err != nil {
			logrus.Fatalf("Expansion failed: %v", err)
		}

		parts := make([]string, len(expanded))
		for i, iy := range expanded {
			parts[i] = fmt.Sprint(iy)
		}
		fmt.Println(strings.Join(parts, ","))
	},
}

func init() {
	expandCmd.Flags().StringVar(&expandModelPath, "model", "", "Path to solved model YAML file")
	expandCmd.Flags().IntSliceVar(&expandRawPath, "path", nil, "Comma-separated raw income categories")
	_ = expandCmd.MarkFlagRequired("model")
	_ = expandCmd.MarkFlagRequired("path")

	rootCmd.AddCommand(expandCmd)
}
