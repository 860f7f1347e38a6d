package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"risk-engine/internal/engine/margin"
)

func newMarginCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "im",
		Short: "Compute initial margin (Grid or SIMM)",
		Long: `Compute initial margin for one or more netting sets.

Methods: grid (default, BCBS-IOSCO schedule rates on gross notional)
and simm (sensitivity-based with delta, vega and curvature components).`,
		Example: `  risk-engine im --input request.json
  risk-engine im --input request.json --format json --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config)
			inputPath, _ := cmd.Flags().GetString("input")

			var input margin.Input
			if err := readRequest(cmd, inputPath, &input); err != nil {
				return err
			}

			var result *margin.Result
			err := runCalculation(app, "im", func() error {
				var err error
				result, err = margin.Compute(input)
				return err
			})
			if err != nil {
				return err
			}

			saveResult(cmd, app, output, "im", input, result)

			if output.IsJSON() {
				return output.JSON(result)
			}
			displayMargin(output, result)
			return nil
		},
	}

	cmd.Flags().String("input", "", "JSON request file ('-' for stdin)")
	cmd.Flags().Bool("save", false, "persist the result to the local store")
	cmd.MarkFlagRequired("input")

	return cmd
}

func displayMargin(output *Output, result *margin.Result) {
	output.Header("Initial Margin")
	output.Row("Total margin", "%s", money(result.TotalMargin))
	output.Row("Method", "%s", result.Method)
	output.Println()

	if len(result.AssetClassBreakdown) > 0 {
		rows := make([][]string, 0, len(result.AssetClassBreakdown))
		for _, entry := range result.AssetClassBreakdown {
			rows = append(rows, []string{
				string(entry.AssetClass),
				money(entry.Amount),
				percent(entry.Percentage),
			})
		}
		output.Table([]string{"Asset Class", "Margin", "Share"}, rows)
		output.Println()
	}

	if result.SensitivityBreakdown != nil {
		output.Header("Sensitivity Components")
		output.Row("Delta", "%s", money(result.SensitivityBreakdown.Delta))
		output.Row("Vega", "%s", money(result.SensitivityBreakdown.Vega))
		output.Row("Curvature", "%s", money(result.SensitivityBreakdown.Curvature))
		output.Println()
	}

	if len(result.NettingSetResults) > 0 {
		ids := make([]string, 0, len(result.NettingSetResults))
		for id := range result.NettingSetResults {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		rows := make([][]string, 0, len(ids))
		for _, id := range ids {
			rows = append(rows, []string{id, money(result.NettingSetResults[id].Margin)})
		}
		output.Table([]string{"Netting Set", "Margin"}, rows)
	}
}
