package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"risk-engine/internal/engine/pfe"
)

func newPFECmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pfe",
		Short: "Compute potential future exposure profiles",
		Long: `Compute potential future exposure for one or more netting sets,
with a time-bucketed exposure profile and an asset-class breakdown.

Methods: sa_ccr (default), internal_model, historical.`,
		Example: `  risk-engine pfe --input request.json
  risk-engine pfe --input request.json --format json --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config)
			inputPath, _ := cmd.Flags().GetString("input")

			var input pfe.Input
			if err := readRequest(cmd, inputPath, &input); err != nil {
				return err
			}

			var result *pfe.Result
			err := runCalculation(app, "pfe", func() error {
				var err error
				result, err = pfe.Compute(input)
				return err
			})
			if err != nil {
				return err
			}

			saveResult(cmd, app, output, "pfe", input, result)

			if output.IsJSON() {
				return output.JSON(result)
			}
			displayPFE(output, result)
			return nil
		},
	}

	cmd.Flags().String("input", "", "JSON request file ('-' for stdin)")
	cmd.Flags().Bool("save", false, "persist the result to the local store")
	cmd.MarkFlagRequired("input")

	return cmd
}

func displayPFE(output *Output, result *pfe.Result) {
	output.Header("Potential Future Exposure")
	output.Row("Total PFE", "%s", money(result.TotalPFE))
	output.Row("Total expected exposure", "%s", money(result.TotalExpectedExposure))
	output.Row("Method", "%s", result.Method)
	output.Row("Time horizon", "%s", result.TimeHorizon)
	output.Row("Confidence level", "%s", result.ConfidenceLevel)
	output.Println()

	if len(result.ExposureProfile) > 0 {
		rows := make([][]string, 0, len(result.ExposureProfile))
		for _, point := range result.ExposureProfile {
			rows = append(rows, []string{
				point.TimePoint,
				money(point.ExpectedExposure),
				money(point.PotentialFutureExposure),
			})
		}
		output.Table([]string{"Time", "EE", "PFE"}, rows)
		output.Println()
	}

	if len(result.AssetClassBreakdown) > 0 {
		rows := make([][]string, 0, len(result.AssetClassBreakdown))
		for _, entry := range result.AssetClassBreakdown {
			rows = append(rows, []string{
				string(entry.AssetClass),
				money(entry.Amount),
				percent(entry.Percentage),
			})
		}
		output.Table([]string{"Asset Class", "Add-On", "Share"}, rows)
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
			r := result.NettingSetResults[id]
			rows = append(rows, []string{id, money(r.PFE), money(r.ExpectedExposure)})
		}
		output.Table([]string{"Netting Set", "PFE", "EE"}, rows)
	}
}
