package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"risk-engine/internal/engine/saccr"
	"risk-engine/internal/models"
)

func newSACCRCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "saccr",
		Short: "Compute SA-CCR counterparty exposure",
		Long: `Compute counterparty credit exposure under the standardized
approach (SA-CCR): replacement cost, add-ons by asset class, the
multiplier and the exposure at default for each netting set.`,
		Example: `  risk-engine saccr --input request.json
  risk-engine saccr --input request.json --format json
  cat request.json | risk-engine saccr --input - --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config)
			inputPath, _ := cmd.Flags().GetString("input")

			var input saccr.Input
			if err := readRequest(cmd, inputPath, &input); err != nil {
				return err
			}

			var result *saccr.Result
			err := runCalculation(app, "saccr", func() error {
				var err error
				result, err = saccr.Compute(input)
				return err
			})
			if err != nil {
				return err
			}

			saveResult(cmd, app, output, "saccr", input, result)

			if output.IsJSON() {
				return output.JSON(result)
			}
			displaySACCR(output, result)
			return nil
		},
	}

	cmd.Flags().String("input", "", "JSON request file ('-' for stdin)")
	cmd.Flags().Bool("save", false, "persist the result to the local store")
	cmd.MarkFlagRequired("input")

	return cmd
}

func displaySACCR(output *Output, result *saccr.Result) {
	output.Header("SA-CCR Exposure")
	output.Row("Total EAD", "%s", money(result.TotalEAD))
	output.Row("Total replacement cost", "%s", money(result.TotalReplacementCost))
	output.Row("Total PFE", "%s", money(result.TotalPotentialFutureExposure))
	output.Println()

	if len(result.AssetClassResults) > 0 {
		classes := make([]string, 0, len(result.AssetClassResults))
		for class := range result.AssetClassResults {
			classes = append(classes, string(class))
		}
		sort.Strings(classes)

		rows := make([][]string, 0, len(classes))
		for _, class := range classes {
			r := result.AssetClassResults[models.AssetClass(class)]
			rows = append(rows, []string{
				class,
				money(r.ReplacementCost),
				money(r.PotentialFutureExposure),
				money(r.EAD),
			})
		}
		output.Table([]string{"Asset Class", "RC", "PFE", "EAD"}, rows)
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
			rows = append(rows, []string{
				id,
				money(r.ReplacementCost),
				money(r.PotentialFutureExposure),
				money(r.ExposureAtDefault),
			})
		}
		output.Table([]string{"Netting Set", "RC", "PFE", "EAD"}, rows)
	}
}
