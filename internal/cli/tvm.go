package cli

import (
	"github.com/spf13/cobra"

	"risk-engine/internal/engine/pricing"
	"risk-engine/internal/errors"
)

type tvmResult struct {
	Calculation string  `json:"calculation"`
	Value       float64 `json:"value"`
	Explanation string  `json:"explanation"`
}

func newTVMCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tvm",
		Short: "Time-value-of-money calculations",
		Long: `Solve a time-value-of-money problem: future value, present
value, the implied rate, or the implied period.

Calculations: future_value, present_value, implied_rate, implied_period.
Compounding: annually, semi_annually, quarterly, monthly, daily, continuous.`,
		Example: `  risk-engine tvm --calc future_value --principal 1000 --rate 0.05 --years 10
  risk-engine tvm --calc present_value --future 2000 --rate 0.05 --years 10 --compounding monthly
  risk-engine tvm --calc implied_rate --principal 1000 --future 2000 --years 10`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config)

			calc, _ := cmd.Flags().GetString("calc")
			principal, _ := cmd.Flags().GetFloat64("principal")
			future, _ := cmd.Flags().GetFloat64("future")
			rate, _ := cmd.Flags().GetFloat64("rate")
			years, _ := cmd.Flags().GetFloat64("years")
			compounding, _ := cmd.Flags().GetString("compounding")
			freq := pricing.CompoundingFrequency(compounding)

			var (
				value       float64
				explanation string
				err         error
			)
			switch calc {
			case "future_value":
				value, explanation = pricing.FutureValue(principal, rate, years, freq)
			case "present_value":
				value, explanation = pricing.PresentValue(future, rate, years, freq)
			case "implied_rate":
				value, explanation, err = pricing.ImpliedRate(principal, future, years, freq)
			case "implied_period":
				value, explanation, err = pricing.ImpliedPeriod(principal, future, rate, freq)
			default:
				return errors.NewValidationError("calc", calc,
					"must be one of future_value, present_value, implied_rate, implied_period")
			}
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(tvmResult{Calculation: calc, Value: value, Explanation: explanation})
			}

			output.Header("Time Value of Money")
			output.Row("Calculation", "%s", calc)
			output.Row("Result", "%.6f", value)
			output.Println()
			output.Dim("%s", explanation)
			return nil
		},
	}

	cmd.Flags().String("calc", "future_value", "calculation to perform")
	cmd.Flags().Float64("principal", 0, "present value / principal amount")
	cmd.Flags().Float64("future", 0, "future value amount")
	cmd.Flags().Float64("rate", 0, "annual interest rate (decimal)")
	cmd.Flags().Float64("years", 0, "period in years")
	cmd.Flags().String("compounding", "annually", "compounding frequency")

	return cmd
}
