package cli

import (
	"context"
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"risk-engine/internal/errors"
	"risk-engine/internal/store"
)

func newHistoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved calculation results",
		Long: `List calculations previously persisted with --save, newest
first, or show one in full by ID.`,
		Example: `  risk-engine history
  risk-engine history --kind var --limit 10
  risk-engine history --id 6b3a...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd, app.Config)

			if app.Store == nil {
				return errors.Wrap(errors.ErrDatabaseError, "result store is disabled")
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			id, _ := cmd.Flags().GetString("id")
			if id != "" {
				record, err := app.Store.Get(ctx, id)
				if err != nil {
					return err
				}
				return displayRecord(output, record)
			}

			kind, _ := cmd.Flags().GetString("kind")
			limit, _ := cmd.Flags().GetInt("limit")

			records, err := app.Store.List(ctx, kind, limit)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				return output.JSON(records)
			}

			if len(records) == 0 {
				output.Dim("No saved calculations")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				rows = append(rows, []string{
					record.ID,
					record.Kind,
					record.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			output.Header("Saved Calculations")
			output.Table([]string{"ID", "Kind", "Created"}, rows)
			return nil
		},
	}

	cmd.Flags().String("id", "", "show a single saved calculation in full")
	cmd.Flags().String("kind", "", "filter by calculation kind (saccr, pfe, im, var)")
	cmd.Flags().Int("limit", 20, "maximum number of entries to list")

	return cmd
}

func displayRecord(output *Output, record *store.Record) error {
	if output.IsJSON() {
		return output.JSON(record)
	}

	output.Header("Saved Calculation")
	output.Row("ID", "%s", record.ID)
	output.Row("Kind", "%s", record.Kind)
	output.Row("Created", "%s", record.CreatedAt.Local().Format(time.RFC3339))
	output.Println()

	output.Println("Request:")
	output.Println(indentJSON(record.Request))
	output.Println("Result:")
	output.Println(indentJSON(record.Result))
	return nil
}

func indentJSON(raw json.RawMessage) string {
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	buf, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return string(raw)
	}
	return "  " + string(buf)
}
