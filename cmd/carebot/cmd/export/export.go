package export

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aken1023/care-sch/cmd/carebot/cmd/bootstrap"
	"github.com/aken1023/care-sch/internal/app/export"
	"github.com/aken1023/care-sch/internal/app/model"
	"github.com/aken1023/care-sch/internal/app/repository"
)

var (
	outputFilePath string
	userID         string
	date           string
	limit          int
)

func init() {
	Cmd.Flags().StringVarP(&outputFilePath, "output", "o", "", "xlsx file to write")
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "only runs from this user")
	Cmd.Flags().StringVarP(&date, "date", "d", "", "only runs from this day (YYYYMMDD)")
	Cmd.Flags().IntVarP(&limit, "limit", "l", repository.MaxListLimit, "maximum number of rows")

	Cmd.MarkFlagRequired("output")
}

// Cmd represents the export command
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed care records to excel",
	Long: `Export indexed care records to excel

- Reads the record index (sqlite3 or postgres), newest first
- Failed runs are included with their error`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := bootstrap.Application(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		entries, err := application.Index.ListRecords(cmd.Context(), model.RecordFilter{
			UserID: userID,
			Date:   date,
			Limit:  limit,
		})
		if err != nil {
			return fmt.Errorf("list records: %w", err)
		}

		if err := export.ToExcel(entries, outputFilePath); err != nil {
			return err
		}
		fmt.Printf("export finished, %d rows written to %v\n", len(entries), outputFilePath)
		return nil
	},
}
