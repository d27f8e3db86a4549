package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aken1023/care-sch/cmd/carebot/cmd/bootstrap"
	"github.com/aken1023/care-sch/cmd/carebot/cmd/export"
	"github.com/aken1023/care-sch/cmd/carebot/cmd/process"
	"github.com/aken1023/care-sch/cmd/carebot/cmd/serve"
	"github.com/aken1023/care-sch/cmd/carebot/cmd/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "carebot",
	Short: "Turn voice memos from care staff into structured care reports",
	Long: `Turn voice memos from care staff into structured care reports.

- serve runs the chat webhook and the web upload page
- process runs a local audio file through the same pipeline
- every run is saved under records/YYYYMMDD/HHMMSS/`,
	SilenceUsage:     true,
	TraverseChildren: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serve.Cmd)
	rootCmd.AddCommand(process.Cmd)
	rootCmd.AddCommand(export.Cmd)
	rootCmd.AddCommand(version.Cmd)

	rootCmd.PersistentFlags().StringVarP(&bootstrap.ConfigPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&bootstrap.Verbose, "verbose", "V", false, "development logging")
}
