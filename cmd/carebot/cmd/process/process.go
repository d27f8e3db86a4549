package process

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aken1023/care-sch/cmd/carebot/cmd/bootstrap"
	"github.com/aken1023/care-sch/internal/app/acquisition"
	"github.com/aken1023/care-sch/internal/app/pipeline"
	"github.com/aken1023/care-sch/internal/app/progress"
)

var (
	audioFile    string
	userID       string
	showProgress bool
)

func init() {
	Cmd.Flags().StringVarP(&audioFile, "file", "f", "", "audio file to process")
	Cmd.Flags().StringVarP(&userID, "user", "u", "", "user id stored with the record")
	Cmd.Flags().BoolVarP(&showProgress, "progress", "p", false, "force the progress bar even without a terminal")

	Cmd.MarkFlagRequired("file")
}

// Cmd represents the process command
var Cmd = &cobra.Command{
	Use:   "process",
	Short: "Run a local audio file through the care report pipeline",
	Long: `Run a local audio file through the care report pipeline

- The file is normalized, transcribed and turned into a five section report
- The run is saved under the records root exactly like a chat message`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, cleanup, err := bootstrap.Application(cmd.Context())
		if err != nil {
			return err
		}
		defer cleanup()

		pm := progress.NewProgressManager(progress.ProgressConfig{
			Enabled: progress.ShouldShowProgress(showProgress),
			Writer:  os.Stderr,
		})
		reporter := progress.NewRunReporter(pm, filepath.Base(audioFile))

		res, runErr := application.Pipeline.Run(cmd.Context(), pipeline.Input{
			Source:   acquisition.NewFileSource(audioFile),
			UserID:   userID,
			Channel:  pipeline.ChannelCLI,
			Progress: reporter.Observe,
		})
		if runErr == nil {
			reporter.Finish()
		}
		pm.Wait()

		for _, msg := range pipeline.ReplyMessages(res, runErr) {
			fmt.Println(msg)
			fmt.Println()
		}
		if runErr != nil {
			return runErr
		}
		fmt.Printf("record saved: %s\n", res.Paths.Dir)
		return nil
	},
}
