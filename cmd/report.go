package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
	"github.com/ademuri/ytm-wrapped/internal/logger"
	"github.com/ademuri/ytm-wrapped/internal/render"
	"github.com/ademuri/ytm-wrapped/internal/store"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Builds the yearly report from imported plays",
	Long:  `Summarizes the plays stored by 'import' for --year, saves the result, and prints it as YAML.`,
	Run: func(cmd *cobra.Command, args []string) {
		config, err := analysisConfig()
		if err == nil {
			var format render.Format
			format, err = render.ParseFormat(viper.GetString("report_format"))
			if err == nil {
				err = runReport(viper.GetString("database"), currentUser(), config, format, newLogger(), os.Stdout)
			}
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error generating report: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("format", string(render.YAML), fmt.Sprintf("Output format, one of %v", render.Formats))
	viper.BindPFlag("report_format", reportCmd.Flags().Lookup("format"))
}

func runReport(dbPath string, user string, config analysis.Config, format render.Format, log *logger.Logger, out io.Writer) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	report, err := buildStoredReport(db, user, config)
	if err != nil {
		return err
	}

	if err := db.SaveReport(user, report, time.Now()); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	log.WithFields(logrus.Fields{
		"user":  user,
		"year":  report.Year,
		"plays": report.TotalSongs,
	}).Info("Saved report")

	return render.Write(out, report, format)
}

// buildStoredReport summarizes the imported plays of user for the configured
// year.
func buildStoredReport(db *store.Store, user string, config analysis.Config) (*analysis.Report, error) {
	count, err := db.CountPlays(user)
	if err != nil {
		return nil, fmt.Errorf("checking db: %w", err)
	}
	if count == 0 {
		return nil, fmt.Errorf("no plays stored for %q. Run 'import' first", user)
	}

	plays, err := db.GetPlaysInYear(user, config.TargetYear, config.Location)
	if err != nil {
		return nil, fmt.Errorf("reading plays: %w", err)
	}
	return analysis.GenerateReportFromPlays(plays, config), nil
}
