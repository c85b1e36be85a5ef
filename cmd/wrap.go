/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
	"github.com/ademuri/ytm-wrapped/internal/export"
	"github.com/ademuri/ytm-wrapped/internal/logger"
	"github.com/ademuri/ytm-wrapped/internal/render"
	"github.com/ademuri/ytm-wrapped/internal/store"
)

type WrapConfig struct {
	Export  string
	Format  render.Format
	Output  string
	Workers int

	// When Save is set the report is also stored for User in DbPath.
	Save   bool
	User   string
	DbPath string
}

var wrapCmd = &cobra.Command{
	Use:   "wrap <watch-history.json|->",
	Short: "Builds the yearly report straight from an export",
	Long:  `Reads a Takeout watch-history.json (or stdin for "-") and prints the report for --year.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, err := render.ParseFormat(viper.GetString("wrap_format"))
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		config, err := analysisConfig()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		wrap := WrapConfig{
			Export:  args[0],
			Format:  format,
			Output:  viper.GetString("output"),
			Workers: viper.GetInt("workers"),
			Save:    viper.GetBool("save"),
			User:    currentUser(),
			DbPath:  viper.GetString("database"),
		}
		err = runWrap(cmd.Context(), wrap, config, newLogger(), os.Stdout)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(wrapCmd)

	wrapCmd.Flags().StringP("format", "f", string(render.Text), fmt.Sprintf("Output format, one of %v", render.Formats))
	viper.BindPFlag("wrap_format", wrapCmd.Flags().Lookup("format"))

	wrapCmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	viper.BindPFlag("output", wrapCmd.Flags().Lookup("output"))

	wrapCmd.Flags().Int("workers", 1, "Number of goroutines folding the export")
	viper.BindPFlag("workers", wrapCmd.Flags().Lookup("workers"))

	wrapCmd.Flags().Bool("save", false, "Also store the report in the database")
	viper.BindPFlag("save", wrapCmd.Flags().Lookup("save"))
}

func runWrap(ctx context.Context, wrap WrapConfig, config analysis.Config, log *logger.Logger, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	events, err := export.LoadFile(wrap.Export)
	if err != nil {
		return err
	}

	start := time.Now()
	report, stats, err := analysis.GenerateReportParallel(ctx, events, config, wrap.Workers)
	if err != nil {
		return fmt.Errorf("building report: %w", err)
	}
	logFilterStats(log, stats)
	log.WithFields(logrus.Fields{
		"year":     report.Year,
		"plays":    report.TotalSongs,
		"rejected": stats.Rejected(),
		"elapsed":  time.Since(start).String(),
	}).Info("Built report")

	if wrap.Save {
		db, err := store.New(wrap.DbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()

		if err := db.CreateUser(wrap.User); err != nil {
			return fmt.Errorf("creating user: %w", err)
		}
		if err := db.SaveReport(wrap.User, report, time.Now()); err != nil {
			return fmt.Errorf("saving report: %w", err)
		}
	}

	return writeReport(report, wrap.Format, wrap.Output, stdout)
}

// writeReport renders report to path, or to stdout when path is empty.
func writeReport(report *analysis.Report, format render.Format, path string, stdout io.Writer) error {
	if path == "" {
		return render.Write(stdout, report, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := render.Write(f, report, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// logFilterStats emits one debug line per verdict, in verdict order.
func logFilterStats(log *logger.Logger, stats analysis.FilterStats) {
	verdicts := make([]analysis.Verdict, 0, len(stats))
	for v := range stats {
		verdicts = append(verdicts, v)
	}
	sort.Slice(verdicts, func(i, j int) bool { return verdicts[i] < verdicts[j] })
	for _, v := range verdicts {
		log.WithFields(logrus.Fields{
			"verdict": v.String(),
			"count":   stats[v],
		}).Debug("Filtered events")
	}
}
