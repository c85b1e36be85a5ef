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
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/store"
)

// deleteReportCmd represents the deleteReport command
var deleteReportCmd = &cobra.Command{
	Use:   "delete-report <year>",
	Short: "Deletes a saved report for the user",
	Long:  ``,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		year, err := strconv.Atoi(args[0])
		if err == nil {
			err = deleteReport(viper.GetString("database"), currentUser(), year)
		}
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(deleteReportCmd)
}

func deleteReport(dbPath string, user string, year int) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	_, _, err = db.GetReport(user, year)
	if errors.Is(err, store.ErrNoReport) {
		return fmt.Errorf("no report found for %d for user %q", year, user)
	}
	if err != nil {
		return err
	}

	return db.DeleteReport(user, year)
}
