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
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/store"
)

// listReportsCmd represents the listReports command
var listReportsCmd = &cobra.Command{
	Use:   "list-reports",
	Short: "Lists the saved yearly reports",
	Long:  `Lists the reports saved by 'report' or 'wrap --save'. Pass --all to include every user.`,
	Run: func(cmd *cobra.Command, args []string) {
		user := currentUser()
		if viper.GetBool("all") {
			user = ""
		}
		err := listReports(viper.GetString("database"), user, os.Stdout)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(listReportsCmd)

	listReportsCmd.Flags().Bool("all", false, "List reports for every user")
	viper.BindPFlag("all", listReportsCmd.Flags().Lookup("all"))
}

func listReports(dbPath string, user string, out io.Writer) error {
	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	reports, err := db.ListReports(user)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Fprintln(out, "No saved reports")
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.Header([]string{"User", "Year", "Generated", "Songs"})
	for _, r := range reports {
		err := table.Append([]string{
			r.User,
			strconv.Itoa(r.Year),
			r.Generated.Local().Format("2006-01-02 15:04"),
			strconv.Itoa(r.TotalSongs),
		})
		if err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	return table.Render()
}
