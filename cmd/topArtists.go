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
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ademuri/ytm-wrapped/internal/store"
)

var topArtistsNumber int
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [from] [to (optional)]",
	Short: "Gets the user's top artists from imported plays",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or '30d'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runTop(args, func(db *store.Store, start, end time.Time) error {
			return printTopArtists(db, currentUser(), start, end, topArtistsNumber, os.Stdout)
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "number", "n", 10, "number of results to return")
}

// runTop parses the date arguments in --timezone and opens the database for
// print.
func runTop(args []string, print func(db *store.Store, start, end time.Time) error) error {
	loc, err := time.LoadLocation(viper.GetString("timezone"))
	if err != nil {
		return fmt.Errorf("--timezone: %w", err)
	}
	start, end, err := parseDateRangeIn(args, loc, time.Now())
	if err != nil {
		return err
	}

	db, err := store.New(viper.GetString("database"))
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	return print(db, start, end)
}

func printTopArtists(db *store.Store, user string, start, end time.Time, limit int, out io.Writer) error {
	artists, err := db.GetTopArtistsWithCount(user, start, end, limit)
	if err != nil {
		return fmt.Errorf("printTopArtists: %w", err)
	}

	fmt.Fprintf(out, "Top artists from %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	table := tablewriter.NewWriter(out)
	table.Header([]string{"#", "Artist", "Plays"})
	for i, a := range artists {
		if err := table.Append([]string{strconv.Itoa(i + 1), a.Name, strconv.Itoa(a.Count)}); err != nil {
			return err
		}
	}
	return table.Render()
}
