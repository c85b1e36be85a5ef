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

	"github.com/ademuri/ytm-wrapped/internal/store"
)

var newArtistsNumber int
var newArtistsCmd = &cobra.Command{
	Use:   "new-artists [from] [to (optional)]",
	Short: "Gets artists first played in the given time period",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or '30d'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runTop(args, func(db *store.Store, start, end time.Time) error {
			return printNewArtists(db, currentUser(), start, end, newArtistsNumber, os.Stdout)
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(newArtistsCmd)

	newArtistsCmd.Flags().IntVarP(&newArtistsNumber, "number", "n", 0, "number of results to return")
}

func printNewArtists(db *store.Store, user string, start, end time.Time, limit int, out io.Writer) error {
	artists, err := db.GetNewArtists(user, start, end, limit)
	if err != nil {
		return fmt.Errorf("printNewArtists: %w", err)
	}

	fmt.Fprintf(out, "%d new artists from %s to %s\n", len(artists), start.Format("2006-01-02"), end.Format("2006-01-02"))
	table := tablewriter.NewWriter(out)
	table.Header([]string{"Artist", "Plays"})
	for _, a := range artists {
		if err := table.Append([]string{a.Name, strconv.Itoa(a.Count)}); err != nil {
			return err
		}
	}
	return table.Render()
}
