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

var topSongsNumber int
var topSongsCmd = &cobra.Command{
	Use:   "top-songs [from] [to (optional)]",
	Short: "Gets the user's top songs from imported plays",
	Long:  `Uses the specified date or date range. Date strings look like 'yyyy', 'yyyy-mm', 'yyyy-mm-dd', or '30d'.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := runTop(args, func(db *store.Store, start, end time.Time) error {
			return printTopSongs(db, currentUser(), start, end, topSongsNumber, os.Stdout)
		})
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topSongsCmd)

	topSongsCmd.Flags().IntVarP(&topSongsNumber, "number", "n", 10, "number of results to return")
}

func printTopSongs(db *store.Store, user string, start, end time.Time, limit int, out io.Writer) error {
	songs, err := db.GetTopSongsWithCount(user, start, end, limit)
	if err != nil {
		return fmt.Errorf("printTopSongs: %w", err)
	}

	fmt.Fprintf(out, "Top songs from %s to %s\n", start.Format("2006-01-02"), end.Format("2006-01-02"))
	table := tablewriter.NewWriter(out)
	table.Header([]string{"#", "Song", "Artist", "Plays"})
	for i, s := range songs {
		if err := table.Append([]string{strconv.Itoa(i + 1), s.Name, s.Artist, strconv.Itoa(s.Count)}); err != nil {
			return err
		}
	}
	return table.Render()
}
