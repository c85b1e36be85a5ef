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
	"regexp"
	"strconv"
	"time"
)

// ParsedDate is a date argument together with the precision it was given in.
type ParsedDate struct {
	Date  time.Time
	Year  bool
	Month bool
	Day   bool

	// Relative dates like "90d" count back from now.
	Relative bool
}

var (
	yearPattern     = regexp.MustCompile(`^\d{4}$`)
	monthPattern    = regexp.MustCompile(`^\d{4}-\d{2}$`)
	dayPattern      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	relativePattern = regexp.MustCompile(`^(\d+)([dwmy])$`)
)

// parseDateRangeIn reads one date argument as the whole period it names, or
// two as explicit bounds.
func parseDateRangeIn(args []string, loc *time.Location, now time.Time) (start time.Time, end time.Time, err error) {
	switch len(args) {
	case 1:
		start, end, err = implicitDateRange(args[0], loc, now)

	case 2:
		start, end, err = explicitDateRange(args[0], args[1], loc, now)

	default:
		err = fmt.Errorf("Expected one or two date arguments")
	}
	return
}

func getImplicitDateRange(ds string) (start time.Time, end time.Time, err error) {
	return implicitDateRange(ds, time.UTC, time.Now())
}

// implicitDateRange covers the whole year, month or day named by ds. A
// relative date runs until now.
func implicitDateRange(ds string, loc *time.Location, now time.Time) (start time.Time, end time.Time, err error) {
	date, err := parseDatestringIn(ds, loc, now)
	if err != nil {
		return
	}

	start = date.Date
	switch {
	case date.Year:
		end = start.AddDate(1, 0, 0)

	case date.Month:
		end = start.AddDate(0, 1, 0)

	case date.Day:
		end = start.AddDate(0, 0, 1)

	case date.Relative:
		end = now

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}

	return
}

func getExplicitDateRange(startString, endString string) (start time.Time, end time.Time, err error) {
	return explicitDateRange(startString, endString, time.UTC, time.Now())
}

func explicitDateRange(startString, endString string, loc *time.Location, now time.Time) (start time.Time, end time.Time, err error) {
	startParsed, err := parseDatestringIn(startString, loc, now)
	if err != nil {
		return
	}
	start = startParsed.Date

	endParsed, err := parseDatestringIn(endString, loc, now)
	if err != nil {
		return
	}
	end = endParsed.Date

	return
}

func parseSingleDatestring(ds string) (ParsedDate, error) {
	return parseDatestringIn(ds, time.UTC, time.Now())
}

// parseDatestringIn reads yyyy, yyyy-mm, yyyy-mm-dd in loc, or a count of
// days, weeks, months or years before now.
func parseDatestringIn(ds string, loc *time.Location, now time.Time) (date ParsedDate, err error) {
	switch {
	case yearPattern.MatchString(ds):
		date.Date, err = time.ParseInLocation("2006", ds, loc)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as year: %w", err)
		}
		date.Year = true

	case monthPattern.MatchString(ds):
		date.Date, err = time.ParseInLocation("2006-01", ds, loc)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as month: %w", err)
		}
		date.Month = true

	case dayPattern.MatchString(ds):
		date.Date, err = time.ParseInLocation("2006-01-02", ds, loc)
		if err != nil {
			err = fmt.Errorf("Parsing datestring as day: %w", err)
		}
		date.Day = true

	case relativePattern.MatchString(ds):
		m := relativePattern.FindStringSubmatch(ds)
		var amount int
		amount, err = strconv.Atoi(m[1])
		if err != nil {
			err = fmt.Errorf("Parsing relative datestring: %w", err)
			return
		}
		switch m[2] {
		case "d":
			date.Date = now.AddDate(0, 0, -amount)
		case "w":
			date.Date = now.AddDate(0, 0, -amount*7)
		case "m":
			date.Date = now.AddDate(0, -amount, 0)
		case "y":
			date.Date = now.AddDate(-amount, 0, 0)
		}
		date.Relative = true

	default:
		err = fmt.Errorf("Invalid format: %q", ds)
	}
	return
}
