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
	"os"
	"path/filepath"
	"testing"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
	"github.com/ademuri/ytm-wrapped/internal/store"
)

const testExport = `[
	{"time": "2025-03-05T20:00:00Z", "title": "Song A - Topic", "subtitles": [{"name": "Artist X"}], "header": "YouTube Music"},
	{"time": "2025-03-05T20:10:00Z", "title": "Song A", "subtitles": [{"name": "Artist X"}], "header": "YouTube Music"},
	{"time": "2025-07-01T08:00:00Z", "title": "Song B (Official Video)", "subtitles": [{"name": "Artist Y - Topic"}], "titleUrl": "https://music.youtube.com/watch?v=b"},
	{"time": "2024-12-31T23:00:00Z", "title": "Song C", "subtitles": [{"name": "Artist Z"}], "header": "YouTube Music"},
	{"time": "2025-08-01T10:00:00Z", "title": "Cat video", "header": "YouTube"},
	{"time": "2025-08-02T10:00:00Z", "title": "Watched a video that has been removed", "header": "YouTube Music"}
]`

func writeTestFile(t *testing.T, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
	return path
}

func getTestDbPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "wrapped.db")
}

func openTestDb(t *testing.T, dbPath string) *store.Store {
	t.Helper()
	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("store.New(%s): %v", dbPath, err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testConfig() analysis.Config {
	return analysis.DefaultConfig()
}
