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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ademuri/ytm-wrapped/internal/analysis"
)

func TestWrapCommand(t *testing.T) {
	// Setup
	tmpDir := t.TempDir()
	exportPath := writeTestFile(t, "watch-history.json", testExport)
	outPath := filepath.Join(tmpDir, "wrapped.json")

	// Reset args
	rootCmd.SetArgs([]string{
		"wrap", exportPath,
		"--format", "json",
		"--output", outPath,
		"--workers", "2",
		"--database", filepath.Join(tmpDir, "test.db"),
	})

	// Execute
	err := rootCmd.Execute()

	// Assert
	if err != nil {
		t.Fatalf("wrap failed: %v", err)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	var report analysis.Report
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if report.Year != 2025 || report.TotalSongs != 3 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"wrap", "import", "report", "list-reports", "delete-report", "email", "artwork", "forgotten", "top-artists", "top-songs", "new-artists", "serve"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd == rootCmd {
			t.Errorf("command %q is not registered", name)
		}
	}
}
