package main

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		outputFormat = "text"
	})
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand_Text(t *testing.T) {
	origVersion, origCommit := Version, GitCommit
	Version, GitCommit = "0.1.0-test", "abc123"
	defer func() { Version, GitCommit = origVersion, origCommit }()

	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	for _, want := range []string{"Switchboard 0.1.0-test", "Git Commit: abc123", runtime.GOOS + "/" + runtime.GOARCH} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestVersionCommand_JSON(t *testing.T) {
	out, err := execute(t, "version", "--output", "json")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}

	var info versionInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if info.Version != Version || info.GoVersion != runtime.Version() {
		t.Errorf("unexpected version info: %+v", info)
	}
}

func TestVersionCommand_BadOutput(t *testing.T) {
	if _, err := execute(t, "version", "--output", "xml"); err == nil {
		t.Error("expected error for unknown output format")
	}
}
