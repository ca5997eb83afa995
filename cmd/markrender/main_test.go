package main

// Notes:
// - runMain: we test dispatch and exit codes. Rendering itself is covered
//   in render_test.go.
// - main: not tested (calls os.Exit).

import (
	"context"
	"strings"
	"testing"
)

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{name: "no command", args: []string{"markrender"}, wantCode: ExitUsage, wantStderr: "Usage: markrender"},
		{name: "version", args: []string{"markrender", "version"}, wantCode: ExitSuccess, wantStdout: "markrender dev"},
		{name: "help", args: []string{"markrender", "help"}, wantCode: ExitSuccess, wantStdout: "Commands:"},
		{name: "help render", args: []string{"markrender", "help", "render"}, wantCode: ExitSuccess, wantStdout: "--density"},
		{name: "unknown command", args: []string{"markrender", "frobnicate"}, wantCode: ExitUsage, wantStderr: "unknown command: frobnicate"},
		{name: "render -h", args: []string{"markrender", "render", "-h"}, wantCode: ExitSuccess, wantStderr: "Usage: markrender render"},
		{name: "render unknown flag", args: []string{"markrender", "render", "--bogus"}, wantCode: ExitUsage, wantStderr: "invalid usage"},
		{name: "render bad format", args: []string{"markrender", "render", "-f", "gif"}, wantCode: ExitUsage, wantStderr: "invalid format"},
		{name: "render two inputs", args: []string{"markrender", "render", "a.md", "b.md"}, wantCode: ExitUsage, wantStderr: "too many arguments"},
		{name: "render missing file", args: []string{"markrender", "render", "does-not-exist.md"}, wantCode: ExitIO, wantStderr: "failed to read source"},
		{name: "serve positional", args: []string{"markrender", "serve", "extra"}, wantCode: ExitUsage, wantStderr: "serve takes no arguments"},
		{name: "serve bad workers", args: []string{"markrender", "serve", "--workers=-3"}, wantCode: ExitUsage, wantStderr: "render.workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv("", nil)
			got := runMain(context.Background(), tt.args, env)
			if got != tt.wantCode {
				t.Errorf("runMain() = %d, want %d (stderr %q)", got, tt.wantCode, stderr.String())
			}
			if tt.wantStdout != "" && !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want it to contain %q", stdout.String(), tt.wantStdout)
			}
			if tt.wantStderr != "" && !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestHasVerbose(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"markrender", "serve", "-v"}, true},
		{[]string{"markrender", "render", "--verbose", "x.md"}, true},
		{[]string{"markrender", "render", "-vq"}, false},
		{[]string{"markrender"}, false},
	}
	for _, tt := range tests {
		if got := hasVerbose(tt.args); got != tt.want {
			t.Errorf("hasVerbose(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}
