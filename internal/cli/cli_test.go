package cli_test

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/ifdeflens/internal/cli"
	"github.com/yaklabco/ifdeflens/pkg/runner"
)

func testInfo() cli.BuildInfo {
	return cli.BuildInfo{
		Version: "test",
		Commit:  "test",
		Date:    "test",
	}
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	require.NotNil(t, cmd)

	assert.Equal(t, "ifdeflens", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
}

func TestRootCommandHasSubcommands(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"scan", "inspect", "platforms", "watch", "init", "version"} {
		subCmd, _, err := cmd.Find([]string{name})
		if !assert.NoError(t, err, "subcommand %q", name) {
			continue
		}
		assert.Equal(t, name, subCmd.Name())
	}
}

func TestCommandFlags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		flags   []string
	}{
		{command: "scan", flags: []string{"format", "jobs", "ignore", "dead", "detect", "compact", "no-summary", "follow-symlinks"}},
		{command: "inspect", flags: []string{"line", "col", "format", "compact", "detect"}},
		{command: "watch", flags: []string{"ignore", "immediate", "debounce", "clear", "detect"}},
		{command: "init", flags: []string{"force", "output"}},
		{command: "platforms", flags: []string{"names"}},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			cmd := cli.NewRootCommand(testInfo())
			sub, _, err := cmd.Find([]string{tt.command})
			require.NoError(t, err)

			for _, name := range tt.flags {
				assert.NotNil(t, sub.Flags().Lookup(name), "flag %q", name)
			}
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), "global flag %q", name)
	}
}

func TestScanCommandAcceptsArbitraryArgs(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	scanCmd, _, err := cmd.Find([]string{"scan"})
	require.NoError(t, err)

	assert.NoError(t, scanCmd.Args(scanCmd, []string{"App.vue", "main.js", "pages/"}))
}

func TestInspectCommandRequiresFile(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo())
	inspectCmd, _, err := cmd.Find([]string{"inspect"})
	require.NoError(t, err)

	assert.Error(t, inspectCmd.Args(inspectCmd, nil))
	assert.Error(t, inspectCmd.Args(inspectCmd, []string{"a.js", "b.js"}))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(cli.BuildInfo{
		Version: "1.2.3",
		Commit:  "abc123",
		Date:    "2024-01-01",
	})
	cmd.SetArgs([]string{"version"})

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "1.2.3")
	assert.Contains(t, out.String(), "abc123")
}

func TestExitCodeFromResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result *runner.Result
		want   int
	}{
		{name: "nil result", result: nil, want: cli.ExitSuccess},
		{name: "clean", result: &runner.Result{}, want: cli.ExitSuccess},
		{
			name:   "malformed",
			result: &runner.Result{Stats: runner.Stats{FilesMalformed: 1}},
			want:   cli.ExitMalformed,
		},
		{
			name:   "unreadable",
			result: &runner.Result{Stats: runner.Stats{FilesErrored: 2}},
			want:   cli.ExitIOError,
		},
		{
			name:   "malformed wins over unreadable",
			result: &runner.Result{Stats: runner.Stats{FilesMalformed: 1, FilesErrored: 1}},
			want:   cli.ExitMalformed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, cli.ExitCodeFromResult(tt.result))
		})
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, cli.ExitSuccess, cli.ExitCode(nil))
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(errors.New("unknown flag: --nope")))

	wrapped := fmt.Errorf("scan: %w", &cli.ExitError{Code: cli.ExitConfigError, Err: errors.New("bad")})
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(wrapped))
	assert.Equal(t, "scan: bad", wrapped.Error())
}

func TestIsReported(t *testing.T) {
	t.Parallel()

	assert.True(t, cli.IsReported(&cli.ExitError{Code: cli.ExitMalformed, Err: cli.ErrMalformedFiles}))
	assert.True(t, cli.IsReported(cli.ErrUnreadableFiles))
	assert.False(t, cli.IsReported(errors.New("boom")))
}
