package main

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theflywheel/table/internal/config"
	"github.com/theflywheel/table/internal/logging"
)

func execute(t *testing.T, fs afero.Fs, stdin string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCmd(fs)
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRoot_Stdin(t *testing.T) {
	stdout, stderr, err := execute(t, afero.NewMemMapFs(),
		"add Ada Lovelace ada\nadd Alan Turing alan\nfriend ada alan\nstats\nquit\n",
		"--prompt", "")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Equal(t, "ada and alan are now friends\nStatistics: 2 people, 1 friendship\n", stdout)
}

func TestRoot_Script(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/tmp/session.txt", []byte("add Ada Lovelace ada\nsize ada\n"), 0644))

	stdout, _, err := execute(t, fs, "", "--prompt", "", "--script", "/tmp/session.txt")
	require.NoError(t, err)
	assert.Equal(t, "User Ada Lovelace ('ada') has no friends\n", stdout)
}

func TestRoot_MissingScript(t *testing.T) {
	_, _, err := execute(t, afero.NewMemMapFs(), "", "--script", "/nope.txt")
	assert.ErrorContains(t, err, "open script")
}

func TestRoot_ConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/amici.yaml", []byte("prompt: \"net> \"\ndump_on_quit: true\n"), 0644))

	stdout, _, err := execute(t, fs, "add Ada Lovelace ada\n", "--config", "/etc/amici.yaml")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "net> "))
	assert.Contains(t, stdout, "Size: 1")
}

func TestRoot_BadLogLevel(t *testing.T) {
	_, _, err := execute(t, afero.NewMemMapFs(), "", "--log-level", "loud")
	assert.ErrorContains(t, err, "invalid log level")
}

func TestConfigInit(t *testing.T) {
	fs := afero.NewMemMapFs()

	stdout, _, err := execute(t, fs, "", "config", "init", "/cfg/amici.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Wrote /cfg/amici.yaml\n", stdout)

	data, err := afero.ReadFile(fs, "/cfg/amici.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "prompt:")
	assert.Contains(t, string(data), "amici> ")
	assert.Contains(t, string(data), "log_level: warn")

	_, _, err = execute(t, fs, "", "config", "init", "/cfg/amici.yaml")
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, fs, "", "config", "init", "--force", "/cfg/amici.yaml")
	assert.NoError(t, err)
}

func TestConfigInit_RepairsBrokenFile(t *testing.T) {
	path, err := config.DefaultPath()
	if err != nil {
		t.Skipf("no user config dir: %v", err)
	}
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, path, []byte("prompt: [unterminated\n"), 0644))

	_, _, err = execute(t, fs, "quit\n")
	assert.ErrorContains(t, err, "read config")

	stdout, _, err := execute(t, fs, "", "config", "init", "--force")
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+"\n", stdout)

	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "log_level: warn")

	_, _, err = execute(t, fs, "quit\n")
	assert.NoError(t, err)
}

func TestConfigInit_LogsOverwrite(t *testing.T) {
	var logs bytes.Buffer
	logging.L.SetOutput(&logs)
	t.Cleanup(func() { logging.L.SetOutput(os.Stderr) })

	fs := afero.NewMemMapFs()
	_, _, err := execute(t, fs, "", "config", "init", "/cfg/amici.yaml")
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "overwriting")

	_, _, err = execute(t, fs, "", "config", "init", "--force", "/cfg/amici.yaml")
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "overwriting /cfg/amici.yaml")
}
