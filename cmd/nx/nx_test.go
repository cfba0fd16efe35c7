package main

import (
	"testing"

	"github.com/cloud-bulldozer/nx/pkg/config"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, argv ...string) (config.Config, error) {
	t.Helper()
	cmd := &cobra.Command{Use: "nx"}
	setupFlags(cmd)
	require.NoError(t, cmd.ParseFlags(argv))
	return buildConfig(cmd, cmd.Flags().Args())
}

func TestFormatLastWins(t *testing.T) {
	cfg, err := parse(t, "-c", "-h", "true")
	require.NoError(t, err)
	assert.Equal(t, config.Human, cfg.Format)

	cfg, err = parse(t, "-h", "-c", "true")
	require.NoError(t, err)
	assert.Equal(t, config.CSV, cfg.Format)

	cfg, err = parse(t, "true")
	require.NoError(t, err)
	assert.Equal(t, config.Human, cfg.Format)
}

func TestCommandKeepsItsFlags(t *testing.T) {
	cfg, err := parse(t, "-n", "3", "ls", "-l", "-c", "/tmp")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Repeats)
	assert.Equal(t, config.Human, cfg.Format)
	assert.Equal(t, []string{"ls", "-l", "-c", "/tmp"}, cfg.Command)
	assert.NotEmpty(t, cfg.UUID)
}

func TestUsageErrors(t *testing.T) {
	_, err := parse(t, "-n", "0", "true")
	assert.ErrorIs(t, err, config.ErrRepeats)

	_, err = parse(t, "-n", "10001", "true")
	assert.ErrorIs(t, err, config.ErrRepeats)

	_, err = parse(t, "-n", "5")
	assert.ErrorIs(t, err, config.ErrNoCommand)
}

func TestConfigFileThenFlags(t *testing.T) {
	cfg, err := parse(t, "--config", "../../pkg/config/testdata/good-config.yml", "true")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Repeats)
	assert.Equal(t, config.CSV, cfg.Format)

	cfg, err = parse(t, "--config", "../../pkg/config/testdata/good-config.yml", "-n", "2", "-h", "true")
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Repeats)
	assert.Equal(t, config.Human, cfg.Format)
}
