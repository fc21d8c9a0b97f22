package main

import (
	"context"
	"flag"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func contextWithLogLevel(t *testing.T, level string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.String("log-level", level, "")
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "Info"} {
			err := setupLogger(contextWithLogLevel(t, level))
			assert.NoError(t, err, "level %q", level)
		}
	})

	t.Run("invalid level", func(t *testing.T) {
		err := setupLogger(contextWithLogLevel(t, "verbose"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("debug level enables debug logging", func(t *testing.T) {
		require.NoError(t, setupLogger(contextWithLogLevel(t, "debug")))
		assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestCredentialFlags(t *testing.T) {
	flags := credentialFlags()
	require.Len(t, flags, 2)

	user, ok := flags[0].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "user", user.Name)
	assert.True(t, user.Required)

	password, ok := flags[1].(*cli.StringFlag)
	require.True(t, ok)
	assert.Equal(t, "password", password.Name)
	assert.True(t, password.Required)
	assert.Contains(t, password.EnvVars, "DATACHAT_PASSWORD")
}

func TestIngestCommandRequiresSource(t *testing.T) {
	app := &cli.App{
		Name: "datachat",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
				Flags: append(credentialFlags(),
					&cli.StringFlag{
						Name:     "source",
						Required: true,
					},
				),
			},
		},
	}

	err := app.Run([]string{"datachat", "ingest", "--user", "alice", "--password", "pw"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source")
}
