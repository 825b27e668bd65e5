package cli_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formkit-dev/formkit/pkg/cli"
)

func TestAppRun(t *testing.T) {
	t.Parallel()

	t.Run("dispatches to the named command with remaining args", func(t *testing.T) {
		t.Parallel()
		var got []string
		app := cli.New("formkit", cli.WithOutput(&strings.Builder{}))
		require.NoError(t, app.Register(&cli.Command{
			Name:  "greet",
			Usage: "say hello",
			Run: func(_ context.Context, args []string) error {
				got = args
				return nil
			},
		}))

		require.NoError(t, app.Run(context.Background(), []string{"greet", "--name", "jamie"}))
		assert.Equal(t, []string{"--name", "jamie"}, got)
	})

	t.Run("unknown command prints usage and errors", func(t *testing.T) {
		t.Parallel()
		var out strings.Builder
		app := cli.New("formkit", cli.WithOutput(&out))
		require.NoError(t, app.Register(&cli.Command{
			Name:  "migrate:up",
			Usage: "apply all pending schema migrations",
			Run:   func(context.Context, []string) error { return nil },
		}))

		err := app.Run(context.Background(), []string{"nope"})
		assert.ErrorIs(t, err, cli.ErrUnknownCommand)
		assert.Contains(t, out.String(), "migrate:up")
		assert.Contains(t, out.String(), "Usage: formkit")
	})

	t.Run("no arguments errors", func(t *testing.T) {
		t.Parallel()
		app := cli.New("formkit", cli.WithOutput(&strings.Builder{}))
		assert.ErrorIs(t, app.Run(context.Background(), nil), cli.ErrNoCommand)
	})

	t.Run("help prints usage without error", func(t *testing.T) {
		t.Parallel()
		var out strings.Builder
		app := cli.New("formkit", cli.WithOutput(&out))
		require.NoError(t, app.Run(context.Background(), []string{"help"}))
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("rejects duplicate names", func(t *testing.T) {
		t.Parallel()
		app := cli.New("formkit")
		cmd := &cli.Command{Name: "x", Run: func(context.Context, []string) error { return nil }}
		require.NoError(t, app.Register(cmd))
		assert.ErrorIs(t, app.Register(cmd), cli.ErrDuplicateCommand)
	})

	t.Run("command errors propagate", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("boom")
		app := cli.New("formkit", cli.WithOutput(&strings.Builder{}))
		require.NoError(t, app.Register(&cli.Command{
			Name: "fail",
			Run:  func(context.Context, []string) error { return boom },
		}))
		assert.ErrorIs(t, app.Run(context.Background(), []string{"fail"}), boom)
	})
}
