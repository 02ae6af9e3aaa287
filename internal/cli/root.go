// Package cli implements the goluno command line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/adamwoolhether/goluno"
	"github.com/adamwoolhether/goluno/client"
)

// closeTimeout bounds how long a command waits for in-flight calls on exit.
const closeTimeout = 5 * time.Second

var errNoCredentials = errors.New("credentials required: set BITX_KEY and BITX_SECRET")

// app is the state shared by every command of one invocation.
type app struct {
	out    io.Writer
	errOut io.Writer
	v      *viper.Viper
	cfg    settings
	log    *slog.Logger
	au     aurora.Aurora
	luno   *goluno.Luno
}

// NewRootCmd returns the goluno command tree writing results to out and
// logs to errOut.
func NewRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, v: newViper()}

	root := &cobra.Command{
		Use:           "goluno",
		Short:         "Query the Luno exchange",
		Long:          "goluno queries the Luno exchange API.\n\nCredentials are read from BITX_KEY and BITX_SECRET, or from a .env file.",
		Version:       client.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.SetOut(out)
	root.SetErr(errOut)

	bindFlags(root, a.v)

	root.AddCommand(
		a.tickerCmd(),
		a.tickersCmd(),
		a.orderBookCmd(),
		a.tradesCmd(),
		a.balanceCmd(),
		a.ordersCmd(),
		a.demoCmd(),
	)

	return root
}

// PrintError writes err to w the way the tool reports failures.
func PrintError(w io.Writer, err error, color bool) {
	au := aurora.NewAurora(color)

	msg := err.Error()
	if apiErr, ok := errors.AsType[*client.APIError](err); ok && apiErr.Code != "" {
		msg = fmt.Sprintf("%s (%s)", msg, apiErr.Code)
	}

	fmt.Fprintf(w, "%s %s\n", au.Bold(au.Red("error:")), msg)
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: level}))
	a.au = aurora.NewAurora(!cfg.NoColor)

	l, err := goluno.New(cfg.options(a.log)...)
	if err != nil {
		return fmt.Errorf("configuring client: %w", err)
	}
	a.luno = l

	a.log.Debug("client ready", "host", cfg.Host, "pair", cfg.Pair, "authenticated", l.Authenticated())

	return nil
}

// run adapts fn to a cobra RunE, closing the client once fn returns.
func (a *app) run(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		defer func() {
			if cerr := a.close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing client: %w", cerr)
			}
		}()

		return fn(cmd.Context(), args)
	}
}

func (a *app) close() error {
	if a.luno == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
	defer cancel()

	return a.luno.Close(ctx)
}

func (a *app) requireAuth() error {
	if !a.luno.Authenticated() {
		return errNoCredentials
	}

	return nil
}
