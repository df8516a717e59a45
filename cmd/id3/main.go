package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/arborml/id3/internal/config"
)

type rootCmdConfig struct {
	verbose    bool
	configFile string
	global     *config.Global
	logger     *slog.Logger
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := cliParser().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func cliParser() *cobra.Command {
	rootConfig := &rootCmdConfig{}
	rootCmd := &cobra.Command{
		Use:   "id3",
		Short: "id3 is a tool to grow decision trees",
		Long:  `A tool to grow decision trees from categorical data with the ID3 algorithm, test them, and use them to classify samples`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rootConfig.setup(cmd.ErrOrStderr())
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVarP(&(rootConfig.verbose), "verbose", "v", false, "log progress details to STDERR")
	rootCmd.PersistentFlags().StringVar(&(rootConfig.configFile), "config", "", "path to a YAML config file (defaults to ~/.id3/config.yaml)")
	rootCmd.AddCommand(
		versionCmd(),
		growCmd(rootConfig),
		treeCmd(rootConfig),
		predictCmd(rootConfig),
		testCmd(rootConfig),
		statsCmd(rootConfig),
		splitCmd(rootConfig),
	)
	return rootCmd
}

func (rc *rootCmdConfig) setup(stderr io.Writer) error {
	g, err := config.Load(rc.configFile)
	if err != nil {
		return err
	}
	rc.global = g
	rc.logger = newLogger(stderr, g.LogFormat, rc.verbose)
	return nil
}

// exitError carries the exit code of the step of a command that failed.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &exitError{code: code, err: err}
}

// exit prints the error to stderr and ends the process with its exit code.
func exit(err error) {
	fmt.Fprintln(os.Stderr, err)
	code := 1
	var ee *exitError
	if errors.As(err, &ee) {
		code = ee.code
	}
	os.Exit(code)
}
