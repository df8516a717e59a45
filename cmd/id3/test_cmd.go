package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arborml/id3/metadata"
)

type testCmdConfig struct {
	*rootCmdConfig
	treeInput     string
	redisRoot     string
	dataInput     string
	query         string
	metadataInput string
}

func testCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &testCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "test",
		Short: "Test the performance of a tree",
		Long:  `Test the performance of a tree against a test data set`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				exit(err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL with data to test the tree against (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.query), "query", "q", "", "query selecting the data from a SQL input (defaults to every row of the configured sql_table)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the result column and the column types of the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to test will be read and parsed as JSON")
	cmd.PersistentFlags().StringVar(&(config.redisRoot), "redis-root", "", "ID of the root node of the tree to test in the configured redis node store")
	return cmd
}

func (tcc *testCmdConfig) Validate() error {
	if tcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return validateTreeSource(tcc.treeInput, tcc.redisRoot)
}

func (tcc *testCmdConfig) run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if err := tcc.Validate(); err != nil {
		return withCode(1, err)
	}
	md, err := metadata.ReadMetadataFromFile(tcc.metadataInput)
	if err != nil {
		return withCode(2, err)
	}
	testingSet, err := tcc.readTable(ctx, tcc.dataInput, tcc.query, stdin, md)
	if err != nil {
		return withCode(3, fmt.Errorf("reading testing set: %w", err))
	}
	ind, err := newInduction(testingSet, md)
	if err != nil {
		return withCode(4, err)
	}
	t, err := tcc.loadTree(ctx, tcc.treeInput, tcc.redisRoot)
	if err != nil {
		return withCode(5, err)
	}
	tcc.logger.Info("testing tree", "rows", testingSet.NumRows())
	successRate, errorCount, err := ind.test(ctx, t, testingSet)
	if err != nil {
		return withCode(6, fmt.Errorf("testing tree: %w", err))
	}
	fmt.Fprintf(stdout, "%f success rate, failed to make a prediction for %d samples\n", successRate, errorCount)
	return nil
}
