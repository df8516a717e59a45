package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/arborml/id3"
	"github.com/arborml/id3/metadata"
)

type statsCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	query         string
	metadataInput string
}

func statsCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &statsCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show the information gain of every column",
		Long:  `Show the entropy of the result column of a set of data and the information gain of splitting it on each of the other columns`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				exit(err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.query), "query", "q", "", "query selecting the data from a SQL input (defaults to every row of the configured sql_table)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the result column and the column types of the input (required)")
	return cmd
}

func (scc *statsCmdConfig) Validate() error {
	if scc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (scc *statsCmdConfig) run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if err := scc.Validate(); err != nil {
		return withCode(1, err)
	}
	md, err := metadata.ReadMetadataFromFile(scc.metadataInput)
	if err != nil {
		return withCode(2, err)
	}
	t, err := scc.readTable(ctx, scc.dataInput, scc.query, stdin, md)
	if err != nil {
		return withCode(3, err)
	}
	ind, err := newInduction(t, md)
	if err != nil {
		return withCode(4, err)
	}
	systemEntropy, partitions, err := ind.rank(t)
	if err != nil {
		return withCode(5, err)
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%d rows\n", t.Title(), t.NumRows())
	fmt.Fprintf(tw, "entropy of %s\t%.4f\n", md.Result, systemEntropy)
	for _, p := range partitions {
		fmt.Fprintf(tw, "gain of %s\t%.4f\n", p.Column.Label(), p.InformationGain())
	}
	if best := id3.Best(partitions); best != nil {
		fmt.Fprintf(tw, "best split\t%s\n", best.Column.Label())
	}
	return withCode(6, tw.Flush())
}
