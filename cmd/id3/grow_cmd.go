package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/arborml/id3/metadata"
	"github.com/arborml/id3/tree"
	treejson "github.com/arborml/id3/tree/json"
)

type growCmdConfig struct {
	*rootCmdConfig
	dataInput     string
	query         string
	metadataInput string
	output        string
	redis         bool
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a decision tree from a set of data to predict the result column named in the metadata. The tree is printed as a diagram unless its JSON form goes to STDOUT.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				exit(err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.dataInput), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL DB connection URL with data to use to grow the tree (defaults to STDIN, interpreted as CSV)")
	cmd.PersistentFlags().StringVarP(&(config.query), "query", "q", "", "query selecting the data from a SQL input (defaults to every row of the configured sql_table)")
	cmd.PersistentFlags().StringVarP(&(config.metadataInput), "metadata", "m", "", "path to a YML file with metadata describing the result column and the column types of the input (required)")
	cmd.PersistentFlags().StringVarP(&(config.output), "output", "o", "", "path to a file to which the generated tree will be written in JSON format (defaults to STDOUT)")
	cmd.PersistentFlags().BoolVar(&(config.redis), "redis", false, "save the generated tree in the configured redis node store and print its root ID")
	return cmd
}

func (gcc *growCmdConfig) Validate() error {
	if gcc.metadataInput == "" {
		return fmt.Errorf("required metadata flag was not set")
	}
	return nil
}

func (gcc *growCmdConfig) run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if err := gcc.Validate(); err != nil {
		return withCode(1, err)
	}
	md, err := metadata.ReadMetadataFromFile(gcc.metadataInput)
	if err != nil {
		return withCode(2, err)
	}
	trainingSet, err := gcc.readTable(ctx, gcc.dataInput, gcc.query, stdin, md)
	if err != nil {
		return withCode(3, fmt.Errorf("reading training set: %w", err))
	}
	ind, err := newInduction(trainingSet, md)
	if err != nil {
		return withCode(4, err)
	}
	gcc.logger.Info("growing tree", "rows", trainingSet.NumRows(), "columns", trainingSet.NumCols(), "result", md.Result)
	t, err := ind.grow(ctx, trainingSet, gcc.logger)
	if err != nil {
		return withCode(5, fmt.Errorf("growing the tree: %w", err))
	}
	gcc.logger.Info("tree grown", "nodes", t.Size(), "depth", t.Depth())
	if gcc.output != "" || gcc.redis {
		if _, err := fmt.Fprint(stdout, t); err != nil {
			return withCode(7, err)
		}
	}
	c := tree.StringCodec()
	if gcc.redis {
		ns, release, err := gcc.nodeStore(ctx)
		if err != nil {
			return withCode(6, err)
		}
		defer release()
		rootID, err := tree.Save(ctx, ns, t.Root(), c)
		if err != nil {
			return withCode(6, err)
		}
		fmt.Fprintln(stdout, rootID)
	}
	switch {
	case gcc.output != "":
		err = treejson.WriteJSONTreeToFile(gcc.output, t.Root(), c)
	case !gcc.redis:
		err = treejson.WriteJSONTree(stdout, t.Root(), c)
	}
	if err != nil {
		return withCode(7, err)
	}
	return nil
}
