package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig
	treeInput string
	redisRoot string
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print a decision tree",
		Long:  `Print a decision tree read from a JSON file or a redis node store as a diagram`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(cmd.Context(), cmd.OutOrStdout()); err != nil {
				exit(err)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to show will be read and parsed as JSON")
	cmd.Flags().StringVar(&(config.redisRoot), "redis-root", "", "ID of the root node of the tree to show in the configured redis node store")
	return cmd
}

func (tcc *treeCmdConfig) Validate() error {
	return validateTreeSource(tcc.treeInput, tcc.redisRoot)
}

func (tcc *treeCmdConfig) run(ctx context.Context, stdout io.Writer) error {
	if err := tcc.Validate(); err != nil {
		return withCode(1, err)
	}
	t, err := tcc.loadTree(ctx, tcc.treeInput, tcc.redisRoot)
	if err != nil {
		return withCode(2, err)
	}
	tcc.logger.Debug("tree loaded", "nodes", t.Size(), "depth", t.Depth(), "leaves", len(t.Leaves()))
	_, err = fmt.Fprint(stdout, t)
	return withCode(3, err)
}
