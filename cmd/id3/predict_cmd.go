package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arborml/id3/tree"
)

type predictCmdConfig struct {
	*rootCmdConfig
	treeInput string
	redisRoot string
}

func predictCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &predictCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Classify a sample answering questions",
		Long:  `Use the loaded tree to classify a sample answering the questions the tree asks about it`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				exit(err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.treeInput), "tree", "t", "", "path to a file from which the tree to use will be read and parsed as JSON")
	cmd.PersistentFlags().StringVar(&(config.redisRoot), "redis-root", "", "ID of the root node of the tree to use in the configured redis node store")
	return cmd
}

func (pcc *predictCmdConfig) Validate() error {
	return validateTreeSource(pcc.treeInput, pcc.redisRoot)
}

func (pcc *predictCmdConfig) run(ctx context.Context, stdin io.Reader, stdout io.Writer) error {
	if err := pcc.Validate(); err != nil {
		return withCode(1, err)
	}
	t, err := pcc.loadTree(ctx, pcc.treeInput, pcc.redisRoot)
	if err != nil {
		return withCode(2, err)
	}
	answer, err := ask(ctx, t.Root(), bufio.NewScanner(stdin), stdout)
	if err != nil {
		return withCode(3, err)
	}
	fmt.Fprintf(stdout, "Prediction: %s\n", answer)
	return nil
}

/*
ask walks the tree from the given node asking the question of every inner
node on stdout and following the child for the answer read from stdin.
Answers without a child are rejected and the question asked again.
*/
func ask(ctx context.Context, n tree.Node[string, string], answers *bufio.Scanner, stdout io.Writer) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		switch v := n.(type) {
		case *tree.Leaf[string, string]:
			return v.Answer, nil
		case *tree.Inner[string, string]:
			valid := v.Answers()
			fmt.Fprintf(stdout, "%s\n(valid answers are %s)\n", v.Question, strings.Join(valid, ", "))
			if !answers.Scan() {
				if err := answers.Err(); err != nil {
					return "", err
				}
				return "", fmt.Errorf("no answer given to %s", v.Question)
			}
			a := strings.TrimSpace(answers.Text())
			child, ok := v.Children[a]
			if !ok {
				fmt.Fprintf(stdout, "%q is not a valid answer.\n", a)
				continue
			}
			n = child
		default:
			return "", fmt.Errorf("unexpected node %T", n)
		}
	}
}
