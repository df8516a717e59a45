package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arborml/id3/table/csv"
)

type splitCmdConfig struct {
	*rootCmdConfig
	setInput         string
	setOutput        string
	splitOutput      string
	splitProbability int
	seed             int64
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Split a set into two sets",
		Long:  `Split a CSV set into an output set and a split set, for instance to keep part of the data to test trees with`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := config.run(cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				exit(err)
			}
		},
	}
	cmd.PersistentFlags().StringVarP(&(config.setInput), "input", "i", "", "path to an input CSV file with the set to split (defaults to STDIN)")
	cmd.PersistentFlags().StringVarP(&(config.setOutput), "output", "o", "", "path to a file to dump the output set (defaults to STDOUT)")
	cmd.PersistentFlags().IntVarP(&(config.splitProbability), "split-probability", "p", 20, "probability as percent integer that a sample of the set will be assigned to the split set")
	cmd.PersistentFlags().StringVarP(&(config.splitOutput), "split-output", "s", "", "path to a file to dump the output of the split set (required)")
	cmd.PersistentFlags().Int64Var(&(config.seed), "seed", 0, "seed for the random assignment of samples (defaults to 0: seeded from the clock)")
	return cmd
}

func (scc *splitCmdConfig) Validate() error {
	if scc.splitOutput == "" {
		return fmt.Errorf("required split-output flag was not set")
	}
	if scc.splitProbability <= 0 || scc.splitProbability > 100 {
		return fmt.Errorf("split-probability flag was set to an invalid value: it must be set to an integer between 1 and 100")
	}
	return nil
}

func (scc *splitCmdConfig) run(stdin io.Reader, stdout io.Writer) error {
	if err := scc.Validate(); err != nil {
		return withCode(1, err)
	}
	r := csv.Reader{Comma: scc.global.Comma()}
	set := stdin
	if scc.setInput != "" {
		f, err := os.Open(scc.setInput)
		if err != nil {
			return withCode(2, fmt.Errorf("reading input set from %s: %w", scc.setInput, err))
		}
		defer f.Close()
		set = f
	}
	t, err := r.Read(set, "input")
	if err != nil {
		return withCode(3, err)
	}
	seed := scc.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	randomizer := rand.New(rand.NewSource(seed))
	var kept, split []int
	for i := 0; i < t.NumRows(); i++ {
		if (100 * randomizer.Float32()) > float32(scc.splitProbability) {
			kept = append(kept, i)
		} else {
			split = append(split, i)
		}
	}
	w := csv.Writer{Comma: scc.global.Comma()}
	out := stdout
	if scc.setOutput != "" {
		f, err := os.Create(scc.setOutput)
		if err != nil {
			return withCode(4, err)
		}
		defer f.Close()
		out = f
	}
	if err = w.Write(out, t.Select(kept)); err != nil {
		return withCode(5, err)
	}
	f, err := os.Create(scc.splitOutput)
	if err != nil {
		return withCode(6, err)
	}
	defer f.Close()
	if err = w.Write(f, t.Select(split)); err != nil {
		return withCode(7, err)
	}
	scc.logger.Info("set split", "rows", t.NumRows(), "output", len(kept), "split", len(split))
	return nil
}
