// Command depthtree reads depthlog logfmt output and prints one ASCII
// call tree per goroutine, reconstructed from the depth column.
//
//	depthtree app.log
//	depthtree app.log --show-msg
//	depthtree app.log --only-tid 42
//	cat app.log | depthtree
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vimkim/depthlog/tree"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts tree.Options

	cmd := &cobra.Command{
		Use:   "depthtree [logfile]",
		Short: "Visualize call trees from depthlog logfmt output",
		Long: "depthtree parses logfmt lines carrying depth, tid and func columns\n" +
			"and prints an ASCII call tree per goroutine. Reads a file argument\n" +
			"or standard input.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return tree.Write(cmd.OutOrStdout(), in, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.ShowMsg, "show-msg", false, "append the log message to each node")
	cmd.Flags().StringVar(&opts.OnlyTID, "only-tid", "", "restrict output to one goroutine id")
	cmd.Flags().IntVar(&opts.MaxLines, "max-lines", 0, "cap the number of lines read (0 = unlimited)")
	cmd.Flags().BoolVar(&opts.NoCollapse, "no-collapse", false, "do not collapse consecutive identical nodes")

	return cmd
}
