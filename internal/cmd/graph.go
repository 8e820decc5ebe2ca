package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"

	"github.com/odcplane/odcplane/pkg/processgraph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Work with openEO process graphs",
}

var graphValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate a process graph against the submission schema",
	Long: `Validate a process-graph JSON document without submitting it.

Reads the given file, or stdin when no file is provided.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGraphValidate,
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.AddCommand(graphValidateCmd)
}

func runGraphValidate(cmd *cobra.Command, args []string) error {
	var (
		data []byte
		err  error
	)
	if len(args) == 1 {
		data, err = os.ReadFile(args[0])
		if err != nil {
			return exitError(foundry.ExitFileReadError, "Failed to read process graph", err)
		}
	} else {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return exitError(foundry.ExitFileReadError, "Failed to read stdin", err)
		}
	}

	graph, err := processgraph.Parse(data)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid process graph", err)
	}

	fmt.Printf("valid: job_id=%s nodes=%d output_format=%s\n",
		graph.JobID(), len(graph.Nodes), graph.OutputFormat())
	return nil
}
