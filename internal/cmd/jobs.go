package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fulmenhq/gofulmen/foundry"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/odcplane/odcplane/internal/observability"
	"github.com/odcplane/odcplane/pkg/controller"
	"github.com/odcplane/odcplane/pkg/engine"
	"github.com/odcplane/odcplane/pkg/jobregistry"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Manage tracked processing jobs",
	Long: `Inspect and stop jobs tracked in the on-disk registry.

These commands operate directly on the registry files used by the
server, so they work whether or not the server is running.`,
}

var jobsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tracked jobs",
	RunE:  runJobsList,
}

var jobsStopCmd = &cobra.Command{
	Use:   "stop <job_id>",
	Short: "Interrupt a job and drop its record",
	Args:  cobra.ExactArgs(1),
	RunE:  runJobsStop,
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.AddCommand(jobsListCmd)
	jobsCmd.AddCommand(jobsStopCmd)

	jobsListCmd.Flags().Bool("json", false, "Output as JSON")
}

func openRegistry() (*jobregistry.Registry, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
	}
	registry, err := jobregistry.New(jobregistry.NewFileStore(cfg.Registry.Dir))
	if err != nil {
		return nil, exitError(foundry.ExitFileReadError, "Failed to open job registry", err)
	}
	return registry, nil
}

func runJobsList(cmd *cobra.Command, args []string) error {
	registry, err := openRegistry()
	if err != nil {
		return err
	}

	records := registry.List()

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("no tracked jobs")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOB ID\tRUN ID\tPID\tCREATED\tRESULT")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			rec.JobID,
			rec.Handle.RunID,
			rec.Handle.PID,
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.ResultLocation)
	}
	return w.Flush()
}

func runJobsStop(cmd *cobra.Command, args []string) error {
	jobID := strings.TrimSpace(args[0])
	if jobID == "" {
		return exitError(foundry.ExitInvalidArgument, "Invalid job id", fmt.Errorf("job_id is required"))
	}

	cfg, err := loadConfig()
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid configuration", err)
	}

	registry, err := jobregistry.New(jobregistry.NewFileStore(cfg.Registry.Dir))
	if err != nil {
		return exitError(foundry.ExitFileReadError, "Failed to open job registry", err)
	}

	eng, err := engine.NewLocal(engine.LocalConfig{
		WorkerCommand: cfg.Engine.WorkerCommand,
		WorkerArgs:    cfg.Engine.WorkerArgs,
		ResultsDir:    cfg.Engine.ResultsDir,
	}, observability.CLILogger)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Invalid engine configuration", err)
	}

	ctrl, err := controller.New(eng, registry, observability.CLILogger)
	if err != nil {
		return exitError(foundry.ExitInvalidArgument, "Failed to build controller", err)
	}

	if err := ctrl.CancelJob(cmd.Context(), jobID); err != nil {
		observability.CLILogger.Error("Failed to stop job",
			zap.String("job_id", jobID),
			zap.Error(err))
		return exitError(foundry.ExitInvalidArgument, "Failed to stop job", err)
	}

	fmt.Printf("stopped %s\n", jobID)
	return nil
}
