package cmd

import (
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/coursegen/coursegen/internal/broker"
)

var forceDeleteStreams bool

func init() {
	force := true
	if v, err := strconv.ParseBool(os.Getenv("FORCE_DELETE_STREAMS")); err == nil {
		force = v
	}
	initStreamsCmd.Flags().BoolVar(&forceDeleteStreams, "force", force,
		"Delete pre-existing streams before creating them")
	rootCmd.AddCommand(initStreamsCmd)
}

var initStreamsCmd = &cobra.Command{
	Use:   "init-streams",
	Short: "Declare the work-queue streams the orchestrator and workers depend on",
	Long: `Idempotently creates every stream of the wire contract. Intended to run
once at deployment time, before the workers and the orchestrator start.
The command attempts all streams regardless of individual failures and
exits non-zero if any of them could not be ensured.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := broker.Connect(cmd.Context(), broker.URLFromEnv())
		if err != nil {
			return err
		}
		defer client.Close()
		return client.EnsureStreams(cmd.Context(), forceDeleteStreams)
	},
}
