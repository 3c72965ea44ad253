package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	sim "github.com/kernel-sim/kernel-sim/sim"
)

// validateCmd checks a config and a workload without running them.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a simulation config and workload",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := sim.DefaultSimConfig()
		if configPath != "" {
			loaded, err := sim.LoadSimConfig(configPath)
			if err != nil {
				return err
			}
			cfg = *loaded
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("config: %w", err)
		}
		w, err := resolveWorkload(workloadPath)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: scheduler=%s memory=%d frame=%d programs=%d runs=%d jobs=%d\n",
			cfg.Scheduler.Name, cfg.Machine.MemorySize, cfg.Machine.FrameSize,
			len(w.Programs), len(w.Runs), len(w.Jobs))
		return nil
	},
}
