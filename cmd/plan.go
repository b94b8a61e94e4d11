package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/upskill-backend/internal/app"
	"github.com/yungbote/upskill-backend/internal/modules/planner"
)

func planCmd() *cobra.Command {
	var (
		inputPath string
		useAI     bool
		pretty    bool
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Validate an input profile and print its learning plan",
		Long: `Reads a profile JSON document (the /generate-plan request body) and prints
the resulting plan. Without --ai the deterministic generator is used; with --ai
the configured provider is raced against the timeout exactly as the server does,
minus the cache.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd.InOrStdin(), inputPath)
			if err != nil {
				return err
			}
			in, err := planner.ValidateInputJSON(raw)
			if err != nil {
				return err
			}

			log, err := app.NewLogger()
			if err != nil {
				return err
			}
			defer log.Sync()

			orch, err := app.NewOfflinePlanner(cmd.Context(), log, app.LoadConfig(log), useAI)
			if err != nil {
				return err
			}
			res := orch.Generate(cmd.Context(), in)
			log.Info("Plan generated", "source", res.Source, "fingerprint", res.Fingerprint)

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(res.Plan)
		},
	}
	cmd.Flags().StringVarP(&inputPath, "input", "i", "", `profile JSON file ("-" for stdin)`)
	cmd.Flags().BoolVar(&useAI, "ai", false, "use the configured AI provider")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}

func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("--input is required")
	}
	if path == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return raw, nil
}
