package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"plantcare/app"
	"plantcare/config"
	"plantcare/database"
	cpservice "plantcare/pkg/careplan/service"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "plantctl",
		Short:         "Maintenance commands for the plantcare database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(migrateCmd(), regenerateCmd(), dueCmd())
	return root
}

func open() (*app.App, error) {
	cfg := config.Load()
	db, err := database.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return app.New(cfg, db, nil, nil), nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and indexes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if _, err := database.Open(cfg.DBPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", cfg.DBPath)
			return nil
		},
	}
}

func regenerateCmd() *cobra.Command {
	var plantID uint
	cmd := &cobra.Command{
		Use:   "regenerate",
		Short: "Regenerate the care plan of one plant",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if plantID == 0 {
				return fmt.Errorf("--plant is required")
			}
			a, err := open()
			if err != nil {
				return err
			}
			ctx := context.Background()
			p, err := a.PlantByID(ctx, plantID)
			if err != nil {
				return err
			}
			plan, err := a.Plans.Generate(ctx, p, cpservice.TriggerRegenerate)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "plan %d (%s) with %d tasks\n", plan.ID, plan.Source, len(plan.Tasks))
			return nil
		},
	}
	cmd.Flags().UintVar(&plantID, "plant", 0, "plant id")
	return cmd
}

func dueCmd() *cobra.Command {
	var (
		user string
		days int
	)
	cmd := &cobra.Command{
		Use:   "due",
		Short: "List tasks due today or within the next days for a user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if user == "" {
				return fmt.Errorf("--user is required")
			}
			a, err := open()
			if err != nil {
				return err
			}
			ctx := context.Background()
			var out any
			if days > 0 {
				out, err = a.Tasks.Upcoming(ctx, user, days)
			} else {
				out, err = a.Tasks.Today(ctx, user)
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	cmd.Flags().StringVar(&user, "user", "", "user id")
	cmd.Flags().IntVar(&days, "days", 0, "look ahead this many days instead of today")
	return cmd
}
