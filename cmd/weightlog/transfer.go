package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"weightlog/internal/adapter/csvfile"
)

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import entries from a CSV or legacy JSON file, overwriting existing days",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dec, err := csvfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			for _, raw := range dec.Skipped {
				slog.Warn("skipping entry with invalid date format", "date", raw, "path", args[0])
			}
			return c.withServices(func(s *services) error {
				res, err := s.entries.Import(cmd.Context(), dec.Entries)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d entries (%d new, %d replaced, %d skipped)\n",
					res.Created+res.Replaced, res.Created, res.Replaced, len(dec.Skipped))
				return nil
			})
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export FILE",
		Short: "Write every entry to a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(func(s *services) error {
				all, err := s.entries.ListAll(cmd.Context())
				if err != nil {
					return err
				}
				if err := csvfile.WriteFile(args[0], all); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", len(all), args[0])
				return nil
			})
		},
	}
}
