package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"weightlog/internal/app"
	"weightlog/internal/domain"
)

func (c *cli) graphCmd() *cobra.Command {
	var from, to, unit, format, out string
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Export the weight and calorie chart to a PDF, PNG or SVG file",
		Long: `Render the trend chart for an inclusive date range. Without --from/--to the
range spans every stored entry. The format follows --format, else the
extension of --out, else PDF.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format == "" && out != "" {
				format = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			f, err := app.ParseChartFormat(format)
			if err != nil {
				return err
			}
			if out == "" {
				out = "weight_chart." + string(f)
			}
			if unit == "" {
				unit = c.cfg.Unit
			}

			return c.withServices(func(s *services) error {
				if from == "" || to == "" {
					all, err := s.entries.ListAll(cmd.Context())
					if err != nil {
						return err
					}
					if len(all) == 0 {
						return fmt.Errorf("%w: no entries to plot", domain.ErrNotFound)
					}
					from = orDefault(from, all[0].Day)
					to = orDefault(to, all[len(all)-1].Day)
				}

				var buf bytes.Buffer
				if err := s.charts.Export(cmd.Context(), &buf, from, to, unit, f); err != nil {
					return err
				}
				if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("%w: write %s: %w", domain.ErrIO, out, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day to plot")
	cmd.Flags().StringVar(&to, "to", "", "last day to plot")
	cmd.Flags().StringVar(&unit, "unit", "", "plot weights in kg or lb (default the storage unit)")
	cmd.Flags().StringVar(&format, "format", "", "pdf, png or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file")
	return cmd
}
