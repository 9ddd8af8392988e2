package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"weightlog/internal/domain"
)

type entryFlags struct {
	date       string
	weight     float64
	calories   int
	photo      string
	noCalories bool
	noPhoto    bool
}

func (f *entryFlags) register(cmd *cobra.Command, dateHelp string) {
	cmd.Flags().StringVar(&f.date, "date", "", dateHelp)
	cmd.Flags().Float64Var(&f.weight, "weight", 0, "body weight in the configured unit")
	cmd.Flags().IntVar(&f.calories, "calories", 0, "calories eaten that day")
	cmd.Flags().StringVar(&f.photo, "photo", "", "path to a progress photo")
}

// apply overlays the flags the user actually set onto e.
func (f *entryFlags) apply(cmd *cobra.Command, e domain.Entry) domain.Entry {
	if cmd.Flags().Changed("date") {
		e.Day = f.date
	}
	if cmd.Flags().Changed("weight") {
		e.Weight = f.weight
	}
	if cmd.Flags().Changed("calories") {
		e.Calories = domain.Calories(f.calories)
	}
	if f.noCalories {
		e.Calories = nil
	}
	if cmd.Flags().Changed("photo") {
		e.PhotoPath = f.photo
	}
	if f.noPhoto {
		e.PhotoPath = ""
	}
	return e
}

func today() string {
	return domain.DayOf(time.Now())
}

func (c *cli) addCmd() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add the entry for a day",
		Long:  `Add a new entry. Fails if the day already has one; use save to overwrite.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := f.apply(cmd, domain.Entry{Day: today()})
			return c.withServices(func(s *services) error {
				added, err := s.entries.Add(cmd.Context(), e)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", added.Day)
				return nil
			})
		},
	}
	f.register(cmd, "day of the entry (default today)")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}

func (c *cli) saveCmd() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Add or overwrite the entry for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e := f.apply(cmd, domain.Entry{Day: today()})
			return c.withServices(func(s *services) error {
				saved, created, err := s.entries.Save(cmd.Context(), e)
				if err != nil {
					return err
				}
				verb := "updated"
				if created {
					verb = "added"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, saved.Day)
				return nil
			})
		},
	}
	f.register(cmd, "day of the entry (default today)")
	_ = cmd.MarkFlagRequired("weight")
	return cmd
}

func (c *cli) editCmd() *cobra.Command {
	var f entryFlags
	cmd := &cobra.Command{
		Use:   "edit DAY",
		Short: "Change an existing entry",
		Long:  `Change the fields given by flags and keep the rest. --date moves the entry to another free day.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(func(s *services) error {
				cur, err := s.entries.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				updated, err := s.entries.Update(cmd.Context(), cur.Day, f.apply(cmd, *cur))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", updated.Day)
				return nil
			})
		},
	}
	f.register(cmd, "move the entry to this day")
	cmd.Flags().BoolVar(&f.noCalories, "no-calories", false, "clear the calories")
	cmd.Flags().BoolVar(&f.noPhoto, "no-photo", false, "clear the photo path")
	cmd.MarkFlagsMutuallyExclusive("calories", "no-calories")
	cmd.MarkFlagsMutuallyExclusive("photo", "no-photo")
	return cmd
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete DAY",
		Aliases: []string{"rm"},
		Short:   "Delete the entry for a day (the photo file is kept)",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(func(s *services) error {
				if err := s.entries.Delete(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func (c *cli) showCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show DAY",
		Short: "Show the entry for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(func(s *services) error {
				e, err := s.entries.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), e)
				}
				return printEntries(cmd.OutOrStdout(), []domain.Entry{*e}, c.cfg.Unit)
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var (
		from, to string
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List entries, optionally within an inclusive date range",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withServices(func(s *services) error {
				var (
					items []domain.Entry
					err   error
				)
				if from == "" && to == "" {
					items, err = s.entries.ListAll(cmd.Context())
				} else {
					items, err = s.entries.Filter(cmd.Context(), orDefault(from, "0001-01-01"), orDefault(to, "9999-12-31"))
				}
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd.OutOrStdout(), items)
				}
				return printEntries(cmd.OutOrStdout(), items, c.cfg.Unit)
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "first day to include")
	cmd.Flags().StringVar(&to, "to", "", "last day to include")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printEntries(w io.Writer, entries []domain.Entry, unit string) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "no entries")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tWEIGHT\tCALORIES\tPHOTO")
	for _, e := range entries {
		cal := "-"
		if e.Calories != nil {
			cal = strconv.Itoa(*e.Calories)
		}
		photo := "-"
		if e.HasPhoto() {
			photo = e.PhotoPath
		}
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\n", e.Day, strconv.FormatFloat(e.Weight, 'f', -1, 64), unit, cal, photo)
	}
	return tw.Flush()
}
