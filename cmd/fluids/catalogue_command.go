package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fluids/internal/catalogue"
)

func newCatalogueCommand(ctx *commandContext) *cobra.Command {
	catCmd := &cobra.Command{
		Use:     "catalogue",
		Aliases: []string{"catalog"},
		Short:   "Inspect and refresh the local substance catalogue",
	}
	catCmd.AddCommand(newCatalogueShowCommand(ctx))
	catCmd.AddCommand(newCatalogueStatusCommand(ctx))
	catCmd.AddCommand(newCatalogueRefreshCommand(ctx))
	catCmd.AddCommand(newCatalogueLookupCommand(ctx))
	return catCmd
}

func newCatalogueShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "List every catalogued substance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.openCatalogue()
			if err != nil {
				return err
			}
			entries, err := cat.Entries()
			if err != nil {
				return err
			}
			if jsonOutput {
				return writeJSONList(cmd, entries)
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderEntries(entries))
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newCatalogueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show catalogue age and freshness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.openCatalogue()
			if err != nil {
				return err
			}
			age, err := cat.Age()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderSectionHeader("Catalogue", colorize) {
				fmt.Fprintln(out, line)
			}
			fmt.Fprintln(out, renderStatusLine("Path", statusInfo, cat.Path(), colorize))
			if age == catalogue.Infinite {
				fmt.Fprintln(out, renderStatusLine("Age", statusError, "missing; run 'fluids catalogue refresh'", colorize))
				return nil
			}
			kind := statusOK
			message := formatAge(age)
			if age > cat.MaxAge() {
				kind = statusWarn
				message += fmt.Sprintf(" (stale, max %s)", formatAge(cat.MaxAge()))
			}
			fmt.Fprintln(out, renderStatusLine("Age", kind, message, colorize))
			entries, err := cat.Entries()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, renderStatusLine("Entries", statusInfo, fmt.Sprintf("%d", len(entries)), colorize))
			return nil
		},
	}
}

func newCatalogueRefreshCommand(ctx *commandContext) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Download the substance listing when stale or forced",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.openCatalogue()
			if err != nil {
				return err
			}
			result, err := cat.Refresh(cmd.Context(), force)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !result.Refreshed {
				fmt.Fprintf(out, "Catalogue is fresh (age %s); use --force to refresh anyway\n", formatAge(result.Age))
				return nil
			}
			fmt.Fprintf(out, "Catalogue refreshed: %d entries written to %s\n", result.Entries, cat.Path())
			return nil
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Refresh even when the catalogue is fresh")
	return cmd
}

func newCatalogueLookupCommand(ctx *commandContext) *cobra.Command {
	var byName, all, ignoreCase, jsonOutput bool
	cmd := &cobra.Command{
		Use:   "lookup <fragment>",
		Short: "Find a substance name by ID, or an ID by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := ctx.openCatalogue()
			if err != nil {
				return err
			}
			field := catalogue.ByID
			if byName {
				field = catalogue.ByName
			}
			matches, err := cat.LookupAll(field, args[0], catalogue.MatchOptions{FoldCase: ignoreCase})
			if err != nil {
				return err
			}
			if !all && len(matches) > 1 {
				matches = matches[:1]
			}
			if jsonOutput {
				return writeJSONList(cmd, matches)
			}
			out := cmd.OutOrStdout()
			switch {
			case len(matches) == 0:
				fmt.Fprintln(out, catalogue.NotAvailable)
			case all:
				fmt.Fprintln(out, renderEntries(matches))
			case byName:
				fmt.Fprintln(out, matches[0].ID)
			default:
				fmt.Fprintln(out, matches[0].Name)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&byName, "by-name", false, "Match against names and print the ID")
	cmd.Flags().BoolVar(&all, "all", false, "Print every match instead of the first")
	cmd.Flags().BoolVarP(&ignoreCase, "ignore-case", "i", false, "Case-insensitive matching")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func renderEntries(entries []catalogue.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.ID, e.Name})
	}
	return renderTable(leftColumns("ID", "Name"), rows)
}

func formatAge(d time.Duration) string {
	if d == catalogue.Infinite {
		return "never"
	}
	d = d.Round(time.Second)
	if d >= 48*time.Hour {
		return fmt.Sprintf("%dd%s", int(d.Hours())/24, (d % (24 * time.Hour)).String())
	}
	return d.String()
}
