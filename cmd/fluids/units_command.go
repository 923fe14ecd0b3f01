package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"fluids/internal/units"
)

func newUnitsCommand(ctx *commandContext) *cobra.Command {
	var si bool
	var override string
	cmd := &cobra.Command{
		Use:   "units",
		Short: "Show the unit selection a fetch would use",
		Long: "Show the unit selection a fetch would use, with every code available per quantity.\n" +
			"Pass the same --si or --units value you would give to fetch.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			codes, err := selectUnits(cfg, si, override)
			if err != nil {
				return err
			}
			labels, err := units.Resolve(codes)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, units.Count)
			for _, q := range units.Quantities() {
				options := make([]string, 0, len(q.Labels()))
				for i, label := range q.Labels() {
					options = append(options, fmt.Sprintf("%d=%s", i+1, label))
				}
				rows = append(rows, []string{
					q.Name(),
					q.Param(),
					strconv.Itoa(codes[q]),
					labels.Label(q),
					strings.Join(options, ", "),
				})
			}
			out := cmd.OutOrStdout()
			columns := leftColumns("Quantity", "Parameter", "Code", "Label", "Options")
			columns[2].Align = text.AlignRight
			fmt.Fprintln(out, renderTable(columns, rows))
			fmt.Fprintf(out, "Molar volume: %s\n", labels.MolarVolume)
			fmt.Fprintf(out, "Molar entropy: %s\n", labels.MolarEntropy)
			fmt.Fprintf(out, "Override string: %q\n", codes.String())
			return nil
		},
	}
	cmd.Flags().BoolVar(&si, "si", false, "Show the SI preset")
	cmd.Flags().StringVar(&override, "units", "", "Seven unit codes in T P D H W Vis ST order")
	cmd.MarkFlagsMutuallyExclusive("units", "si")
	return cmd
}
