package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSONList prints items as an indented JSON array on the command's
// stdout. An empty result prints [] rather than null.
func writeJSONList[T any](cmd *cobra.Command, items []T) error {
	if items == nil {
		items = []T{}
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(items)
}
