package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"ytscribe/internal/webhook"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// writeJSONLine writes v as a single compact line, byte-identical to what
// the webhook dispatcher sends.
func writeJSONLine(cmd *cobra.Command, v any) error {
	data, err := webhook.Marshal(v)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
