package client

import (
	"github.com/spf13/cobra"
)

// NewStatusCommand constructs the `status` command that fetches the public
// page for a slug.
func NewStatusCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the public status page for an organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			slug, _ := cmd.Flags().GetString("slug")
			var out map[string]any
			if err := getJSON(baseURL, "/v1/public/status?slug="+slug, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("slug", "", "Page slug")
	_ = cmd.MarkFlagRequired("slug")
	return cmd
}
