package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewEventsCommand constructs the `events` command that lists the retained
// notification history for an organization.
func NewEventsCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "List recent status events for an organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			limit, _ := cmd.Flags().GetInt("limit")
			path := fmt.Sprintf("/v1/events/list?org_id=%d", org)
			if limit > 0 {
				path += fmt.Sprintf("&limit=%d", limit)
			}
			var out map[string]any
			if err := getJSON(baseURL, path, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	cmd.Flags().Int("limit", 0, "Maximum number of events (0 = server default)")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
