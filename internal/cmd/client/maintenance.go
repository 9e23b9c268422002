package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMaintenanceCommand constructs the `maintenance` command group and
// subcommands.
func NewMaintenanceCommand(baseURL BaseURLFunc) *cobra.Command {
	maintenanceCmd := &cobra.Command{Use: "maintenance", Short: "Maintenance window operations"}
	maintenanceCmd.AddCommand(
		newMaintenanceCreateCommand(baseURL),
		newMaintenanceUpdateCommand(baseURL),
		newMaintenanceListCommand(baseURL),
	)
	return maintenanceCmd
}

func newMaintenanceCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Schedule a maintenance window",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			title, _ := cmd.Flags().GetString("title")
			desc, _ := cmd.Flags().GetString("description")
			services, _ := cmd.Flags().GetInt64Slice("service")
			startStr, _ := cmd.Flags().GetString("start")
			endStr, _ := cmd.Flags().GetString("end")
			start, err := parseTimeMs(startStr)
			if err != nil {
				return err
			}
			end, err := parseTimeMs(endStr)
			if err != nil {
				return err
			}
			body := map[string]any{
				"org_id": org, "title": title, "description": desc,
				"service_ids": services, "scheduled_start_ms": start, "scheduled_end_ms": end,
			}
			var out map[string]any
			if err := postJSON(baseURL, "/v1/maintenance/create", body, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	cmd.Flags().String("title", "", "Maintenance title")
	cmd.Flags().String("description", "", "Maintenance description")
	cmd.Flags().Int64Slice("service", nil, "Affected service id (repeatable)")
	cmd.Flags().String("start", "", "Scheduled start: RFC3339 or ms")
	cmd.Flags().String("end", "", "Scheduled end: RFC3339 or ms")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newMaintenanceUpdateCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a maintenance window; only provided flags change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			id, _ := cmd.Flags().GetInt64("id")
			body := map[string]any{"org_id": org, "id": id}
			for _, f := range []string{"title", "description", "status"} {
				if cmd.Flags().Changed(f) {
					v, _ := cmd.Flags().GetString(f)
					body[f] = v
				}
			}
			if cmd.Flags().Changed("start") {
				s, _ := cmd.Flags().GetString("start")
				ms, err := parseTimeMs(s)
				if err != nil {
					return err
				}
				body["scheduled_start_ms"] = ms
			}
			if cmd.Flags().Changed("end") {
				s, _ := cmd.Flags().GetString("end")
				ms, err := parseTimeMs(s)
				if err != nil {
					return err
				}
				body["scheduled_end_ms"] = ms
			}
			if len(body) == 2 {
				return fmt.Errorf("nothing to update")
			}
			var out map[string]any
			if err := postJSON(baseURL, "/v1/maintenance/update", body, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	cmd.Flags().Int64("id", 0, "Maintenance id")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("status", "", "New status: scheduled|in_progress|completed")
	cmd.Flags().String("start", "", "New scheduled start: RFC3339 or ms")
	cmd.Flags().String("end", "", "New scheduled end: RFC3339 or ms")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newMaintenanceListCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an organization's maintenance windows",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			var out map[string]any
			if err := getJSON(baseURL, fmt.Sprintf("/v1/maintenance/list?org_id=%d", org), &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
