package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewServiceCommand constructs the `service` command group and subcommands.
func NewServiceCommand(baseURL BaseURLFunc) *cobra.Command {
	serviceCmd := &cobra.Command{Use: "service", Short: "Service operations"}
	serviceCmd.AddCommand(
		newServiceCreateCommand(baseURL),
		newServiceUpdateCommand(baseURL),
		newServiceDeleteCommand(baseURL),
		newServiceListCommand(baseURL),
	)
	return serviceCmd
}

func newServiceCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Add a service to an organization's page",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			name, _ := cmd.Flags().GetString("name")
			desc, _ := cmd.Flags().GetString("description")
			status, _ := cmd.Flags().GetString("status")
			var out map[string]any
			body := map[string]any{"org_id": org, "name": name, "description": desc, "status": status}
			if err := postJSON(baseURL, "/v1/services/create", body, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	cmd.Flags().String("name", "", "Service name")
	cmd.Flags().String("description", "", "Service description")
	cmd.Flags().String("status", "", "Initial status (default operational)")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newServiceUpdateCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a service; only provided flags change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			id, _ := cmd.Flags().GetInt64("id")
			body := map[string]any{"org_id": org, "id": id}
			for _, f := range []string{"name", "description", "status"} {
				if cmd.Flags().Changed(f) {
					v, _ := cmd.Flags().GetString(f)
					body[f] = v
				}
			}
			if len(body) == 2 {
				return fmt.Errorf("nothing to update; pass --name, --description, or --status")
			}
			var out map[string]any
			if err := postJSON(baseURL, "/v1/services/update", body, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	cmd.Flags().Int64("id", 0, "Service id")
	cmd.Flags().String("name", "", "New name")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("status", "", "New status: operational|degraded|partial_outage|major_outage")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newServiceDeleteCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Remove a service",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			id, _ := cmd.Flags().GetInt64("id")
			if err := postJSON(baseURL, "/v1/services/delete", map[string]any{"org_id": org, "id": id}, nil); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "deleted")
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	cmd.Flags().Int64("id", 0, "Service id")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newServiceListCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an organization's services",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			var out map[string]any
			if err := getJSON(baseURL, fmt.Sprintf("/v1/services/list?org_id=%d", org), &out); err != nil {
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
