package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewIncidentCommand constructs the `incident` command group and subcommands.
func NewIncidentCommand(baseURL BaseURLFunc) *cobra.Command {
	incidentCmd := &cobra.Command{Use: "incident", Short: "Incident operations"}
	incidentCmd.AddCommand(
		newIncidentCreateCommand(baseURL),
		newIncidentUpdateCommand(baseURL),
		newIncidentNoteCommand(baseURL),
		newIncidentListCommand(baseURL),
	)
	return incidentCmd
}

func newIncidentCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open an incident",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			title, _ := cmd.Flags().GetString("title")
			desc, _ := cmd.Flags().GetString("description")
			services, _ := cmd.Flags().GetInt64Slice("service")
			var out map[string]any
			body := map[string]any{"org_id": org, "title": title, "description": desc, "service_ids": services}
			if err := postJSON(baseURL, "/v1/incidents/create", body, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	cmd.Flags().String("title", "", "Incident title")
	cmd.Flags().String("description", "", "Incident description")
	cmd.Flags().Int64Slice("service", nil, "Affected service id (repeatable)")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newIncidentUpdateCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update an incident; only provided flags change",
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
			if cmd.Flags().Changed("service") {
				services, _ := cmd.Flags().GetInt64Slice("service")
				body["service_ids"] = services
			}
			if len(body) == 2 {
				return fmt.Errorf("nothing to update")
			}
			var out map[string]any
			if err := postJSON(baseURL, "/v1/incidents/update", body, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	cmd.Flags().Int64("id", 0, "Incident id")
	cmd.Flags().String("title", "", "New title")
	cmd.Flags().String("description", "", "New description")
	cmd.Flags().String("status", "", "New status: open|resolved")
	cmd.Flags().Int64Slice("service", nil, "Affected service id (repeatable)")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newIncidentNoteCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Append a timeline note to an incident",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			id, _ := cmd.Flags().GetInt64("id")
			text, _ := cmd.Flags().GetString("text")
			var out map[string]any
			if err := postJSON(baseURL, "/v1/incidents/note", map[string]any{"org_id": org, "id": id, "text": text}, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	cmd.Flags().Int64("id", 0, "Incident id")
	cmd.Flags().String("text", "", "Note text")
	_ = cmd.MarkFlagRequired("org")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

func newIncidentListCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an organization's incidents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")
			var out map[string]any
			if err := getJSON(baseURL, fmt.Sprintf("/v1/incidents/list?org_id=%d", org), &out); err != nil {
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
