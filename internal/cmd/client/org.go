package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewOrgCommand constructs the `org` command group and subcommands.
func NewOrgCommand(baseURL BaseURLFunc) *cobra.Command {
	orgCmd := &cobra.Command{Use: "org", Short: "Organization operations"}
	orgCmd.AddCommand(
		newOrgCreateCommand(baseURL),
		newOrgGetCommand(baseURL),
		newOrgListCommand(baseURL),
	)
	return orgCmd
}

func newOrgCreateCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create organization",
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString("name")
			slug, _ := cmd.Flags().GetString("slug")
			var out map[string]any
			if err := postJSON(baseURL, "/v1/orgs/create", map[string]string{"name": name, "slug": slug}, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Organization name")
	cmd.Flags().String("slug", "", "Page slug (derived from name if empty)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newOrgGetCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Get organization by id or slug",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetInt64("id")
			slug, _ := cmd.Flags().GetString("slug")
			path := ""
			switch {
			case slug != "":
				path = "/v1/orgs/get?slug=" + slug
			case id > 0:
				path = fmt.Sprintf("/v1/orgs/get?id=%d", id)
			default:
				return fmt.Errorf("either --id or --slug is required")
			}
			var out map[string]any
			if err := getJSON(baseURL, path, &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().Int64("id", 0, "Organization id")
	cmd.Flags().String("slug", "", "Page slug")
	return cmd
}

func newOrgListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List organizations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var out map[string]any
			if err := getJSON(baseURL, "/v1/orgs/list", &out); err != nil {
				return err
			}
			printJSON(cmd.OutOrStdout(), out)
			return nil
		},
	}
}
