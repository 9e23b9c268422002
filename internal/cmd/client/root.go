package client

import (
	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewRoot constructs a root Cobra command for the status page client.
// It registers all resource command groups.
func NewRoot(baseURL BaseURLFunc) *cobra.Command {
	root := &cobra.Command{
		Use:   "statuspage",
		Short: "Status page client commands",
	}
	root.AddCommand(NewOrgCommand(baseURL))
	root.AddCommand(NewServiceCommand(baseURL))
	root.AddCommand(NewIncidentCommand(baseURL))
	root.AddCommand(NewMaintenanceCommand(baseURL))
	root.AddCommand(NewStatusCommand(baseURL))
	root.AddCommand(NewEventsCommand(baseURL))
	root.AddCommand(NewWatchCommand(baseURL))
	return root
}
