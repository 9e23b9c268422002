package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

// NewWatchCommand constructs the `watch` command: it connects to the
// websocket endpoint, subscribes to one organization, and prints every
// frame as JSON until interrupted.
func NewWatchCommand(baseURL BaseURLFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream an organization's live updates",
		RunE: func(cmd *cobra.Command, _ []string) error {
			org, _ := cmd.Flags().GetInt64("org")

			wsURL := strings.Replace(baseURL(), "http", "ws", 1) + "/v1/ws"
			conn, resp, err := websocket.DefaultDialer.DialContext(cmd.Context(), wsURL, nil)
			if err != nil {
				return fmt.Errorf("dial %s: %w", wsURL, err)
			}
			if resp != nil {
				_ = resp.Body.Close()
			}
			defer conn.Close()

			sub := map[string]any{
				"event": "subscribe_organization",
				"data":  map[string]int64{"tenant_id": org},
			}
			if err := conn.WriteJSON(sub); err != nil {
				return err
			}

			go func() {
				<-cmd.Context().Done()
				_ = conn.Close()
			}()

			enc := json.NewEncoder(cmd.OutOrStdout())
			for {
				var frame map[string]any
				if err := conn.ReadJSON(&frame); err != nil {
					if cmd.Context().Err() != nil {
						return nil
					}
					return err
				}
				_ = enc.Encode(frame)
			}
		},
	}
	cmd.Flags().Int64("org", 0, "Organization id")
	_ = cmd.MarkFlagRequired("org")
	return cmd
}
