package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrz1836/olympus/internal/domain"
	"github.com/mrz1836/olympus/internal/errors"
	"github.com/mrz1836/olympus/internal/tui"
)

const (
	defaultServerURL    = "http://127.0.0.1:8080"
	statusClientTimeout = 10 * time.Second
)

// AddStatusCommand adds the status command. Tasks only live inside the
// hub that received them, so status asks a running server.
func AddStatusCommand(root *cobra.Command, flags *GlobalFlags) {
	var server string
	cmd := &cobra.Command{
		Use:   "status [task-id]",
		Short: "Show hub or task status from a running server",
		Example: `  olympus status
  olympus status 6f1c9a8e-2d1b-4f7a-9e55-0c6d3b1f2a11 --server http://10.0.0.5:8080`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tui.CheckNoColor()
			out := tui.NewOutput(cmd.OutOrStdout(), flags.Output)
			client := &statusClient{base: strings.TrimRight(server, "/"), http: &http.Client{Timeout: statusClientTimeout}}

			if len(args) == 0 {
				var st domain.HubStatus
				if err := client.get(cmd.Context(), "/status", &st); err != nil {
					return err
				}
				return render(out, flags.Output, st, func() { renderHubStatus(out, st) })
			}

			var view domain.TaskView
			if err := client.get(cmd.Context(), "/tasks/"+url.PathEscape(args[0]), &view); err != nil {
				return err
			}
			return render(out, flags.Output, view, func() { renderTask(out, view.Task, view.Team) })
		},
	}
	cmd.Flags().StringVar(&server, "server", defaultServerURL, "base URL of a running olympus serve")
	root.AddCommand(cmd)
}

type statusClient struct {
	base string
	http *http.Client
}

func (c *statusClient) get(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach %s: %w", c.base, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return fmt.Errorf("%w: %d %s", errors.ErrServerResponse, resp.StatusCode, msg)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
