package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"vehicleloan/internal/domain/loan"
	"vehicleloan/internal/usecase/review"
)

func showCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one application as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, ok := e.reg.Get(args[0])
			if !ok {
				return fmt.Errorf("%s: %w", args[0], loan.ErrNotFound)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(app)
		},
	}
}

func reviewCmd(e *env) *cobra.Command {
	var apiURL string
	cmd := &cobra.Command{
		Use:   "review <id> <status>",
		Short: "Move an application to Under Review, Approved or Rejected",
		Args:  cobra.ExactArgs(2),
		Annotations: map[string]string{
			skipStoreAnnotation: "api",
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				dto *review.TransitionDTO
				err error
			)
			if apiURL != "" {
				dto, err = reviewViaAPI(cmd.Context(), apiURL, args[0], args[1])
			} else {
				dto, err = review.NewUsecase(e.reg, e.log).Transition(cmd.Context(), review.TransitionInput{
					ApplicationID: args[0],
					To:            loan.Status(args[1]),
				})
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s -> %s\n", dto.ApplicationID, dto.From, dto.To)
			return nil
		},
	}
	cmd.Flags().StringVar(&apiURL, "api", "", "base URL of a running service (e.g. http://127.0.0.1:8080); the store is left to the service")
	return cmd
}

// reviewViaAPI posts the transition to a running service so its in-memory
// registry stays the only writer.
func reviewViaAPI(ctx context.Context, baseURL, id, status string) (*review.TransitionDTO, error) {
	body, err := json.Marshal(map[string]string{"status": status})
	if err != nil {
		return nil, err
	}
	endpoint := strings.TrimRight(baseURL, "/") + "/applications/" + url.PathEscape(id) + "/status"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return nil, fmt.Errorf("service returned status %d: %s", resp.StatusCode, e.Error)
	}
	var dto review.TransitionDTO
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &dto, nil
}
