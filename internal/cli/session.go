package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mcoot/cowsbulls-go/internal/model"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Session management commands",
	}

	cmd.AddCommand(newSessionCreateCmd())
	cmd.AddCommand(newSessionJoinCmd())
	cmd.AddCommand(newSessionGetCmd())
	cmd.AddCommand(newSessionExitCmd())

	return cmd
}

// normalizeCode lowercases a user-typed session code to match the form
// the server stores and returns.
func normalizeCode(code string) string {
	return strings.ToLower(code)
}

// useRememberedIdentity loads the remembered player id for a session and
// attaches it to the client. Commands that mutate the session need it.
func useRememberedIdentity(code string) error {
	playerID, err := ids.Recall(model.SessionCode(code))
	if err != nil {
		return err
	}
	if playerID == "" {
		return fmt.Errorf("no player id remembered for session %s; create or join it first", code)
	}
	client.SetPlayerID(string(playerID))
	return nil
}

func newSessionCreateCmd() *cobra.Command {
	var digits int

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"name": args[0]}
			if digits > 0 {
				req["digit_length"] = digits
			}

			var result JoinedSessionResponse

			if err := client.Post("/api/v1/sessions", req, &result); err != nil {
				return err
			}

			if err := ids.Remember(model.SessionCode(result.Session.Code), model.PlayerID(result.PlayerID)); err != nil {
				return fmt.Errorf("failed to save player id: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&digits, "digits", 0, "Secret code length: 4, 5 or 6 (default: server default)")

	return cmd
}

func newSessionJoinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "join <code> [name]",
		Short: "Join a session, or rejoin one you were in before",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := normalizeCode(args[0])

			req := map[string]any{}
			if len(args) > 1 {
				req["name"] = args[1]
			}

			// Offer the remembered id so a rejoin keeps the same seat
			if remembered, err := ids.Recall(model.SessionCode(code)); err == nil && remembered != "" {
				req["player_id"] = string(remembered)
			}

			var result JoinedSessionResponse

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/join", code), req, &result); err != nil {
				return err
			}

			if err := ids.Remember(model.SessionCode(code), model.PlayerID(result.PlayerID)); err != nil {
				return fmt.Errorf("failed to save player id: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newSessionGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <code>",
		Short: "Get session state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := normalizeCode(args[0])

			var result SessionResponse

			if err := client.Get(fmt.Sprintf("/api/v1/sessions/%s", code), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result.Session)
			return nil
		},
	}
}

func newSessionExitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "exit <code>",
		Short: "Exit a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := normalizeCode(args[0])

			if err := useRememberedIdentity(code); err != nil {
				return err
			}

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/exit", code), nil, nil); err != nil {
				return err
			}

			if err := ids.Forget(model.SessionCode(code)); err != nil {
				return fmt.Errorf("failed to clear player id: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Exited session %s", code))
			return nil
		},
	}
}
