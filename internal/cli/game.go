package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameReadyCmd())
	cmd.AddCommand(newGameGuessCmd())
	cmd.AddCommand(newGameResetCmd())
	cmd.AddCommand(newGameRemoveCmd())

	return cmd
}

func newGameReadyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ready <code>",
		Short: "Toggle your ready flag; the game starts when everyone is ready",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := normalizeCode(args[0])

			if err := useRememberedIdentity(code); err != nil {
				return err
			}

			var result SessionResponse

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/ready", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result.Session)
			return nil
		},
	}
}

func newGameGuessCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guess <code> <value>",
		Short: "Submit a guess on your turn",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := normalizeCode(args[0])
			value := args[1]

			if err := useRememberedIdentity(code); err != nil {
				return err
			}

			req := map[string]string{"value": value}
			var result GuessResponse

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/guess", code), req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newGameResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset <code>",
		Short: "Reset a started game back to the lobby for a rematch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := normalizeCode(args[0])

			if err := useRememberedIdentity(code); err != nil {
				return err
			}

			var result SessionResponse

			if err := client.Post(fmt.Sprintf("/api/v1/sessions/%s/reset", code), nil, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result.Session)
			return nil
		},
	}
}

func newGameRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <code> <player-id>",
		Short: "Remove another player from the lobby",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := normalizeCode(args[0])
			target := args[1]

			if err := useRememberedIdentity(code); err != nil {
				return err
			}

			if err := client.Delete(fmt.Sprintf("/api/v1/sessions/%s/players/%s", code, target)); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Removed player %s", target))
			return nil
		},
	}
}
