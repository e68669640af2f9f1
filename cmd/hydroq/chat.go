package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abelzeko/hydro-dash/internal/entities"
	"github.com/abelzeko/hydro-dash/internal/render"
	"github.com/abelzeko/hydro-dash/internal/usecases"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var roleStyles = map[string]lipgloss.Style{
	entities.RoleUser:      lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	entities.RoleAssistant: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	entities.RoleSystem:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
}

func printMessages(w io.Writer, messages []entities.ChatMessage) {
	for _, m := range messages {
		if m.Role == entities.RoleUser {
			continue
		}
		label := roleStyles[m.Role].Render(m.Role)
		fmt.Fprintf(w, "%s [%s] %s\n", label, m.Timestamp.Format("15:04:05"), m.Content)
	}
}

func (c *cli) newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the hydrology assistant (one message per line, Ctrl-D to quit)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			session := usecases.NewChatSession(c.app.Chat)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			fmt.Fprint(out, "> ")
			for scanner.Scan() {
				line := scanner.Text()
				if strings.TrimSpace(line) == "/reset" {
					session.Reset()
				} else {
					printMessages(out, session.Send(cmd.Context(), line))
				}
				fmt.Fprint(out, "> ")
			}
			fmt.Fprintln(out)
			return scanner.Err()
		},
	}
}

func (c *cli) newAskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question in your own words (needs an OpenAI API key)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := render.NewView(c.app.Config.Output, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			assistant := c.app.Assistant(c.app.Controller(view, writerAlerter{w: cmd.ErrOrStderr()}))
			if assistant == nil {
				return errors.New("the assistant needs openai_api_key (or OPENAI_API_KEY) to be set")
			}

			result, err := assistant.Ask(cmd.Context(), strings.Join(args, " "))
			if result != nil && result.UserMessage != "" {
				fmt.Fprintln(cmd.ErrOrStderr(), result.UserMessage)
			}
			var verr *entities.ValidationError
			if errors.As(err, &verr) {
				return errAlerted
			}
			return err
		},
	}
}
