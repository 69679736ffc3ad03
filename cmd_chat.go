package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"fitchat/chat"
	"fitchat/config"
	"fitchat/ui"
)

var contextFile string

func init() {
	rootCmd.AddCommand(chatCmd, askCmd)
	for _, c := range []*cobra.Command{chatCmd, askCmd} {
		c.Flags().StringVarP(&contextFile, "context-file", "f", "", "file with the fitness data sent alongside every question")
	}
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dataContext, err := readContextFile()
		if err != nil {
			return err
		}

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		return runREPL(cmd.Context(), client, dataContext, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question and print the answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dataContext, err := readContextFile()
		if err != nil {
			return err
		}

		client, err := newClient(cmd.Context())
		if err != nil {
			return err
		}

		reply, err := client.Chat(cmd.Context(), strings.Join(args, " "), dataContext)
		if err != nil {
			return err
		}

		fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(reply, termWidth()))
		return nil
	},
}

// newClient connects to the configured provider. The key comes from --api-key,
// the environment or the credential store; the store also fills Azure's
// endpoint and deployment when the config file leaves them empty.
func newClient(ctx context.Context) (*chat.Client, error) {
	store, err := openCredentials()
	if err != nil {
		return nil, err
	}

	pc := cfg.ProviderConfig("")
	pc.APIKey = config.ResolveAPIKey(apiKeyFlag, store, pc.Provider)
	store.Apply(&pc)

	opts := []chat.Option{
		chat.WithLogger(slog.Default()),
		chat.WithSampling(cfg.SamplingParams()),
	}
	if cfg.HistoryLimit > 0 {
		opts = append(opts, chat.WithHistoryLimit(cfg.HistoryLimit))
	}

	return chat.New(ctx, pc, opts...)
}

func readContextFile() (string, error) {
	if contextFile == "" {
		return "", nil
	}
	b, err := os.ReadFile(config.ExpandPath(contextFile))
	if err != nil {
		return "", fmt.Errorf("read context file: %w", err)
	}
	return string(b), nil
}

var replHelp = ui.FormatFooter(
	"/clear", "Forget conversation",
	"/history", "Show transcript",
	"/copy", "Copy transcript",
	"/exit", "Quit",
)

// runREPL reads questions line by line until EOF, /exit or ctx is done.
func runREPL(ctx context.Context, client *chat.Client, dataContext string, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	width := termWidth()

	name := client.Provider().DisplayName
	fmt.Fprintf(out, "%s %s\n", ui.TitleStyle.Render("fitchat"), ui.DimStyle.Render(name+" · "+client.Model()))
	fmt.Fprintln(out, replHelp)
	fmt.Fprintln(out)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(out, ui.UserStyle.Render("> "))

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			if quit := runSlashCommand(client, line, width, out); quit {
				return nil
			}
			continue
		}

		reply, err := client.Chat(ctx, line, dataContext)
		if err != nil {
			fmt.Fprintln(out, ui.ErrorStyle.Render(err.Error()))
			continue
		}
		fmt.Fprintf(out, "%s\n%s\n", ui.AssistantStyle.Render("Assistant"), ui.RenderMarkdown(reply, width))
	}
}

func runSlashCommand(client *chat.Client, line string, width int, out io.Writer) (quit bool) {
	switch strings.Fields(line)[0] {
	case "/exit", "/quit":
		return true
	case "/clear":
		client.ClearHistory()
		fmt.Fprintln(out, ui.SuccessStyle.Render("Conversation cleared."))
	case "/history":
		fmt.Fprint(out, ui.FormatTranscript(client.History(), width))
	case "/copy":
		turns := client.History()
		if len(turns) == 0 {
			fmt.Fprintln(out, ui.WarningStyle.Render("Nothing to copy yet."))
			break
		}
		if err := clipboard.WriteAll(ui.PlainTranscript(turns)); err != nil {
			fmt.Fprintln(out, ui.ErrorStyle.Render("copy failed: "+err.Error()))
			break
		}
		fmt.Fprintln(out, ui.SuccessStyle.Render(fmt.Sprintf("Copied %d messages.", len(turns))))
	case "/help":
		fmt.Fprintln(out, replHelp)
	default:
		fmt.Fprintln(out, ui.WarningStyle.Render("Unknown command "+line))
		fmt.Fprintln(out, replHelp)
	}
	return false
}
