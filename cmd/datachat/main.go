// Copyright 2026 Calyptra Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/calyptra/datachat"
	"github.com/calyptra/datachat/ai"
)

func main() {
	app := &cli.App{
		Name:  "datachat",
		Usage: "Chat with your documents through a per-user semantic index",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Directory holding user credentials, chats, and indexes",
				Value:   "./data",
				EnvVars: []string{"DATACHAT_DATA_DIR"},
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "OpenAI-compatible service host URL",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"DATACHAT_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "embeddinggemma",
				EnvVars: []string{"DATACHAT_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "chat-model",
				Usage:   "Chat model name",
				Value:   "qwen2.5:3b",
				EnvVars: []string{"DATACHAT_CHAT_MODEL"},
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the AI service",
				EnvVars: []string{"DATACHAT_API_KEY"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"DATACHAT_LOG_LEVEL"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:   "register",
				Usage:  "Create a new user account",
				Action: registerCommand,
				Flags:  credentialFlags(),
			},
			{
				Name:   "ingest",
				Usage:  "Build the user's semantic index from a file or URL",
				Action: ingestCommand,
				Flags: append(credentialFlags(),
					&cli.StringFlag{
						Name:     "source",
						Aliases:  []string{"s"},
						Usage:    "Path to a .pdf, .docx, .txt, or .csv file, or a URL",
						Required: true,
					},
				),
			},
			{
				Name:  "chats",
				Usage: "Manage saved chat sessions",
				Subcommands: []*cli.Command{
					{
						Name:   "list",
						Usage:  "List chats, most recently updated first",
						Action: listChatsCommand,
						Flags:  credentialFlags(),
					},
					{
						Name:   "delete",
						Usage:  "Delete a chat",
						Action: deleteChatCommand,
						Flags: append(credentialFlags(),
							&cli.StringFlag{
								Name:     "chat",
								Usage:    "Chat ID to delete",
								Required: true,
							},
						),
					},
				},
			},
			{
				Name:   "chat",
				Usage:  "Start an interactive chat session",
				Action: chatCommand,
				Flags: append(credentialFlags(),
					&cli.StringFlag{
						Name:  "resume",
						Usage: "Chat ID to resume instead of starting a new chat",
					},
				),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func credentialFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "user",
			Aliases:  []string{"u"},
			Usage:    "Username",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "password",
			Aliases:  []string{"p"},
			Usage:    "Password",
			Required: true,
			EnvVars:  []string{"DATACHAT_PASSWORD"},
		},
	}
}

func buildApp(c *cli.Context) (*datachat.App, error) {
	config := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithChatModel(c.String("chat-model")),
		ai.WithAPIKey(c.String("api-key")),
	)
	return datachat.NewApp(c.String("data-dir"), datachat.WithAIConfig(config))
}

func login(ctx context.Context, c *cli.Context, app *datachat.App) (*datachat.Session, error) {
	session, err := app.Login(ctx, c.String("user"), c.String("password"))
	if errors.Is(err, datachat.ErrInvalidCredentials) {
		return nil, fmt.Errorf("login failed for %q: %w", c.String("user"), err)
	}
	return session, err
}

func registerCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	if err := app.Register(c.Context, c.String("user"), c.String("password")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Registered %s\n", c.String("user"))
	return nil
}

func ingestCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	session, err := login(c.Context, c, app)
	if err != nil {
		return err
	}

	source := c.String("source")
	fmt.Fprintf(c.App.Writer, "Ingesting %s...\n", source)
	if err := session.ProcessSource(c.Context, source); err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}
	fmt.Fprintln(c.App.Writer, "Index built. You can now chat about this source.")
	return nil
}

func listChatsCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	session, err := login(c.Context, c, app)
	if err != nil {
		return err
	}

	chats, err := session.ListChats(c.Context)
	if err != nil {
		return err
	}
	if len(chats) == 0 {
		fmt.Fprintln(c.App.Writer, "No chats yet.")
		return nil
	}
	for _, chat := range chats {
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", chat.ID, chat.Title)
	}
	return nil
}

func deleteChatCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	session, err := login(c.Context, c, app)
	if err != nil {
		return err
	}

	if err := session.DeleteChat(c.Context, c.String("chat")); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Deleted %s\n", c.String("chat"))
	return nil
}

func chatCommand(c *cli.Context) error {
	app, err := buildApp(c)
	if err != nil {
		return err
	}
	defer app.Close()

	session, err := login(c.Context, c, app)
	if err != nil {
		return err
	}

	if !session.HasIndex() {
		return fmt.Errorf("no knowledge source ingested yet; run 'datachat ingest' first")
	}

	if resume := c.String("resume"); resume != "" {
		if err := session.OpenChat(c.Context, resume); err != nil {
			return err
		}
		for _, msg := range session.History() {
			printMessage(c, msg.Speaker.String(), msg.Content)
		}
	} else {
		session.NewChat()
	}

	fmt.Fprintln(c.App.Writer, "Type your question, or /quit to exit.")
	return runREPL(c, session)
}

func runREPL(c *cli.Context, session *datachat.Session) error {
	scanner := bufio.NewScanner(c.App.Reader)
	scanner.Buffer(make([]byte, 64*1024), 64*1024)

	for {
		fmt.Fprint(c.App.Writer, "> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "/quit" || line == "/exit":
			return nil
		}

		answer, err := session.Send(c.Context, line)
		if errors.Is(err, datachat.ErrSaveFailed) {
			// The reply is still usable; warn and keep going.
			fmt.Fprintf(c.App.ErrWriter, "warning: %v\n", err)
		} else if err != nil {
			fmt.Fprintf(c.App.ErrWriter, "error: %v\n", err)
			continue
		}
		fmt.Fprintln(c.App.Writer, answer)
	}
}

func printMessage(c *cli.Context, speaker, content string) {
	fmt.Fprintf(c.App.Writer, "[%s] %s\n", speaker, content)
}

func setup(c *cli.Context) error {
	// A .env file is optional; flags and real env vars win over it.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("loading .env: %w", err)
	}
	return setupLogger(c)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
