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


package datachat

import (
	"context"
	"log/slog"

	"github.com/calyptra/datachat/ai"
	"github.com/calyptra/datachat/ai/openai"
	"github.com/calyptra/datachat/index"
	"github.com/calyptra/datachat/ingest"
	"github.com/calyptra/datachat/storage"
	"github.com/calyptra/datachat/storage/flatfile"
)

// App wires the credential store, session store, AI provider, and index
// manager over a single data directory. One App serves many users; each
// login produces a Session.
type App struct {
	layout      *flatfile.Layout
	credentials storage.CredentialRepository
	sessions    storage.SessionRepository
	provider    ai.Provider
	indexes     *index.Manager
	logger      *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions)

type appOptions struct {
	aiConfig *ai.Config
	provider ai.Provider
	logger   *slog.Logger
}

// WithAIConfig sets the AI provider configuration.
// Ignored when WithProvider is also given.
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) {
		o.aiConfig = config
	}
}

// WithProvider injects a pre-built AI provider, bypassing the default
// OpenAI-compatible one.
func WithProvider(provider ai.Provider) AppOption {
	return func(o *appOptions) {
		o.provider = provider
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AppOption {
	return func(o *appOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewApp creates an application rooted at dataDir.
func NewApp(dataDir string, opts ...AppOption) (*App, error) {
	options := &appOptions{
		aiConfig: ai.DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	layout := flatfile.NewLayout(dataDir)

	provider := options.provider
	if provider == nil {
		p, err := openai.NewProvider(options.aiConfig)
		if err != nil {
			return nil, err
		}
		provider = p
	}

	indexes, err := index.NewManager(
		layout,
		provider.Embedder(),
		ingest.NewLoader(),
		ingest.NewSplitter(),
		index.WithModelName(options.aiConfig.EmbeddingModel),
		index.WithLogger(options.logger),
	)
	if err != nil {
		provider.Close()
		return nil, err
	}

	return &App{
		layout:      layout,
		credentials: flatfile.NewCredentialStore(layout),
		sessions:    flatfile.NewSessionStore(layout),
		provider:    provider,
		indexes:     indexes,
		logger:      options.logger,
	}, nil
}

// Register creates a new user account.
// Returns ErrUserExists when the username is taken.
func (app *App) Register(ctx context.Context, username, password string) error {
	created, err := app.credentials.Register(ctx, username, password)
	if err != nil {
		return err
	}
	if !created {
		return ErrUserExists
	}
	app.logger.Info("user registered", "user", username)
	return nil
}

// Login verifies credentials and opens a per-user session.
// Returns ErrInvalidCredentials when they do not match.
func (app *App) Login(ctx context.Context, username, password string) (*Session, error) {
	ok, err := app.credentials.Verify(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	if err := app.layout.EnsureUser(username); err != nil {
		return nil, err
	}
	app.logger.Info("user logged in", "user", username)
	return newSession(app, username), nil
}

// Sessions exposes the chat session repository.
func (app *App) Sessions() storage.SessionRepository {
	return app.sessions
}

// Credentials exposes the credential repository.
func (app *App) Credentials() storage.CredentialRepository {
	return app.credentials
}

// Close releases the AI provider and index worker pool.
func (app *App) Close() error {
	app.indexes.Release()
	if err := app.provider.Close(); err != nil {
		app.logger.Error("error closing AI provider", "err", err)
		return err
	}
	return nil
}
