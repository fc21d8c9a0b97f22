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


package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/calyptra/datachat/ai"
	"github.com/calyptra/datachat/core"
)

// ToolName is the name the retrieval tool is registered under.
const ToolName = "context_search"

const (
	defaultSystemPrompt = "You are a helpful assistant. You must use the provided tools " +
		"to answer questions based on the context given. Use the conversation history " +
		"to provide context."

	toolDescriptionFormat = "Search for information from %s. " +
		"For any questions about its content, you must use this tool!"

	defaultMaxToolRounds = 8
)

// Retriever searches the user's semantic index.
type Retriever interface {
	Search(ctx context.Context, query string, topK int) ([]string, error)
}

// Agent answers questions over a knowledge source through a bounded
// tool-calling loop. It is stateless between calls; conversation history
// is supplied by the caller each turn.
type Agent struct {
	chatModel     ai.ChatModel
	retriever     Retriever
	systemPrompt  string
	sourceName    string
	maxToolRounds int
	topK          int
	logger        *slog.Logger
}

// Option configures an Agent.
type Option func(*Agent) error

// WithSourceName names the knowledge source in the tool description so
// the model knows what the tool searches. Default is "the knowledge source".
func WithSourceName(name string) Option {
	return func(a *Agent) error {
		if name != "" {
			a.sourceName = name
		}
		return nil
	}
}

// WithSystemPrompt overrides the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) error {
		if prompt != "" {
			a.systemPrompt = prompt
		}
		return nil
	}
}

// WithMaxToolRounds bounds how many consecutive tool-call rounds the
// model may take before the turn fails. Default is 8.
func WithMaxToolRounds(rounds int) Option {
	return func(a *Agent) error {
		if rounds > 0 {
			a.maxToolRounds = rounds
		}
		return nil
	}
}

// WithTopK sets how many chunks each search returns.
// Values less than 1 defer to the retriever's default.
func WithTopK(topK int) Option {
	return func(a *Agent) error {
		a.topK = topK
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Agent) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// New creates a new agent.
func New(chatModel ai.ChatModel, retriever Retriever, opts ...Option) (*Agent, error) {
	if chatModel == nil {
		return nil, ErrChatModelRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}

	a := &Agent{
		chatModel:     chatModel,
		retriever:     retriever,
		systemPrompt:  defaultSystemPrompt,
		sourceName:    "the knowledge source",
		maxToolRounds: defaultMaxToolRounds,
		logger:        slog.Default().With("component", "agent"),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// searchArgs is the JSON shape of a context_search tool call.
type searchArgs struct {
	Query string `json:"query"`
}

// Ask answers question given the prior conversation. The model may call
// context_search any number of times up to the round limit; the final
// text response is returned.
func (a *Agent) Ask(ctx context.Context, history []core.Message, question string) (string, error) {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeSystem,
		Parts: []llms.ContentPart{llms.TextPart(a.systemPrompt)},
	})
	for _, msg := range history {
		role, ok := speakerRole(msg.Speaker)
		if !ok {
			continue
		}
		messages = append(messages, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(msg.Content)},
		})
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(question)},
	})

	tools := []llms.Tool{a.searchTool()}

	for round := 0; round < a.maxToolRounds; round++ {
		response, err := a.chatModel.GenerateContent(ctx, messages, llms.WithTools(tools))
		if err != nil {
			return "", err
		}
		if len(response.Choices) == 0 {
			return "", ErrEmptyResponse
		}
		choice := response.Choices[0]

		if len(choice.ToolCalls) == 0 {
			answer := strings.TrimSpace(choice.Content)
			if answer == "" {
				return "", ErrEmptyResponse
			}
			return answer, nil
		}

		assistant := llms.MessageContent{Role: llms.ChatMessageTypeAI}
		if choice.Content != "" {
			assistant.Parts = append(assistant.Parts, llms.TextPart(choice.Content))
		}
		for _, call := range choice.ToolCalls {
			assistant.Parts = append(assistant.Parts, call)
		}
		messages = append(messages, assistant)

		for _, call := range choice.ToolCalls {
			messages = append(messages, a.executeToolCall(ctx, call))
		}
	}

	return "", fmt.Errorf("%w: %d rounds", ErrToolLoopExceeded, a.maxToolRounds)
}

// executeToolCall runs one tool call and wraps the outcome as a tool
// message. Malformed or unknown calls report the problem back to the
// model instead of aborting the turn.
func (a *Agent) executeToolCall(ctx context.Context, call llms.ToolCall) llms.MessageContent {
	respond := func(content string) llms.MessageContent {
		return llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{llms.ToolCallResponse{
				ToolCallID: call.ID,
				Name:       call.FunctionCall.Name,
				Content:    content,
			}},
		}
	}

	if call.FunctionCall == nil {
		return llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{llms.ToolCallResponse{
				ToolCallID: call.ID,
				Content:    "error: tool call had no function",
			}},
		}
	}
	if call.FunctionCall.Name != ToolName {
		a.logger.Warn("model requested unknown tool", "tool", call.FunctionCall.Name)
		return respond(fmt.Sprintf("error: unknown tool %q", call.FunctionCall.Name))
	}

	var args searchArgs
	if err := json.Unmarshal([]byte(call.FunctionCall.Arguments), &args); err != nil {
		a.logger.Warn("malformed tool arguments", "arguments", call.FunctionCall.Arguments, "err", err)
		return respond("error: arguments must be JSON with a \"query\" string")
	}
	if strings.TrimSpace(args.Query) == "" {
		return respond("error: query must not be empty")
	}

	a.logger.Debug("running context search", "query", args.Query)
	chunks, err := a.retriever.Search(ctx, args.Query, a.topK)
	if err != nil {
		a.logger.Error("context search failed", "query", args.Query, "err", err)
		return respond(fmt.Sprintf("error: search failed: %v", err))
	}
	if len(chunks) == 0 {
		return respond("no matching context found")
	}
	return respond(strings.Join(chunks, "\n\n"))
}

func (a *Agent) searchTool() llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        ToolName,
			Description: fmt.Sprintf(toolDescriptionFormat, a.sourceName),
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query": map[string]any{
						"type":        "string",
						"description": "The search query to run against the knowledge source.",
					},
				},
				"required": []string{"query"},
			},
		},
	}
}

func speakerRole(speaker core.SpeakerType) (llms.ChatMessageType, bool) {
	switch speaker {
	case core.SpeakerTypeHuman:
		return llms.ChatMessageTypeHuman, true
	case core.SpeakerTypeAI:
		return llms.ChatMessageTypeAI, true
	default:
		return "", false
	}
}
