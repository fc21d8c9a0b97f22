package mock

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// MockChatModel is a test double for ai.ChatModel.
// Responses are scripted: each GenerateContent call pops the next queued
// response. When the queue is empty it falls back to a fixed text reply.
type MockChatModel struct {
	// GenerateContentFunc is called by GenerateContent if set.
	// If nil, uses the scripted queue behavior.
	GenerateContentFunc func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)

	mu        sync.Mutex
	queue     []*llms.ContentResponse
	errQueue  []error
	calls     [][]llms.MessageContent
	callCount int
}

// NewMockChatModel creates a mock chat model with an empty script.
// Note: Returns concrete type to allow test assertions.
func NewMockChatModel() *MockChatModel {
	return &MockChatModel{}
}

// QueueTextResponse appends a plain-text completion to the script.
func (m *MockChatModel) QueueTextResponse(text string) {
	m.QueueResponse(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: text}},
	})
}

// QueueToolCallResponse appends a completion that requests a single tool call.
func (m *MockChatModel) QueueToolCallResponse(id, name, arguments string) {
	m.QueueResponse(&llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:   id,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      name,
					Arguments: arguments,
				},
			}},
		}},
	})
}

// QueueResponse appends a raw completion to the script.
func (m *MockChatModel) QueueResponse(response *llms.ContentResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, response)
	m.errQueue = append(m.errQueue, nil)
}

// QueueError appends an error turn to the script.
func (m *MockChatModel) QueueError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, nil)
	m.errQueue = append(m.errQueue, err)
}

// GenerateContent pops the next scripted response.
func (m *MockChatModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, messages, options...)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.callCount++
	m.calls = append(m.calls, messages)

	if len(m.queue) == 0 {
		return &llms.ContentResponse{
			Choices: []*llms.ContentChoice{{Content: "mock response"}},
		}, nil
	}

	response, err := m.queue[0], m.errQueue[0]
	m.queue = m.queue[1:]
	m.errQueue = m.errQueue[1:]
	if err != nil {
		return nil, err
	}
	return response, nil
}

// CallCount returns the number of GenerateContent calls.
func (m *MockChatModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Calls returns the message sets passed to GenerateContent, in order.
func (m *MockChatModel) Calls() [][]llms.MessageContent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Reset clears the script, recorded calls, and injected behavior.
func (m *MockChatModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = nil
	m.errQueue = nil
	m.calls = nil
	m.callCount = 0
	m.GenerateContentFunc = nil
}
