package mock

import (
	"github.com/calyptra/datachat/ai"
)

// MockProvider is a test double for ai.Provider aggregating the mock
// embedder and chat model.
type MockProvider struct {
	embedder  *MockEmbedder
	chatModel *MockChatModel
}

// NewMockProvider creates a provider backed by fresh mocks.
//
// Returns ai.Provider since it is the primary entry point; use
// GetMockEmbedder and GetMockChatModel to reach the concrete types for
// assertions and behavior injection.
func NewMockProvider() ai.Provider {
	return &MockProvider{
		embedder:  NewMockEmbedder(),
		chatModel: NewMockChatModel(),
	}
}

// NewMockProviderWithServices creates a provider from pre-built mocks,
// letting tests keep direct references to the concrete types.
func NewMockProviderWithServices(embedder *MockEmbedder, chatModel *MockChatModel) ai.Provider {
	return &MockProvider{
		embedder:  embedder,
		chatModel: chatModel,
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// ChatModel returns the mock chat completion service.
func (p *MockProvider) ChatModel() ai.ChatModel {
	return p.chatModel
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the concrete mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockChatModel returns the concrete mock chat model for test assertions.
func (p *MockProvider) GetMockChatModel() *MockChatModel {
	return p.chatModel
}
