package agent

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/calyptra/datachat/ai/mock"
	"github.com/calyptra/datachat/core"
)

type stubRetriever struct {
	chunks  []string
	err     error
	queries []string
}

func (r *stubRetriever) Search(_ context.Context, query string, _ int) ([]string, error) {
	r.queries = append(r.queries, query)
	return r.chunks, r.err
}

func TestAgent_DirectAnswer(t *testing.T) {
	chatModel := mock.NewMockChatModel()
	chatModel.QueueTextResponse("Paris is the capital of France.")
	retriever := &stubRetriever{}

	a, err := New(chatModel, retriever)
	require.NoError(t, err)

	answer, err := a.Ask(context.Background(), nil, "What is the capital of France?")
	require.NoError(t, err)
	assert.Equal(t, "Paris is the capital of France.", answer)
	assert.Empty(t, retriever.queries)
}

func TestAgent_ToolCallThenAnswer(t *testing.T) {
	chatModel := mock.NewMockChatModel()
	chatModel.QueueToolCallResponse("call_1", ToolName, `{"query":"water cycle"}`)
	chatModel.QueueTextResponse("The water cycle has three stages.")
	retriever := &stubRetriever{chunks: []string{"Evaporation, condensation, precipitation."}}

	a, err := New(chatModel, retriever)
	require.NoError(t, err)

	answer, err := a.Ask(context.Background(), nil, "Explain the water cycle")
	require.NoError(t, err)
	assert.Equal(t, "The water cycle has three stages.", answer)
	require.Equal(t, []string{"water cycle"}, retriever.queries)

	// The second request must carry the tool result back to the model.
	calls := chatModel.Calls()
	require.Len(t, calls, 2)
	second := calls[1]
	last := second[len(second)-1]
	assert.Equal(t, llms.ChatMessageTypeTool, last.Role)
	require.Len(t, last.Parts, 1)
	toolResp, ok := last.Parts[0].(llms.ToolCallResponse)
	require.True(t, ok)
	assert.Equal(t, "call_1", toolResp.ToolCallID)
	assert.Contains(t, toolResp.Content, "Evaporation")
}

func TestAgent_HistoryIsForwarded(t *testing.T) {
	chatModel := mock.NewMockChatModel()
	chatModel.QueueTextResponse("It covers the water cycle.")

	a, err := New(chatModel, &stubRetriever{})
	require.NoError(t, err)

	history := []core.Message{
		{Speaker: core.SpeakerTypeHuman, Content: "What does chapter two cover?"},
		{Speaker: core.SpeakerTypeAI, Content: "Chapter two covers weather."},
	}
	_, err = a.Ask(context.Background(), history, "Summarize it")
	require.NoError(t, err)

	calls := chatModel.Calls()
	require.Len(t, calls, 1)
	messages := calls[0]
	// system + 2 history + question
	require.Len(t, messages, 4)
	assert.Equal(t, llms.ChatMessageTypeSystem, messages[0].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[1].Role)
	assert.Equal(t, llms.ChatMessageTypeAI, messages[2].Role)
	assert.Equal(t, llms.ChatMessageTypeHuman, messages[3].Role)
}

func TestAgent_ToolLoopExceeded(t *testing.T) {
	chatModel := mock.NewMockChatModel()
	for i := 0; i < 3; i++ {
		chatModel.QueueToolCallResponse("call_x", ToolName, `{"query":"again"}`)
	}

	a, err := New(chatModel, &stubRetriever{chunks: []string{"ctx"}}, WithMaxToolRounds(3))
	require.NoError(t, err)

	_, err = a.Ask(context.Background(), nil, "loop forever")
	assert.ErrorIs(t, err, ErrToolLoopExceeded)
}

func TestAgent_MalformedArgumentsReportedToModel(t *testing.T) {
	chatModel := mock.NewMockChatModel()
	chatModel.QueueToolCallResponse("call_1", ToolName, `{not json`)
	chatModel.QueueTextResponse("Recovered.")
	retriever := &stubRetriever{}

	a, err := New(chatModel, retriever)
	require.NoError(t, err)

	answer, err := a.Ask(context.Background(), nil, "q")
	require.NoError(t, err)
	assert.Equal(t, "Recovered.", answer)
	assert.Empty(t, retriever.queries)

	calls := chatModel.Calls()
	second := calls[1]
	last := second[len(second)-1]
	toolResp := last.Parts[0].(llms.ToolCallResponse)
	assert.Contains(t, toolResp.Content, "error")
}

func TestAgent_UnknownToolReportedToModel(t *testing.T) {
	chatModel := mock.NewMockChatModel()
	chatModel.QueueToolCallResponse("call_1", "delete_everything", `{}`)
	chatModel.QueueTextResponse("Fine.")

	a, err := New(chatModel, &stubRetriever{})
	require.NoError(t, err)

	answer, err := a.Ask(context.Background(), nil, "q")
	require.NoError(t, err)
	assert.Equal(t, "Fine.", answer)
}

func TestAgent_SearchFailureReportedToModel(t *testing.T) {
	chatModel := mock.NewMockChatModel()
	chatModel.QueueToolCallResponse("call_1", ToolName, `{"query":"x"}`)
	chatModel.QueueTextResponse("Could not search.")

	a, err := New(chatModel, &stubRetriever{err: errors.New("index offline")})
	require.NoError(t, err)

	answer, err := a.Ask(context.Background(), nil, "q")
	require.NoError(t, err)
	assert.Equal(t, "Could not search.", answer)
}

func TestAgent_ModelErrorPropagates(t *testing.T) {
	chatModel := mock.NewMockChatModel()
	cause := errors.New("connection refused")
	chatModel.QueueError(cause)

	a, err := New(chatModel, &stubRetriever{})
	require.NoError(t, err)

	_, err = a.Ask(context.Background(), nil, "q")
	assert.ErrorIs(t, err, cause)
}

func TestAgent_EmptyAnswer(t *testing.T) {
	chatModel := mock.NewMockChatModel()
	chatModel.QueueTextResponse("   ")

	a, err := New(chatModel, &stubRetriever{})
	require.NoError(t, err)

	_, err = a.Ask(context.Background(), nil, "q")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestAgent_RequiredDependencies(t *testing.T) {
	_, err := New(nil, &stubRetriever{})
	assert.ErrorIs(t, err, ErrChatModelRequired)

	_, err = New(mock.NewMockChatModel(), nil)
	assert.ErrorIs(t, err, ErrRetrieverRequired)
}

func TestAgent_SourceNameInToolDescription(t *testing.T) {
	a, err := New(mock.NewMockChatModel(), &stubRetriever{}, WithSourceName("biology.pdf"))
	require.NoError(t, err)

	tool := a.searchTool()
	assert.Contains(t, tool.Function.Description, "biology.pdf")
}
