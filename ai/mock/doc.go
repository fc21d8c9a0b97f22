// Package mock provides test doubles for the ai interfaces.
//
// MockEmbedder produces deterministic FNV-seeded unit vectors so similarity
// scores are stable across runs. MockChatModel pops scripted responses,
// including tool-call turns, letting agent tests drive the full tool loop
// without a live model.
package mock
