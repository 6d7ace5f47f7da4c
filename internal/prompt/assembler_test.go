package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milkyai/milky-relay/internal/llm"
	"github.com/milkyai/milky-relay/internal/models"
)

func testModel(deep bool) models.Descriptor {
	return models.Descriptor{
		Key:                 "test/model",
		ProviderID:          "test/model",
		DisplayName:         "Test Model",
		Vendor:              models.VendorOpenRouter,
		SupportsDeepThought: deep,
	}
}

func TestAssembleEmptyHistory(t *testing.T) {
	out := Assemble(nil, "2+2?", testModel(false), false)

	require.Len(t, out, 2)
	assert.Equal(t, llm.RoleSystem, out[0].Role)
	assert.Equal(t, llm.RoleUser, out[1].Role)
	assert.Equal(t, "2+2?", out[1].Content)
}

func TestAssembleCoercesUnknownRoles(t *testing.T) {
	history := []RawMessage{
		{Role: "moderator", Content: "hi"},
		{Role: "", Content: "hello"},
		{Role: "assistant", Content: "hey"},
	}
	out := Assemble(history, "next", testModel(false), false)

	for _, m := range out {
		assert.True(t, llm.ValidRole(m.Role), "role %q leaked through", m.Role)
	}
	assert.Equal(t, llm.RoleUser, out[1].Role)
	assert.Equal(t, llm.RoleUser, out[2].Role)
}

func TestAssembleDropsEntriesWithoutContent(t *testing.T) {
	history := []RawMessage{
		{Role: "user", Content: ""},
		{Role: "user", Content: "kept"},
	}
	out := Assemble(history, "next", testModel(false), false)

	require.Len(t, out, 2)
	assert.Equal(t, "kept", out[1].Content)
}

func TestAssembleExactlyOneSystemFirst(t *testing.T) {
	history := []RawMessage{
		{Role: "system", Content: "stale vendor prompt"},
		{Role: "user", Content: "q"},
		{Role: "assistant", Content: "a"},
	}
	out := Assemble(history, "next", testModel(false), false)

	systems := 0
	for _, m := range out {
		if m.Role == llm.RoleSystem {
			systems++
		}
	}
	assert.Equal(t, 1, systems)
	assert.Equal(t, llm.RoleSystem, out[0].Role)
	assert.NotEqual(t, "stale vendor prompt", out[0].Content)
}

func TestAssembleAppendsTrailingUserTurn(t *testing.T) {
	history := []RawMessage{
		{Role: "user", Content: "q"},
		{Role: "assistant", Content: "a"},
	}
	out := Assemble(history, "follow-up", testModel(false), false)

	last := out[len(out)-1]
	assert.Equal(t, llm.RoleUser, last.Role)
	assert.Equal(t, "follow-up", last.Content)
}

func TestAssembleIdempotent(t *testing.T) {
	history := []RawMessage{
		{Role: "user", Content: "q"},
		{Role: "assistant", Content: "a"},
	}
	first := Assemble(history, "again", testModel(false), false)

	roundTrip := make([]RawMessage, len(first))
	for i, m := range first {
		roundTrip[i] = RawMessage{Role: m.Role, Content: m.Content}
	}
	second := Assemble(roundTrip, "again", testModel(false), false)

	assert.Equal(t, len(first), len(second))
	assert.Equal(t, first, second)
}

func TestSystemPromptDeepThinking(t *testing.T) {
	base := SystemPrompt(testModel(true), false)
	deep := SystemPrompt(testModel(true), true)
	unsupported := SystemPrompt(testModel(false), true)

	assert.False(t, strings.Contains(base, "DEEP THINKING BREAKDOWN"))
	assert.True(t, strings.Contains(deep, "DEEP THINKING BREAKDOWN"))
	assert.Equal(t, base, unsupported, "unsupported models keep the default template")
	assert.True(t, strings.Contains(base, "Test Model"))
}
