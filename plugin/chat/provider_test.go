package chat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseModelProvider(t *testing.T) {
	tests := []struct {
		input   string
		want    ModelProvider
		wantErr bool
	}{
		{input: "openai", want: ProviderOpenAI},
		{input: "gemini", want: ProviderGemini},
		{input: "", want: ProviderGemini},
		{input: "anthropic", wantErr: true},
		{input: "OpenAI", wantErr: true},
		{input: "gpt-4", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseModelProvider(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidProvider)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestAdaptContextSystemChannel(t *testing.T) {
	entries := []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleHuman, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleHuman, Content: "q2"},
	}

	wire := AdaptContext(ProviderOpenAI, entries)
	require.Len(t, wire, 4)
	require.Equal(t, "system", wire[0].Role)
	require.Equal(t, "persona", wire[0].Content)
	require.Equal(t, "user", wire[1].Role)
	require.Equal(t, "assistant", wire[2].Role)
	require.Equal(t, "user", wire[3].Role)
}

func TestAdaptContextFolded(t *testing.T) {
	entries := []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleHuman, Content: "q1"},
		{Role: RoleAssistant, Content: "a1"},
		{Role: RoleHuman, Content: "q2"},
	}

	wire := AdaptContext(ProviderGemini, entries)
	require.Len(t, wire, 3)
	require.Equal(t, "user", wire[0].Role)
	require.Equal(t, "persona\n\nq1", wire[0].Content)
	require.Equal(t, "assistant", wire[1].Role)
	require.Equal(t, "a1", wire[1].Content)
	require.Equal(t, "q2", wire[2].Content)

	for _, msg := range wire {
		require.NotEqual(t, "system", msg.Role)
	}
}

func TestAdaptContextFoldedSingleEntry(t *testing.T) {
	entries := []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleHuman, Content: "first question"},
	}

	wire := AdaptContext(ProviderGemini, entries)
	require.Len(t, wire, 1)
	require.Equal(t, "user", wire[0].Role)
	require.Equal(t, "persona\n\nfirst question", wire[0].Content)
}

func TestAdaptContextFoldedAssistantLeads(t *testing.T) {
	entries := []Message{
		{Role: RoleSystem, Content: "persona"},
		{Role: RoleAssistant, Content: "a0"},
		{Role: RoleHuman, Content: "q1"},
	}

	wire := AdaptContext(ProviderGemini, entries)
	require.Len(t, wire, 3)
	require.Equal(t, "user", wire[0].Role)
	require.Equal(t, "persona", wire[0].Content)
	require.Equal(t, "assistant", wire[1].Role)
	require.Equal(t, "q1", wire[2].Content)
}
