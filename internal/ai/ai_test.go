package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{in: "```json\n[1,2]\n```", want: "[1,2]"},
		{in: "```\n[]\n```\n", want: "[]"},
		{in: "  [\"a\"]  ", want: `["a"]`},
		{in: "plain text", want: "plain text"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StripCodeFences(tt.in), tt.in)
	}
}

func TestFindJSONArray(t *testing.T) {
	assert.Equal(t, `[{"title":"a]","content":["x"]}]`,
		FindJSONArray(`Sure! [{"title":"a]","content":["x"]}] hope it helps [1]`))
	assert.Equal(t, "", FindJSONArray("no array here"))
	assert.Equal(t, "", FindJSONArray("[unterminated"))
}

func TestNewSelectsProvider(t *testing.T) {
	g, err := New(context.Background(), Config{Provider: ProviderOff})
	require.NoError(t, err)
	assert.IsType(t, Noop{}, g)

	g, err = New(context.Background(), Config{Provider: "OpenAI", APIKey: "sk-test"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAI{}, g)

	_, err = New(context.Background(), Config{Provider: ProviderOpenAI})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Provider: ProviderGemini})
	assert.Error(t, err)

	_, err = New(context.Background(), Config{Provider: "claude"})
	assert.Error(t, err)
}

func TestNoopReturnsEmpty(t *testing.T) {
	out, err := Noop{}.Generate(context.Background(), "anything")
	require.NoError(t, err)
	assert.Empty(t, out)
}
