package theme

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToken(t *testing.T) {
	tests := []struct {
		input   string
		want    Token
		wantErr bool
	}{
		{input: "green", want: Green},
		{input: " Bold ", want: Bold},
		{input: "FLASHING", want: Flashing},
		{input: "blink", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseToken(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPaletteSetGet(t *testing.T) {
	p := DefaultPalette()

	got, ok := p.Get(KeyUnmerged)
	require.True(t, ok)
	assert.Equal(t, []Token{Red, Bold}, got)

	tokens := []Token{Yellow}
	require.NoError(t, p.Set(KeyStash, tokens))
	tokens[0] = Red
	got, _ = p.Get(KeyStash)
	assert.Equal(t, []Token{Yellow}, got, "Set copies its input")

	require.Error(t, p.Set("commits", nil))
	_, ok = p.Get("commits")
	assert.False(t, ok)
}

func TestKeysCoverPalette(t *testing.T) {
	p := DefaultPalette()
	for _, key := range Keys() {
		tokens, ok := p.Get(key)
		assert.True(t, ok, key)
		assert.NotEmpty(t, tokens, key)
	}
	assert.IsIncreasing(t, Keys())
}

func TestMessagesWithoutTerminal(t *testing.T) {
	var buf bytes.Buffer
	msgs := NewMessages(lipgloss.NewRenderer(&buf))

	assert.Equal(t, "Error:", msgs.Error.Render("Error:"))
	assert.Equal(t, "careful", msgs.Warning.Render("careful"))
}
