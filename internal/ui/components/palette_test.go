package components_test

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tracky/internal/ui/components"
)

func TestSuggestFiltersByVerb(t *testing.T) {
	t.Parallel()
	assert.Len(t, components.Suggest(""), 4)
	assert.Equal(t, []string{"start [notes]", "stop", "switch <title>"}, components.Suggest("s"))
	assert.Equal(t, []string{"switch <title>"}, components.Suggest("sw ghost"))
	assert.Empty(t, components.Suggest("zzz"))
}

func TestPaletteSubmitAndCancel(t *testing.T) {
	t.Parallel()
	p := components.NewPalette()
	_ = p.Open()
	require.True(t, p.Visible())

	for _, r := range "new garden" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, p.Visible())
	assert.Equal(t, components.PaletteSubmitMsg{Input: "new garden"}, cmd())

	_ = p.Open()
	p, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.False(t, p.Visible())
	assert.Equal(t, components.PaletteCancelMsg{}, cmd())
}
