package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReply(t *testing.T) {
	now := time.Now().UTC()
	author := uint(3)

	t.Run("valid reply", func(t *testing.T) {
		r, err := NewReply(1, &author, "<p>hello</p>", false, now)
		require.NoError(t, err)
		assert.Equal(t, uint(1), r.TicketID())
		assert.False(t, r.IsInternal())
		assert.False(t, r.IsSystem())
	})

	t.Run("system reply has no author", func(t *testing.T) {
		r, err := NewReply(1, nil, "auto-close notice", false, now)
		require.NoError(t, err)
		assert.True(t, r.IsSystem())
	})

	t.Run("rejects empty body", func(t *testing.T) {
		_, err := NewReply(1, &author, "", false, now)
		assert.Error(t, err)
	})

	t.Run("rejects zero author id", func(t *testing.T) {
		zero := uint(0)
		_, err := NewReply(1, &zero, "body", false, now)
		assert.Error(t, err)
	})

	t.Run("rejects missing ticket", func(t *testing.T) {
		_, err := NewReply(0, &author, "body", false, now)
		assert.Error(t, err)
	})
}

func TestStatusDefinition(t *testing.T) {
	t.Run("public status falls back to label", func(t *testing.T) {
		def, err := NewStatusDefinition("in_progress", "In Progress", "", false)
		require.NoError(t, err)
		assert.Equal(t, "In Progress", def.PublicStatus())
	})

	t.Run("rejects non-canonical slug", func(t *testing.T) {
		_, err := NewStatusDefinition("In Progress", "In Progress", "", false)
		assert.Error(t, err)
	})

	t.Run("rejects empty label", func(t *testing.T) {
		_, err := NewStatusDefinition("open", "", "", true)
		assert.Error(t, err)
	})

	t.Run("rename validates slug", func(t *testing.T) {
		def, err := NewStatusDefinition("open", "Open", "", true)
		require.NoError(t, err)
		assert.Error(t, def.Rename("Bad Slug", "Bad", ""))
		require.NoError(t, def.Rename("triage", "Triage", "Being reviewed"))
		assert.Equal(t, "triage", def.TechStatus())
	})
}
