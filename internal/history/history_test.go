package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendAssignsUniqueIDs(t *testing.T) {
	log := NewLog()

	first := log.Append(RoleUser, "hello")
	second := log.Append(RoleAssistant, "hi there")

	assert.NotEmpty(t, first)
	assert.NotEmpty(t, second)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, log.Len())
}

func TestEntriesReturnsCopy(t *testing.T) {
	log := NewLog()
	log.Append(RoleUser, "original")

	entries := log.Entries()
	entries[0].Content = "mutated"

	assert.Equal(t, "original", log.Entries()[0].Content)
}

func TestRenderLimitsToRecentEntries(t *testing.T) {
	log := NewLog()
	log.Append(RoleUser, "oldest")
	log.Append(RoleAssistant, "middle")
	log.Append(RoleUser, "newest")

	rendered := log.Render(2)

	assert.NotContains(t, rendered, "oldest")
	assert.Contains(t, rendered, "middle")
	assert.Contains(t, rendered, "newest")
}

func TestRenderEmptyLog(t *testing.T) {
	assert.Equal(t, "", NewLog().Render(10))
}

func TestRenderIncludesRoles(t *testing.T) {
	log := NewLog()
	log.Append(RoleUser, "make a folder")
	log.Append(RoleCorrective, "that failed, try again")

	rendered := log.Render(10)
	require.NotEmpty(t, rendered)
	assert.True(t, strings.Contains(rendered, RoleUser))
	assert.True(t, strings.Contains(rendered, RoleCorrective))
}
