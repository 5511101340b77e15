package di

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainerRegisterAndGet(t *testing.T) {
	c := NewContainer()
	c.Register("blocks", "block-service")

	assert.Equal(t, "block-service", c.Get("blocks"))
	assert.True(t, c.Has("blocks"))
	assert.Nil(t, c.Get("missing"))
	assert.False(t, c.Has("missing"))
}

func TestContainerRegisterReplaces(t *testing.T) {
	c := NewContainer()
	c.Register("llm", 1)
	c.Register("llm", 2)

	assert.Equal(t, 2, c.Get("llm"))
}

func TestContainerRemove(t *testing.T) {
	c := NewContainer()
	c.Register("notify", "hub")
	c.Remove("notify")

	assert.False(t, c.Has("notify"))
	assert.Nil(t, c.Get("notify"))

	// Removing an unknown name is a no-op.
	c.Remove("notify")
}

func TestContainerClearAndNames(t *testing.T) {
	c := NewContainer()
	c.Register("blocks", 1)
	c.Register("drag", 2)

	names := c.GetNames()
	sort.Strings(names)
	assert.Equal(t, []string{"blocks", "drag"}, names)

	c.Clear()
	assert.Empty(t, c.GetNames())
	assert.False(t, c.Has("blocks"))
}

func TestGetContainerIsSingleton(t *testing.T) {
	assert.Same(t, GetContainer(), GetContainer())
}
