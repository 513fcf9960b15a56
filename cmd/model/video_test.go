package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVideoVisibleTo(t *testing.T) {
	published := &Video{OwnerID: 1, IsPublished: true}
	draft := &Video{OwnerID: 1}

	assert.True(t, published.VisibleTo(0))
	assert.True(t, published.VisibleTo(2))
	assert.True(t, draft.VisibleTo(1))
	assert.False(t, draft.VisibleTo(2))
	assert.False(t, draft.VisibleTo(0))
}
