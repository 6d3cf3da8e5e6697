package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRefreshCoordinatorNewestWins(t *testing.T) {
	r := &RefreshCoordinator{}

	first := r.Begin()
	second := r.Begin()

	assert.False(t, r.Commit(first))
	assert.True(t, r.Commit(second))
	assert.Equal(t, second, r.Current())
}

func TestRefreshCoordinatorCommitIsRepeatable(t *testing.T) {
	r := &RefreshCoordinator{}

	token := r.Begin()
	assert.True(t, r.Commit(token))
	assert.True(t, r.Commit(token))

	r.Begin()
	assert.False(t, r.Commit(token))
}
