package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/sma-timetable-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	assert.False(t, repo.Available())
	var dest map[string]string
	err := repo.Get(ctx, "proposal:1", &dest)
	assert.True(t, errors.Is(err, appErrors.ErrCacheMiss))
	assert.NoError(t, repo.Set(ctx, "proposal:1", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.Delete(ctx, "proposal:1"))
	assert.NoError(t, repo.Ping(ctx))
	assert.NoError(t, repo.Close())
}
