package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCacheRepo struct{}

func (failingCacheRepo) Get(context.Context, string, interface{}) error { return errors.New("redis down") }
func (failingCacheRepo) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis down")
}
func (failingCacheRepo) Delete(context.Context, string) error { return errors.New("redis down") }

func TestCacheServiceDisabledIsNoop(t *testing.T) {
	svc := NewCacheService(failingCacheRepo{}, nil, 0, nil, false)
	hit, err := svc.Get(context.Background(), "k", &struct{}{})
	assert.False(t, hit)
	assert.NoError(t, err)
	assert.NoError(t, svc.Set(context.Background(), "k", 1, 0))
	assert.NoError(t, svc.Delete(context.Background(), "k"))
}

func TestCacheServiceRecordsMissesAndErrors(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(newMemoryCacheRepo(), metrics, 0, nil, true)

	var dest struct{}
	hit, err := svc.Get(context.Background(), "missing", &dest)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.cacheMisses))

	failing := NewCacheService(failingCacheRepo{}, metrics, 0, nil, true)
	_, err = failing.Get(context.Background(), "k", &dest)
	assert.Error(t, err)
	assert.Error(t, failing.Set(context.Background(), "k", 1, 0))
	assert.Error(t, failing.Delete(context.Background(), "k"))
}
