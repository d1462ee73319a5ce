//go:build integration

package task_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"dealchecker/internal/task"
	"dealchecker/pkg/testutil/containers"
)

type RedisGuardSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisGuardSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisGuardSuite))
}

func (s *RedisGuardSuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
	s.Require().NoError(s.redis.Client.Health(context.Background()))
}

func (s *RedisGuardSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisGuardSuite) TestAcquireIsExclusiveAcrossInstances() {
	ctx := context.Background()
	a := task.NewRedisGuard(s.redis.Client.Client)
	b := task.NewRedisGuard(s.redis.Client.Client)

	tokenA, ok, err := a.Acquire(ctx, "D1:k", time.Minute)
	s.Require().NoError(err)
	s.True(ok)

	tokenB, ok, err := b.Acquire(ctx, "D1:k", time.Minute)
	s.Require().NoError(err)
	s.False(ok)

	// b never held the lock, so its release is a no-op.
	s.NoError(b.Release(ctx, "D1:k", tokenB))
	_, ok, _ = b.Acquire(ctx, "D1:k", time.Minute)
	s.False(ok)

	s.NoError(a.Release(ctx, "D1:k", tokenA))
	_, ok, _ = b.Acquire(ctx, "D1:k", time.Minute)
	s.True(ok)
}

func (s *RedisGuardSuite) TestLockExpires() {
	ctx := context.Background()
	g := task.NewRedisGuard(s.redis.Client.Client)
	_, ok, err := g.Acquire(ctx, "D2:k", 50*time.Millisecond)
	s.Require().NoError(err)
	s.True(ok)

	s.Eventually(func() bool {
		_, ok, err := task.NewRedisGuard(s.redis.Client.Client).Acquire(ctx, "D2:k", time.Minute)
		return err == nil && ok
	}, 2*time.Second, 20*time.Millisecond)
}

func (s *RedisGuardSuite) TestStaleReleaseKeepsNewHolder() {
	ctx := context.Background()
	g := task.NewRedisGuard(s.redis.Client.Client)

	first, ok, err := g.Acquire(ctx, "D3:k", 50*time.Millisecond)
	s.Require().NoError(err)
	s.Require().True(ok)

	var second string
	s.Require().Eventually(func() bool {
		token, ok, err := g.Acquire(ctx, "D3:k", time.Minute)
		second = token
		return err == nil && ok
	}, 2*time.Second, 20*time.Millisecond)

	s.NoError(g.Release(ctx, "D3:k", first))
	_, ok, err = g.Acquire(ctx, "D3:k", time.Minute)
	s.Require().NoError(err)
	s.False(ok, "late release must not free the second holder's lock")

	s.NoError(g.Release(ctx, "D3:k", second))
	_, ok, _ = g.Acquire(ctx, "D3:k", time.Minute)
	s.True(ok)
}
