package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCandidates are probed in order when REDIS_ADDR is unset: the compose
// service name, a default local port, then the test profile port.
var redisCandidates = []string{"redis:6379", "localhost:6379", "localhost:56379"}

const redisLeaseTTL = 30 * time.Minute

// SetupTestRedis returns a client bound to a logical database leased for the
// duration of the test. The database is flushed before use and the lease is
// released on cleanup.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()
	addr, ok := findRedis(t)
	if !ok {
		unavailable(t, envFlag("TEST_REQUIRE_REDIS"), "redis unavailable for tests")
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr, DB: leaseRedisDB(t, addr)})
	t.Cleanup(func() { closeQuietly(t, "redis client", client) })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.FlushDB(ctx).Err(); err != nil {
		unavailable(t, envFlag("TEST_REQUIRE_REDIS"), "redis unavailable at %s: %v", addr, err)
	}
	return client
}

func findRedis(t TestingTB) (string, bool) {
	t.Helper()
	candidates := redisCandidates
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		candidates = []string{addr}
	}
	for _, addr := range candidates {
		if pingRedis(addr) == nil {
			return addr, true
		}
	}
	return "", false
}

func pingRedis(addr string) error {
	c := redis.NewClient(&redis.Options{Addr: addr})
	defer c.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return c.Ping(ctx).Err()
}

// leaseRedisDB picks a database index. TEST_REDIS_DB wins; otherwise one of
// 1..15 is claimed with SETNX on a lease key kept in DB 0, which tests never
// flush. Parallel packages therefore never share a database.
func leaseRedisDB(t TestingTB, addr string) int {
	t.Helper()
	if raw := os.Getenv("TEST_REDIS_DB"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
			return n
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", raw)
	}

	leases := redis.NewClient(&redis.Options{Addr: addr})
	owner := fmt.Sprintf("%d:%d", os.Getpid(), time.Now().UnixNano())
	for db := 1; db <= 15; db++ {
		key := fmt.Sprintf("ruralconnect:test:redis_db:%d", db)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		won, err := leases.SetNX(ctx, key, owner, redisLeaseTTL).Result()
		cancel()
		if err != nil || !won {
			continue
		}
		t.Cleanup(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := leases.Del(ctx, key).Err(); err != nil {
				t.Logf("release redis lease %s: %v", key, err)
			}
			closeQuietly(t, "redis lease client", leases)
		})
		return db
	}
	closeQuietly(t, "redis lease client", leases)
	t.Logf("no free redis database at %s, sharing DB 1", addr)
	return 1
}
