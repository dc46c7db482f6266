// Package counters buffers lookup hit/miss counters in redis and drains them into the stats store.
package counters

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/huangsam/fpstats/internal/contract"
	"github.com/huangsam/fpstats/schema"
	"github.com/redis/go-redis/v9"
)

const (
	// NumPartitions is the number of redis hashes the counters are spread over.
	NumPartitions = 256

	rootKey  = "lookups"
	hitType  = "hit"
	missType = "miss"
)

// ErrInvalidKey is returned by UnpackKey for malformed counter fields.
var ErrInvalidKey = errors.New("invalid lookup counter key")

// ErrInvalidCount is returned by IncrBy for a count below one.
var ErrInvalidCount = errors.New("lookup count must be positive")

// HashClient is the subset of redis commands the counters use.
// *redis.Client satisfies it.
type HashClient interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
	HIncrBy(ctx context.Context, key, field string, incr int64) *redis.IntCmd
}

// LookupKey identifies one counter: an application's hits or misses during one hour.
type LookupKey struct {
	Date  string
	Hour  int
	AppID int64
	Hit   bool
}

// PackKey builds the hash field for a counter.
func PackKey(k LookupKey) string {
	typ := missType
	if k.Hit {
		typ = hitType
	}
	return fmt.Sprintf("%s:%02d:%d:%s", k.Date, k.Hour, k.AppID, typ)
}

// UnpackKey parses a hash field built by PackKey.
func UnpackKey(field string) (LookupKey, error) {
	parts := strings.Split(field, ":")
	if len(parts) < 4 {
		return LookupKey{}, fmt.Errorf("%w: %q", ErrInvalidKey, field)
	}
	var k LookupKey
	if _, err := schema.ParseDay(parts[0]); err != nil {
		return LookupKey{}, fmt.Errorf("%w: %q: %w", ErrInvalidKey, field, err)
	}
	k.Date = parts[0]

	hour, err := strconv.Atoi(parts[1])
	if err != nil || hour < 0 || hour > 23 {
		return LookupKey{}, fmt.Errorf("%w: %q: bad hour %q", ErrInvalidKey, field, parts[1])
	}
	k.Hour = hour

	if k.AppID, err = strconv.ParseInt(parts[2], 10, 64); err != nil {
		return LookupKey{}, fmt.Errorf("%w: %q: bad application id %q", ErrInvalidKey, field, parts[2])
	}

	switch parts[3] {
	case hitType:
		k.Hit = true
	case missType:
	default:
		return LookupKey{}, fmt.Errorf("%w: %q: bad type %q", ErrInvalidKey, field, parts[3])
	}
	return k, nil
}

// PartitionKey returns the redis hash that holds field.
func PartitionKey(field string) string {
	return fmt.Sprintf("%s:%02x", rootKey, xxhash.Sum64String(field)%NumPartitions)
}

// partitionKeys lists every hash Flush drains, including the unpartitioned root.
func partitionKeys() []string {
	keys := make([]string, 0, NumPartitions+1)
	keys = append(keys, rootKey)
	for i := range NumPartitions {
		keys = append(keys, fmt.Sprintf("%s:%02x", rootKey, i))
	}
	return keys
}

// Counter records lookups into redis.
type Counter struct {
	client HashClient
	now    func() time.Time
}

// Option configures a Counter.
type Option func(*Counter)

// WithClock overrides the time source used to stamp counters.
func WithClock(now func() time.Time) Option {
	return func(c *Counter) { c.now = now }
}

// NewCounter creates a Counter backed by client.
func NewCounter(client HashClient, opts ...Option) *Counter {
	c := &Counter{client: client, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dial connects to redis and verifies the connection.
func Dial(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}
	return client, nil
}

// Incr counts one lookup for appID in the current hour.
func (c *Counter) Incr(ctx context.Context, appID int64, hit bool) error {
	return c.IncrBy(ctx, appID, hit, 1)
}

// IncrBy counts n lookups for appID in the current hour.
func (c *Counter) IncrBy(ctx context.Context, appID int64, hit bool, n int64) error {
	if n <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidCount, n)
	}
	now := c.now()
	field := PackKey(LookupKey{
		Date:  schema.FormatDay(now),
		Hour:  now.Hour(),
		AppID: appID,
		Hit:   hit,
	})
	if err := c.client.HIncrBy(ctx, PartitionKey(field), field, n).Err(); err != nil {
		return fmt.Errorf("failed to update lookup counter %s: %w", field, err)
	}
	return nil
}

// FlushResult summarizes a Flush run.
type FlushResult struct {
	Partitions int   `json:"partitions"`
	Recorded   int   `json:"recorded"`
	Lookups    int64 `json:"lookups"`
	Deleted    int   `json:"deleted"`
	Skipped    int   `json:"skipped"`
}

// Flush drains every partition into sink.
// A field already at zero was drained before and is deleted. Any other field is
// recorded and then decremented by the recorded amount, so increments that
// race with the flush are kept for the next run.
func (c *Counter) Flush(ctx context.Context, sink contract.LookupSink) (FlushResult, error) {
	var result FlushResult
	logger := contract.LoggerFrom(ctx)

	for _, key := range partitionKeys() {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		fields, err := c.client.HGetAll(ctx, key).Result()
		if err != nil {
			return result, fmt.Errorf("failed to read %s: %w", key, err)
		}
		result.Partitions++

		for field, raw := range fields {
			count, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				logger.Warn("skipping non-numeric lookup counter", "key", key, "field", field, "value", raw)
				result.Skipped++
				continue
			}
			if count == 0 {
				if err := c.client.HDel(ctx, key, field).Err(); err != nil {
					return result, fmt.Errorf("failed to delete %s %s: %w", key, field, err)
				}
				result.Deleted++
				continue
			}

			k, err := UnpackKey(field)
			if err != nil {
				logger.Warn("skipping lookup counter", "key", key, "err", err)
				result.Skipped++
				continue
			}

			var hits, misses int64
			if k.Hit {
				hits = count
			} else {
				misses = count
			}
			if err := sink.RecordLookups(ctx, k.AppID, k.Date, k.Hour, hits, misses); err != nil {
				return result, fmt.Errorf("failed to record %s: %w", field, err)
			}
			if err := c.client.HIncrBy(ctx, key, field, -count).Err(); err != nil {
				return result, fmt.Errorf("failed to decrement %s %s: %w", key, field, err)
			}
			result.Recorded++
			result.Lookups += count
		}
	}

	logger.Debug("lookup counters flushed", "partitions", result.Partitions, "recorded", result.Recorded, "deleted", result.Deleted)
	return result, nil
}
