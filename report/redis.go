package report

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zeu5/tabular-rl/types"
)

// RedisSink pushes series datasets into redis lists, one list per experiment and label
type RedisSink struct {
	client *redis.Client
	prefix string
	ctx    context.Context
}

func NewRedisSink(ctx context.Context, addr, prefix string) *RedisSink {
	return &RedisSink{
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			DialTimeout: 500 * time.Millisecond,
		}),
		prefix: prefix,
		ctx:    ctx,
	}
}

func seriesKey(prefix, analysis, experiment, label string) string {
	return fmt.Sprintf("%s:%s:%s:%s", prefix, analysis, experiment, label)
}

// Comparator replaces the lists of every (experiment, label) of the analysis
func (r *RedisSink) Comparator(analysis string) types.Comparator {
	return func(names []string, datasets []types.DataSet) error {
		pipe := r.client.Pipeline()
		for i, name := range names {
			series, ok := datasets[i].(types.Series)
			if !ok {
				continue
			}
			for _, label := range series.Labels() {
				vals := series[label]
				key := seriesKey(r.prefix, analysis, name, label)
				pipe.Del(r.ctx, key)
				if len(vals) == 0 {
					continue
				}
				points := make([]interface{}, len(vals))
				for j, v := range vals {
					points[j] = v
				}
				pipe.RPush(r.ctx, key, points...)
			}
		}
		if pipe.Len() == 0 {
			return nil
		}
		if _, err := pipe.Exec(r.ctx); err != nil {
			return fmt.Errorf("error pushing series to redis: %w", err)
		}
		return nil
	}
}

func (r *RedisSink) Close() error {
	return r.client.Close()
}
