package infra

import (
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	goredislib "github.com/redis/go-redis/v9"
)

// RedSync builds the distributed lock factory on top of the Redis client, or nil without one.
func RedSync(client *goredislib.Client) *redsync.Redsync {
	if client == nil {
		return nil
	}
	return redsync.New(goredis.NewPool(client))
}
