package redis

import (
	"github.com/redis/go-redis/v9"
)

// Nil is returned by the client when a key does not exist
const Nil = redis.Nil

// Client wraps redis.UniversalClient to allow for easy mocking
type Client interface {
	redis.UniversalClient
}
