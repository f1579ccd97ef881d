package cache

import "time"

// Driver names.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Config holds the cache settings.
type Config struct {
	// Driver selects the store: "memory" or "redis".
	Driver string `mapstructure:"driver" default:"memory" validate:"oneof=memory redis"`
	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `mapstructure:"redis_addr" default:"localhost:6379"`
	// RedisPassword is the optional Redis password.
	RedisPassword string `mapstructure:"redis_password" default:""`
	// RedisDB selects the Redis logical database.
	RedisDB int `mapstructure:"redis_db" default:"0" validate:"gte=0"`
	// TTLSeconds is the lifetime of cached entries.
	TTLSeconds int `mapstructure:"ttl_seconds" default:"300" validate:"gte=1"`
	// Prefix namespaces every key.
	Prefix string `mapstructure:"prefix" default:"inventory:"`
}

// TTL returns the entry lifetime as a duration.
func (c Config) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}
