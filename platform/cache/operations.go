package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
)

var ErrNotFound = errors.New("cache: key not found")

func Get(key string, conn redis.Conn) (string, error) {
	data, err := redis.String(conn.Do("GET", key))
	if errors.Is(err, redis.ErrNil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("cache get %s: %w", key, err)
	}
	return data, nil
}

func Del(key string, conn redis.Conn) error {
	_, err := conn.Do("DEL", key)
	return err
}

// Set stores value under key. A positive ttl sets an expiry.
func Set(key string, value interface{}, ttl time.Duration, conn redis.Conn) error {
	args := redis.Args{}.Add(key).Add(value)
	if ttl > 0 {
		args = args.Add("EX", int(ttl.Seconds()))
	}
	reply, err := redis.String(conn.Do("SET", args...))
	if err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	if reply != "OK" {
		return fmt.Errorf("cache set %s: unexpected reply %q", key, reply)
	}
	return nil
}
