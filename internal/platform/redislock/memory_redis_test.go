package redislock

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// memoryRedis answers the commands Locker issues from an in-process map.
// It is installed as a go-redis hook, so commands never reach a connection.
type memoryRedis struct {
	mu       sync.Mutex
	values   map[string]string
	expiries map[string]time.Time
	evals    int
	setErr   error
}

func newMemoryClient() (*redis.Client, *memoryRedis) {
	mem := &memoryRedis{
		values:   make(map[string]string),
		expiries: make(map[string]time.Time),
	}
	// The address is never dialed.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(mem)
	return client, mem
}

// DialHook implements redis.Hook.
func (m *memoryRedis) DialHook(next redis.DialHook) redis.DialHook {
	return next
}

// ProcessPipelineHook implements redis.Hook.
func (m *memoryRedis) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

// ProcessHook implements redis.Hook.
func (m *memoryRedis) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		m.mu.Lock()
		defer m.mu.Unlock()

		var err error
		switch c := cmd.(type) {
		case *redis.BoolCmd:
			err = m.setNX(c)
		case *redis.Cmd:
			err = m.evalRelease(c)
		default:
			err = fmt.Errorf("memory redis: unsupported command %q", cmd.Name())
		}
		if err != nil {
			cmd.SetErr(err)
		}
		return err
	}
}

// setNX handles SET key value [PX ms|EX s] NX and SETNX key value.
func (m *memoryRedis) setNX(cmd *redis.BoolCmd) error {
	if m.setErr != nil {
		return m.setErr
	}

	args := cmd.Args()
	if len(args) < 3 {
		return errors.New("memory redis: SET needs key and value")
	}
	key, value := fmt.Sprint(args[1]), fmt.Sprint(args[2])

	var ttl time.Duration
	for i := 3; i+1 < len(args); i++ {
		n, err := strconv.ParseInt(fmt.Sprint(args[i+1]), 10, 64)
		if err != nil {
			continue
		}
		switch strings.ToLower(fmt.Sprint(args[i])) {
		case "px":
			ttl = time.Duration(n) * time.Millisecond
		case "ex":
			ttl = time.Duration(n) * time.Second
		}
	}

	m.expire(key)
	if _, held := m.values[key]; held {
		cmd.SetVal(false)
		return nil
	}

	m.values[key] = value
	if ttl > 0 {
		m.expiries[key] = time.Now().Add(ttl)
	}
	cmd.SetVal(true)
	return nil
}

// evalRelease runs the compare-and-delete release script for
// EVALSHA/EVAL sha-or-body numkeys key token.
func (m *memoryRedis) evalRelease(cmd *redis.Cmd) error {
	args := cmd.Args()
	name := strings.ToLower(cmd.Name())
	if (name != "evalsha" && name != "eval") || len(args) < 5 {
		return fmt.Errorf("memory redis: unsupported command %q", cmd.Name())
	}
	m.evals++

	key, token := fmt.Sprint(args[3]), fmt.Sprint(args[4])
	m.expire(key)
	if v, ok := m.values[key]; ok && v == token {
		delete(m.values, key)
		delete(m.expiries, key)
		cmd.SetVal(int64(1))
		return nil
	}
	cmd.SetVal(int64(0))
	return nil
}

func (m *memoryRedis) expire(key string) {
	if at, ok := m.expiries[key]; ok && !time.Now().Before(at) {
		delete(m.values, key)
		delete(m.expiries, key)
	}
}

// holder returns the token currently stored at key.
func (m *memoryRedis) holder(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.expire(key)
	v, ok := m.values[key]
	return v, ok
}

// steal replaces the token at key, as if another instance took the lock.
func (m *memoryRedis) steal(key, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = token
	delete(m.expiries, key)
}

func (m *memoryRedis) evalCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evals
}
