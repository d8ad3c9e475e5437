// internal/pkg/redis/client.go
package redis

import (
	"context"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"
)

// Client 在 go-redis 之上加了一层 Lua 脚本注册表。
// 脚本在初始化阶段统一 Load，运行期通过名字执行，
// 避免每次调用都携带脚本内容。
type Client struct {
	rdb *goredis.Client

	mu      sync.RWMutex
	scripts map[string]*goredis.Script
}

// NewClient 创建并连通一个 redis 客户端。
func NewClient(ctx context.Context, addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect redis at %s: %w", addr, err)
	}
	return &Client{
		rdb:     rdb,
		scripts: make(map[string]*goredis.Script),
	}, nil
}

// LoadScriptFromContent 注册一段命名的 Lua 脚本。
func (c *Client) LoadScriptFromContent(name, content string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.scripts[name]; ok {
		return fmt.Errorf("script %q already registered", name)
	}
	c.scripts[name] = goredis.NewScript(content)
	return nil
}

// RunScript 执行之前注册的脚本。
func (c *Client) RunScript(ctx context.Context, name string, keys []string, args ...interface{}) (interface{}, error) {
	c.mu.RLock()
	script, ok := c.scripts[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("script %q is not registered", name)
	}
	return script.Run(ctx, c.rdb, keys, args...).Result()
}

// GetClient 暴露底层 go-redis 客户端，供需要 pipeline 等高级用法的调用方使用。
func (c *Client) GetClient() *goredis.Client {
	return c.rdb
}

// Close 关闭底层连接。
func (c *Client) Close() error {
	return c.rdb.Close()
}
