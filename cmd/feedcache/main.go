// Command feedcache inspects and invalidates the feed read-through cache.
//
// Connection settings come from the environment (REDIS_URL and friends, see
// pkg/redis, pkg/kvstore and pkg/cache); --redis-url overrides REDIS_URL.
//
//	feedcache ping
//	feedcache keys 'posts:*'
//	feedcache get 'post:42'
//	feedcache invalidate 'userPosts:alice:*'
//	feedcache patterns post_created --user-id 7 --username alice
//	feedcache apply like_toggled --username bob --post-id 42 --post-author alice
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd(connectRedis).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
