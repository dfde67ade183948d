package crawler

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"termwatch/internal/client/fivech"
)

const datePrefixLayout = "2006/01/02("

// BoardClient is what the crawler needs from the 5ch HTTP client.
type BoardClient interface {
	FetchBoardPage(ctx context.Context) (string, error)
	FetchThreadPage(ctx context.Context, path string, maxPosts int) (string, error)
}

// Result is one day's harvest: the threads still holding posts from the
// target date, plus accounting for the listing walk itself. WalkedPosts
// covers every walked thread, not just the kept batch; ParseFailPosts counts
// post blocks the HTML parser had to drop.
type Result struct {
	Threads []fivech.ThreadPosts

	WalkedThreads  int
	WalkedPosts    int
	ParseFailPosts int
}

// Crawler walks the board listing newest-first collecting the target date's
// posts. The listing is fetched once; each thread is fetched once, capped to
// its newest MaxPosts posts. The walk stops at the first cleanly fetched
// thread carrying neither target-date nor next-day posts, since everything
// after it in the listing is older still.
type Crawler struct {
	Client   BoardClient
	Logger   *zap.Logger
	MaxPosts int
}

func (c *Crawler) Harvest(ctx context.Context, targetDate time.Time) (*Result, error) {
	page, err := c.Client.FetchBoardPage(ctx)
	if err != nil {
		return nil, err
	}
	threads := fivech.ParseBoardThreads(page)
	c.Logger.Info("board listing fetched", zap.Int("threads", len(threads)))

	targetPrefix := targetDate.Format(datePrefixLayout)
	nextPrefix := targetDate.AddDate(0, 0, 1).Format(datePrefixLayout)

	result := &Result{Threads: make([]fivech.ThreadPosts, 0, len(threads))}
	for _, thread := range threads {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		page, err := c.Client.FetchThreadPage(ctx, thread.Path, c.MaxPosts)
		if err != nil {
			// One dead thread must not sink the day; skip and keep walking.
			c.Logger.Warn("thread fetch failed",
				zap.String("thread_id", fivech.ThreadID(thread.Path)),
				zap.Error(err),
			)
			continue
		}
		result.WalkedThreads++

		posts, failed := fivech.ParseThreadPosts(page)
		result.WalkedPosts += len(posts)
		result.ParseFailPosts += failed

		onTarget := filterByDate(posts, targetPrefix)
		onNext := filterByDate(posts, nextPrefix)
		if len(onTarget) > 0 {
			result.Threads = append(result.Threads, fivech.ThreadPosts{Thread: thread, Posts: onTarget})
		}
		c.Logger.Debug("thread fetched",
			zap.String("thread_id", fivech.ThreadID(thread.Path)),
			zap.Int("posts", len(posts)),
			zap.Int("on_target", len(onTarget)),
		)
		if len(onTarget) == 0 && len(onNext) == 0 {
			break
		}
	}
	return result, nil
}

func filterByDate(posts []fivech.Post, prefix string) []fivech.Post {
	out := make([]fivech.Post, 0, len(posts))
	for _, p := range posts {
		if strings.HasPrefix(p.Date, prefix) {
			out = append(out, p)
		}
	}
	return out
}
