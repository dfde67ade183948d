package crawler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

type stubBoard struct {
	board   string
	pages   map[string]string
	failOn  map[string]error
	fetched []string
}

func (s *stubBoard) FetchBoardPage(ctx context.Context) (string, error) {
	return s.board, nil
}

func (s *stubBoard) FetchThreadPage(ctx context.Context, path string, maxPosts int) (string, error) {
	s.fetched = append(s.fetched, path)
	if err, ok := s.failOn[path]; ok {
		return "", err
	}
	return s.pages[path], nil
}

func boardPage(paths ...string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i, p := range paths {
		fmt.Fprintf(&b, `<p style="margin:0;background:#BEB"><a href="%s/l50">Thread %d</a></p>`, p, i+1)
	}
	b.WriteString("</body></html>")
	return b.String()
}

func threadPage(posts ...[2]string) string {
	var b strings.Builder
	b.WriteString("<html><body>")
	for _, p := range posts {
		fmt.Fprintf(&b, `<div class="post clear"><span class="date">%s</span><div class="post-content">%s</div></div>`, p[0], p[1])
	}
	b.WriteString("</body></html>")
	return b.String()
}

var target = time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)

const (
	onTarget = "2026/08/20(木) 10:00:00.00"
	onNext   = "2026/08/21(金) 09:00:00.00"
	older    = "2026/08/19(水) 23:00:00.00"
)

func TestHarvestStopsPastTheTargetDate(t *testing.T) {
	stub := &stubBoard{
		board: boardPage("/test/read.cgi/prog/100", "/test/read.cgi/prog/200", "/test/read.cgi/prog/300"),
		pages: map[string]string{
			"/test/read.cgi/prog/100": threadPage([2]string{onTarget, "Pythonの話"}, [2]string{older, "昨日の話"}),
			"/test/read.cgi/prog/200": threadPage([2]string{older, "古い話"}),
			"/test/read.cgi/prog/300": threadPage([2]string{onTarget, "届かない話"}),
		},
	}
	c := &Crawler{Client: stub, Logger: zap.NewNop(), MaxPosts: 50}

	result, err := c.Harvest(context.Background(), target)
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if len(stub.fetched) != 2 {
		t.Fatalf("fetched threads = %v, want the walk to stop after the second", stub.fetched)
	}
	if result.WalkedThreads != 2 {
		t.Fatalf("WalkedThreads = %d, want 2", result.WalkedThreads)
	}
	if len(result.Threads) != 1 {
		t.Fatalf("threads with target posts = %d, want 1", len(result.Threads))
	}
	if got := result.Threads[0].Posts; len(got) != 1 || got[0].Content != "Pythonの話" {
		t.Fatalf("target posts = %+v", got)
	}
}

func TestHarvestKeepsWalkingPastNextDayOnlyThreads(t *testing.T) {
	// A thread holding only next-day posts sits above older threads that may
	// still carry target posts, so the walk must continue through it.
	stub := &stubBoard{
		board: boardPage("/test/read.cgi/prog/100", "/test/read.cgi/prog/200"),
		pages: map[string]string{
			"/test/read.cgi/prog/100": threadPage([2]string{onNext, "日付またぎ"}),
			"/test/read.cgi/prog/200": threadPage([2]string{onTarget, "対象日の話"}),
		},
	}
	c := &Crawler{Client: stub, Logger: zap.NewNop(), MaxPosts: 50}

	result, err := c.Harvest(context.Background(), target)
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if len(stub.fetched) != 2 {
		t.Fatalf("fetched = %v, want both threads", stub.fetched)
	}
	if len(result.Threads) != 1 || result.Threads[0].Posts[0].Content != "対象日の話" {
		t.Fatalf("threads = %+v", result.Threads)
	}
}

func TestHarvestSkipsFailedThreadFetches(t *testing.T) {
	stub := &stubBoard{
		board: boardPage("/test/read.cgi/prog/100", "/test/read.cgi/prog/200"),
		pages: map[string]string{
			"/test/read.cgi/prog/200": threadPage([2]string{onTarget, "生きてるスレ"}),
		},
		failOn: map[string]error{
			"/test/read.cgi/prog/100": errors.New("boom"),
		},
	}
	c := &Crawler{Client: stub, Logger: zap.NewNop(), MaxPosts: 50}

	result, err := c.Harvest(context.Background(), target)
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if result.WalkedThreads != 1 {
		t.Fatalf("WalkedThreads = %d, want 1", result.WalkedThreads)
	}
	if len(result.Threads) != 1 || result.Threads[0].Posts[0].Content != "生きてるスレ" {
		t.Fatalf("threads = %+v", result.Threads)
	}
}

func TestHarvestCountsParseFailures(t *testing.T) {
	page := `<html><body>` +
		`<div class="post clear"><span class="date">` + onTarget + `</span><div class="post-content">ひとつめ</div></div>` +
		`<div class="post clear"><span class="date">` + onTarget + `</span><div class="post-content">ふたつめ</div></div>` +
		`<div class="post clear"><div class="post-content">日付なし</div></div>` +
		`</body></html>`
	stub := &stubBoard{
		board: boardPage("/test/read.cgi/prog/100"),
		pages: map[string]string{"/test/read.cgi/prog/100": page},
	}
	c := &Crawler{Client: stub, Logger: zap.NewNop(), MaxPosts: 50}

	result, err := c.Harvest(context.Background(), target)
	if err != nil {
		t.Fatalf("Harvest: %v", err)
	}
	if result.WalkedPosts != 2 {
		t.Fatalf("WalkedPosts = %d, want 2", result.WalkedPosts)
	}
	if result.ParseFailPosts != 1 {
		t.Fatalf("ParseFailPosts = %d, want 1", result.ParseFailPosts)
	}
}

func TestHarvestBoardFetchFailureIsFatal(t *testing.T) {
	failing := &failingBoard{}
	c := &Crawler{Client: failing, Logger: zap.NewNop(), MaxPosts: 50}
	if _, err := c.Harvest(context.Background(), target); err == nil {
		t.Fatalf("expected error")
	}
}

type failingBoard struct{}

func (f *failingBoard) FetchBoardPage(ctx context.Context) (string, error) {
	return "", errors.New("board down")
}

func (f *failingBoard) FetchThreadPage(ctx context.Context, path string, maxPosts int) (string, error) {
	return "", errors.New("unreachable")
}
