package analysis

import (
	"sort"

	"termwatch/internal/client/fivech"
)

// Tokenizer is what the aggregator needs from the morphological analyzer.
type Tokenizer interface {
	Nouns(text string) ([]string, error)
}

// DailyCounts is one day's term occurrence tally plus the batch accounting
// that feeds the pipeline metrics row. FetchedPosts is the batch size;
// ParsedPosts counts every post handed to the tokenizer, failed ones included.
type DailyCounts struct {
	PostHits   map[string]int
	ThreadHits map[string]int
	Surfaces   map[string]string

	FetchedThreads    int
	FetchedPosts      int
	ParsedPosts       int
	TokenizeFailPosts int
	FilteredTokens    int
	TotalTokens       int
}

// Terms returns the counted normalized terms in sorted order.
func (c *DailyCounts) Terms() []string {
	out := make([]string, 0, len(c.PostHits))
	for term := range c.PostHits {
		out = append(out, term)
	}
	sort.Strings(out)
	return out
}

// FilteredRate is the share of extracted tokens dropped by normalization or
// the block list. Zero when nothing was extracted.
func (c *DailyCounts) FilteredRate() float64 {
	if c.TotalTokens == 0 {
		return 0
	}
	return float64(c.FilteredTokens) / float64(c.TotalTokens)
}

// Aggregator turns a day's harvested posts into per-term hit counts.
// A term is counted at most once per post and once per thread, however many
// times it repeats. Blocked terms and terms that normalize to "" are counted
// as filtered and never surface in the result.
type Aggregator struct {
	Tokenizer Tokenizer
	Blocked   map[string]struct{}
}

func (a *Aggregator) Aggregate(threads []fivech.ThreadPosts) *DailyCounts {
	counts := &DailyCounts{
		PostHits:   map[string]int{},
		ThreadHits: map[string]int{},
		Surfaces:   map[string]string{},
	}
	counts.FetchedThreads = len(threads)
	for _, th := range threads {
		threadSeen := map[string]struct{}{}
		for _, post := range th.Posts {
			counts.FetchedPosts++
			counts.ParsedPosts++
			surfaces, err := a.Tokenizer.Nouns(post.Content)
			if err != nil {
				counts.TokenizeFailPosts++
				continue
			}
			postSeen := map[string]struct{}{}
			for _, surface := range surfaces {
				counts.TotalTokens++
				normalized := NormalizeTerm(surface)
				if normalized == "" {
					counts.FilteredTokens++
					continue
				}
				if _, blocked := a.Blocked[normalized]; blocked {
					counts.FilteredTokens++
					continue
				}
				if _, seen := postSeen[normalized]; seen {
					continue
				}
				postSeen[normalized] = struct{}{}
				counts.PostHits[normalized]++
				threadSeen[normalized] = struct{}{}
				if _, ok := counts.Surfaces[normalized]; !ok {
					counts.Surfaces[normalized] = surface
				}
			}
		}
		for normalized := range threadSeen {
			counts.ThreadHits[normalized]++
		}
	}
	return counts
}
