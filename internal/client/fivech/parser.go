package fivech

import (
	"strings"

	"golang.org/x/net/html"
)

// ParseBoardThreads pulls the thread listing out of a board index page.
// Listing order is preserved. Malformed markup yields fewer entries, never
// an error.
func ParseBoardThreads(page string) []Thread {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil
	}
	threads := make([]Thread, 0, 64)
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "p" {
			return
		}
		if !strings.Contains(attr(n, "style"), "background:#BEB") {
			return
		}
		link := findThreadLink(n)
		if link == nil {
			return
		}
		title := joinText(link, "")
		path := NormalizeThreadPath(attr(link, "href"))
		if title == "" || path == "" {
			return
		}
		threads = append(threads, Thread{Title: title, Path: path})
	})
	return threads
}

// ParseThreadPosts extracts posts from a thread page in document order.
// Posts missing the date header or the body are dropped; the second return
// is how many were dropped.
func ParseThreadPosts(page string) ([]Post, int) {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return nil, 0
	}
	posts := make([]Post, 0, 64)
	dropped := 0
	walk(doc, func(n *html.Node) {
		if n.Type != html.ElementNode || n.Data != "div" {
			return
		}
		if !hasClass(n, "clear") || !hasClass(n, "post") {
			return
		}
		date := joinText(findByClass(n, "span", "date"), "")
		content := joinText(findByClass(n, "div", "post-content"), "\n")
		if date == "" || content == "" {
			dropped++
			return
		}
		posts = append(posts, Post{Date: date, Content: content})
	})
	return posts, dropped
}

func findThreadLink(n *html.Node) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) {
		if found != nil {
			return
		}
		if c.Type == html.ElementNode && c.Data == "a" && strings.Contains(attr(c, "href"), "/test/read.cgi/") {
			found = c
		}
	})
	return found
}

func findByClass(n *html.Node, tag, class string) *html.Node {
	var found *html.Node
	walk(n, func(c *html.Node) {
		if found != nil {
			return
		}
		if c.Type == html.ElementNode && c.Data == tag && hasClass(c, class) {
			found = c
		}
	})
	return found
}

func walk(n *html.Node, fn func(*html.Node)) {
	fn(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, fn)
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, name string) bool {
	for _, cls := range strings.Fields(attr(n, "class")) {
		if cls == name {
			return true
		}
	}
	return false
}

// joinText flattens the text nodes under n, trimming each piece and joining
// the non-empty ones with sep.
func joinText(n *html.Node, sep string) string {
	if n == nil {
		return ""
	}
	pieces := make([]string, 0, 4)
	walk(n, func(c *html.Node) {
		if c.Type != html.TextNode {
			return
		}
		if t := strings.TrimSpace(c.Data); t != "" {
			pieces = append(pieces, t)
		}
	})
	return strings.Join(pieces, sep)
}
