package fivech

// Thread is one entry from the board's thread listing, newest first.
type Thread struct {
	Title string
	Path  string
}

// Post is one response inside a thread. Date is the raw header text,
// e.g. "2026/08/21(金) 12:34:56.78"; day partitioning matches on its prefix.
type Post struct {
	Date    string
	Content string
}

// ThreadPosts groups the posts kept from one thread.
type ThreadPosts struct {
	Thread Thread
	Posts  []Post
}
