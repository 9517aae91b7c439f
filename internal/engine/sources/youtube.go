package sources

// YouTube implementation is split across two files by responsibility:
//   youtube_innertube.go — WEB client types, headers, and the single-shot /next request
//   youtube_comments.go  — video ID parsing and comment seed discovery
//
// Pagination, retries and parsing of /next pages live in internal/engine/comments.
