// Package search finds lines matching a regular expression under a
// directory tree. It wraps the ripgrep CLI and provides an in-process
// fallback for machines without it.
package search
