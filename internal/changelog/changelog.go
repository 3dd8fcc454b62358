// Package changelog extracts the author-written changelog block from a pull
// request description and renders it for commit and for Discord.
//
// A block looks like:
//
//	:cl: Alice
//	add: Added toolbox
//	fix: Fixed bug
//	/:cl:
package changelog

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	ErrMissingOpeningTag   = errors.New("changelog not found")
	ErrMissingClosingTag   = errors.New("closing tag never found")
	ErrPrematureClosingTag = errors.New("closing tag found before opening tag")
	ErrUnknownTag          = errors.New("unknown tag")
)

// UnknownTagError is returned when an entry line uses a tag outside the vocabulary.
type UnknownTagError struct {
	Tag string
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("unknown tag `%s`", e.Tag)
}

func (e *UnknownTagError) Unwrap() error { return ErrUnknownTag }

const emojiMarker = "\U0001F191" // 🆑

var openingMarkers = []string{":cl:", emojiMarker}

var closingMarkers = []string{
	"/:cl:",
	"/ :cl:",
	"/" + emojiMarker,
	"/ " + emojiMarker,
	":/" + emojiMarker,
}

// Entry is a single classified changelog line.
type Entry struct {
	Type Type
	Body string
}

// Emoji is the display emoji for the entry's type.
func (e Entry) Emoji() string {
	return e.Type.Emoji()
}

// Changelog is the result of a successful Compile. It is not modified after
// construction.
type Changelog struct {
	author    string
	hasAuthor bool
	entries   []Entry
}

// Author returns the name given on the opening marker line, if any.
func (c *Changelog) Author() (string, bool) {
	return c.author, c.hasAuthor
}

// AuthorOr returns the parsed author, or fallback when none was given.
func (c *Changelog) AuthorOr(fallback string) string {
	if c.hasAuthor {
		return c.author
	}
	return fallback
}

// Entries returns a copy of the entries in the order they were written.
func (c *Changelog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len is the number of entries.
func (c *Changelog) Len() int {
	return len(c.entries)
}

// Compile parses the changelog block out of a pull request body. Exactly one
// of the return values is non-nil. Both LF and CRLF line endings are accepted.
func Compile(raw string) (*Changelog, error) {
	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")

	var (
		cl       Changelog
		inBlock  bool
		sawOpen  bool
		sawClose bool
	)

	for _, line := range lines {
		line = strings.TrimSpace(line)

		if _, ok := hasAnyPrefix(line, openingMarkers); ok {
			inBlock = true
			sawOpen = true
			if name := afterFirstToken(line); name != "" {
				cl.author = name
				cl.hasAuthor = true
			}
			continue
		}

		if _, ok := hasAnyPrefix(line, closingMarkers); ok {
			if !inBlock {
				return nil, ErrPrematureClosingTag
			}
			inBlock = false
			sawClose = true
			continue
		}

		if !inBlock {
			continue
		}

		head, body, ok := splitEntry(line)
		if !ok {
			continue
		}
		tag := strings.TrimSuffix(head, ":")
		typ, known := Classify(tag)
		if !known {
			return nil, &UnknownTagError{Tag: tag}
		}
		cl.entries = append(cl.entries, Entry{Type: typ, Body: body})
	}

	if sawOpen && !sawClose {
		return nil, ErrMissingClosingTag
	}
	if !sawOpen {
		return nil, ErrMissingOpeningTag
	}
	return &cl, nil
}

// afterFirstToken returns the trimmed text following the first whitespace
// run, or "" when the line is a single token.
func afterFirstToken(line string) string {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return ""
	}
	return strings.TrimSpace(line[i:])
}

// splitEntry splits "tag: body" at the first whitespace run. Lines without a
// body or whose first token lacks the trailing colon are not entries.
func splitEntry(line string) (head, body string, ok bool) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}
	head = line[:i]
	body = afterFirstToken(line)
	if body == "" || !strings.HasSuffix(head, ":") {
		return "", "", false
	}
	return head, body, true
}

func hasAnyPrefix(s string, prefixes []string) (string, bool) {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return p, true
		}
	}
	return "", false
}
