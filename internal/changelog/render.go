package changelog

import (
	"strings"
	"unicode/utf8"
)

// MaxSummaryLength is the longest summary shown in a Discord embed field.
const MaxSummaryLength = 800

// SummaryTooLong replaces a summary longer than MaxSummaryLength.
const SummaryTooLong = "Changelog exceeds maximum length"

var (
	bodyEscaper   = strings.NewReplacer(`"`, `\\"`, "<", "")
	authorEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)
)

// CommitFile renders the changelog as the YAML file committed to the game
// repository under html/changelogs.
func CommitFile(cl *Changelog, fallbackAuthor string) string {
	var b strings.Builder
	b.WriteString(`author: "`)
	b.WriteString(authorEscaper.Replace(cl.AuthorOr(fallbackAuthor)))
	b.WriteString("\"\ndelete-after: true\nchanges:\n")
	for _, e := range cl.entries {
		b.WriteString("  - ")
		b.WriteString(string(e.Type))
		b.WriteString(`: "`)
		b.WriteString(bodyEscaper.Replace(e.Body))
		b.WriteString("\"\n")
	}
	return b.String()
}

// Summary renders the outcome of Compile for display: one ":emoji:: body"
// line per entry, or the compile error.
func Summary(cl *Changelog, err error) string {
	if err != nil {
		return "error compiling changelog: " + err.Error()
	}
	if cl == nil {
		return ""
	}
	return SummarizeEntries(cl.entries)
}

// SummarizeEntries renders ":emoji:: body" lines, or SummaryTooLong when they
// exceed MaxSummaryLength.
func SummarizeEntries(entries []Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(":")
		b.WriteString(e.Emoji())
		b.WriteString(":: ")
		b.WriteString(e.Body)
		b.WriteString("\n")
	}
	if utf8.RuneCountInString(b.String()) > MaxSummaryLength {
		return SummaryTooLong
	}
	return b.String()
}
