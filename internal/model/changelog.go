package model

import "time"

// ChangelogRecord is a compiled changelog recorded when its pull request merges.
type ChangelogRecord struct {
	ID        int64            `json:"id"`
	Repo      string           `json:"repo"`
	PRNumber  int              `json:"pr_number"`
	Title     string           `json:"title"`
	Author    string           `json:"author"`
	Entries   []ChangelogEntry `json:"entries"`
	MergedAt  time.Time        `json:"merged_at"`
	CreatedAt time.Time        `json:"created_at"`
}

type ChangelogEntry struct {
	Type  string `json:"type"`
	Emoji string `json:"emoji"`
	Body  string `json:"body"`
}

// ChangelogSubmission is the GitHub contents API request that commits the
// generated changelog file. URL is where the PUT goes.
type ChangelogSubmission struct {
	URL     string `json:"url"`
	Path    string `json:"path"`
	Branch  string `json:"branch"`
	Message string `json:"message"`
	Content string `json:"content"`
}

// CompileRequest is sent by maintainers to preview a changelog.
type CompileRequest struct {
	Body   string `json:"body"`
	Author string `json:"author,omitempty"`
}

type CompileResponse struct {
	OK         bool             `json:"ok"`
	Error      string           `json:"error,omitempty"`
	Author     string           `json:"author,omitempty"`
	Entries    []ChangelogEntry `json:"entries"`
	Summary    string           `json:"summary"`
	CommitFile string           `json:"commit_file,omitempty"`
}
