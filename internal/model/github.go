package model

import "github.com/bwmarrin/discordgo"

// PullRequestEvent is the subset of GitHub's pull_request webhook payload the
// bot reads.
type PullRequestEvent struct {
	Action      string      `json:"action"`
	Number      int         `json:"number"`
	PullRequest PullRequest `json:"pull_request"`
}

type PullRequest struct {
	Number   int        `json:"number"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	State    string     `json:"state"`
	Merged   bool       `json:"merged"`
	MergedAt string     `json:"merged_at"`
	HTMLURL  string     `json:"html_url"`
	IssueURL string     `json:"issue_url"`
	User     GitHubUser `json:"user"`
	Base     GitRef     `json:"base"`
}

type GitHubUser struct {
	Login string `json:"login"`
}

type GitRef struct {
	Ref  string     `json:"ref"`
	Repo GitHubRepo `json:"repo"`
}

type GitHubRepo struct {
	FullName string `json:"full_name"`
	URL      string `json:"url"`
}

// PullRequestReport is what the webhook endpoint returns for a processed event.
type PullRequestReport struct {
	Action         string                  `json:"action"`
	Number         int                     `json:"number"`
	ChangelogOK    bool                    `json:"changelog_ok"`
	ChangelogError string                  `json:"changelog_error,omitempty"`
	Summary        string                  `json:"summary"`
	Labels         []string                `json:"labels"`
	Embed          *discordgo.MessageEmbed `json:"embed"`
	Submission     *ChangelogSubmission    `json:"submission,omitempty"`
	Recorded       bool                    `json:"recorded"`
}
