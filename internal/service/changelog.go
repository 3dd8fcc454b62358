package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"stationbot/internal/changelog"
	"stationbot/internal/model"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// ErrIgnoredAction is returned for pull_request actions the bot does not act on.
var ErrIgnoredAction = errors.New("ignored pull request action")

const (
	colorOpen   = 0x2ECC71
	colorMerged = 0x9541A5
	colorClosed = 0xE74C3C

	prIconURL = "https://i.imgur.com/tpkgmo8.png"
)

var handledActions = map[string]bool{
	"opened":      true,
	"edited":      true,
	"reopened":    true,
	"synchronize": true,
	"closed":      true,
}

// typeLabels is the GitHub label applied for each kind of change in a PR.
var typeLabels = map[changelog.Type]string{
	changelog.TypeBugfix:     "Fix",
	changelog.TypeWIP:        "Work In Progress",
	changelog.TypeTweak:      "Tweak",
	changelog.TypeSoundAdd:   "Sound",
	changelog.TypeSoundDel:   "Sound",
	changelog.TypeRscAdd:     "Feature",
	changelog.TypeRscDel:     "Removal",
	changelog.TypeImageAdd:   "Sprites",
	changelog.TypeImageDel:   "Sprites",
	changelog.TypeSpellcheck: "Grammar and Formatting",
	changelog.TypeExperiment: "Experimental",
	changelog.TypeTGS:        "Tools",
}

// ChangelogStore persists compiled changelogs of merged pull requests.
type ChangelogStore interface {
	Create(ctx context.Context, rec *model.ChangelogRecord) (*model.ChangelogRecord, error)
	List(ctx context.Context, limit int) ([]model.ChangelogRecord, error)
	GetByPR(ctx context.Context, repo string, number int) (*model.ChangelogRecord, error)
}

// ChangelogService turns pull request events into Discord embeds, commit
// file submissions and stored changelog records.
type ChangelogService struct {
	store ChangelogStore
	log   *zap.SugaredLogger
	now   func() time.Time
}

func NewChangelogService(store ChangelogStore, log *zap.SugaredLogger) *ChangelogService {
	return &ChangelogService{store: store, log: log, now: time.Now}
}

// ProcessPullRequest compiles the changelog of the event's pull request. A
// changelog error is reported in the result, not returned: only storage
// failures and ignored actions produce an error.
func (s *ChangelogService) ProcessPullRequest(ctx context.Context, ev *model.PullRequestEvent) (*model.PullRequestReport, error) {
	if !handledActions[ev.Action] {
		return nil, ErrIgnoredAction
	}

	pr := &ev.PullRequest
	cl, clErr := changelog.Compile(pr.Body)

	report := &model.PullRequestReport{
		Action:      ev.Action,
		Number:      pr.Number,
		ChangelogOK: clErr == nil,
		Summary:     changelog.Summary(cl, clErr),
		Labels:      LabelsFor(cl),
		Embed:       PullRequestEmbed(pr, cl, clErr, ""),
	}
	if clErr != nil {
		report.ChangelogError = clErr.Error()
		s.log.Debugw("pull request changelog did not compile", "pr", pr.Number, "error", clErr)
	}

	if ev.Action != "closed" || !pr.Merged || clErr != nil || cl.Len() == 0 {
		return report, nil
	}

	author := cl.AuthorOr(pr.User.Login)
	report.Submission = BuildSubmission(pr, changelog.CommitFile(cl, pr.User.Login))

	rec := &model.ChangelogRecord{
		Repo:     pr.Base.Repo.FullName,
		PRNumber: pr.Number,
		Title:    sanitizeTitle(pr.Title),
		Author:   author,
		Entries:  EntriesOf(cl),
		MergedAt: s.mergedAt(pr),
	}
	if _, err := s.store.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("record changelog for PR #%d: %w", pr.Number, err)
	}
	report.Recorded = true
	s.log.Infow("recorded changelog", "repo", rec.Repo, "pr", pr.Number, "entries", len(rec.Entries))

	return report, nil
}

// Preview compiles raw text and renders both outputs without side effects.
func (s *ChangelogService) Preview(raw, fallbackAuthor string) model.CompileResponse {
	cl, err := changelog.Compile(raw)
	resp := model.CompileResponse{
		OK:      err == nil,
		Summary: changelog.Summary(cl, err),
		Entries: []model.ChangelogEntry{},
	}
	if err != nil {
		resp.Error = err.Error()
		return resp
	}
	resp.Author = cl.AuthorOr(fallbackAuthor)
	resp.Entries = EntriesOf(cl)
	resp.CommitFile = changelog.CommitFile(cl, fallbackAuthor)
	return resp
}

func (s *ChangelogService) Recent(ctx context.Context, limit int) ([]model.ChangelogRecord, error) {
	return s.store.List(ctx, limit)
}

func (s *ChangelogService) ForPullRequest(ctx context.Context, repo string, number int) (*model.ChangelogRecord, error) {
	return s.store.GetByPR(ctx, repo, number)
}

func (s *ChangelogService) mergedAt(pr *model.PullRequest) time.Time {
	if t, err := time.Parse(time.RFC3339, pr.MergedAt); err == nil {
		return t
	}
	return s.now().UTC()
}

// BuildSubmission prepares the contents API request that commits the changelog
// file to the pull request's base branch.
func BuildSubmission(pr *model.PullRequest, commitFile string) *model.ChangelogSubmission {
	path := fmt.Sprintf("html/changelogs/AutoChangelog-pr-%d.yml", pr.Number)
	return &model.ChangelogSubmission{
		URL:     strings.TrimSuffix(pr.Base.Repo.URL, "/") + "/contents/" + path,
		Path:    path,
		Branch:  pr.Base.Ref,
		Message: fmt.Sprintf("Automatic changelog generation #%d [ci skip]", pr.Number),
		Content: base64.StdEncoding.EncodeToString([]byte(commitFile)),
	}
}

// PullRequestEmbed builds the Discord embed announcing a pull request. The
// author field uses the changelog author when one was given, otherwise the PR
// submitter. titleOverride replaces the "<State> Pull Request" heading.
func PullRequestEmbed(pr *model.PullRequest, cl *changelog.Changelog, clErr error, titleOverride string) *discordgo.MessageEmbed {
	state, color := "Closed", colorClosed
	switch {
	case pr.State == "open":
		state, color = "Open", colorOpen
	case pr.Merged:
		state, color = "Merged", colorMerged
	}

	heading := titleOverride
	if heading == "" {
		heading = state + " Pull Request"
	}

	author := pr.User.Login
	if cl != nil {
		author = cl.AuthorOr(author)
	}

	return &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    heading,
			IconURL: prIconURL,
		},
		Description: sanitizeTitle(pr.Title),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Author", Value: author, Inline: true},
			{Name: "Number", Value: fmt.Sprintf("#%d", pr.Number), Inline: true},
			{Name: "Github Link", Value: pr.HTMLURL},
			{Name: "Changelog", Value: changelog.Summary(cl, clErr)},
		},
	}
}

// LabelsFor returns the GitHub labels implied by the changelog's entry types,
// in first-seen order without duplicates.
func LabelsFor(cl *changelog.Changelog) []string {
	labels := []string{}
	if cl == nil {
		return labels
	}
	seen := make(map[string]bool)
	for _, e := range cl.Entries() {
		label, ok := typeLabels[e.Type]
		if !ok || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// EntriesOf flattens the changelog for JSON and storage.
func EntriesOf(cl *changelog.Changelog) []model.ChangelogEntry {
	entries := cl.Entries()
	out := make([]model.ChangelogEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, model.ChangelogEntry{
			Type:  string(e.Type),
			Emoji: e.Emoji(),
			Body:  e.Body,
		})
	}
	return out
}

func sanitizeTitle(title string) string {
	return strings.ReplaceAll(title, "<", "")
}
