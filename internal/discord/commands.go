package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stationbot/internal/changelog"
	"stationbot/internal/model"
	"stationbot/internal/repository"
	"stationbot/internal/service"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

const embedColor = 0x00C8FF

// messenger is the part of *discordgo.Session the commands reply through.
type messenger interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// CommandHandler processes bot prefix commands.
type CommandHandler struct {
	changelogs *service.ChangelogService
	repo       string
	log        *zap.SugaredLogger
}

func NewCommandHandler(changelogs *service.ChangelogService, repo string, log *zap.SugaredLogger) *CommandHandler {
	return &CommandHandler{changelogs: changelogs, repo: repo, log: log}
}

// Handle dispatches a prefix command.
func (h *CommandHandler) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	h.dispatch(s, m.ChannelID, m.Author.Username, m.Content)
}

func (h *CommandHandler) dispatch(s messenger, channelID, username, content string) {
	name, arg := splitCommand(content)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	switch strings.ToLower(name) {
	case "!changelog":
		if strings.TrimSpace(arg) == "" {
			_, err = s.ChannelMessageSend(channelID, "Usage: `!changelog <pull request text>`")
			break
		}
		_, err = s.ChannelMessageSendEmbed(channelID, changelogEmbed(arg, username))
	case "!pr":
		err = h.cmdPR(ctx, s, channelID, arg)
	case "!help":
		_, err = s.ChannelMessageSendEmbed(channelID, helpEmbed())
	default:
		return
	}
	if err != nil {
		h.log.Warnw("command reply failed", "command", name, "channel", channelID, "error", err)
	}
}

func (h *CommandHandler) cmdPR(ctx context.Context, s messenger, channelID, arg string) error {
	number, err := strconv.Atoi(strings.TrimPrefix(strings.TrimSpace(arg), "#"))
	if err != nil || number <= 0 {
		_, err = s.ChannelMessageSend(channelID, "Usage: `!pr <number>`")
		return err
	}

	rec, err := h.changelogs.ForPullRequest(ctx, h.repo, number)
	if errors.Is(err, repository.ErrNotFound) {
		_, err = s.ChannelMessageSend(channelID, fmt.Sprintf("No changelog recorded for #%d.", number))
		return err
	}
	if err != nil {
		h.log.Errorw("loading changelog failed", "pr", number, "error", err)
		_, err = s.ChannelMessageSend(channelID, "Could not load that changelog.")
		return err
	}
	_, err = s.ChannelMessageSendEmbed(channelID, recordEmbed(rec))
	return err
}

// splitCommand separates "!name" from the rest of the message. The rest keeps
// its line breaks so a pasted PR body compiles as written.
func splitCommand(content string) (name, arg string) {
	content = strings.TrimSpace(content)
	i := strings.IndexAny(content, " \t\r\n")
	if i < 0 {
		return content, ""
	}
	return content[:i], strings.TrimLeft(content[i:], " \t")
}

func changelogEmbed(text, username string) *discordgo.MessageEmbed {
	cl, err := changelog.Compile(text)

	embed := &discordgo.MessageEmbed{
		Title:       "Changelog preview",
		Description: changelog.Summary(cl, err),
		Color:       embedColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "stationbot"},
	}
	if err != nil {
		embed.Color = 0xE74C3C
		return embed
	}
	embed.Fields = []*discordgo.MessageEmbedField{
		{Name: "Author", Value: cl.AuthorOr(username), Inline: true},
		{Name: "Entries", Value: strconv.Itoa(cl.Len()), Inline: true},
	}
	return embed
}

func recordEmbed(rec *model.ChangelogRecord) *discordgo.MessageEmbed {
	entries := make([]changelog.Entry, 0, len(rec.Entries))
	for _, e := range rec.Entries {
		entries = append(entries, changelog.Entry{Type: changelog.Type(e.Type), Body: e.Body})
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("#%d %s", rec.PRNumber, rec.Title),
		Description: changelog.SummarizeEntries(entries),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Author", Value: rec.Author, Inline: true},
			{Name: "Merged", Value: rec.MergedAt.UTC().Format("2006-01-02"), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "stationbot"},
	}
}

func helpEmbed() *discordgo.MessageEmbed {
	var tags strings.Builder
	for _, t := range changelog.Types() {
		fmt.Fprintf(&tags, ":%s: `%s`: %s\n", t.Emoji(), t, strings.Join(changelog.Aliases(t), ", "))
	}

	return &discordgo.MessageEmbed{
		Title: "stationbot commands",
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "`!changelog <text>`", Value: "Compiles a pull request changelog and shows the result"},
			{Name: "`!pr <number>`", Value: "Shows the recorded changelog of a merged pull request"},
			{Name: "`!help`", Value: "Shows this help"},
			{Name: "Changelog tags", Value: tags.String()},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "stationbot"},
	}
}
