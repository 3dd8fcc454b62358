package discord

import (
	"stationbot/internal/service"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Bot manages the Discord gateway connection and prefix commands.
type Bot struct {
	session  *discordgo.Session
	guildID  string
	commands *CommandHandler
	log      *zap.SugaredLogger
}

// NewBot creates the bot. It returns nil, nil when no token is configured so
// the HTTP service can run on its own.
func NewBot(token, guildID, repo string, changelogs *service.ChangelogService, log *zap.SugaredLogger) (*Bot, error) {
	if token == "" {
		log.Info("no Discord bot token configured, bot disabled")
		return nil, nil
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	bot := &Bot{
		session:  s,
		guildID:  guildID,
		commands: NewCommandHandler(changelogs, repo, log),
		log:      log,
	}

	s.AddHandler(bot.onMessageCreate)

	return bot, nil
}

// Start opens the Discord gateway connection.
func (b *Bot) Start() error {
	if b == nil || b.session == nil {
		return nil
	}
	if err := b.session.Open(); err != nil {
		return err
	}
	b.log.Info("bot connected to Discord")
	return nil
}

// Stop closes the Discord gateway connection.
func (b *Bot) Stop() {
	if b == nil || b.session == nil {
		return
	}
	_ = b.session.Close()
	b.log.Info("bot disconnected")
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || m.Author.ID == s.State.User.ID {
		return
	}
	if b.guildID != "" && m.GuildID != "" && m.GuildID != b.guildID {
		return
	}
	if len(m.Content) == 0 || m.Content[0] != '!' {
		return
	}
	b.commands.Handle(s, m)
}
