package monitor

import (
	"github.com/bwmarrin/discordgo"
)

// DiscordNotifier posts alerts to a fixed channel.
type DiscordNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewDiscordNotifier(token, channelID string) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	return &DiscordNotifier{session: session, channelID: channelID}, nil
}

func (n *DiscordNotifier) Alert(msg string) error {
	_, err := n.session.ChannelMessageSend(n.channelID, msg)
	return err
}
