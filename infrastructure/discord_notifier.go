package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const notificationEmbedColor = 0xC0392B

// discordMessenger is the part of *discordgo.Session used to send direct messages
type discordMessenger interface {
	UserChannelCreate(recipientID string, options ...discordgo.RequestOption) (*discordgo.Channel, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordNotifier delivers notifications as Discord direct messages. User ids
// are Discord user snowflakes.
type DiscordNotifier struct {
	session discordMessenger
}

// NewDiscordNotifier creates a notifier backed by a bot token. Only the REST
// API is used, so no gateway connection is opened.
func NewDiscordNotifier(token string) (*DiscordNotifier, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	return &DiscordNotifier{session: session}, nil
}

// Notify sends the message to each user. Delivery continues past a failing
// user and all failures are returned together.
func (n *DiscordNotifier) Notify(ctx context.Context, userIDs []int64, title, body string) error {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: body,
		Color:       notificationEmbedColor,
	}

	var errs []error
	for _, userID := range userIDs {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := n.send(ctx, userID, embed); err != nil {
			log.WithFields(log.Fields{
				"user_id": userID,
				"error":   err,
			}).Warn("Failed to send Discord notification")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (n *DiscordNotifier) send(ctx context.Context, userID int64, embed *discordgo.MessageEmbed) error {
	channel, err := n.session.UserChannelCreate(strconv.FormatInt(userID, 10), discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open DM channel with user %d: %w", userID, err)
	}

	if _, err := n.session.ChannelMessageSendEmbed(channel.ID, embed, discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("failed to send DM to user %d: %w", userID, err)
	}
	return nil
}
