package slackclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

const (
	ReactionYes = "white_check_mark"
	ReactionNo  = "x"
)

// API is the subset of the Slack Web API the client uses
type API interface {
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	AddReactionContext(ctx context.Context, name string, item slack.ItemRef) error
}

// Client sends messages on behalf of the bot
type Client struct {
	api    API
	logger *zap.Logger
}

// New creates a client authenticated with a bot token
func New(botToken string, logger *zap.Logger) *Client {
	return NewWithAPI(slack.New(botToken), logger)
}

func NewWithAPI(api API, logger *zap.Logger) *Client {
	return &Client{api: api, logger: logger}
}

// DirectMessage opens (or reuses) a DM with a user and posts text to it
func (c *Client) DirectMessage(ctx context.Context, userID, text string) error {
	channel, _, _, err := c.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{Users: []string{userID}})
	if err != nil {
		return fmt.Errorf("failed to open DM with %s: %w", userID, err)
	}
	if _, _, err := c.api.PostMessageContext(ctx, channel.ID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("failed to DM %s: %w", userID, err)
	}
	c.logger.Debug("Sent DM", zap.String("user_id", userID))
	return nil
}

// PostChannel posts text to a channel
func (c *Client) PostChannel(ctx context.Context, channelID, text string) error {
	if _, _, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("failed to post to %s: %w", channelID, err)
	}
	return nil
}

// PostDayOffRequest posts a vote message seeded with yes/no reactions and returns its reference
func (c *Client) PostDayOffRequest(ctx context.Context, channelID, text string) (string, error) {
	channel, ts, err := c.api.PostMessageContext(ctx, channelID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", fmt.Errorf("failed to post day-off request: %w", err)
	}

	item := slack.NewRefToMessage(channel, ts)
	for _, name := range []string{ReactionYes, ReactionNo} {
		if err := c.api.AddReactionContext(ctx, name, item); err != nil {
			c.logger.Warn("Failed to seed reaction", zap.String("reaction", name), zap.Error(err))
		}
	}
	return MessageRef(channel, ts), nil
}

// MessageRef identifies a message by channel and timestamp
func MessageRef(channelID, ts string) string {
	return channelID + "/" + ts
}

// voteForReaction maps a reaction name to a vote; skin tone suffixes are ignored
func voteForReaction(name string) (string, bool) {
	name, _, _ = strings.Cut(name, "::")
	switch name {
	case ReactionYes, "heavy_check_mark", "+1", "thumbsup":
		return "yes", true
	case ReactionNo, "heavy_multiplication_x", "-1", "thumbsdown":
		return "no", true
	}
	return "", false
}
