package communication

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// Alerter raises operational messages outside the request log.
type Alerter interface {
	Info(message string) error
	Error(message string) error
}

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	InfoChannelID  string
	ErrorChannelID string
}

// NewAlerter returns a Slack alerter, or a log-only alerter when token is empty.
func NewAlerter(token string, options SlackOption) Alerter {
	if token == "" {
		return LogAlerter{}
	}
	return NewSlack(token, options)
}

func NewSlack(token string, options SlackOption) *Slack {
	client := slack.New(token)
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	if channelID == "" {
		return nil
	}
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) Info(message string) error {
	return s.postMessage(s.options.InfoChannelID, message)
}

func (s *Slack) Error(message string) error {
	return s.postMessage(s.options.ErrorChannelID, message)
}

type LogAlerter struct{}

func (LogAlerter) Info(message string) error {
	log.Printf("[INFO] alert: %s", message)
	return nil
}

func (LogAlerter) Error(message string) error {
	log.Printf("[ERROR] alert: %s", message)
	return nil
}
