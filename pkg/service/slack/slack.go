package slack

import (
	"context"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/crowdlens/pkg/domain/interfaces"
	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/slack-go/slack"
)

// Service forwards alerts to a Slack channel
type Service struct {
	client      *slack.Client
	channelID   string
	minSeverity types.Severity
	slackOpts   []slack.Option
}

var _ interfaces.AlertNotifier = (*Service)(nil)

// Option customises the service
type Option func(*Service)

// WithMinSeverity sets the lowest severity that is forwarded, high by default
func WithMinSeverity(severity types.Severity) Option {
	return func(s *Service) {
		s.minSeverity = severity.Level()
	}
}

// WithSlackOptions passes options to the underlying slack client, e.g. slack.OptionAPIURL in tests
func WithSlackOptions(opts ...slack.Option) Option {
	return func(s *Service) {
		s.slackOpts = append(s.slackOpts, opts...)
	}
}

// New creates a new Slack notifier posting to channelID
func New(token, channelID string, opts ...Option) *Service {
	s := &Service{
		channelID:   channelID,
		minSeverity: types.SeverityHigh,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.client = slack.New(token, s.slackOpts...)
	return s
}

// NotifyAlert implements interfaces.AlertNotifier. Alerts below the severity threshold are skipped.
func (s *Service) NotifyAlert(ctx context.Context, site *model.Site, alert model.Alert) error {
	if !alert.Severity.AtLeast(s.minSeverity) {
		return nil
	}

	blocks := BuildAlertBlocks(site, alert)
	_, ts, err := s.client.PostMessageContext(ctx, s.channelID,
		slack.MsgOptionText(AlertText(site, alert), false),
		slack.MsgOptionBlocks(blocks...),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post alert to Slack",
			goerr.V("channel_id", s.channelID),
			goerr.V("event_id", alert.ID))
	}

	ctxlog.From(ctx).Info("alert forwarded to Slack",
		"channel_id", s.channelID,
		"event_id", alert.ID,
		"ts", ts,
	)
	return nil
}
