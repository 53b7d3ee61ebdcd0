package slack

import (
	"fmt"

	"github.com/secmon-lab/crowdlens/pkg/domain/model"
	"github.com/secmon-lab/crowdlens/pkg/domain/types"
	"github.com/slack-go/slack"
)

// GetSeverityEmoji returns emoji based on severity level
func GetSeverityEmoji(severity types.Severity) string {
	switch severity.Level() {
	case types.SeverityHigh:
		return "🚨"
	case types.SeverityMedium:
		return "⚠️"
	default:
		return "ℹ️"
	}
}

// MovementText returns "Entered" or "Exited" for the alert direction
func MovementText(direction types.Direction) string {
	if direction.IsEntry() {
		return "Entered"
	}
	return "Exited"
}

func siteLabel(site *model.Site, alert model.Alert) string {
	if site != nil && site.Name != "" {
		return site.Name
	}
	return alert.SiteID.String()
}

// AlertText is the plain text fallback of an alert message
func AlertText(site *model.Site, alert model.Alert) string {
	return fmt.Sprintf("%s %s %s %s at %s",
		GetSeverityEmoji(alert.Severity),
		alert.PersonName,
		MovementText(alert.Direction),
		alert.ZoneName,
		siteLabel(site, alert))
}

// BuildAlertBlocks builds the Slack blocks of an alert message
func BuildAlertBlocks(site *model.Site, alert model.Alert) []slack.Block {
	header := slack.NewHeaderBlock(
		slack.NewTextBlockObject(slack.PlainTextType,
			fmt.Sprintf("%s %s alert", GetSeverityEmoji(alert.Severity), alert.Severity.Level()), true, false),
	)

	fields := []*slack.TextBlockObject{
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Person:*\n%s", alert.PersonName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Zone:*\n%s", alert.ZoneName), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Movement:*\n%s", MovementText(alert.Direction)), false, false),
		slack.NewTextBlockObject(slack.MarkdownType, fmt.Sprintf("*Site:*\n%s", siteLabel(site, alert)), false, false),
	}
	section := slack.NewSectionBlock(nil, fields, nil)

	blocks := []slack.Block{header, section}

	if !alert.Timestamp.IsZero() {
		ts := alert.Timestamp.Unix()
		footer := slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType,
				fmt.Sprintf("<!date^%d^{date_short_pretty} {time}|%s> · %s",
					ts, alert.Timestamp.UTC().Format("2006-01-02 15:04 UTC"), alert.ID), false, false),
		)
		blocks = append(blocks, footer)
	}
	return blocks
}
