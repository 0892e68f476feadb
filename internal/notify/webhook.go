package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"lp-tracker/internal/constants"
	"lp-tracker/internal/domain"

	"github.com/valyala/fasthttp"
)

const (
	colorWin  = 0x00FF00
	colorLoss = 0xFF0000
)

// WebhookSink posts each event as a chat embed to a webhook URL.
type WebhookSink struct {
	url    string
	client *fasthttp.Client
}

func NewWebhookSink(url string, client *fasthttp.Client) *WebhookSink {
	if client == nil {
		client = &fasthttp.Client{
			ReadTimeout:  constants.WebhookTimeout,
			WriteTimeout: constants.WebhookTimeout,
		}
	}
	return &WebhookSink{url: url, client: client}
}

type webhookPayload struct {
	Embeds []webhookEmbed `json:"embeds"`
}

type webhookEmbed struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Color       int            `json:"color"`
	Fields      []webhookField `json:"fields"`
	Footer      *webhookFooter `json:"footer,omitempty"`
	Timestamp   string         `json:"timestamp,omitempty"`
}

type webhookField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type webhookFooter struct {
	Text string `json:"text"`
}

func (s *WebhookSink) Publish(ctx context.Context, e domain.MatchResultEvent) error {
	body, err := json.Marshal(webhookPayload{Embeds: []webhookEmbed{renderEmbed(e)}})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.WebhookTimeout)
	}
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("webhook post: %w", err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return fmt.Errorf("webhook post: status %d", code)
	}
	return nil
}

func renderEmbed(e domain.MatchResultEvent) webhookEmbed {
	result, color := "Defeat", colorLoss
	if e.Outcome == domain.OutcomeWin {
		result, color = "Victory", colorWin
	}

	desc := strings.Join([]string{
		"**Rank:** " + e.Current.String(),
		"**LP Change:** " + FormatDelta(e.PointsDelta, e.LowConfidence),
		"**LP Progress:** " + ProgressBar(e.Current.Points%100, 100, 10),
	}, "\n")

	embed := webhookEmbed{
		Title:       fmt.Sprintf("%s - %s", e.RiotID, result),
		Description: desc,
		Color:       color,
		Fields: []webhookField{
			{Name: "Champion", Value: e.Stats.Champion, Inline: true},
			{Name: "KDA", Value: fmt.Sprintf("%d/%d/%d", e.Stats.Kills, e.Stats.Deaths, e.Stats.Assists), Inline: true},
			{Name: "Kill Participation", Value: fmt.Sprintf("%.1f%%", e.Stats.KillParticipation), Inline: true},
			{Name: "CS per Minute", Value: fmt.Sprintf("%.1f cs/min", e.Stats.CSPerMinute), Inline: true},
			{Name: "Vision Score", Value: fmt.Sprintf("%d", e.Stats.VisionScore), Inline: true},
		},
		Footer: &webhookFooter{Text: "Game Duration: " + FormatDuration(e.Stats.DurationSeconds)},
	}
	if !e.PlayedAt.IsZero() {
		embed.Timestamp = e.PlayedAt.UTC().Format(time.RFC3339)
	}
	return embed
}

// ProgressBar draws value/max as a fixed-width bar with a percentage.
func ProgressBar(value, max, size int) string {
	if max <= 0 || size <= 0 {
		return ""
	}
	pct := float64(value) / float64(max)
	if pct > 1 {
		pct = 1
	}
	if pct < 0 {
		pct = 0
	}
	filled := int(pct*float64(size) + 0.5)
	return fmt.Sprintf("`%s%s` %d%%", strings.Repeat("█", filled), strings.Repeat("░", size-filled), int(pct*100+0.5))
}
