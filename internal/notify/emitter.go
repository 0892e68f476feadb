// Package notify turns processed matches into result events and hands them to
// delivery sinks. Sinks decide where events go; the tracker never does.
package notify

import (
	"fmt"
	"math"

	"lp-tracker/internal/domain"
	"lp-tracker/internal/rank"
)

// BuildEvent assembles the payload for one processed match of acc.
func BuildEvent(acc domain.TrackedAccount, detail domain.MatchDetail, p domain.Participant, current domain.Snapshot, delta *rank.Delta) domain.MatchResultEvent {
	outcome := domain.OutcomeLoss
	if p.Win {
		outcome = domain.OutcomeWin
	}
	return domain.MatchResultEvent{
		AccountID:     acc.ID,
		AccountRef:    acc.AccountRef,
		OwnerID:       acc.OwnerID,
		RiotID:        acc.RiotID(),
		Region:        acc.Region,
		MatchID:       detail.MatchID,
		Outcome:       outcome,
		PointsDelta:   delta.PointsPtr(),
		LowConfidence: delta.IsLowConfidence(),
		Current:       current,
		Stats:         BuildStats(detail, p),
		PlayedAt:      detail.StartedAt,
	}
}

func BuildStats(detail domain.MatchDetail, p domain.Participant) domain.MatchStats {
	cs := p.TotalMinionsKilled + p.NeutralMinionsKilled
	stats := domain.MatchStats{
		Champion:        p.ChampionName,
		Kills:           p.Kills,
		Deaths:          p.Deaths,
		Assists:         p.Assists,
		CreepScore:      cs,
		VisionScore:     p.VisionScore,
		DurationSeconds: detail.DurationSeconds,
	}
	if detail.DurationSeconds > 0 {
		stats.CSPerMinute = round1(float64(cs) / (float64(detail.DurationSeconds) / 60))
	}
	if team, ok := detail.Team(p.TeamID); ok && team.ChampionKills > 0 {
		stats.KillParticipation = round1(float64(p.Kills+p.Assists) / float64(team.ChampionKills) * 100)
	}
	return stats
}

// FormatDelta renders an LP change, "N/A" when it is unknown.
func FormatDelta(points *int, lowConfidence bool) string {
	if points == nil {
		return "N/A"
	}
	s := fmt.Sprintf("%d LP", *points)
	if *points > 0 {
		s = "+" + s
	}
	if lowConfidence {
		s += " (?)"
	}
	return s
}

// FormatDuration renders seconds as "31m 4s".
func FormatDuration(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
