package api

import (
	"fmt"
	"time"

	"lp-tracker/internal/domain"
)

type AccountDTO struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type SummonerDTO struct {
	ID            string `json:"id"`
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int    `json:"summonerLevel"`
}

type LeagueEntryDTO struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

type MatchDTO struct {
	Metadata struct {
		MatchID      string   `json:"matchId"`
		Participants []string `json:"participants"`
	} `json:"metadata"`
	Info *MatchInfoDTO `json:"info"`
}

type MatchInfoDTO struct {
	QueueID            int              `json:"queueId"`
	GameDuration       int              `json:"gameDuration"`
	GameStartTimestamp int64            `json:"gameStartTimestamp"`
	Participants       []ParticipantDTO `json:"participants"`
	Teams              []TeamDTO        `json:"teams"`
}

type ParticipantDTO struct {
	PUUID                string `json:"puuid"`
	ChampionName         string `json:"championName"`
	TeamID               int    `json:"teamId"`
	Win                  bool   `json:"win"`
	Kills                int    `json:"kills"`
	Deaths               int    `json:"deaths"`
	Assists              int    `json:"assists"`
	TotalMinionsKilled   int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled int    `json:"neutralMinionsKilled"`
	VisionScore          int    `json:"visionScore"`
}

type TeamDTO struct {
	TeamID     int  `json:"teamId"`
	Win        bool `json:"win"`
	Objectives struct {
		Champion struct {
			Kills int `json:"kills"`
		} `json:"champion"`
	} `json:"objectives"`
}

func (m *MatchDTO) toDomain() (*domain.MatchDetail, error) {
	if m.Info == nil || m.Metadata.MatchID == "" {
		return nil, fmt.Errorf("match payload without info: %w", domain.ErrMalformed)
	}

	detail := &domain.MatchDetail{
		MatchID:         m.Metadata.MatchID,
		QueueID:         m.Info.QueueID,
		DurationSeconds: m.Info.GameDuration,
		StartedAt:       time.UnixMilli(m.Info.GameStartTimestamp),
	}
	for _, p := range m.Info.Participants {
		detail.Participants = append(detail.Participants, domain.Participant{
			PUUID:                p.PUUID,
			ChampionName:         p.ChampionName,
			TeamID:               p.TeamID,
			Win:                  p.Win,
			Kills:                p.Kills,
			Deaths:               p.Deaths,
			Assists:              p.Assists,
			TotalMinionsKilled:   p.TotalMinionsKilled,
			NeutralMinionsKilled: p.NeutralMinionsKilled,
			VisionScore:          p.VisionScore,
		})
	}
	for _, t := range m.Info.Teams {
		detail.Teams = append(detail.Teams, domain.Team{
			TeamID:        t.TeamID,
			Win:           t.Win,
			ChampionKills: t.Objectives.Champion.Kills,
		})
	}
	return detail, nil
}
