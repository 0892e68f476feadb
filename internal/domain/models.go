package domain

import (
	"strconv"
	"time"
)

type Tier int

const (
	TierUnranked Tier = iota - 1
	TierIron
	TierBronze
	TierSilver
	TierGold
	TierPlatinum
	TierDiamond
	TierMaster
	TierGrandmaster
	TierChallenger
)

var tierNames = map[Tier]string{
	TierUnranked:    "Unranked",
	TierIron:        "Iron",
	TierBronze:      "Bronze",
	TierSilver:      "Silver",
	TierGold:        "Gold",
	TierPlatinum:    "Platinum",
	TierDiamond:     "Diamond",
	TierMaster:      "Master",
	TierGrandmaster: "Grandmaster",
	TierChallenger:  "Challenger",
}

func (t Tier) String() string {
	if name, ok := tierNames[t]; ok {
		return name
	}
	return "Unranked"
}

// HasDivisions reports whether the tier is split into IV..I. Master and above are not.
func (t Tier) HasDivisions() bool {
	return t >= TierIron && t <= TierDiamond
}

type Division int

const (
	DivisionIV Division = iota
	DivisionIII
	DivisionII
	DivisionI
)

var divisionNames = [...]string{"IV", "III", "II", "I"}

func (d Division) String() string {
	if d < DivisionIV || d > DivisionI {
		return ""
	}
	return divisionNames[d]
}

// Snapshot is a point-in-time rank reading. The zero value is Iron IV 0 LP,
// use UnrankedSnapshot for an account without a placement.
type Snapshot struct {
	Tier     Tier     `json:"tier"`
	Division Division `json:"division"`
	Points   int      `json:"points"`
}

func UnrankedSnapshot() Snapshot {
	return Snapshot{Tier: TierUnranked}
}

func (s Snapshot) IsUnranked() bool {
	return s.Tier == TierUnranked
}

func (s Snapshot) String() string {
	switch {
	case s.IsUnranked():
		return "Unranked"
	case s.Tier.HasDivisions():
		return s.Tier.String() + " " + s.Division.String() + " " + strconv.Itoa(s.Points) + " LP"
	default:
		return s.Tier.String() + " " + strconv.Itoa(s.Points) + " LP"
	}
}

type TrackedAccount struct {
	ID         string // nanoid, store key
	AccountRef string // puuid
	SummonerID string
	OwnerID    string
	Region     Region
	GameName   string
	TagLine    string

	// CursorMatchID is the newest processed match id, empty before the first successful cycle.
	CursorMatchID string
	// LastSnapshot is nil until the account's rank has been observed once.
	LastSnapshot *Snapshot
	// History is oldest first.
	History []RankRecord

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a TrackedAccount) RiotID() string {
	return a.GameName + "#" + a.TagLine
}

type RankRecord struct {
	ID            string    `json:"id"`
	Tier          Tier      `json:"tier"`
	Division      Division  `json:"division"`
	Points        int       `json:"points"`
	Timestamp     time.Time `json:"timestamp"`
	MatchID       string    `json:"match_id,omitempty"`
	PointsDelta   *int      `json:"points_delta"` // nil on the first record
	LowConfidence bool      `json:"low_confidence,omitempty"`
}

func (r RankRecord) Snapshot() Snapshot {
	return Snapshot{Tier: r.Tier, Division: r.Division, Points: r.Points}
}

type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

type MatchResultEvent struct {
	AccountID     string     `json:"account_id"`
	AccountRef    string     `json:"account_ref"`
	OwnerID       string     `json:"owner_id"`
	RiotID        string     `json:"riot_id"`
	Region        Region     `json:"region"`
	MatchID       string     `json:"match_id"`
	Outcome       Outcome    `json:"outcome"`
	PointsDelta   *int       `json:"points_delta"`
	LowConfidence bool       `json:"low_confidence,omitempty"`
	Current       Snapshot   `json:"current"`
	Stats         MatchStats `json:"stats"`
	PlayedAt      time.Time  `json:"played_at"`
}

type MatchStats struct {
	Champion          string  `json:"champion"`
	Kills             int     `json:"kills"`
	Deaths            int     `json:"deaths"`
	Assists           int     `json:"assists"`
	CreepScore        int     `json:"creep_score"`
	CSPerMinute       float64 `json:"cs_per_minute"`
	VisionScore       int     `json:"vision_score"`
	KillParticipation float64 `json:"kill_participation"` // percent
	DurationSeconds   int     `json:"duration_seconds"`
}

type MatchDetail struct {
	MatchID         string
	QueueID         int
	DurationSeconds int
	StartedAt       time.Time
	Participants    []Participant
	Teams           []Team
}

type Participant struct {
	PUUID                string
	ChampionName         string
	TeamID               int
	Win                  bool
	Kills                int
	Deaths               int
	Assists              int
	TotalMinionsKilled   int
	NeutralMinionsKilled int
	VisionScore          int
}

type Team struct {
	TeamID        int
	Win           bool
	ChampionKills int
}

// Participant returns the participant entry for puuid.
func (m MatchDetail) Participant(puuid string) (Participant, bool) {
	for _, p := range m.Participants {
		if p.PUUID == puuid {
			return p, true
		}
	}
	return Participant{}, false
}

func (m MatchDetail) Team(teamID int) (Team, bool) {
	for _, t := range m.Teams {
		if t.TeamID == teamID {
			return t, true
		}
	}
	return Team{}, false
}

// MatchFilter narrows the remote match id listing.
type MatchFilter struct {
	QueueID int
	Count   int
}
