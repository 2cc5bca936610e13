package nbastats

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// The upstream sends every cell as untyped JSON: numbers come back as
// float64, but some numeric columns arrive as strings ("WINS" in the
// standings set). These helpers coerce either way.

func asString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

func asInt(v interface{}) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case int:
		return t
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0
		}
		return n
	default:
		return 0
	}
}

func asFloat(v interface{}) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case int:
		return float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// parseGameDate handles both date formats the upstream uses: plain dates
// from leaguegamefinder and ISO timestamps from playergamelogs.
func parseGameDate(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized game date %q", s)
}

// parseMinutes handles minutes as a plain number or a "MM:SS" string.
func parseMinutes(v interface{}) float64 {
	s, ok := v.(string)
	if !ok {
		return asFloat(v)
	}
	if i := strings.Index(s, ":"); i >= 0 {
		mins := asFloat(s[:i])
		secs := asFloat(s[i+1:])
		return mins + secs/60
	}
	return asFloat(s)
}

func normalizeGame(row Row, season, seasonType string, collectedAt time.Time) (*store.GameRecord, error) {
	gameID := row.Str("GAME_ID")
	if gameID == "" {
		return nil, fmt.Errorf("row missing GAME_ID")
	}

	date, err := parseGameDate(row.Str("GAME_DATE"))
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", gameID, err)
	}

	matchup := row.Str("MATCHUP")
	return &store.GameRecord{
		GameID:                 gameID,
		TeamID:                 row.Int("TEAM_ID"),
		TeamAbbr:               row.Str("TEAM_ABBREVIATION"),
		TeamName:               row.Str("TEAM_NAME"),
		Season:                 season,
		SeasonType:             seasonType,
		GameDate:               date,
		Matchup:                matchup,
		IsHome:                 strings.Contains(matchup, " vs. "),
		WinLoss:                row.Str("WL"),
		Points:                 row.Int("PTS"),
		FieldGoalsMade:         row.Int("FGM"),
		FieldGoalsAttempted:    row.Int("FGA"),
		FieldGoalPct:           row.Float("FG_PCT"),
		ThreePointersMade:      row.Int("FG3M"),
		ThreePointersAttempted: row.Int("FG3A"),
		ThreePointPct:          row.Float("FG3_PCT"),
		FreeThrowsMade:         row.Int("FTM"),
		FreeThrowsAttempted:    row.Int("FTA"),
		FreeThrowPct:           row.Float("FT_PCT"),
		OffensiveRebounds:      row.Int("OREB"),
		DefensiveRebounds:      row.Int("DREB"),
		Rebounds:               row.Int("REB"),
		Assists:                row.Int("AST"),
		Steals:                 row.Int("STL"),
		Blocks:                 row.Int("BLK"),
		Turnovers:              row.Int("TOV"),
		PersonalFouls:          row.Int("PF"),
		PlusMinus:              row.Float("PLUS_MINUS"),
		CollectedAt:            collectedAt,
	}, nil
}

func normalizeAdvanced(row Row, season, seasonType string, collectedAt time.Time) *store.TeamAdvancedStats {
	return &store.TeamAdvancedStats{
		TeamID:          row.Int("TEAM_ID"),
		TeamName:        row.Str("TEAM_NAME"),
		Season:          season,
		SeasonType:      seasonType,
		GamesPlayed:     row.Int("GP"),
		Wins:            row.Int("W"),
		Losses:          row.Int("L"),
		OffensiveRating: row.Float("OFF_RATING"),
		DefensiveRating: row.Float("DEF_RATING"),
		NetRating:       row.Float("NET_RATING"),
		Pace:            row.Float("PACE"),
		TrueShootingPct: row.Float("TS_PCT"),
		EffectiveFGPct:  row.Float("EFG_PCT"),
		AssistPct:       row.Float("AST_PCT"),
		ReboundPct:      row.Float("REB_PCT"),
		TurnoverPct:     row.Float("TM_TOV_PCT"),
		CollectedAt:     collectedAt,
	}
}

func normalizeStanding(row Row, season string, collectedAt time.Time) *store.Standing {
	name := strings.TrimSpace(row.Str("TeamCity") + " " + row.Str("TeamName"))
	return &store.Standing{
		TeamID:         row.Int("TeamID"),
		TeamName:       name,
		Season:         season,
		Conference:     row.Str("Conference"),
		ConferenceRank: row.Int("PlayoffRank"),
		Wins:           row.Int("WINS"),
		Losses:         row.Int("LOSSES"),
		WinPct:         row.Float("WinPCT"),
		HomeRecord:     row.Str("HOME"),
		RoadRecord:     row.Str("ROAD"),
		LastTen:        row.Str("L10"),
		Streak:         row.Str("strCurrentStreak"),
		GamesBack:      row.Float("ConferenceGamesBack"),
		CollectedAt:    collectedAt,
	}
}

func normalizePlayerLog(row Row) (*store.PlayerGameLog, error) {
	gameID := row.Str("GAME_ID")
	if gameID == "" {
		return nil, fmt.Errorf("row missing GAME_ID")
	}

	date, err := parseGameDate(row.Str("GAME_DATE"))
	if err != nil {
		return nil, fmt.Errorf("game %s: %w", gameID, err)
	}

	return &store.PlayerGameLog{
		PlayerID:   row.Int("PLAYER_ID"),
		PlayerName: row.Str("PLAYER_NAME"),
		TeamID:     row.Int("TEAM_ID"),
		TeamAbbr:   row.Str("TEAM_ABBREVIATION"),
		GameID:     gameID,
		GameDate:   date,
		Minutes:    parseMinutes(row.Raw("MIN")),
	}, nil
}
