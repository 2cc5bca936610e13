package store

import "time"

// Collection names. Each collection is keyed by the natural identifiers listed
// next to it; EnsureIndexes creates the matching unique indexes.
const (
	CollGames             = "games"                // game_id + team_id
	CollAdvancedStats     = "team_advanced_stats"  // team_id + season + season_type
	CollStandings         = "standings"            // team_id + season
	CollInjuryReports     = "injury_reports"       // player_id + season
	CollRestProfiles      = "team_rest_profiles"   // team_id + game_id
	CollChemistrySamples  = "chemistry_samples"    // team_name + season + season_type + stat_type + sample_date
	CollChemistryIndex    = "team_chemistry_index" // team_name + season + sample_date
	CollPositionalDefense = "positional_defense"   // position + team_abbr + season
	CollClutchStats       = "clutch_stats"         // team_id + season + season_type
	CollCollectionRuns    = "collection_runs"      // run_id
)

// Season types as the upstream sources spell them.
const (
	SeasonTypeRegular  = "Regular Season"
	SeasonTypePlayoffs = "Playoffs"
)

// GameRecord is one team's line for one game (the leaguegamefinder shape:
// two records per game, one per side).
type GameRecord struct {
	GameID                 string    `bson:"game_id" json:"game_id"`
	TeamID                 int       `bson:"team_id" json:"team_id"`
	TeamAbbr               string    `bson:"team_abbr" json:"team_abbr"`
	TeamName               string    `bson:"team_name" json:"team_name"`
	Season                 string    `bson:"season" json:"season"`
	SeasonType             string    `bson:"season_type" json:"season_type"`
	GameDate               time.Time `bson:"game_date" json:"game_date"`
	Matchup                string    `bson:"matchup" json:"matchup"`
	IsHome                 bool      `bson:"is_home" json:"is_home"`
	WinLoss                string    `bson:"win_loss" json:"win_loss"`
	Points                 int       `bson:"points" json:"points"`
	FieldGoalsMade         int       `bson:"field_goals_made" json:"field_goals_made"`
	FieldGoalsAttempted    int       `bson:"field_goals_attempted" json:"field_goals_attempted"`
	FieldGoalPct           float64   `bson:"field_goal_pct" json:"field_goal_pct"`
	ThreePointersMade      int       `bson:"three_pointers_made" json:"three_pointers_made"`
	ThreePointersAttempted int       `bson:"three_pointers_attempted" json:"three_pointers_attempted"`
	ThreePointPct          float64   `bson:"three_point_pct" json:"three_point_pct"`
	FreeThrowsMade         int       `bson:"free_throws_made" json:"free_throws_made"`
	FreeThrowsAttempted    int       `bson:"free_throws_attempted" json:"free_throws_attempted"`
	FreeThrowPct           float64   `bson:"free_throw_pct" json:"free_throw_pct"`
	OffensiveRebounds      int       `bson:"offensive_rebounds" json:"offensive_rebounds"`
	DefensiveRebounds      int       `bson:"defensive_rebounds" json:"defensive_rebounds"`
	Rebounds               int       `bson:"rebounds" json:"rebounds"`
	Assists                int       `bson:"assists" json:"assists"`
	Steals                 int       `bson:"steals" json:"steals"`
	Blocks                 int       `bson:"blocks" json:"blocks"`
	Turnovers              int       `bson:"turnovers" json:"turnovers"`
	PersonalFouls          int       `bson:"personal_fouls" json:"personal_fouls"`
	PlusMinus              float64   `bson:"plus_minus" json:"plus_minus"`
	CollectedAt            time.Time `bson:"collected_at" json:"collected_at"`
}

// TeamAdvancedStats holds season-to-date advanced ratings for a team.
type TeamAdvancedStats struct {
	TeamID          int       `bson:"team_id" json:"team_id"`
	TeamName        string    `bson:"team_name" json:"team_name"`
	Season          string    `bson:"season" json:"season"`
	SeasonType      string    `bson:"season_type" json:"season_type"`
	GamesPlayed     int       `bson:"games_played" json:"games_played"`
	Wins            int       `bson:"wins" json:"wins"`
	Losses          int       `bson:"losses" json:"losses"`
	OffensiveRating float64   `bson:"offensive_rating" json:"offensive_rating"`
	DefensiveRating float64   `bson:"defensive_rating" json:"defensive_rating"`
	NetRating       float64   `bson:"net_rating" json:"net_rating"`
	Pace            float64   `bson:"pace" json:"pace"`
	TrueShootingPct float64   `bson:"true_shooting_pct" json:"true_shooting_pct"`
	EffectiveFGPct  float64   `bson:"effective_fg_pct" json:"effective_fg_pct"`
	AssistPct       float64   `bson:"assist_pct" json:"assist_pct"`
	ReboundPct      float64   `bson:"rebound_pct" json:"rebound_pct"`
	TurnoverPct     float64   `bson:"turnover_pct" json:"turnover_pct"`
	CollectedAt     time.Time `bson:"collected_at" json:"collected_at"`
}

// Standing is a team's place in the season standings.
type Standing struct {
	TeamID         int       `bson:"team_id" json:"team_id"`
	TeamName       string    `bson:"team_name" json:"team_name"`
	Season         string    `bson:"season" json:"season"`
	Conference     string    `bson:"conference" json:"conference"`
	ConferenceRank int       `bson:"conference_rank" json:"conference_rank"`
	Wins           int       `bson:"wins" json:"wins"`
	Losses         int       `bson:"losses" json:"losses"`
	WinPct         float64   `bson:"win_pct" json:"win_pct"`
	HomeRecord     string    `bson:"home_record" json:"home_record"`
	RoadRecord     string    `bson:"road_record" json:"road_record"`
	LastTen        string    `bson:"last_ten" json:"last_ten"`
	Streak         string    `bson:"streak" json:"streak"`
	GamesBack      float64   `bson:"games_back" json:"games_back"`
	CollectedAt    time.Time `bson:"collected_at" json:"collected_at"`
}

// PlayerGameLog is a single player's line for one game. Not persisted as-is;
// used to derive availability reports.
type PlayerGameLog struct {
	PlayerID   int       `bson:"player_id" json:"player_id"`
	PlayerName string    `bson:"player_name" json:"player_name"`
	TeamID     int       `bson:"team_id" json:"team_id"`
	TeamAbbr   string    `bson:"team_abbr" json:"team_abbr"`
	GameID     string    `bson:"game_id" json:"game_id"`
	GameDate   time.Time `bson:"game_date" json:"game_date"`
	Minutes    float64   `bson:"minutes" json:"minutes"`
}

// Player availability status, derived from game-log participation.
const (
	AvailabilityAvailable    = "available"
	AvailabilityQuestionable = "questionable"
	AvailabilityOut          = "out"
)

// InjuryReport captures a player's availability for a season, derived from
// which of their team's games they appeared in.
type InjuryReport struct {
	PlayerID         int       `bson:"player_id" json:"player_id"`
	PlayerName       string    `bson:"player_name" json:"player_name"`
	TeamID           int       `bson:"team_id" json:"team_id"`
	TeamAbbr         string    `bson:"team_abbr" json:"team_abbr"`
	Season           string    `bson:"season" json:"season"`
	GamesPlayed      int       `bson:"games_played" json:"games_played"`
	TeamGames        int       `bson:"team_games" json:"team_games"`
	AvailabilityRate float64   `bson:"availability_rate" json:"availability_rate"`
	MissedStreak     int       `bson:"missed_streak" json:"missed_streak"`
	Status           string    `bson:"status" json:"status"`
	CollectedAt      time.Time `bson:"collected_at" json:"collected_at"`
}

// RestProfile captures schedule fatigue going into a single game.
type RestProfile struct {
	TeamID       int       `bson:"team_id" json:"team_id"`
	TeamAbbr     string    `bson:"team_abbr" json:"team_abbr"`
	Season       string    `bson:"season" json:"season"`
	GameID       string    `bson:"game_id" json:"game_id"`
	GameDate     time.Time `bson:"game_date" json:"game_date"`
	RestDays     int       `bson:"rest_days" json:"rest_days"`
	BackToBack   bool      `bson:"back_to_back" json:"back_to_back"`
	ThreeInFour  bool      `bson:"three_in_four" json:"three_in_four"`
	FourInSix    bool      `bson:"four_in_six" json:"four_in_six"`
	GamesInLast7 int       `bson:"games_in_last_7" json:"games_in_last_7"`
	FatigueScore float64   `bson:"fatigue_score" json:"fatigue_score"`
	CollectedAt  time.Time `bson:"collected_at" json:"collected_at"`
}

// ChemistrySample is one scraped team-stat snapshot from an nba.com stat page.
// Metrics holds the full source-shaped column map; the four chemistry
// components are lifted into fields when the page exposes them.
type ChemistrySample struct {
	TeamID           int                `bson:"team_id" json:"team_id"`
	TeamName         string             `bson:"team_name" json:"team_name"`
	Season           string             `bson:"season" json:"season"`
	SeasonType       string             `bson:"season_type" json:"season_type"`
	StatType         string             `bson:"stat_type" json:"stat_type"`
	SampleDate       time.Time          `bson:"sample_date" json:"sample_date"`
	Metrics          map[string]float64 `bson:"metrics" json:"metrics"`
	ScreenAssists    float64            `bson:"screen_assists" json:"screen_assists"`
	SecondaryAssists float64            `bson:"secondary_assists" json:"secondary_assists"`
	ContestedShots   float64            `bson:"contested_shots" json:"contested_shots"`
	Deflections      float64            `bson:"deflections" json:"deflections"`
	CollectedAt      time.Time          `bson:"collected_at" json:"collected_at"`
}

// ChemistryIndex is the derived composite score for a team on a sample date.
// RawScore is the equal-weighted average of min-max-scaled components (0-100),
// Smoothed is its moving average, and Index is Smoothed normalized to the
// team's season-start baseline (baseline = 100).
type ChemistryIndex struct {
	TeamID      int                `bson:"team_id" json:"team_id"`
	TeamName    string             `bson:"team_name" json:"team_name"`
	Season      string             `bson:"season" json:"season"`
	SampleDate  time.Time          `bson:"sample_date" json:"sample_date"`
	Components  map[string]float64 `bson:"components" json:"components"`
	MetricsUsed []string           `bson:"metrics_used" json:"metrics_used"`
	RawScore    float64            `bson:"raw_score" json:"raw_score"`
	Smoothed    float64            `bson:"smoothed" json:"smoothed"`
	Baseline    float64            `bson:"baseline" json:"baseline"`
	Index       float64            `bson:"index" json:"index"`
	CollectedAt time.Time          `bson:"collected_at" json:"collected_at"`
}

// PositionalDefense is how a team defends one position (PG/SG/SF/PF/C).
type PositionalDefense struct {
	Position      string    `bson:"position" json:"position"`
	TeamAbbr      string    `bson:"team_abbr" json:"team_abbr"`
	TeamInfo      string    `bson:"team_info" json:"team_info"`
	Season        string    `bson:"season" json:"season"`
	PtsAllowed    float64   `bson:"pts_allowed" json:"pts_allowed"`
	FGPctAllowed  float64   `bson:"fg_pct_allowed" json:"fg_pct_allowed"`
	FTPctAllowed  float64   `bson:"ft_pct_allowed" json:"ft_pct_allowed"`
	ThreesAllowed float64   `bson:"threes_allowed" json:"threes_allowed"`
	RebAllowed    float64   `bson:"reb_allowed" json:"reb_allowed"`
	AstAllowed    float64   `bson:"ast_allowed" json:"ast_allowed"`
	StlAllowed    float64   `bson:"stl_allowed" json:"stl_allowed"`
	BlkAllowed    float64   `bson:"blk_allowed" json:"blk_allowed"`
	TOForced      float64   `bson:"to_forced" json:"to_forced"`
	Source        string    `bson:"source" json:"source"`
	CollectedAt   time.Time `bson:"collected_at" json:"collected_at"`
}

// ClutchStats is a team's performance in clutch situations (score within 5
// points, final 5 minutes).
type ClutchStats struct {
	TeamID                 int       `bson:"team_id" json:"team_id"`
	TeamName               string    `bson:"team_name" json:"team_name"`
	Season                 string    `bson:"season" json:"season"`
	SeasonType             string    `bson:"season_type" json:"season_type"`
	Games                  int       `bson:"games" json:"games"`
	Wins                   int       `bson:"wins" json:"wins"`
	Losses                 int       `bson:"losses" json:"losses"`
	WinPct                 float64   `bson:"win_pct" json:"win_pct"`
	Minutes                float64   `bson:"minutes" json:"minutes"`
	Points                 float64   `bson:"points" json:"points"`
	FieldGoalsMade         float64   `bson:"field_goals_made" json:"field_goals_made"`
	FieldGoalsAttempted    float64   `bson:"field_goals_attempted" json:"field_goals_attempted"`
	FieldGoalPct           float64   `bson:"field_goal_pct" json:"field_goal_pct"`
	ThreePointersMade      float64   `bson:"three_pointers_made" json:"three_pointers_made"`
	ThreePointersAttempted float64   `bson:"three_pointers_attempted" json:"three_pointers_attempted"`
	FreeThrowsMade         float64   `bson:"free_throws_made" json:"free_throws_made"`
	FreeThrowsAttempted    float64   `bson:"free_throws_attempted" json:"free_throws_attempted"`
	Rebounds               float64   `bson:"rebounds" json:"rebounds"`
	Assists                float64   `bson:"assists" json:"assists"`
	Turnovers              float64   `bson:"turnovers" json:"turnovers"`
	Steals                 float64   `bson:"steals" json:"steals"`
	Blocks                 float64   `bson:"blocks" json:"blocks"`
	PlusMinus              float64   `bson:"plus_minus" json:"plus_minus"`
	TrueShootingPct        float64   `bson:"true_shooting_pct" json:"true_shooting_pct"`
	AssistTurnoverRatio    float64   `bson:"assist_turnover_ratio" json:"assist_turnover_ratio"`
	ScoringEfficiency      float64   `bson:"scoring_efficiency" json:"scoring_efficiency"`
	CollectedAt            time.Time `bson:"collected_at" json:"collected_at"`
}

// PhaseResult is the outcome of one collection phase.
type PhaseResult struct {
	Name     string `bson:"name" json:"name"`
	Records  int    `bson:"records" json:"records"`
	Attempts int    `bson:"attempts" json:"attempts"`
	Error    string `bson:"error,omitempty" json:"error,omitempty"`
}

// Run status values.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// CollectionRun is the persisted summary of one orchestrated collection.
type CollectionRun struct {
	RunID        string            `bson:"run_id" json:"run_id"`
	Season       string            `bson:"season" json:"season"`
	QuickTest    bool              `bson:"quick_test" json:"quick_test"`
	Status       string            `bson:"status" json:"status"`
	StartedAt    time.Time         `bson:"started_at" json:"started_at"`
	CompletedAt  *time.Time        `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	Phases       []PhaseResult     `bson:"phases" json:"phases"`
	TotalRecords int               `bson:"total_records" json:"total_records"`
	Errors       []string          `bson:"errors,omitempty" json:"errors,omitempty"`
	Validation   *ValidationReport `bson:"validation,omitempty" json:"validation,omitempty"`
}

// ValidationCheck is the result of validating one collection.
type ValidationCheck struct {
	Collection string   `bson:"collection" json:"collection"`
	Records    int64    `bson:"records" json:"records"`
	Issues     []string `bson:"issues,omitempty" json:"issues,omitempty"`
}

// ValidationReport aggregates post-collection data quality checks.
type ValidationReport struct {
	Season      string            `bson:"season" json:"season"`
	RanAt       time.Time         `bson:"ran_at" json:"ran_at"`
	Checks      []ValidationCheck `bson:"checks" json:"checks"`
	TotalIssues int               `bson:"total_issues" json:"total_issues"`
}
