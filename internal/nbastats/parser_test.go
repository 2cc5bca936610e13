package nbastats

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const gameFinderFixture = `{
	"resource": "leaguegamefinder",
	"resultSets": [{
		"name": "LeagueGameFinderResults",
		"headers": ["TEAM_ID", "TEAM_ABBREVIATION", "TEAM_NAME", "GAME_ID", "GAME_DATE", "MATCHUP", "WL", "PTS", "FGM", "FGA", "FG_PCT", "FG3M", "FG3A", "FG3_PCT", "FTM", "FTA", "FT_PCT", "OREB", "DREB", "REB", "AST", "STL", "BLK", "TOV", "PF", "PLUS_MINUS"],
		"rowSet": [
			[1610612738, "BOS", "Boston Celtics", "0022400001", "2024-10-22", "BOS vs. NYK", "W", 132, 48, 92, 0.522, 20, 45, 0.444, 16, 20, 0.8, 10, 35, 45, 28, 7, 5, 12, 18, 23],
			[1610612752, "NYK", "New York Knicks", "0022400001", "2024-10-22", "NYK @ BOS", "L", 109, 41, 88, 0.466, 9, 30, 0.3, 18, 22, 0.818, 8, 30, 38, 24, 6, 3, 14, 20, -23]
		]
	}]
}`

func TestNormalizeGameFromResponse(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(gameFinderFixture), &resp))

	rs := resp.Set("LeagueGameFinderResults")
	require.NotNil(t, rs)
	rows := rs.Rows()
	require.Len(t, rows, 2)

	now := time.Now()
	home, err := normalizeGame(rows[0], "2024-25", "Regular Season", now)
	require.NoError(t, err)

	assert.Equal(t, "0022400001", home.GameID)
	assert.Equal(t, 1610612738, home.TeamID)
	assert.Equal(t, "BOS", home.TeamAbbr)
	assert.True(t, home.IsHome)
	assert.Equal(t, "W", home.WinLoss)
	assert.Equal(t, 132, home.Points)
	assert.Equal(t, 45, home.ThreePointersAttempted)
	assert.InDelta(t, 0.522, home.FieldGoalPct, 0.0001)
	assert.InDelta(t, 23, home.PlusMinus, 0.0001)
	assert.Equal(t, time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC), home.GameDate)

	away, err := normalizeGame(rows[1], "2024-25", "Regular Season", now)
	require.NoError(t, err)
	assert.False(t, away.IsHome)
	assert.Equal(t, "L", away.WinLoss)
}

func TestNormalizeGameMissingGameID(t *testing.T) {
	rs := &ResultSet{
		Headers: []string{"TEAM_ID", "GAME_DATE"},
		RowSet:  [][]interface{}{{1610612738.0, "2024-10-22"}},
	}
	_, err := normalizeGame(rs.Rows()[0], "2024-25", "Regular Season", time.Now())
	assert.Error(t, err)
}

func TestSetFallsBackToFirstResultSet(t *testing.T) {
	resp := &Response{ResultSets: []ResultSet{
		{Name: "SomethingRenamed", Headers: []string{"A"}},
	}}
	rs := resp.Set("LeagueGameFinderResults")
	require.NotNil(t, rs)
	assert.Equal(t, "SomethingRenamed", rs.Name)

	empty := &Response{}
	assert.Nil(t, empty.Set("Anything"))
}

func TestRowMissingColumnYieldsZeroValues(t *testing.T) {
	rs := &ResultSet{
		Headers: []string{"TEAM_ID"},
		RowSet:  [][]interface{}{{1610612738.0}},
	}
	row := rs.Rows()[0]

	assert.Equal(t, 0, row.Int("PTS"))
	assert.Equal(t, 0.0, row.Float("FG_PCT"))
	assert.Equal(t, "", row.Str("MATCHUP"))
	assert.False(t, row.Has("MATCHUP"))
}

func TestConversionHelpers(t *testing.T) {
	assert.Equal(t, 42, asInt(42.0))
	assert.Equal(t, 42, asInt("42"))
	assert.Equal(t, 0, asInt("not a number"))
	assert.Equal(t, 0, asInt(nil))

	assert.InDelta(t, 0.515, asFloat("0.515"), 0.0001)
	assert.InDelta(t, 12.5, asFloat(12.5), 0.0001)
	assert.Equal(t, 0.0, asFloat(nil))

	assert.Equal(t, "BOS", asString("BOS"))
	assert.Equal(t, "42", asString(42.0))
	assert.Equal(t, "0.5", asString(0.5))
	assert.Equal(t, "", asString(nil))
}

func TestParseGameDate(t *testing.T) {
	plain, err := parseGameDate("2024-10-22")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 10, 22, 0, 0, 0, 0, time.UTC), plain)

	iso, err := parseGameDate("2024-10-22T00:00:00")
	require.NoError(t, err)
	assert.Equal(t, plain, iso)

	_, err = parseGameDate("10/22/2024")
	assert.Error(t, err)
}

func TestParseMinutes(t *testing.T) {
	assert.InDelta(t, 34.5, parseMinutes("34:30"), 0.0001)
	assert.InDelta(t, 34.0, parseMinutes(34.0), 0.0001)
	assert.InDelta(t, 34.0, parseMinutes("34"), 0.0001)
	assert.Equal(t, 0.0, parseMinutes(nil))
}

func TestNormalizeStanding(t *testing.T) {
	rs := &ResultSet{
		Headers: []string{"TeamID", "TeamCity", "TeamName", "Conference", "PlayoffRank", "WINS", "LOSSES", "WinPCT", "HOME", "ROAD", "L10", "ConferenceGamesBack"},
		RowSet: [][]interface{}{
			{1610612738.0, "Boston", "Celtics", "East", 1.0, 64.0, 18.0, 0.78, "37-4", "27-14", "8-2", 0.0},
		},
	}

	s := normalizeStanding(rs.Rows()[0], "2024-25", time.Now())
	assert.Equal(t, "Boston Celtics", s.TeamName)
	assert.Equal(t, "East", s.Conference)
	assert.Equal(t, 1, s.ConferenceRank)
	assert.Equal(t, 64, s.Wins)
	assert.InDelta(t, 0.78, s.WinPct, 0.0001)
	assert.Equal(t, "37-4", s.HomeRecord)
}
