package scrape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/nbastats"
)

const defenseTableHTML = `<html><body>
<table>
	<thead><tr><th>Position</th><th>Team</th><th>PTS</th><th>FG%</th><th>FT%</th><th>3PM</th><th>REB</th><th>AST</th><th>STL</th><th>BLK</th><th>TO</th></tr></thead>
	<tbody>
		<tr><td>PG</td><td>WAS</td><td>26.3</td><td>48.1</td><td>81.2</td><td>3.4</td><td>6.1</td><td>8.9</td><td>1.5</td><td>0.4</td><td>2.8</td></tr>
		<tr><td>Position</td><td>Team</td><td>PTS</td><td>FG%</td><td>FT%</td><td>3PM</td><td>REB</td><td>AST</td><td>STL</td><td>BLK</td><td>TO</td></tr>
		<tr><td>C</td><td>BOS</td><td>18.7</td><td>52.0</td><td>-</td><td>0.9</td><td>11.2</td><td>3.1</td><td>0.8</td><td>1.9</td><td>2.1</td></tr>
	</tbody>
</table>
</body></html>`

func TestFindTableMatchesByHeaders(t *testing.T) {
	doc, err := ParseHTML(defenseTableHTML)
	require.NoError(t, err)

	table := FindTable(doc, "POSITION", "TEAM", "PTS")
	require.NotNil(t, table)
	require.Len(t, table.Rows, 3)

	assert.Equal(t, "PG", table.Rows[0]["POSITION"])
	assert.Equal(t, "WAS", table.Rows[0]["TEAM"])
	assert.Equal(t, "26.3", table.Rows[0]["PTS"])

	assert.Nil(t, FindTable(doc, "POSITION", "NO_SUCH_COLUMN"))
}

func TestCellFloat(t *testing.T) {
	assert.InDelta(t, 26.3, cellFloat("26.3"), 0.0001)
	assert.InDelta(t, 48.1, cellFloat("48.1%"), 0.0001)
	assert.Equal(t, 0.0, cellFloat("-"))
	assert.Equal(t, 0.0, cellFloat(""))
	assert.Equal(t, 0.0, cellFloat("n/a"))
}

func TestDiscoverEndpoints(t *testing.T) {
	html := `<script>fetch("https://stats.nba.com/stats/leaguehustlestatsteam?Season=2024-25&SeasonType=Regular+Season")</script>
<a href="https://stats.nba.com/stats/leaguedashteamclutch?Season=2024-25&SeasonType=Regular+Season">x</a>
<script>fetch("https://stats.nba.com/stats/leaguehustlestatsteam?Season=2024-25&SeasonType=Regular+Season")</script>`

	hustle := DiscoverEndpoints(html, "leaguehustlestatsteam")
	require.Len(t, hustle, 1) // deduplicated
	assert.Contains(t, hustle[0], "SeasonType=Regular+Season")
	assert.Contains(t, hustle[0], "&")
	assert.NotContains(t, hustle[0], `\u0026`)

	clutch := DiscoverEndpoints(html, "leaguedashteamclutch")
	assert.Len(t, clutch, 1)

	assert.Empty(t, DiscoverEndpoints(html, "leaguegamefinder"))
}

func TestSamplesFromHTML(t *testing.T) {
	html := `<html><body><table>
	<thead><tr><th>TEAM</th><th>SCREEN AST</th><th>DEFLECTIONS</th><th>CONTESTED SHOTS</th></tr></thead>
	<tbody>
		<tr><td>Boston Celtics</td><td>9.1</td><td>16.2</td><td>58.3</td></tr>
		<tr><td>Denver Nuggets</td><td>11.4</td><td>14.8</td><td>55.0</td></tr>
	</tbody>
	</table></body></html>`

	page := chemistryPages()[0] // hustle
	sampleDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	samples, err := samplesFromHTML(html, page, "2024-25", "Regular Season", sampleDate)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	bos := samples[0]
	assert.Equal(t, "Boston Celtics", bos.TeamName)
	assert.Equal(t, "hustle", bos.StatType)
	assert.Equal(t, sampleDate, bos.SampleDate)
	assert.InDelta(t, 9.1, bos.Metrics["screen_assists"], 0.0001)
	assert.InDelta(t, 9.1, bos.ScreenAssists, 0.0001)
	assert.InDelta(t, 16.2, bos.Deflections, 0.0001)
	assert.InDelta(t, 58.3, bos.ContestedShots, 0.0001)
}

func TestFindTableSkipsMisalignedRows(t *testing.T) {
	html := `<html><body><table>
	<thead><tr><th>TEAM</th><th>PTS</th><th>REB</th></tr></thead>
	<tbody>
		<tr><td>Boston Celtics</td><td>120.1</td><td>44.2</td></tr>
		<tr><td colspan="3">Advertisement</td></tr>
		<tr><td>Denver Nuggets</td><td>114.8</td></tr>
		<tr><td>Dallas Mavericks</td><td>117.2</td><td>42.0</td><td>extra</td><td>cells</td></tr>
	</tbody></table></body></html>`

	doc, err := ParseHTML(html)
	require.NoError(t, err)

	table := FindTable(doc, "TEAM", "PTS", "REB")
	require.NotNil(t, table)
	require.Len(t, table.Rows, 1, "rows whose cell count differs from the headers are dropped")
	assert.Equal(t, "Boston Celtics", table.Rows[0]["TEAM"])
}

func TestChemistryPagesCoverStatFamilies(t *testing.T) {
	pages := chemistryPages()

	byStat := make(map[string]statPage, len(pages))
	for _, page := range pages {
		byStat[page.statType] = page
	}

	for _, statType := range []string{"hustle", "passing", "box_outs", "team_defense", "opponent_shooting", "transition"} {
		page, ok := byStat[statType]
		require.True(t, ok, "missing stat family %s", statType)
		assert.NotEmpty(t, page.slug)
		assert.NotEmpty(t, page.endpoint)
		assert.NotEmpty(t, page.metrics)
	}

	assert.Equal(t, "secondary_assists", byStat["passing"].metrics["SECONDARY_AST"])
	assert.Equal(t, "box_outs", byStat["box_outs"].metrics["BOX_OUTS"])
	assert.Equal(t, "defended_fg_pct", byStat["team_defense"].metrics["D_FG_PCT"])
	assert.Equal(t, "opp_points", byStat["opponent_shooting"].metrics["OPP_PTS"])
	assert.Equal(t, "transition_ppp", byStat["transition"].metrics["PPP"])
	assert.Equal(t, "SeasonYear", byStat["transition"].seasonParam)
}

func TestSamplesFromResponseBoxOuts(t *testing.T) {
	resp := &nbastats.Response{
		ResultSets: []nbastats.ResultSet{{
			Name:    "HustleStatsTeam",
			Headers: []string{"TEAM_ID", "TEAM_NAME", "BOX_OUTS", "OFF_BOXOUTS", "DEF_BOXOUTS"},
			RowSet: [][]interface{}{
				{float64(1610612738), "Boston Celtics", 28.4, 9.1, 19.3},
				{float64(1610612743), "Denver Nuggets", 31.0, 10.2, 20.8},
			},
		}},
	}

	var page statPage
	for _, p := range chemistryPages() {
		if p.statType == "box_outs" {
			page = p
		}
	}
	require.NotEmpty(t, page.slug)

	sampleDate := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	samples, err := samplesFromResponse(resp, page, "2024-25", "Regular Season", sampleDate)
	require.NoError(t, err)
	require.Len(t, samples, 2)

	bos := samples[0]
	assert.Equal(t, 1610612738, bos.TeamID)
	assert.Equal(t, "box_outs", bos.StatType)
	assert.InDelta(t, 28.4, bos.Metrics["box_outs"], 0.0001)
	assert.InDelta(t, 9.1, bos.Metrics["off_box_outs"], 0.0001)
	assert.InDelta(t, 19.3, bos.Metrics["def_box_outs"], 0.0001)
}
