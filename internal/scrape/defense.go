package scrape

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

// DefenseVsPositionURL serves a server-rendered table of how each team
// defends each position, season to date.
const DefenseVsPositionURL = "https://hashtagbasketball.com/nba-defense-vs-position"

var knownPositions = map[string]bool{
	"PG": true, "SG": true, "SF": true, "PF": true, "C": true,
}

// PositionalDefense scrapes the defense-vs-position table. One record per
// (position, team).
func (f *Fetcher) PositionalDefense(ctx context.Context, season string) ([]*store.PositionalDefense, error) {
	html, err := f.FetchStatic(ctx, DefenseVsPositionURL)
	if err != nil {
		return nil, fmt.Errorf("fetch defense-vs-position page: %w", err)
	}

	doc, err := ParseHTML(html)
	if err != nil {
		return nil, err
	}

	table := FindTable(doc, "POSITION", "TEAM", "PTS", "REB", "AST")
	if table == nil {
		return nil, fmt.Errorf("defense-vs-position table not found")
	}

	now := time.Now()
	var records []*store.PositionalDefense
	for _, row := range table.Rows {
		pos := strings.ToUpper(strings.TrimSpace(row["POSITION"]))
		if !knownPositions[pos] {
			// The table repeats its header row between position groups
			continue
		}
		team := strings.TrimSpace(row["TEAM"])
		if team == "" {
			continue
		}

		records = append(records, &store.PositionalDefense{
			Position:      pos,
			TeamAbbr:      teamAbbrFromCell(team),
			TeamInfo:      team,
			Season:        season,
			PtsAllowed:    cellFloat(row["PTS"]),
			FGPctAllowed:  cellFloat(row["FG%"]),
			FTPctAllowed:  cellFloat(row["FT%"]),
			ThreesAllowed: cellFloat(row["3PM"]),
			RebAllowed:    cellFloat(row["REB"]),
			AstAllowed:    cellFloat(row["AST"]),
			StlAllowed:    cellFloat(row["STL"]),
			BlkAllowed:    cellFloat(row["BLK"]),
			TOForced:      cellFloat(row["TO"]),
			Source:        "hashtagbasketball",
			CollectedAt:   now,
		})
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("defense-vs-position table had no usable rows")
	}

	log.Printf("[scrape] ✓ Collected %d positional defense records (%s)", len(records), season)
	return records, nil
}

// teamAbbrFromCell extracts the leading team code from cells like
// "BOS vs PG" or plain "BOS".
func teamAbbrFromCell(cell string) string {
	fields := strings.Fields(cell)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToUpper(fields[0])
}
