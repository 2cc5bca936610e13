// Package validate runs post-collection data quality checks against the
// stored season dataset. Checks flag out-of-range values and structural gaps
// without failing the pipeline; the report is persisted with the run summary.
package validate

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store/repository"
)

// Plausible ranges for NBA team statistics. Values outside these are almost
// always a parsing or upstream fault, not basketball.
const (
	minTeamPoints = 50
	maxTeamPoints = 200

	minRating = 80
	maxRating = 130

	minPace = 85
	maxPace = 115

	leagueTeams = 30
	positions   = 5
)

// Validator checks the stored dataset for a season.
type Validator struct {
	games     *repository.GameRepository
	teamStats *repository.TeamStatsRepository
	chemistry *repository.ChemistryRepository
	defense   *repository.DefenseRepository
}

func New(db *store.Database) *Validator {
	return &Validator{
		games:     repository.NewGameRepository(db),
		teamStats: repository.NewTeamStatsRepository(db),
		chemistry: repository.NewChemistryRepository(db),
		defense:   repository.NewDefenseRepository(db),
	}
}

// Run validates every collection for the season and aggregates the findings.
func (v *Validator) Run(ctx context.Context, season string) (*store.ValidationReport, error) {
	report := &store.ValidationReport{
		Season: season,
		RanAt:  time.Now(),
	}

	checks := []func(context.Context, string) (store.ValidationCheck, error){
		v.checkGames,
		v.checkAdvancedStats,
		v.checkStandings,
		v.checkChemistryIndex,
		v.checkClutch,
		v.checkPositionalDefense,
	}
	for _, check := range checks {
		c, err := check(ctx, season)
		if err != nil {
			return nil, err
		}
		report.Checks = append(report.Checks, c)
		report.TotalIssues += len(c.Issues)
	}

	if report.TotalIssues == 0 {
		log.Printf("[validate] ✓ Season %s dataset is clean", season)
	} else {
		log.Printf("[validate] ⚠️ Season %s has %d validation issues", season, report.TotalIssues)
	}
	return report, nil
}

func (v *Validator) checkGames(ctx context.Context, season string) (store.ValidationCheck, error) {
	check := store.ValidationCheck{Collection: store.CollGames}

	count, err := v.games.CountBySeason(ctx, season)
	if err != nil {
		return check, fmt.Errorf("counting games: %w", err)
	}
	if count == 0 {
		check.Issues = append(check.Issues, fmt.Sprintf("no games stored for season %s", season))
		return check, nil
	}

	for _, seasonType := range []string{store.SeasonTypeRegular, store.SeasonTypePlayoffs} {
		games, err := v.games.GetSeasonGames(ctx, season, seasonType)
		if err != nil {
			return check, fmt.Errorf("validate games: %w", err)
		}
		check.Records += int64(len(games))

		for _, g := range games {
			switch {
			case g.TeamID == 0:
				check.Issues = append(check.Issues, fmt.Sprintf("game %s: missing team ID", g.GameID))
			case g.GameDate.IsZero():
				check.Issues = append(check.Issues, fmt.Sprintf("game %s: missing game date", g.GameID))
			case g.WinLoss != "W" && g.WinLoss != "L":
				check.Issues = append(check.Issues, fmt.Sprintf("game %s (%s): win/loss is %q", g.GameID, g.TeamAbbr, g.WinLoss))
			case g.Points < minTeamPoints || g.Points > maxTeamPoints:
				check.Issues = append(check.Issues, fmt.Sprintf("game %s (%s): %d points out of range", g.GameID, g.TeamAbbr, g.Points))
			}
		}
	}
	return check, nil
}

func (v *Validator) checkAdvancedStats(ctx context.Context, season string) (store.ValidationCheck, error) {
	check := store.ValidationCheck{Collection: store.CollAdvancedStats}

	stats, err := v.teamStats.GetAdvancedStats(ctx, season, store.SeasonTypeRegular)
	if err != nil {
		return check, fmt.Errorf("validate advanced stats: %w", err)
	}
	check.Records = int64(len(stats))

	for _, s := range stats {
		if s.OffensiveRating < minRating || s.OffensiveRating > maxRating {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: offensive rating %.1f out of range", s.TeamName, s.OffensiveRating))
		}
		if s.DefensiveRating < minRating || s.DefensiveRating > maxRating {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: defensive rating %.1f out of range", s.TeamName, s.DefensiveRating))
		}
		if s.Pace < minPace || s.Pace > maxPace {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: pace %.1f out of range", s.TeamName, s.Pace))
		}
	}
	return check, nil
}

func (v *Validator) checkStandings(ctx context.Context, season string) (store.ValidationCheck, error) {
	check := store.ValidationCheck{Collection: store.CollStandings}

	standings, err := v.teamStats.GetStandings(ctx, season)
	if err != nil {
		return check, fmt.Errorf("validate standings: %w", err)
	}
	check.Records = int64(len(standings))

	if len(standings) > 0 && len(standings) != leagueTeams {
		check.Issues = append(check.Issues, fmt.Sprintf("expected %d teams in standings, found %d", leagueTeams, len(standings)))
	}
	for _, s := range standings {
		if s.WinPct < 0 || s.WinPct > 1 {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: win pct %.3f out of range", s.TeamName, s.WinPct))
		}
		if s.Wins+s.Losses == 0 {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: no games recorded", s.TeamName))
		}
	}
	return check, nil
}

func (v *Validator) checkChemistryIndex(ctx context.Context, season string) (store.ValidationCheck, error) {
	check := store.ValidationCheck{Collection: store.CollChemistryIndex}

	ranking, err := v.chemistry.GetIndexRanking(ctx, season)
	if err != nil {
		return check, fmt.Errorf("validate chemistry index: %w", err)
	}
	check.Records = int64(len(ranking))

	for _, idx := range ranking {
		if idx.RawScore < 0 || idx.RawScore > 100 {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: raw chemistry score %.1f outside [0,100]", idx.TeamName, idx.RawScore))
		}
		if len(idx.MetricsUsed) < 2 {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: chemistry index built from %d metrics", idx.TeamName, len(idx.MetricsUsed)))
		}
	}
	return check, nil
}

func (v *Validator) checkClutch(ctx context.Context, season string) (store.ValidationCheck, error) {
	check := store.ValidationCheck{Collection: store.CollClutchStats}

	stats, err := v.defense.GetClutchStats(ctx, season, store.SeasonTypeRegular)
	if err != nil {
		return check, fmt.Errorf("validate clutch stats: %w", err)
	}
	check.Records = int64(len(stats))

	for _, s := range stats {
		if s.WinPct < 0 || s.WinPct > 1 {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: clutch win pct %.3f out of range", s.TeamName, s.WinPct))
		}
		if s.FieldGoalPct < 0 || s.FieldGoalPct > 1 {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: clutch FG pct %.3f out of range", s.TeamName, s.FieldGoalPct))
		}
		if s.TrueShootingPct < 0 || s.TrueShootingPct > 1 {
			check.Issues = append(check.Issues, fmt.Sprintf("%s: clutch TS pct %.3f out of range", s.TeamName, s.TrueShootingPct))
		}
	}
	return check, nil
}

func (v *Validator) checkPositionalDefense(ctx context.Context, season string) (store.ValidationCheck, error) {
	check := store.ValidationCheck{Collection: store.CollPositionalDefense}

	records, err := v.defense.GetPositionalDefense(ctx, season, "")
	if err != nil {
		return check, fmt.Errorf("validate positional defense: %w", err)
	}
	check.Records = int64(len(records))

	known := map[string]bool{"PG": true, "SG": true, "SF": true, "PF": true, "C": true}
	seen := make(map[string]bool)
	for _, r := range records {
		if !known[r.Position] {
			check.Issues = append(check.Issues, fmt.Sprintf("unknown position %q for %s", r.Position, r.TeamAbbr))
			continue
		}
		seen[r.Position] = true
	}
	if len(records) > 0 && len(seen) != positions {
		check.Issues = append(check.Issues, fmt.Sprintf("expected %d positions, found %d", positions, len(seen)))
	}
	return check, nil
}
