package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/TrevorSeestedt/NBA-GamePrediction/internal/store"
)

func testCollector(cfg Config) *Collector {
	return &Collector{cfg: cfg}
}

func TestRunPhaseSucceedsFirstAttempt(t *testing.T) {
	c := testCollector(Config{MaxRetries: 3, RetryDelay: time.Millisecond})

	result := c.runPhase(context.Background(), "basic_games", "2024-25", func(ctx context.Context, season string) (int, error) {
		return 42, nil
	})

	assert.Equal(t, "basic_games", result.Name)
	assert.Equal(t, 42, result.Records)
	assert.Equal(t, 1, result.Attempts)
	assert.Empty(t, result.Error)
}

func TestRunPhaseRecoversAfterFailure(t *testing.T) {
	c := testCollector(Config{MaxRetries: 3, RetryDelay: time.Millisecond})

	calls := 0
	result := c.runPhase(context.Background(), "standings", "2024-25", func(ctx context.Context, season string) (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("rate limited")
		}
		return 30, nil
	})

	assert.Equal(t, 3, result.Attempts)
	assert.Equal(t, 30, result.Records)
	assert.Empty(t, result.Error, "a recovered phase carries no error")
}

func TestRunPhaseExhaustsRetries(t *testing.T) {
	c := testCollector(Config{MaxRetries: 2, RetryDelay: time.Millisecond})

	result := c.runPhase(context.Background(), "clutch_stats", "2024-25", func(ctx context.Context, season string) (int, error) {
		return 0, errors.New("upstream down")
	})

	assert.Equal(t, 2, result.Attempts)
	assert.Equal(t, 0, result.Records)
	assert.Equal(t, "upstream down", result.Error)
}

func TestRunPhaseStopsOnContextCancel(t *testing.T) {
	c := testCollector(Config{MaxRetries: 5, RetryDelay: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	done := make(chan store.PhaseResult, 1)
	go func() {
		done <- c.runPhase(ctx, "chemistry", "2024-25", func(ctx context.Context, season string) (int, error) {
			calls++
			return 0, errors.New("transient")
		})
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case result := <-done:
		assert.Equal(t, 1, calls, "cancellation should stop further attempts")
		assert.Equal(t, context.Canceled.Error(), result.Error)
	case <-time.After(5 * time.Second):
		t.Fatal("runPhase did not return after cancellation")
	}
}

func TestSeasonTypes(t *testing.T) {
	full := testCollector(Config{})
	assert.Equal(t, []string{store.SeasonTypeRegular, store.SeasonTypePlayoffs}, full.seasonTypes())

	quick := testCollector(Config{QuickTest: true})
	assert.Equal(t, []string{store.SeasonTypeRegular}, quick.seasonTypes())
}

func TestWithRunOptionsOverridesQuickTest(t *testing.T) {
	c := testCollector(Config{})

	quick := c.withRunOptions(&RunOptions{QuickTest: true})
	assert.Equal(t, []string{store.SeasonTypeRegular}, quick.seasonTypes())
	assert.False(t, c.cfg.QuickTest, "the override must not leak into the shared collector")

	assert.Same(t, c, c.withRunOptions(nil), "nil options keep the configured collector")

	full := testCollector(Config{QuickTest: true}).withRunOptions(&RunOptions{QuickTest: false})
	assert.Equal(t, []string{store.SeasonTypeRegular, store.SeasonTypePlayoffs}, full.seasonTypes())
}
