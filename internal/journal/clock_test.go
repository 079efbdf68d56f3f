package journal

import (
	"context"
	"testing"
	"time"

	"github.com/tsqlmod/tsqlmod/internal/testutil"
)

func TestAppend_TimestampsFromClock(t *testing.T) {
	j := openTestJournal(t)
	j.now = testutil.NewClock().Now
	ctx := context.Background()

	first, err := j.Append(ctx, testUnit, "a", "a2", "run")
	if err != nil {
		t.Fatal(err)
	}
	second, err := j.Append(ctx, testUnit, "b", "b2", "run")
	if err != nil {
		t.Fatal(err)
	}

	r1, _ := j.Get(ctx, first)
	r2, _ := j.Get(ctx, second)

	want := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if !r1.CreatedAt.Equal(want) {
		t.Errorf("first CreatedAt = %v, want %v", r1.CreatedAt, want)
	}
	if !r2.CreatedAt.After(r1.CreatedAt) {
		t.Errorf("timestamps not increasing: %v then %v", r1.CreatedAt, r2.CreatedAt)
	}
}
