package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yoursongrequest/ysr/internal/domain"
)

func TestPayoutService_Summary(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")
	song := e.createSong(t, p.ID, "Wonderwall", "10.00")
	e.goLive(t, p.ID, 0)

	r, err := e.requests.Submit(context.Background(), p.ID, domain.SubmitRequestInput{
		SongID:        &song.ID,
		RequesterName: "bob",
		Tip:           decimal.RequireFromString("2.00"),
	})
	require.NoError(t, err)
	require.NoError(t, e.requests.MarkPlayed(context.Background(), p.ID, []string{r.ID}))

	_, err = e.requests.Submit(context.Background(), p.ID, domain.SubmitRequestInput{
		RequesterName: "carol",
		Tip:           decimal.RequireFromString("3.00"),
	})
	require.NoError(t, err)

	summary, err := e.payouts.Summary(context.Background(), p.ID)
	require.NoError(t, err)

	// 10 + 2 + 3 gross, 20% platform commission.
	assert.Equal(t, "15.00", summary.Gross.StringFixed(2))
	assert.Equal(t, "3.00", summary.Commission.StringFixed(2))
	assert.Equal(t, "12.00", summary.Net.StringFixed(2))
	assert.Len(t, summary.Transactions, 3)
}

func TestPayoutService_Summary_Empty(t *testing.T) {
	e := newEnv(t, SessionConfig{})
	p := e.createPerformer(t, "alice")

	summary, err := e.payouts.Summary(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "0.00", summary.Gross.StringFixed(2))
	assert.Equal(t, "0.00", summary.Net.StringFixed(2))
	assert.Empty(t, summary.Transactions)
}

func TestPayoutService_Summary_UnknownPerformer(t *testing.T) {
	e := newEnv(t, SessionConfig{})

	_, err := e.payouts.Summary(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrPerformerNotFound)
}
