package bot

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGate(balances *mockBalances) *FundGate {
	g := NewFundGate(balances, nil, "hug.bot", "HUG")
	g.interval = time.Millisecond
	g.SetRequired(decimal.NewFromInt(10))
	return g
}

func TestFundGatePassesWhenFunded(t *testing.T) {
	balances := &mockBalances{}
	balances.setLiquid("hug.bot", decimal.NewFromInt(10))

	g := newTestGate(balances)
	require.NoError(t, g.Wait(context.Background()))
	assert.False(t, g.Blocked())
}

func TestFundGateWaitsForResupply(t *testing.T) {
	balances := &mockBalances{}
	balances.setLiquid("hug.bot", decimal.NewFromInt(9))

	g := newTestGate(balances)

	done := make(chan error, 1)
	go func() { done <- g.Wait(context.Background()) }()

	require.Eventually(t, g.Blocked, time.Second, time.Millisecond)
	select {
	case <-done:
		t.Fatal("gate released while underfunded")
	default:
	}

	balances.setLiquid("hug.bot", decimal.NewFromInt(10))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("gate never released after resupply")
	}
	assert.False(t, g.Blocked())
}

func TestFundGateCancellable(t *testing.T) {
	balances := &mockBalances{}
	balances.setLiquid("hug.bot", decimal.Zero)

	g := newTestGate(balances)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Wait(ctx) }()

	require.Eventually(t, g.Blocked, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("gate ignored cancellation")
	}
}
