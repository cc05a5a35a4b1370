package bot

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slothbuzz/tipbot/hive"
	"github.com/slothbuzz/tipbot/model"
)

func TestComputeVoteWeight(t *testing.T) {
	cases := []struct {
		name       string
		configured int
		lowerBound int
		balance    decimal.Decimal
		linear     bool
		mana       float64
		baseline   int
		want       int
	}{
		{
			name:       "clamped by balance then scaled by mana",
			configured: 50, lowerBound: 30,
			balance: decimal.NewFromInt(40),
			linear:  true, mana: 45, baseline: 90,
			want: 20,
		},
		{
			name:       "full mana no scaling",
			configured: 50, lowerBound: 30,
			balance: decimal.NewFromInt(40),
			linear:  true, mana: 100, baseline: 90,
			want: 40,
		},
		{
			name:       "lower bound wins over tiny balance",
			configured: 50, lowerBound: 30,
			balance: decimal.NewFromInt(1),
			linear:  false, mana: 100, baseline: 90,
			want: 30,
		},
		{
			name:       "scaling disabled",
			configured: 50, lowerBound: 30,
			balance: decimal.NewFromInt(40),
			linear:  false, mana: 45, baseline: 90,
			want: 40,
		},
		{
			name:       "rounds toward zero",
			configured: 50, lowerBound: 30,
			balance: decimal.NewFromInt(35),
			linear:  true, mana: 50, baseline: 90,
			want: 19, // 35 * 50/90 = 19.44
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computeVoteWeight(tc.configured, tc.lowerBound, tc.balance, tc.linear, tc.mana, tc.baseline)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSuccessFlow(t *testing.T) {
	env := newTestEnv(t)
	env.balances.setLiquid("alice", decimal.NewFromInt(50))
	env.balances.setLiquid("bob", decimal.NewFromInt(40))
	env.mana.power = 45

	require.NoError(t, env.bot.processComment(testComment("alice", "bob", "p1", "!HUG")))

	rows := ledgerRows(t, env.d)
	require.Len(t, rows, 1)
	assert.Equal(t, model.OutcomeSuccess, rows[0].Outcome)
	assert.True(t, rows[0].SentRecipient.Equal(decimal.NewFromInt(1)))
	assert.True(t, rows[0].SentCaller.Equal(decimal.NewFromInt(1)))

	sent := env.wallet.sent()
	require.Len(t, sent, 2)
	assert.Equal(t, "bob", sent[0].to)
	assert.Equal(t, "alice shared a hug with you.", sent[0].memo)
	assert.Equal(t, "alice", sent[1].to)
	assert.Equal(t, "You shared a hug with bob", sent[1].memo)

	require.Len(t, env.voter.votes, 1)
	assert.Equal(t, "@bob/parent-p1", env.voter.votes[0].target)
	// clamp(50, 30, 40) = 40, then 40 * 45/90 = 20
	assert.Equal(t, 20, env.voter.votes[0].weight)

	voted, err := env.d.HasVoted("@bob/parent-p1")
	require.NoError(t, err)
	assert.True(t, voted)
}

func TestTipAsStake(t *testing.T) {
	env := newTestEnv(t)
	env.cfg.TipAsStake = true
	env.balances.setLiquid("alice", decimal.NewFromInt(50))

	require.NoError(t, env.bot.processComment(testComment("alice", "bob", "p1", "!HUG")))

	sent := env.wallet.sent()
	require.Len(t, sent, 2)
	assert.True(t, sent[0].staked)
	assert.True(t, sent[1].staked)
}

func TestFailedTransferStillRecorded(t *testing.T) {
	env := newTestEnv(t)
	env.balances.setLiquid("alice", decimal.NewFromInt(50))
	env.wallet.err = errors.New("rpc down")

	require.NoError(t, env.bot.processComment(testComment("alice", "bob", "p1", "!HUG")))

	rows := ledgerRows(t, env.d)
	require.Len(t, rows, 1)
	assert.Equal(t, model.OutcomeSuccess, rows[0].Outcome)
	assert.True(t, rows[0].SentRecipient.IsZero(), "a failed transfer is recorded as zero sent")
	assert.True(t, rows[0].SentCaller.IsZero())
}

func TestVoteOnlyOnce(t *testing.T) {
	env := newTestEnv(t)
	env.balances.setLiquid("alice", decimal.NewFromInt(50))
	require.NoError(t, env.d.RecordVote("2026-09-01", "@bob/parent-p1", 40))

	require.NoError(t, env.bot.processComment(testComment("alice", "bob", "p1", "!HUG")))

	assert.Empty(t, env.voter.votes, "an already voted permlink must not be voted again")
}

func TestNotVotableTarget(t *testing.T) {
	env := newTestEnv(t)
	env.balances.setLiquid("alice", decimal.NewFromInt(50))
	env.voter.err = hive.ErrNotVotable

	require.NoError(t, env.bot.processComment(testComment("alice", "bob", "p1", "!HUG")))

	// the tip itself still went through
	rows := ledgerRows(t, env.d)
	require.Len(t, rows, 1)
	assert.Equal(t, model.OutcomeSuccess, rows[0].Outcome)

	voted, err := env.d.HasVoted("@bob/parent-p1")
	require.NoError(t, err)
	assert.False(t, voted, "a failed vote attempt is not recorded")
}

func TestFundGateBlocksExecution(t *testing.T) {
	env := newTestEnv(t)
	env.balances.setLiquid("alice", decimal.NewFromInt(50))
	// drain the bot wallet below the required maximum tip
	env.balances.setLiquid(env.cfg.AccountName, decimal.NewFromInt(1))

	var mu sync.Mutex
	done := false

	go func() {
		_ = env.bot.processComment(testComment("alice", "bob", "p1", "!HUG"))
		mu.Lock()
		done = true
		mu.Unlock()
	}()

	require.Eventually(t, func() bool {
		return env.bot.gate.Blocked()
	}, time.Second, time.Millisecond, "gate should report the blocked state")

	assert.Empty(t, env.wallet.sent(), "no transfer may happen while blocked on funds")
	mu.Lock()
	assert.False(t, done)
	mu.Unlock()

	// resupply and watch the pipeline resume
	env.balances.setLiquid(env.cfg.AccountName, decimal.NewFromInt(1000))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return done
	}, time.Second, time.Millisecond)

	assert.Len(t, env.wallet.sent(), 2)
	assert.False(t, env.bot.gate.Blocked())
}
