package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/slothbuzz/tipbot/config"
	"github.com/slothbuzz/tipbot/dao"
	"github.com/slothbuzz/tipbot/hive"
	"github.com/slothbuzz/tipbot/model"
)

type mockBalances struct {
	mu     sync.Mutex
	liquid map[string]decimal.Decimal
	staked map[string]decimal.Decimal
	calls  int
}

func (m *mockBalances) setLiquid(account string, balance decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.liquid == nil {
		m.liquid = make(map[string]decimal.Decimal)
	}
	m.liquid[account] = balance
}

func (m *mockBalances) LiquidBalance(_ context.Context, account, _ string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.liquid[account], nil
}

func (m *mockBalances) StakedBalance(_ context.Context, account, _ string) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.staked[account], nil
}

type transferCall struct {
	to     string
	amount decimal.Decimal
	memo   string
	staked bool
}

type mockWallet struct {
	mu        sync.Mutex
	transfers []transferCall
	err       error
}

func (m *mockWallet) Transfer(_ context.Context, to string, amount decimal.Decimal, _, memo string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.transfers = append(m.transfers, transferCall{to: to, amount: amount, memo: memo})
	return nil
}

func (m *mockWallet) Stake(_ context.Context, to string, amount decimal.Decimal, _, memo string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.transfers = append(m.transfers, transferCall{to: to, amount: amount, memo: memo, staked: true})
	return nil
}

func (m *mockWallet) sent() []transferCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]transferCall, len(m.transfers))
	copy(out, m.transfers)
	return out
}

type postedReply struct {
	parent string
	body   string
}

type mockPoster struct {
	mu      sync.Mutex
	replies []postedReply
	roots   []string
	err     error
}

func (m *mockPoster) PostReply(_ context.Context, _, parentIdentifier, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.replies = append(m.replies, postedReply{parent: parentIdentifier, body: body})
	return nil
}

func (m *mockPoster) PostRoot(_ context.Context, _, _, permlink, _, _, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.roots = append(m.roots, permlink)
	return nil
}

type voteCall struct {
	target string
	weight int
}

type mockVoter struct {
	mu    sync.Mutex
	votes []voteCall
	err   error
}

func (m *mockVoter) CastVote(_ context.Context, targetIdentifier string, weightPercent int, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.votes = append(m.votes, voteCall{target: targetIdentifier, weight: weightPercent})
	return nil
}

type mockMana struct {
	power float64
}

func (m *mockMana) VotingPower(_ context.Context, _ string) (float64, error) {
	return m.power, nil
}

type testEnv struct {
	bot      *Bot
	d        *dao.Dao
	balances *mockBalances
	wallet   *mockWallet
	poster   *mockPoster
	voter    *mockVoter
	mana     *mockMana
	cfg      *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		AccountName: "hug.bot",
		TokenName:   "HUG",
		TipCommands: []string{"!HUG", "!Hug", "!hug"},
		MaxCommands: 5,

		EnableTokenTransfer: true,
		EnableComments:      true,
		EnableUpvote:        true,

		UpvoteWeight:        50,
		UpvoteMinWeight:     30,
		UpvoteBaseline:      90,
		UpvoteBalanceLinear: true,

		TransferRecipientMemo: "{{sender_account}} shared a hug with you.",
		TransferCallerMemo:    "You shared a hug with {{target_account}}",

		CommentSuccessTemplate:    "{{target_account}} received {{token_amount}} from {{sender_account}}",
		CommentNoStakeTemplate:    "{{sender_account}} needs {{min_staked}}",
		CommentDailyLimitTemplate: "{{sender_account}} hit {{today_tips_count}}/{{max_daily_tips}}",
		CollectionPostTemplate:    "{{total_calls}} calls on {{yesterday}}",

		CPPermlinkPrefix:  "HUG-Collection",
		CPCommunity:       "hive-179927",
		CPTags:            []string{"HUG"},
		PermlinkLogPrefix: "https://peakd.com/",
		AppName:           "hug.bot",
		Version:           "test",

		StreamWorkers: 1,
	}
}

func openTestDao(t *testing.T) *dao.Dao {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.ActionRecord{},
		&model.VoteRecord{},
		&model.OptOutRecord{},
		&model.CollectionPost{},
		&model.StreamCheckpoint{},
		&model.ConfigEntry{},
		&model.TippingLevel{},
	))

	return dao.NewDao(context.Background(), db, nil)
}

func seedTiers(t *testing.T, d *dao.Dao) {
	t.Helper()
	require.NoError(t, d.SeedDefaultLevels())
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	d := openTestDao(t)
	seedTiers(t, d)

	cfg := testConfig()
	env := &testEnv{
		d:        d,
		balances: &mockBalances{},
		wallet:   &mockWallet{},
		poster:   &mockPoster{},
		voter:    &mockVoter{},
		mana:     &mockMana{power: 100},
		cfg:      cfg,
	}

	env.bot = NewBot(context.Background(), cfg, d, Collaborators{
		Balances: env.balances,
		Wallet:   env.wallet,
		Poster:   env.poster,
		Voter:    env.voter,
		Mana:     env.mana,
	})
	env.bot.settleDelay = 0
	env.bot.postInterval = time.Millisecond
	env.bot.gate.interval = time.Millisecond
	env.bot.gate.SetRequired(decimal.NewFromInt(2))

	// funded unless a test drains the wallet
	env.balances.setLiquid(cfg.AccountName, decimal.NewFromInt(1000))

	return env
}

func testComment(author, parentAuthor, permlink, body string) *hive.Operation {
	return &hive.Operation{
		Type:           hive.OpTypeComment,
		Author:         author,
		ParentAuthor:   parentAuthor,
		Permlink:       permlink,
		ParentPermlink: "parent-" + permlink,
		Body:           body,
		BlockNum:       1000,
		Timestamp:      time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC),
	}
}

func ledgerRows(t *testing.T, d *dao.Dao) []model.ActionRecord {
	t.Helper()
	var rows []model.ActionRecord
	require.NoError(t, d.DB().Find(&rows).Error)
	return rows
}
