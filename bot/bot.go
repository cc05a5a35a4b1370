package bot

import (
	"context"
	"fmt"
	"regexp"
	"time"

	logging "github.com/ipfs/go-log/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/atomic"

	"github.com/slothbuzz/tipbot/config"
	"github.com/slothbuzz/tipbot/dao"
	"github.com/slothbuzz/tipbot/hive"
)

var log = logging.Logger("bot")

// commandPattern finds bot-style commands in a comment body.
var commandPattern = regexp.MustCompile(`[!][a-zA-Z]{3,15}`)

// Streamer produces blockchain operations from a start position onward.
type Streamer interface {
	StreamOperations(ctx context.Context, startBlock int64, workers int) (<-chan hive.Operation, <-chan error)
}

// BalanceSource answers token balance queries. Accounts without holdings
// yield zero, never an error.
type BalanceSource interface {
	LiquidBalance(ctx context.Context, account, token string) (decimal.Decimal, error)
	StakedBalance(ctx context.Context, account, token string) (decimal.Decimal, error)
}

// Wallet moves tokens out of the bot account.
type Wallet interface {
	Transfer(ctx context.Context, to string, amount decimal.Decimal, token, memo string) error
	Stake(ctx context.Context, to string, amount decimal.Decimal, token, memo string) error
}

// Broadcaster publishes comments and posts.
type Broadcaster interface {
	PostReply(ctx context.Context, account, parentIdentifier, body string) error
	PostRoot(ctx context.Context, account, community, permlink, title, body, jsonMetadata string) error
}

// Voter casts votes. A target past its payout window fails with
// hive.ErrNotVotable.
type Voter interface {
	CastVote(ctx context.Context, targetIdentifier string, weightPercent int, voter string) error
}

// ManaSource reports the bot account's current voting power in percent.
type ManaSource interface {
	VotingPower(ctx context.Context, account string) (float64, error)
}

// Notifier mirrors log lines to an external sink, best effort.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Collaborators bundles every external capability the bot consumes.
type Collaborators struct {
	Stream   Streamer
	Balances BalanceSource
	Wallet   Wallet
	Poster   Broadcaster
	Voter    Voter
	Mana     ManaSource
	Notifier Notifier
}

// Bot is the tip engine: it consumes the comment stream, runs every trigger
// through the eligibility pipeline and executes rewards.
type Bot struct {
	ctx context.Context
	// execCtx outlives ctx so that shutdown finishes the in-flight reward
	// instead of severing it between transfer and ledger record.
	execCtx context.Context

	cfg *config.Config
	d   *dao.Dao

	stream   Streamer
	balances BalanceSource
	wallet   Wallet
	poster   Broadcaster
	voter    Voter
	mana     ManaSource
	notifier Notifier

	gate *FundGate

	lastSeen *atomic.Int64

	// tuning knobs, defaulted by NewBot
	settleDelay   time.Duration
	postRetries   int
	postInterval  time.Duration
	pauseInterval time.Duration
	fatalWindow   time.Duration
}

func NewBot(ctx context.Context, cfg *config.Config, d *dao.Dao, co Collaborators) *Bot {
	b := &Bot{
		ctx:      ctx,
		execCtx:  context.Background(),
		cfg:      cfg,
		d:        d,
		stream:   co.Stream,
		balances: co.Balances,
		wallet:   co.Wallet,
		poster:   co.Poster,
		voter:    co.Voter,
		mana:     co.Mana,
		notifier: co.Notifier,

		lastSeen: atomic.NewInt64(0),

		settleDelay:   3 * time.Second,
		postRetries:   6,
		postInterval:  10 * time.Second,
		pauseInterval: 60 * time.Second,
		fatalWindow:   90 * time.Second,
	}
	b.gate = NewFundGate(co.Balances, co.Notifier, cfg.AccountName, cfg.TokenName)
	return b
}

// logNotify writes to the log and mirrors the line to the notification sink.
func (b *Bot) logNotify(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	log.Info(msg)
	if b.notifier != nil {
		b.notifier.Notify(b.ctx, msg)
	}
}

// permlinkURL renders a human-readable link for log output.
func (b *Bot) permlinkURL(author, permlink string) string {
	return fmt.Sprintf("%s@%s/%s", b.cfg.PermlinkLogPrefix, author, permlink)
}

func eventDate(op *hive.Operation) string {
	return op.Timestamp.UTC().Format("2006-01-02")
}
