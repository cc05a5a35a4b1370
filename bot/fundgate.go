package bot

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/atomic"
)

// FundGate suspends reward execution while the bot wallet cannot cover the
// largest possible combined tip. It polls the balance on a fixed cadence and
// blocks the whole dispatch path until funds return; stalling is preferred
// over a transfer that would overdraw.
type FundGate struct {
	balances BalanceSource
	notifier Notifier

	account string
	token   string

	required decimal.Decimal
	interval time.Duration
	blocked  *atomic.Bool
}

func NewFundGate(balances BalanceSource, notifier Notifier, account, token string) *FundGate {
	return &FundGate{
		balances: balances,
		notifier: notifier,
		account:  account,
		token:    token,
		interval: 60 * time.Second,
		blocked:  atomic.NewBool(false),
	}
}

// SetRequired fixes the amount the wallet must hold. Queried once at
// startup so each gate check stays a single balance comparison.
func (g *FundGate) SetRequired(amount decimal.Decimal) {
	g.required = amount
}

// Blocked reports whether the gate is currently stalling the pipeline. Meant
// for monitoring; the pipeline itself just waits inside Wait.
func (g *FundGate) Blocked() bool {
	return g.blocked.Load()
}

func (g *FundGate) hasFunds(ctx context.Context) (bool, error) {
	balance, err := g.balances.LiquidBalance(ctx, g.account, g.token)
	if err != nil {
		return false, err
	}
	return balance.GreaterThanOrEqual(g.required), nil
}

// Wait returns once the wallet covers the required amount. The wait is
// deliberately unbounded; only context cancellation ends it early. Balance
// query failures are logged and treated as "no funds yet".
func (g *FundGate) Wait(ctx context.Context) error {
	ok, err := g.hasFunds(ctx)
	if err != nil {
		log.Warnf("fund gate balance query failed: %v", err)
	}
	if ok {
		return nil
	}

	g.blocked.Store(true)
	defer g.blocked.Store(false)

	log.Warnf("out of funds, need %v %v, sleeping until resupplied", g.required, g.token)
	if g.notifier != nil {
		g.notifier.Notify(ctx, "OH NO! Ran out of money! Going to sleep until resupplied.")
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(g.interval):
		}

		ok, err := g.hasFunds(ctx)
		if err != nil {
			log.Warnf("fund gate balance query failed: %v", err)
			continue
		}
		if ok {
			log.Info("funds replenished, resuming work")
			if g.notifier != nil {
				g.notifier.Notify(ctx, "Got more tokens. Resuming work!")
			}
			return nil
		}
	}
}
