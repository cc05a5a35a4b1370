package bot

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/slothbuzz/tipbot/hive"
	"github.com/slothbuzz/tipbot/model"
)

// executeReward performs the transfers for a passing call, writes the
// success record and follows up with the reply comment and the vote.
//
// The success record goes in only after both transfer attempts return. A
// crash between transfer and record makes the restart re-attempt the
// transfer; the ledger row is the only completion proof there is.
func (b *Bot) executeReward(op *hive.Operation, level model.TippingLevel, callsToday int64) error {
	if err := b.gate.Wait(b.ctx); err != nil {
		return err
	}

	sentRecipient := decimal.Zero
	sentCaller := decimal.Zero

	memoVars := map[string]string{
		"sender_account": op.Author,
		"target_account": op.ParentAuthor,
	}

	if level.TipRecipient.IsPositive() {
		memo := renderText(b.cfg.TransferRecipientMemo, memoVars)
		if err := b.sendTokens(op.ParentAuthor, level.TipRecipient, memo); err != nil {
			log.Errorf("recipient transfer failed: %v", err)
		} else {
			sentRecipient = level.TipRecipient
			b.logNotify("--- sent %v %v to %v", level.TipRecipient, b.cfg.TokenName, op.ParentAuthor)
		}
	}

	if level.TipCaller.IsPositive() {
		memo := renderText(b.cfg.TransferCallerMemo, memoVars)
		if err := b.sendTokens(op.Author, level.TipCaller, memo); err != nil {
			log.Errorf("caller transfer failed: %v", err)
		} else {
			sentCaller = level.TipCaller
			b.logNotify("--- sent %v %v to %v", level.TipCaller, b.cfg.TokenName, op.Author)
		}
	}

	// Give the sidechain a moment to settle the transfers.
	if b.settleDelay > 0 {
		time.Sleep(b.settleDelay)
	}

	if err := b.recordOutcome(op, model.OutcomeSuccess, sentRecipient, sentCaller); err != nil {
		// Without the record the call would be replayed as if nothing was
		// sent. Stop right here, before any further visible action.
		return err
	}

	b.replySuccess(op, level, callsToday)
	b.upvoteParent(op)
	return nil
}

func (b *Bot) sendTokens(to string, amount decimal.Decimal, memo string) error {
	if b.cfg.TipAsStake {
		return b.wallet.Stake(b.execCtx, to, amount, b.cfg.TokenName, memo)
	}
	return b.wallet.Transfer(b.execCtx, to, amount, b.cfg.TokenName, memo)
}

// computeVoteWeight clamps the configured weight between the lower bound and
// the recipient's token balance, then scales linearly when current mana sits
// below the baseline. Rounds toward zero.
func computeVoteWeight(configured, lowerBound int, recipientBalance decimal.Decimal, linear bool, mana float64, baseline int) int {
	w := float64(configured)
	if bal, _ := recipientBalance.Float64(); bal < w {
		w = bal
	}
	if w < float64(lowerBound) {
		w = float64(lowerBound)
	}

	weight := int(w)
	if linear && baseline > 0 && mana < float64(baseline) {
		weight = int(float64(weight) * mana / float64(baseline))
	}
	return weight
}

// upvoteParent votes on the tipped post, at most once per permlink.
func (b *Bot) upvoteParent(op *hive.Operation) {
	target := "@" + op.ParentAuthor + "/" + op.ParentPermlink

	voted, err := b.d.HasVoted(target)
	if err != nil {
		log.Errorf("vote lookup for %v failed: %v", target, err)
		return
	}
	if voted {
		b.logNotify("--- Vote already cast. Moving on.")
		return
	}
	if !b.cfg.EnableUpvote {
		return
	}

	mana, err := b.mana.VotingPower(b.execCtx, b.cfg.AccountName)
	if err != nil {
		log.Errorf("voting power query failed: %v", err)
		return
	}

	var balance decimal.Decimal
	if b.cfg.RequireStake {
		balance, err = b.balances.StakedBalance(b.execCtx, op.ParentAuthor, b.cfg.TokenName)
	} else {
		balance, err = b.balances.LiquidBalance(b.execCtx, op.ParentAuthor, b.cfg.TokenName)
	}
	if err != nil {
		log.Errorf("recipient balance query failed: %v", err)
		return
	}

	weight := computeVoteWeight(b.cfg.UpvoteWeight, b.cfg.UpvoteMinWeight, balance,
		b.cfg.UpvoteBalanceLinear, mana, b.cfg.UpvoteBaseline)
	b.logNotify("--- %v has %v %v in wallet, mana at %.2f. Vote weight set to %v",
		op.ParentAuthor, balance, b.cfg.TokenName, mana, weight)

	err = b.voter.CastVote(b.execCtx, target, weight, b.cfg.AccountName)
	if errors.Is(err, hive.ErrNotVotable) {
		b.logNotify("--- Cannot upvote %v: not pending anymore.", target)
		return
	}
	if err != nil {
		b.logNotify("--- Cannot upvote %v: %v", target, err)
		return
	}

	if err := b.d.RecordVote(eventDate(op), target, weight); err != nil {
		log.Errorf("vote record for %v failed: %v", target, err)
		return
	}
	b.logNotify("--- Upvote sent.")
}
