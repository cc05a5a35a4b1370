package bot

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/slothbuzz/tipbot/hive"
	"github.com/slothbuzz/tipbot/model"
)

// commandTokens extracts the distinct command tokens from a comment body.
func commandTokens(body string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, tok := range commandPattern.FindAllString(body, -1) {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}

func (b *Bot) hasTriggerCommand(tokens []string) bool {
	for _, cmd := range b.cfg.TipCommands {
		for _, tok := range tokens {
			if tok == cmd {
				return true
			}
		}
	}
	return false
}

func (b *Bot) recordOutcome(op *hive.Operation, outcome int, sentRecipient, sentCaller decimal.Decimal) error {
	err := b.d.Record(&model.ActionRecord{
		Date:           eventDate(op),
		Invoker:        op.Author,
		Recipient:      op.ParentAuthor,
		BlockNum:       op.BlockNum,
		Permlink:       op.Permlink,
		ParentPermlink: op.ParentPermlink,
		Outcome:        outcome,
		SentRecipient:  sentRecipient,
		SentCaller:     sentCaller,
	})
	if err != nil {
		log.Errorf("ledger write for @%v/%v failed: %v", op.Author, op.Permlink, err)
	}
	return err
}

// processComment runs one comment operation through the eligibility rules.
// The first matching rule wins; silent drops leave no trace in the ledger.
// An error here means the ledger could not be written and the event was
// abandoned unrecorded.
func (b *Bot) processComment(op *hive.Operation) error {
	// A post into a community shows up as a comment with an empty parent
	// author; a blank author should not happen but is cheap to rule out.
	if op.Author == "" || op.ParentAuthor == "" {
		return nil
	}

	// Never react to our own comments, that way lies an infinite thread.
	if op.Author == b.cfg.AccountName {
		return nil
	}

	// Replies addressed to the bot may carry a mention directive.
	if op.ParentAuthor == b.cfg.AccountName {
		if b.handleDirective(op) {
			return nil
		}
	}

	tokens := commandTokens(op.Body)
	if !b.hasTriggerCommand(tokens) {
		return nil
	}

	b.logNotify("%v wants to send %v some tokens: %v",
		op.Author, op.ParentAuthor, b.permlinkURL(op.Author, op.Permlink))

	processed, err := b.d.IsProcessed(op.Author, op.Permlink)
	if err != nil {
		log.Errorf("processed lookup for @%v/%v failed: %v", op.Author, op.Permlink, err)
		return err
	}
	if processed {
		b.logNotify("--- already handled")
		return nil
	}

	if op.ParentAuthor == b.cfg.AccountName {
		b.logNotify("--- %v wants to tip the bot. Not allowed.", op.Author)
		return b.recordOutcome(op, model.OutcomeBotTipping, decimal.Zero, decimal.Zero)
	}

	if !b.cfg.AllowSelfTipping && op.Author == op.ParentAuthor {
		b.logNotify("--- %v wants to tip themselves. Not allowed.", op.Author)
		return b.recordOutcome(op, model.OutcomeSelfTipping, decimal.Zero, decimal.Zero)
	}

	if b.cfg.IsBannedCaller(op.Author) {
		b.logNotify("--- %v is banned from tipping. Not allowed.", op.Author)
		return b.recordOutcome(op, model.OutcomeBannedCaller, decimal.Zero, decimal.Zero)
	}

	if b.cfg.IsBannedRecipient(op.ParentAuthor) {
		b.logNotify("--- %v is banned from receiving tips. Not allowed.", op.ParentAuthor)
		return b.recordOutcome(op, model.OutcomeBannedRecipient, decimal.Zero, decimal.Zero)
	}

	if b.cfg.MaxCommands > 0 && len(tokens) > b.cfg.MaxCommands {
		b.logNotify("--- %v commands in one comment but only %v allowed. Ignoring call.",
			len(tokens), b.cfg.MaxCommands)
		return b.recordOutcome(op, model.OutcomeTooManyCommands, decimal.Zero, decimal.Zero)
	}

	level, err := b.resolveLevel(op.Author)
	if err != nil {
		log.Errorf("tier lookup for %v failed: %v", op.Author, err)
		return err
	}

	if level.Calls == 0 {
		b.logNotify("--- %v does not meet minimum requirements.", op.Author)
		b.replyNoStake(op)
		return b.recordOutcome(op, model.OutcomeNoStake, decimal.Zero, decimal.Zero)
	}

	callsToday := int64(0)
	if !b.cfg.IsNoLimitSender(op.Author) {
		callsToday, err = b.d.CountSuccessesForUser(op.Author, eventDate(op))
		if err != nil {
			log.Errorf("daily count for %v failed: %v", op.Author, err)
			return err
		}
	}

	if callsToday >= int64(level.Calls) {
		b.logNotify("--- %v has reached daily limit of %v. No tip sent.", op.Author, level.Calls)
		b.replyDailyLimit(op, callsToday, level.Calls)
		return b.recordOutcome(op, model.OutcomeDailyLimit, decimal.Zero, decimal.Zero)
	}

	if !b.cfg.EnableTokenTransfer {
		// Eligible, but transfers are switched off. Record the call so it is
		// not replayed once transfers come back.
		return b.recordOutcome(op, model.OutcomeTransferDisabled, decimal.Zero, decimal.Zero)
	}

	return b.executeReward(op, level, callsToday)
}

// resolveLevel picks the tier for the author: unlimited senders get the top
// tier, everyone else is looked up by balance.
func (b *Bot) resolveLevel(author string) (model.TippingLevel, error) {
	if b.cfg.IsNoLimitSender(author) {
		return b.d.MaxLevel()
	}

	var balance decimal.Decimal
	var err error
	if b.cfg.RequireStake {
		balance, err = b.balances.StakedBalance(b.ctx, author, b.cfg.TokenName)
	} else {
		balance, err = b.balances.LiquidBalance(b.ctx, author, b.cfg.TokenName)
	}
	if err != nil {
		return model.TippingLevel{}, err
	}
	return b.d.LevelForBalance(balance)
}

// handleDirective applies STOP / TAGME mention directives. Returns true when
// the comment was a directive and is fully handled.
func (b *Bot) handleDirective(op *hive.Operation) bool {
	switch strings.ToUpper(strings.TrimSpace(op.Body)) {
	case "STOP":
		b.logNotify("%v does not want to be mentioned anymore.", op.Author)
		if err := b.d.DisallowMentions(op.Author, eventDate(op), "@"+op.Author+"/"+op.Permlink); err != nil {
			log.Errorf("opt-out write for %v failed: %v", op.Author, err)
			return true
		}
		b.logNotify("--- written to db")
		return true
	case "TAGME", "TAG ME":
		b.logNotify("%v wants to allow mentions again.", op.Author)
		if err := b.d.AllowMentions(op.Author); err != nil {
			log.Errorf("opt-in write for %v failed: %v", op.Author, err)
			return true
		}
		b.logNotify("--- written to db")
		return true
	}
	return false
}
