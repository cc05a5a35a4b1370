package bot

import (
	"strconv"
	"time"

	"github.com/slothbuzz/tipbot/hive"
	"github.com/slothbuzz/tipbot/model"
)

// postReplyWithRetry publishes a comment under the parent. A freshly seen
// parent may not be on every node yet, so posting is retried a few times
// before giving up.
func (b *Bot) postReplyWithRetry(parentIdentifier, body string) bool {
	for i := 0; i < b.postRetries; i++ {
		err := b.poster.PostReply(b.execCtx, b.cfg.AccountName, parentIdentifier, body)
		if err == nil {
			return true
		}
		log.Warnf("cannot post comment to %v: %v - try again in %v", parentIdentifier, err, b.postInterval)

		select {
		case <-b.ctx.Done():
			return false
		case <-time.After(b.postInterval):
		}
	}
	return false
}

// deliverComment drops the rendered reply either into the daily collection
// post or directly under the triggering comment.
func (b *Bot) deliverComment(op *hive.Operation, body string) {
	if b.cfg.EnableCollectionPost {
		if b.postCollectionComment(eventDate(op), body) {
			b.logNotify("--- Comment appended to daily collection.")
		} else {
			b.logNotify("--- Could not append to daily collection. Moving on.")
		}
		return
	}

	if b.postReplyWithRetry("@"+op.Author+"/"+op.Permlink, body) {
		b.logNotify("--- Comment sent.")
	} else {
		b.logNotify("--- Could not post comment. Moving on.")
	}
}

func (b *Bot) replyNoStake(op *hive.Operation) {
	if !b.cfg.EnableComments {
		return
	}

	minBalance, err := b.d.MinQualifyingBalance()
	if err != nil {
		log.Errorf("min balance lookup failed: %v", err)
		return
	}

	body := renderText(b.cfg.CommentNoStakeTemplate, map[string]string{
		"token_name":     b.cfg.TokenName,
		"target_account": b.mentionTag(op.ParentAuthor),
		"sender_account": b.mentionTag(op.Author),
		"min_staked":     minBalance.String(),
	})
	b.deliverComment(op, body)
}

func (b *Bot) replyDailyLimit(op *hive.Operation, callsToday int64, maxCalls int) {
	if !b.cfg.EnableComments {
		return
	}

	body := renderText(b.cfg.CommentDailyLimitTemplate, map[string]string{
		"token_name":       b.cfg.TokenName,
		"target_account":   b.mentionTag(op.ParentAuthor),
		"sender_account":   b.mentionTag(op.Author),
		"today_tips_count": strconv.FormatInt(callsToday, 10),
		"max_daily_tips":   strconv.Itoa(maxCalls),
	})
	b.deliverComment(op, body)
}

func (b *Bot) replySuccess(op *hive.Operation, level model.TippingLevel, callsToday int64) {
	if !b.cfg.EnableComments {
		return
	}

	body := renderText(b.cfg.CommentSuccessTemplate, map[string]string{
		"token_name":          b.cfg.TokenName,
		"target_account":      b.mentionTag(op.ParentAuthor),
		"sender_account":      b.mentionTag(op.Author),
		"token_amount":        level.TipRecipient.String(),
		"token_amount_caller": level.TipCaller.String(),
		"today_tips_count":    strconv.FormatInt(callsToday+1, 10),
		"max_daily_tips":      strconv.Itoa(level.Calls),
	})
	b.deliverComment(op, body)
}
