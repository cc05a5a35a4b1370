package bot

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/slothbuzz/tipbot/hive"
	"github.com/slothbuzz/tipbot/model"
)

// collectionPostIdentifier returns "@account/permlink" of the digest post
// for the date, creating the post on first use.
func (b *Bot) collectionPostIdentifier(date string) (string, error) {
	permlink, ok, err := b.d.CollectionPostPermlink(date)
	if err != nil {
		return "", err
	}
	if ok {
		return "@" + b.cfg.AccountName + "/" + permlink, nil
	}
	return b.createCollectionPost(date)
}

// createCollectionPost publishes the daily digest post carrying yesterday's
// call statistics and remembers its permlink. It does not check whether the
// post already exists on chain.
func (b *Bot) createCollectionPost(date string) (string, error) {
	title := b.cfg.CPPermlinkPrefix + "-" + date
	permlink := hive.SanitizePermlink(title)

	yesterday := date
	if day, err := time.Parse("2006-01-02", date); err == nil {
		yesterday = day.AddDate(0, 0, -1).Format("2006-01-02")
	}

	totalCalls, err := b.d.CountByOutcome(yesterday, model.OutcomeTotal)
	if err != nil {
		return "", err
	}
	successfulCalls, err := b.d.CountByOutcome(yesterday, model.OutcomeSuccess)
	if err != nil {
		return "", err
	}
	dailyLimit, err := b.d.CountByOutcome(yesterday, model.OutcomeDailyLimit)
	if err != nil {
		return "", err
	}
	tooManyCommands, err := b.d.CountByOutcome(yesterday, model.OutcomeTooManyCommands)
	if err != nil {
		return "", err
	}

	body := renderText(b.cfg.CollectionPostTemplate, map[string]string{
		"yesterday":                yesterday,
		"total_calls":              strconv.FormatInt(totalCalls, 10),
		"successful_calls":         strconv.FormatInt(successfulCalls, 10),
		"failed_daily_limit":       strconv.FormatInt(dailyLimit, 10),
		"failed_too_many_commands": strconv.FormatInt(tooManyCommands, 10),
	})

	meta, err := json.Marshal(map[string]interface{}{
		"tags": b.cfg.CPTags,
		"app":  b.cfg.AppNameVersion(),
	})
	if err != nil {
		return "", err
	}

	b.logNotify("+++ Creating collection post %v", title)
	err = b.poster.PostRoot(b.execCtx, b.cfg.AccountName, b.cfg.CPCommunity, permlink, title, body, string(meta))
	if err != nil {
		b.logNotify("+++ Failed to create collection post!")
		return "", err
	}

	if err := b.d.SaveCollectionPost(date, permlink); err != nil {
		return "", err
	}

	identifier := "@" + b.cfg.AccountName + "/" + permlink
	b.logNotify("+++ Success: %v%v", b.cfg.PermlinkLogPrefix, identifier)
	return identifier, nil
}

func (b *Bot) postCollectionComment(date, body string) bool {
	identifier, err := b.collectionPostIdentifier(date)
	if err != nil {
		log.Errorf("cannot resolve daily collection post: %v", err)
		return false
	}
	return b.postReplyWithRetry(identifier, body)
}
