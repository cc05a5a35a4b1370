package config

import "github.com/slothbuzz/tipbot/dao"

// defaults mirrors every name Load reads. EnsureDefaults backfills absent
// names from here so a fresh database yields a loadable configuration.
var defaults = []struct {
	name  string
	value string
}{
	{"account_name", "hug.bot"},
	{"active_key", ""},
	{"posting_key", ""},

	{"hive_api_nodes", "https://api.hive.blog,https://api.deathwing.me,https://hive-api.arcange.eu"},
	{"engine_api_node", "https://api.hive-engine.com/rpc/contracts"},
	{"signer_api_node", "http://127.0.0.1:8091/sign"},

	{"token_name", "HUG"},
	{"tip_commands", "!HUG,!Hug,!hug"},
	{"max_commands", "5"},

	{"allow_self_tipping", "FALSE"},
	{"require_stake", "FALSE"},
	{"tip_as_stake", "FALSE"},

	{"banned_caller", ""},
	{"banned_recipient", ""},
	{"no_limit_sender", ""},

	{"enable_token_transfer", "TRUE"},
	{"enable_comments", "TRUE"},
	{"enable_upvote", "TRUE"},
	{"enable_collection_post", "TRUE"},
	{"enable_discord", "FALSE"},

	{"upvote_weight", "50"},
	{"upvote_minweight", "30"},
	{"upvote_baseline", "90"},
	{"upvote_balance_linear", "TRUE"},

	{"transfer_recipient_memo", "{{sender_account}} shared a hug with you."},
	{"transfer_caller_memo", "You shared a hug with {{target_account}}"},

	{"comment_success_template",
		"{{target_account}} received {{token_amount}} {{token_name}} from {{sender_account}}! " +
			"({{today_tips_count}}/{{max_daily_tips}} today)"},
	{"comment_no_stake_template",
		"Sorry {{sender_account}}, you need at least {{min_staked}} {{token_name}} to share one."},
	{"comment_daily_limit_template",
		"Sorry {{sender_account}}, you already shared {{today_tips_count}} of {{max_daily_tips}} today."},
	{"collection_post_template",
		"Tips of {{yesterday}}: {{total_calls}} calls, {{successful_calls}} successful, " +
			"{{failed_daily_limit}} over the daily limit, {{failed_too_many_commands}} with too many commands."},

	{"cp_permlink_prefix", "HUG-Collection"},
	{"cp_community", "hive-179927"},
	{"cp_tags", "HUG,SLOTHBUZZ"},

	{"discord_webhook", ""},
	{"discord_bot_name", "hug.bot"},

	{"permlink_log_prefix", "https://peakd.com/"},

	{"app_name", "hug.bot"},
	{"version", "2026.09.01"},

	{"stream_workers", "3"},
}

// EnsureDefaults writes a default for every unset configuration name and
// returns how many were added. A non-zero return on an established install
// is worth a look before letting the bot run.
func EnsureDefaults(d *dao.Dao) (int, error) {
	changed := 0
	for _, def := range defaults {
		_, ok, err := d.GetSetting(def.name)
		if err != nil {
			return changed, err
		}
		if ok {
			continue
		}
		if err := d.SetSetting(def.name, def.value); err != nil {
			return changed, err
		}
		changed++
	}
	if changed > 0 {
		log.Warnf("backfilled %v configuration defaults", changed)
	}
	return changed, nil
}
