package config

import (
	"strconv"
	"strings"

	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/xerrors"

	"github.com/slothbuzz/tipbot/dao"
)

var log = logging.Logger("config")

// ErrMissing marks configuration names absent from the store. The process
// must not run with incomplete configuration; run EnsureDefaults first.
var ErrMissing = xerrors.New("configuration missing")

// Config is the full bot configuration, loaded once at startup. The values
// live in the bot_config table so they can be changed from outside the
// process; a restart picks them up.
type Config struct {
	AccountName string
	ActiveKey   string
	PostingKey  string

	HiveAPINodes  []string
	EngineAPINode string
	SignerAPINode string

	TokenName   string
	TipCommands []string
	MaxCommands int

	AllowSelfTipping bool
	RequireStake     bool
	TipAsStake       bool

	BannedCaller    []string
	BannedRecipient []string
	NoLimitSender   []string

	EnableTokenTransfer  bool
	EnableComments       bool
	EnableUpvote         bool
	EnableCollectionPost bool
	EnableDiscord        bool

	UpvoteWeight        int
	UpvoteMinWeight     int
	UpvoteBaseline      int
	UpvoteBalanceLinear bool

	TransferRecipientMemo string
	TransferCallerMemo    string

	CommentSuccessTemplate    string
	CommentNoStakeTemplate    string
	CommentDailyLimitTemplate string
	CollectionPostTemplate    string

	CPPermlinkPrefix string
	CPCommunity      string
	CPTags           []string

	DiscordWebhook string
	DiscordBotName string

	PermlinkLogPrefix string

	AppName string
	Version string

	StreamWorkers int
}

// AppNameVersion is the app tag attached to broadcast comments.
func (c *Config) AppNameVersion() string {
	return c.AppName + "/" + c.Version
}

// IsNoLimitSender reports whether the user bypasses tier and daily limits.
func (c *Config) IsNoLimitSender(user string) bool {
	return contains(c.NoLimitSender, user)
}

func (c *Config) IsBannedCaller(user string) bool {
	return contains(c.BannedCaller, user)
}

func (c *Config) IsBannedRecipient(user string) bool {
	return contains(c.BannedRecipient, user)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

type loader struct {
	d       *dao.Dao
	missing []string
}

func (l *loader) str(name string) string {
	v, ok, err := l.d.GetSetting(name)
	if err != nil {
		// surfaced once by Load through the missing list
		log.Errorf("read setting %v: %v", name, err)
	}
	if !ok {
		l.missing = append(l.missing, name)
	}
	return v
}

func (l *loader) boolean(name string) bool {
	return strings.EqualFold(l.str(name), "TRUE")
}

func (l *loader) integer(name string) int {
	v := l.str(name)
	n, err := strconv.Atoi(v)
	if err != nil && v != "" {
		l.missing = append(l.missing, name)
	}
	return n
}

func (l *loader) list(name string) []string {
	v := strings.ReplaceAll(l.str(name), " ", "")
	if v == "" {
		return nil
	}
	return strings.Split(v, ",")
}

// Load reads the complete configuration. Any absent name makes the whole
// load fail with ErrMissing; partial configuration never reaches the bot.
func Load(d *dao.Dao) (*Config, error) {
	l := &loader{d: d}

	cfg := &Config{
		AccountName: l.str("account_name"),
		ActiveKey:   l.str("active_key"),
		PostingKey:  l.str("posting_key"),

		HiveAPINodes:  l.list("hive_api_nodes"),
		EngineAPINode: l.str("engine_api_node"),
		SignerAPINode: l.str("signer_api_node"),

		TokenName:   l.str("token_name"),
		TipCommands: l.list("tip_commands"),
		MaxCommands: l.integer("max_commands"),

		AllowSelfTipping: l.boolean("allow_self_tipping"),
		RequireStake:     l.boolean("require_stake"),
		TipAsStake:       l.boolean("tip_as_stake"),

		BannedCaller:    l.list("banned_caller"),
		BannedRecipient: l.list("banned_recipient"),
		NoLimitSender:   l.list("no_limit_sender"),

		EnableTokenTransfer:  l.boolean("enable_token_transfer"),
		EnableComments:       l.boolean("enable_comments"),
		EnableUpvote:         l.boolean("enable_upvote"),
		EnableCollectionPost: l.boolean("enable_collection_post"),
		EnableDiscord:        l.boolean("enable_discord"),

		UpvoteWeight:        l.integer("upvote_weight"),
		UpvoteMinWeight:     l.integer("upvote_minweight"),
		UpvoteBaseline:      l.integer("upvote_baseline"),
		UpvoteBalanceLinear: l.boolean("upvote_balance_linear"),

		TransferRecipientMemo: l.str("transfer_recipient_memo"),
		TransferCallerMemo:    l.str("transfer_caller_memo"),

		CommentSuccessTemplate:    l.str("comment_success_template"),
		CommentNoStakeTemplate:    l.str("comment_no_stake_template"),
		CommentDailyLimitTemplate: l.str("comment_daily_limit_template"),
		CollectionPostTemplate:    l.str("collection_post_template"),

		CPPermlinkPrefix: l.str("cp_permlink_prefix"),
		CPCommunity:      l.str("cp_community"),
		CPTags:           l.list("cp_tags"),

		DiscordWebhook: l.str("discord_webhook"),
		DiscordBotName: l.str("discord_bot_name"),

		PermlinkLogPrefix: l.str("permlink_log_prefix"),

		AppName: l.str("app_name"),
		Version: l.str("version"),

		StreamWorkers: l.integer("stream_workers"),
	}

	if len(l.missing) > 0 {
		return nil, xerrors.Errorf("%v: %w", strings.Join(l.missing, ", "), ErrMissing)
	}

	// Without an active key there is nothing to transfer or vote with, and
	// without a posting key nothing to comment with. Degrade instead of
	// failing; the bot can still observe.
	if cfg.ActiveKey == "" {
		if cfg.EnableTokenTransfer || cfg.EnableUpvote {
			log.Warn("no active key given, transfers and voting disabled")
		}
		cfg.EnableTokenTransfer = false
		cfg.EnableUpvote = false
	}
	if cfg.PostingKey == "" {
		if cfg.EnableComments || cfg.EnableCollectionPost {
			log.Warn("no posting key given, comments and posting disabled")
		}
		cfg.EnableComments = false
		cfg.EnableCollectionPost = false
	}

	return cfg, nil
}
