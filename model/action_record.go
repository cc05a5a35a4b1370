package model

import "github.com/shopspring/decimal"

// Outcome codes for a processed tip call.
const (
	OutcomeSuccess          = 1
	OutcomeNoStake          = 2
	OutcomeDailyLimit       = 3
	OutcomeTooManyCommands  = 4
	OutcomeSelfTipping      = 5
	OutcomeBotTipping       = 6
	OutcomeTransferDisabled = 80
	OutcomeBannedRecipient  = 98
	OutcomeBannedCaller     = 99

	// Query sentinels, never stored.
	OutcomeTotal      = -1
	OutcomeAnyFailure = -2
)

type ActionRecord struct {
	ID uint64 `gorm:"primaryKey;autoIncrement:true"`

	Date      string `gorm:"index;type:varchar(10)"`
	Invoker   string `gorm:"index:idx_invoker_permlink,priority:1;type:varchar(255)"`
	Recipient string `gorm:"type:varchar(255)"`
	BlockNum  int64  `gorm:"column:block_num"`

	Permlink       string `gorm:"index:idx_invoker_permlink,priority:2;type:varchar(512)"`
	ParentPermlink string `gorm:"type:varchar(512)"`

	Outcome int `gorm:"index"`

	SentRecipient decimal.Decimal `gorm:"type:DECIMAL(18,8)"`
	SentCaller    decimal.Decimal `gorm:"type:DECIMAL(18,8)"`
}

func (ActionRecord) TableName() string {
	return "tip_calls"
}
