package hive

import "time"

const (
	OpTypeComment = "comment"

	// BlockInterval is the chain's block production cadence.
	BlockInterval = 3 * time.Second
)

// Operation is one blockchain operation as emitted by the stream. Only the
// fields the bot consumes are carried; everything else stays in the raw
// block.
type Operation struct {
	Type string

	Author         string
	ParentAuthor   string
	Permlink       string
	ParentPermlink string
	Body           string

	BlockNum  int64
	Timestamp time.Time
}

// IsComment reports whether the operation is a comment-shaped event.
func (op *Operation) IsComment() bool {
	return op.Type == OpTypeComment
}
