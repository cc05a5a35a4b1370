package bot

import (
	"context"
	"errors"
	"time"

	"golang.org/x/xerrors"

	"github.com/slothbuzz/tipbot/hive"
)

// Run drives the bot until the context is cancelled or a fatal error occurs.
// It resumes from the persisted checkpoint, reconnects once after an
// isolated transient stream failure and escalates to fatal when a second one
// follows inside the fatal window.
func (b *Bot) Run() error {
	required, err := b.d.MaxCombinedTip()
	if err != nil {
		return err
	}
	b.gate.SetRequired(required)

	start, err := b.d.LoadCheckpoint()
	if err != nil {
		return err
	}
	b.lastSeen.Store(start)

	b.logNotify("Bot is alive and looking for %v", b.cfg.TipCommands)
	if start <= 0 {
		b.logNotify("Going with live feed")
	} else {
		b.logNotify("Picking up at block #%v", start)
	}

	var lastTransient time.Time
	for {
		err := b.consumeStream(b.lastSeen.Load())
		if err == nil || errors.Is(err, context.Canceled) {
			return nil
		}
		if !hive.IsTransient(err) {
			return err
		}

		now := time.Now()
		if !lastTransient.IsZero() && now.Sub(lastTransient) < b.fatalWindow {
			return xerrors.Errorf("stream failed twice within %v, giving up: %w", b.fatalWindow, err)
		}
		lastTransient = now

		b.logNotify("stream interrupted (%v), pausing %v, then resuming from block #%v",
			err, b.pauseInterval, b.lastSeen.Load())
		select {
		case <-b.ctx.Done():
			return nil
		case <-time.After(b.pauseInterval):
		}
	}
}

// consumeStream runs one stream session: checkpoint every new block, feed
// comment operations into the pipeline, drop everything else. The session
// ends with the stream's error, nil meaning cancellation. The in-flight
// event is always finished before returning.
func (b *Bot) consumeStream(start int64) error {
	opCh, errCh := b.stream.StreamOperations(b.ctx, start, b.cfg.StreamWorkers)

	for op := range opCh {
		if op.BlockNum > b.lastSeen.Load() {
			if err := b.d.SaveCheckpoint(op.BlockNum); err != nil {
				// The checkpoint is the recovery anchor. Running on without
				// it silently widens the replay window.
				return xerrors.Errorf("checkpoint write failed: %w", err)
			}
			b.lastSeen.Store(op.BlockNum)
			log.Debugf("reading block #%v", op.BlockNum)
		}

		if !op.IsComment() {
			continue
		}

		op := op
		if err := b.processComment(&op); err != nil {
			return xerrors.Errorf("ledger unavailable: %w", err)
		}
	}

	return <-errCh
}
