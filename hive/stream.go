package hive

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// maxReplayWindow bounds how many blocks one replay round fetches.
const maxReplayWindow = 64

// StreamOperations follows the chain from startBlock onward and delivers
// every operation on the returned channel in block order. A startBlock <= 0
// starts at the live head with no backlog replay. While behind the head,
// up to workers blocks are fetched concurrently; emission order stays
// monotonic in block number regardless.
//
// The stream ends when ctx is cancelled or a transport error occurs. The
// operation channel closes first, then the cause (nil on cancellation)
// arrives on the error channel. Resumption policy is the caller's business.
func (c *Client) StreamOperations(ctx context.Context, startBlock int64, workers int) (<-chan Operation, <-chan error) {
	opCh := make(chan Operation, 64)
	errCh := make(chan error, 1)

	if workers < 1 {
		workers = 1
	}

	go func() {
		err := c.streamLoop(ctx, startBlock, workers, opCh)
		close(opCh)
		if ctx.Err() != nil {
			// a request severed by cancellation is not a transport failure
			err = nil
		}
		errCh <- err
	}()

	return opCh, errCh
}

func (c *Client) streamLoop(ctx context.Context, startBlock int64, workers int, opCh chan<- Operation) error {
	head, err := c.HeadBlockNumber(ctx)
	if err != nil {
		return err
	}

	next := startBlock
	if next <= 0 {
		next = head
		log.Infof("streaming from live head #%v", head)
	} else {
		log.Infof("replaying from block #%v towards head #%v", next, head)
	}

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if next > head {
			head, err = c.HeadBlockNumber(ctx)
			if err != nil {
				return err
			}
			if next > head {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(BlockInterval):
				}
				continue
			}
		}

		window := head - next + 1
		if window > maxReplayWindow {
			window = maxReplayWindow
		}

		batches := make([][]Operation, window)
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(workers)
		for i := int64(0); i < window; i++ {
			i := i
			g.Go(func() error {
				ops, err := c.BlockOperations(gctx, next+i)
				if err != nil {
					return err
				}
				batches[i] = ops
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		for _, ops := range batches {
			for _, op := range ops {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case opCh <- op:
				}
			}
		}
		next += window
	}
}
