// Package pipeline drives page rasterization as an incremental, cancelable
// event stream. Pages are rendered in fixed-size chunks with the chunk's
// renders issued concurrently, so peak outstanding calls to the external
// rasterizer never exceed the chunk size.
package pipeline

import (
	"context"
	"encoding/base64"
	"sync"
)

// Renderer rasterizes one raw ZPL page. Implementations are expected to honor
// the context deadline and cancellation.
type Renderer interface {
	Render(ctx context.Context, zpl string) ([]byte, error)
}

// Event types emitted on the output channel.
const (
	EventStart    = "start"
	EventPreview  = "preview"
	EventProgress = "progress"
	EventDone     = "done"
	EventError    = "error"
)

// Page-level sentinels carried in the Image field of a preview event.
// A failed render never aborts the stream; a page skipped on purpose is
// distinguishable from a failed one.
const (
	RenderError   = "ERROR"
	RenderSkipped = "SKIPPED"
)

// Event is one item of the render stream. Preview events carry the page
// image as base64 (or a sentinel); progress events carry the running count.
type Event struct {
	Type    string `json:"type"`
	Index   int    `json:"index"`
	Total   int    `json:"total"`
	Done    int    `json:"done,omitempty"`
	Image   string `json:"image,omitempty"`
	Message string `json:"message,omitempty"`
}

// Options bound one run. ChunkSize is the explicit concurrency bound. In fast
// mode invoice slots (even indices of the visual page stream) are not sent to
// the rasterizer at all and surface as RenderSkipped.
type Options struct {
	ChunkSize int
	FastMode  bool
}

const defaultChunkSize = 4

// Run starts the stream and returns its event channel. The channel is closed
// when the run finishes or the context is canceled; a fresh run re-derives
// everything from scratch. Within a chunk, preview events are emitted in
// completion order, not page order.
func Run(ctx context.Context, r Renderer, pages []string, opts Options) <-chan Event {
	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}

	out := make(chan Event)
	go func() {
		defer close(out)
		emit := func(e Event) bool {
			select {
			case out <- e:
				return true
			case <-ctx.Done():
				return false
			}
		}

		total := len(pages)
		if !emit(Event{Type: EventStart, Total: total}) {
			return
		}

		done := 0
		for off := 0; off < total; off += chunk {
			end := off + chunk
			if end > total {
				end = total
			}

			// buffered to the chunk width so workers never block on a
			// consumer that walked away
			results := make(chan Event, end-off)
			var wg sync.WaitGroup
			for i := off; i < end; i++ {
				if opts.FastMode && i%2 == 0 {
					results <- Event{Type: EventPreview, Index: i, Total: total, Image: RenderSkipped}
					continue
				}
				wg.Add(1)
				go func(i int, zpl string) {
					defer wg.Done()
					img, err := r.Render(ctx, zpl)
					if err != nil {
						results <- Event{Type: EventPreview, Index: i, Total: total, Image: RenderError, Message: err.Error()}
						return
					}
					results <- Event{Type: EventPreview, Index: i, Total: total, Image: base64.StdEncoding.EncodeToString(img)}
				}(i, pages[i])
			}
			go func() {
				wg.Wait()
				close(results)
			}()

			for ev := range results {
				done++
				ev.Done = done
				if !emit(ev) {
					return
				}
			}
			if !emit(Event{Type: EventProgress, Total: total, Done: done}) {
				return
			}
			if ctx.Err() != nil {
				emit(Event{Type: EventError, Total: total, Done: done, Message: ctx.Err().Error()})
				return
			}
		}

		emit(Event{Type: EventDone, Total: total, Done: done})
	}()
	return out
}
