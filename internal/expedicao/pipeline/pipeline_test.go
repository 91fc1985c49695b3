package pipeline

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// fakeRenderer records peak concurrency and fails pages containing "falha".
type fakeRenderer struct {
	mu       sync.Mutex
	active   int32
	peak     int32
	rendered []string
}

func (f *fakeRenderer) Render(ctx context.Context, zpl string) ([]byte, error) {
	n := atomic.AddInt32(&f.active, 1)
	defer atomic.AddInt32(&f.active, -1)
	for {
		p := atomic.LoadInt32(&f.peak)
		if n <= p || atomic.CompareAndSwapInt32(&f.peak, p, n) {
			break
		}
	}
	time.Sleep(2 * time.Millisecond)

	if strings.Contains(zpl, "falha") {
		return nil, errors.New("rasterizador indisponivel")
	}
	f.mu.Lock()
	f.rendered = append(f.rendered, zpl)
	f.mu.Unlock()
	return []byte("png:" + zpl), nil
}

func collect(ch <-chan Event) []Event {
	var events []Event
	for ev := range ch {
		events = append(events, ev)
	}
	return events
}

func TestRunEmitsFullStream(t *testing.T) {
	pages := []string{"p0", "p1", "p2", "p3", "p4"}
	r := &fakeRenderer{}
	events := collect(Run(context.Background(), r, pages, Options{ChunkSize: 2}))

	if events[0].Type != EventStart || events[0].Total != 5 {
		t.Fatalf("primeiro evento = %+v", events[0])
	}
	last := events[len(events)-1]
	if last.Type != EventDone || last.Done != 5 {
		t.Fatalf("ultimo evento = %+v", last)
	}

	previews := 0
	for _, ev := range events {
		if ev.Type == EventPreview {
			previews++
			want := base64.StdEncoding.EncodeToString([]byte("png:" + pages[ev.Index]))
			if ev.Image != want {
				t.Errorf("pagina %d: imagem inesperada", ev.Index)
			}
		}
	}
	if previews != 5 {
		t.Errorf("esperado 5 previews, obteve %d", previews)
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	pages := make([]string, 12)
	for i := range pages {
		pages[i] = "p"
	}
	r := &fakeRenderer{}
	collect(Run(context.Background(), r, pages, Options{ChunkSize: 3}))
	if r.peak > 3 {
		t.Errorf("pico de concorrencia %d excede o chunk de 3", r.peak)
	}
}

func TestRunRenderFailureIsSentinel(t *testing.T) {
	pages := []string{"ok", "falha aqui", "ok2"}
	events := collect(Run(context.Background(), &fakeRenderer{}, pages, Options{ChunkSize: 8}))

	var failed *Event
	for i, ev := range events {
		if ev.Type == EventPreview && ev.Index == 1 {
			failed = &events[i]
		}
	}
	if failed == nil {
		t.Fatal("pagina com falha nao produziu preview")
	}
	if failed.Image != RenderError {
		t.Errorf("imagem = %q, esperado sentinela %s", failed.Image, RenderError)
	}
	if failed.Message == "" {
		t.Error("mensagem da falha ausente")
	}
	if events[len(events)-1].Type != EventDone {
		t.Error("falha de uma pagina nao pode abortar o fluxo")
	}
}

func TestRunFastModeSkipsInvoiceSlots(t *testing.T) {
	// visual stream alternates invoice (even) and label (odd) slots
	pages := []string{"nota0", "etiqueta0", "nota1", "etiqueta1"}
	r := &fakeRenderer{}
	events := collect(Run(context.Background(), r, pages, Options{ChunkSize: 4, FastMode: true}))

	skipped := map[int]bool{}
	for _, ev := range events {
		if ev.Type == EventPreview && ev.Image == RenderSkipped {
			skipped[ev.Index] = true
		}
	}
	if !skipped[0] || !skipped[2] || skipped[1] || skipped[3] {
		t.Errorf("slots pulados = %v", skipped)
	}
	for _, z := range r.rendered {
		if strings.HasPrefix(z, "nota") {
			t.Errorf("slot de nota foi renderizado em modo rapido: %s", z)
		}
	}
}

func TestRunCancelClosesStream(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pages := make([]string, 50)
	for i := range pages {
		pages[i] = "p"
	}
	ch := Run(ctx, &fakeRenderer{}, pages, Options{ChunkSize: 2})

	<-ch // start
	cancel()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("canal nao fechou apos cancelamento")
		}
	}
}
