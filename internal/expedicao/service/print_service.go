package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/entity"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/pipeline"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/sse"
	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/zpl"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrNoPages = errors.New("nenhuma página ^XA...^XZ encontrada no texto ZPL")

// Job statuses
const (
	JobRunning = "running"
	JobDone    = "done"
	JobFailed  = "failed"
)

// redis set of content hashes already printed, warm read path in front of
// the print_records table
const printedHashesKey = "ecomflow:print:hashes"

// jobTimeout bounds one render run end to end.
const jobTimeout = 15 * time.Minute

// PrintJob is the in-memory state of one render run. Pairs and reprint flags
// are fixed at creation; Status moves running -> done/failed.
type PrintJob struct {
	ID        string                     `json:"id"`
	Status    string                     `json:"status"`
	FastMode  bool                       `json:"fast_mode"`
	Total     int                        `json:"total_pages"`
	Pairs     []entity.ExtractedZplData  `json:"pairs"`
	Reprints  []bool                     `json:"reprints"`
	CreatedAt time.Time                  `json:"created_at"`
}

// PrintService pairs a raw ZPL stream, resolves order identity, renders the
// visual pages through the external rasterizer and records what was printed.
type PrintService struct {
	orders   *repository.OrderRepository
	prints   *repository.PrintRepository
	settings *SettingsService
	renderer pipeline.Renderer
	hub      *sse.Hub
	rdb      *redis.Client
	logger   *zap.Logger

	chunkSize int
	fastMode  bool

	mu      sync.RWMutex
	jobs    map[string]*PrintJob
	history map[string][]sse.Event
}

func NewPrintService(orders *repository.OrderRepository, prints *repository.PrintRepository,
	settings *SettingsService, renderer pipeline.Renderer, hub *sse.Hub, rdb *redis.Client,
	chunkSize int, fastMode bool, logger *zap.Logger) *PrintService {
	return &PrintService{
		orders:    orders,
		prints:    prints,
		settings:  settings,
		renderer:  renderer,
		hub:       hub,
		rdb:       rdb,
		logger:    logger,
		chunkSize: chunkSize,
		fastMode:  fastMode,
		jobs:      make(map[string]*PrintJob),
		history:   make(map[string][]sse.Event),
	}
}

// CreateJobOptions override the configured defaults for one run.
type CreateJobOptions struct {
	FastMode *bool `json:"fast_mode"`
}

// CreateJob pairs and resolves the stream synchronously, then starts the
// render pipeline in the background. The returned job already carries the
// per-pair extracted data and reprint flags.
func (s *PrintService) CreateJob(ctx context.Context, rawZPL string, opts CreateJobOptions) (*PrintJob, error) {
	pages := zpl.SplitPages(rawZPL)
	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	pairs := zpl.Pair(pages)

	orders, err := s.orders.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar pedidos ativos: %w", err)
	}
	patterns, err := s.settings.Patterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("carregar padrões de extração: %w", err)
	}

	extracted := make([]entity.ExtractedZplData, len(pairs))
	hashes := make([]string, len(pairs))
	for i, pair := range pairs {
		extracted[i] = zpl.Resolve(pair, orders, patterns)
		hashes[i] = zpl.SimpleHash(pair.InvoiceText() + pair.Label.Raw)
	}

	reprints, err := s.reprintFlags(ctx, hashes)
	if err != nil {
		s.logger.Warn("falha ao consultar reimpressões", zap.Error(err))
		reprints = make([]bool, len(pairs))
	}

	fastMode := s.fastMode
	if opts.FastMode != nil {
		fastMode = *opts.FastMode
	}

	job := &PrintJob{
		ID:        uuid.New().String(),
		Status:    JobRunning,
		FastMode:  fastMode,
		Total:     len(pairs) * 2,
		Pairs:     extracted,
		Reprints:  reprints,
		CreatedAt: time.Now(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	// The background run mutates the stored record under the lock; callers
	// get a snapshot taken before it starts.
	snapshot := *job
	go s.run(job, pairs, hashes)

	s.logger.Info("job de impressão criado",
		zap.String("job", job.ID),
		zap.Int("pares", len(pairs)),
		zap.Bool("modo_rapido", fastMode),
	)
	return &snapshot, nil
}

// Job returns a copy of one job's state. The stored record keeps changing in
// the background, so the live pointer never leaves the lock.
func (s *PrintService) Job(id string) (*PrintJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	snapshot := *job
	return &snapshot, nil
}

// Subscribe registers an SSE client on a job and returns the events already
// published, so late subscribers see the full stream. An event may appear in
// both the replay and the live channel; consumers key on (type, index).
func (s *PrintService) Subscribe(jobID, clientID string) ([]sse.Event, *sse.Client, error) {
	s.mu.RLock()
	_, ok := s.jobs[jobID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil, repository.ErrNotFound
	}

	client := &sse.Client{ID: clientID, JobID: jobID, Events: make(chan sse.Event, 64)}
	s.hub.Register(client)

	s.mu.RLock()
	replay := make([]sse.Event, len(s.history[jobID]))
	copy(replay, s.history[jobID])
	s.mu.RUnlock()
	return replay, client, nil
}

func (s *PrintService) Unsubscribe(clientID string) {
	s.hub.Unregister(clientID)
}

// History pages through the persisted print records.
func (s *PrintService) History(ctx context.Context, page, pageSize int) ([]entity.PrintRecord, int64, error) {
	return s.prints.List(ctx, page, pageSize)
}

// PurgeHistory drops records older than the retention window.
func (s *PrintService) PurgeHistory(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed, err := s.prints.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.logger.Info("histórico de impressão expurgado",
			zap.Int64("registros", removed),
			zap.Time("corte", cutoff),
		)
	}
	return removed, nil
}

// printEvent is the wire shape published over SSE: the pipeline event plus
// pair identity and the reprint flag.
type printEvent struct {
	pipeline.Event
	Pair    int  `json:"pair"`
	Reprint bool `json:"reprint,omitempty"`
}

// run drives the pipeline to completion and records the printed pairs.
func (s *PrintService) run(job *PrintJob, pairs []entity.ZplPair, hashes []string) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	visual := zpl.VisualPages(pairs)
	events := pipeline.Run(ctx, s.renderer, visual, pipeline.Options{
		ChunkSize: s.chunkSize,
		FastMode:  job.FastMode,
	})

	status := JobDone
	for ev := range events {
		if ev.Type == pipeline.EventError {
			status = JobFailed
		}
		pairIdx := ev.Index / 2
		wire := printEvent{Event: ev, Pair: pairIdx}
		if ev.Type == pipeline.EventPreview && pairIdx < len(job.Reprints) {
			wire.Reprint = job.Reprints[pairIdx]
		}
		s.publish(job.ID, ev.Type, wire)
	}

	if status == JobDone {
		if err := s.record(ctx, job, pairs, hashes); err != nil {
			s.logger.Error("falha ao gravar histórico de impressão",
				zap.String("job", job.ID), zap.Error(err))
		}
	}

	s.mu.Lock()
	job.Status = status
	s.mu.Unlock()
	s.hub.CloseJob(job.ID)
}

func (s *PrintService) publish(jobID, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("falha ao serializar evento", zap.Error(err))
		return
	}
	event := sse.Event{EventType: eventType, Data: string(data)}
	s.mu.Lock()
	s.history[jobID] = append(s.history[jobID], event)
	s.mu.Unlock()
	s.hub.Publish(jobID, event)
}

// record persists one PrintRecord per pair and refreshes the hash cache.
func (s *PrintService) record(ctx context.Context, job *PrintJob, pairs []entity.ZplPair, hashes []string) error {
	for i := range pairs {
		skus, err := toJSONB(map[string]interface{}{"items": job.Pairs[i].SKUs})
		if err != nil {
			return err
		}
		rec := &entity.PrintRecord{
			ID:          uuid.New().String(),
			JobID:       job.ID,
			OrderID:     job.Pairs[i].OrderID,
			ContentHash: hashes[i],
			SKUs:        skus,
			HasDanfe:    job.Pairs[i].HasDanfe,
		}
		if err := s.prints.Create(ctx, rec); err != nil {
			return err
		}
	}
	if s.rdb != nil && len(hashes) > 0 {
		members := make([]interface{}, len(hashes))
		for i, h := range hashes {
			members[i] = h
		}
		if err := s.rdb.SAdd(ctx, printedHashesKey, members...).Err(); err != nil {
			s.logger.Warn("falha ao atualizar cache de hashes", zap.Error(err))
		}
	}
	return nil
}

// reprintFlags marks pairs whose content hash was printed before. The redis
// set answers first; misses fall back to the database.
func (s *PrintService) reprintFlags(ctx context.Context, hashes []string) ([]bool, error) {
	flags := make([]bool, len(hashes))
	pending := hashes

	if s.rdb != nil {
		cached, err := s.rdb.SMIsMember(ctx, printedHashesKey, toInterfaces(hashes)...).Result()
		if err == nil && len(cached) == len(hashes) {
			pending = nil
			for i, hit := range cached {
				flags[i] = hit
				if !hit {
					pending = append(pending, hashes[i])
				}
			}
		}
	}

	if len(pending) > 0 {
		existing, err := s.prints.ExistingHashes(ctx, pending)
		if err != nil {
			return nil, err
		}
		for i, h := range hashes {
			if existing[h] {
				flags[i] = true
			}
		}
	}
	return flags, nil
}

func toInterfaces(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
