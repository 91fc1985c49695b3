package service

import (
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/mqsfps1-maker/ecomflow/internal/expedicao/repository"
)

func newBarePrintService() *PrintService {
	return NewPrintService(nil, nil, nil, nil, nil, nil, 4, false, zap.NewNop())
}

func TestJobReturnsIsolatedSnapshot(t *testing.T) {
	s := newBarePrintService()

	s.mu.Lock()
	s.jobs["j1"] = &PrintJob{ID: "j1", Status: JobRunning, Total: 4}
	s.mu.Unlock()

	first, err := s.Job("j1")
	if err != nil {
		t.Fatalf("Job: %v", err)
	}

	// the background run flips the stored status under the lock
	s.mu.Lock()
	s.jobs["j1"].Status = JobDone
	s.mu.Unlock()

	if first.Status != JobRunning {
		t.Errorf("cópia mudou junto com o registro vivo: %s", first.Status)
	}

	second, err := s.Job("j1")
	if err != nil {
		t.Fatalf("Job: %v", err)
	}
	if second.Status != JobDone {
		t.Errorf("status = %s, esperado %s", second.Status, JobDone)
	}

	if _, err := s.Job("nao-existe"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("job desconhecido deveria retornar ErrNotFound, veio %v", err)
	}
}

func TestJobSafeUnderConcurrentStatusWrites(t *testing.T) {
	s := newBarePrintService()

	s.mu.Lock()
	s.jobs["j2"] = &PrintJob{ID: "j2", Status: JobRunning}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			s.mu.Lock()
			if s.jobs["j2"].Status == JobRunning {
				s.jobs["j2"].Status = JobDone
			} else {
				s.jobs["j2"].Status = JobRunning
			}
			s.mu.Unlock()
		}
	}()

	for i := 0; i < 1000; i++ {
		job, err := s.Job("j2")
		if err != nil {
			t.Fatalf("Job: %v", err)
		}
		if job.Status != JobRunning && job.Status != JobDone {
			t.Fatalf("status inconsistente: %q", job.Status)
		}
	}
	<-done
}
