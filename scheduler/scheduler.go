// Package scheduler runs one-shot deferred jobs. A job's entry removes
// itself when the job returns, whether it succeeded or failed.
package scheduler

import (
	"log/slog"
	"sync"
	"time"
)

type Handle uint64

type Scheduler struct {
	mu     sync.Mutex
	seq    uint64
	timers map[Handle]*time.Timer
}

func New() *Scheduler {
	return &Scheduler{
		timers: map[Handle]*time.Timer{},
	}
}

// Schedule はdelay後にjobを一度だけ実行する
func (s *Scheduler) Schedule(name string, delay time.Duration, job func() error) Handle {
	s.mu.Lock()
	s.seq++
	id := Handle(s.seq)
	s.timers[id] = time.AfterFunc(delay, func() {
		defer s.remove(id)
		if err := job(); err != nil {
			slog.Error("scheduled job failed", slog.String("job", name), slog.Any("err", err))
		}
	})
	s.mu.Unlock()
	return id
}

// Cancel は未実行のジョブを取り消す。実行済みならfalse
func (s *Scheduler) Cancel(id Handle) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.timers[id]
	if !ok {
		return false
	}
	delete(s.timers, id)
	return t.Stop()
}

// Pending は未実行のジョブ数を返す
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

func (s *Scheduler) remove(id Handle) {
	s.mu.Lock()
	delete(s.timers, id)
	s.mu.Unlock()
}
