package game

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/klauspost/compress/zstd"
)

// Recorder appends match events (kills, periodic snapshots) to a
// zstd-compressed NDJSON file for offline debugging. Writes are best effort:
// a failed write logs once and the recorder disables itself rather than
// interfering with the tick.
type Recorder struct {
	mu     sync.Mutex
	file   *os.File
	enc    *zstd.Encoder
	failed bool
}

func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create record file: %w", err)
	}
	enc, err := zstd.NewWriter(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("zstd writer: %w", err)
	}
	return &Recorder{file: f, enc: enc}, nil
}

func (rec *Recorder) Write(v any) {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.failed {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	data = append(data, '\n')
	if _, err := rec.enc.Write(data); err != nil {
		log.Printf("recorder: write failed, disabling: %v", err)
		rec.failed = true
	}
}

func (rec *Recorder) Close() {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	if rec.enc != nil {
		rec.enc.Close()
	}
	if rec.file != nil {
		rec.file.Close()
	}
}
