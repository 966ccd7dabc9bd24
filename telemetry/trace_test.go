package telemetry

import (
	"errors"
	"path/filepath"
	"sync"
	"testing"
)

func TestTraceRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace", "match.jsonl.zst")
	tw, err := NewTraceWriter(path, "")
	if err != nil {
		t.Fatalf("NewTraceWriter: %v", err)
	}

	for i := 0; i < 50; i++ {
		rec := TraceRecord{
			Tick:   int32(i * 6),
			Period: 1,
			Clock:  1200 - float64(i)/10,
			Bodies: []TraceBody{{ID: 1, X: float64(i), Y: 42.5}, {ID: 2, X: 100, Y: 42.5, VX: -3}},
		}
		if i == 10 {
			rec.Carrier = 1
			rec.Events = []TraceEvent{{Type: EventPossession.String(), Player: 1}}
		}
		if err := tw.Write(rec); err != nil {
			t.Fatalf("Write %d: %v", i, err)
		}
	}
	if tw.Records() != 50 {
		t.Errorf("Records = %d, want 50", tw.Records())
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := tw.Write(TraceRecord{}); !errors.Is(err, ErrTraceClosed) {
		t.Errorf("Write after Close = %v, want ErrTraceClosed", err)
	}

	recs, err := ReadTrace(path)
	if err != nil {
		t.Fatalf("ReadTrace: %v", err)
	}
	if len(recs) != 50 {
		t.Fatalf("read %d records, want 50", len(recs))
	}
	if recs[10].Carrier != 1 || len(recs[10].Events) != 1 || recs[10].Events[0].Type != "possession" {
		t.Errorf("record 10 = %+v", recs[10])
	}
	if recs[49].Tick != 294 || recs[49].Bodies[0].X != 49 || recs[49].Bodies[1].VX != -3 {
		t.Errorf("record 49 = %+v", recs[49])
	}
}

func TestTraceWriterConcurrentClose(t *testing.T) {
	tw, err := NewTraceWriter(filepath.Join(t.TempDir(), "t.jsonl.zst"), "better")
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if err := tw.Write(TraceRecord{Tick: int32(i)}); err != nil {
				return
			}
		}
	}()
	if err := tw.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
	wg.Wait()
}

func TestTraceWriterBadLevel(t *testing.T) {
	if _, err := NewTraceWriter(filepath.Join(t.TempDir(), "t.zst"), "ludicrous"); err == nil {
		t.Error("expected error for unknown level")
	}
}
