package integration

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/iwvelando/finance-flags/internal/flags"
)

// TestPerformance tests performance characteristics
func TestPerformance(t *testing.T) {
	_, evaluator := newEvaluator(t)
	data := loadFixture(t, "consolidated_then_standalone.json")

	const iterations = 1000
	var decodeTime, assessTime time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		doc, err := flags.DecodePayload(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("DecodePayload failed on iteration %d: %v", i, err)
		}
		decodeTime += time.Since(start)

		start = time.Now()
		if _, err := evaluator.Assess(doc); err != nil {
			t.Fatalf("Assess failed on iteration %d: %v", i, err)
		}
		assessTime += time.Since(start)
	}

	totalTime := decodeTime + assessTime

	t.Logf("Performance metrics over %d documents:", iterations)
	t.Logf("  Decode: %v", decodeTime)
	t.Logf("  Assess: %v", assessTime)
	t.Logf("  Total time: %v", totalTime)

	if totalTime > 5*time.Second {
		t.Errorf("Total processing time %v exceeds 5 second threshold", totalTime)
	}
}

// TestDataConsistency validates that multiple runs produce identical results
func TestDataConsistency(t *testing.T) {
	_, evaluator := newEvaluator(t)

	for _, check := range baselineChecks {
		var first []byte
		for run := 0; run < 3; run++ {
			doc, err := flags.DecodePayload(bytes.NewReader(loadFixture(t, check.fixture)))
			if err != nil {
				t.Fatalf("DecodePayload failed on run %d: %v", run, err)
			}
			report, err := evaluator.Assess(doc)
			if err != nil {
				t.Fatalf("Assess failed on run %d: %v", run, err)
			}
			encoded, err := json.Marshal(report)
			if err != nil {
				t.Fatalf("failed to encode report: %v", err)
			}

			if run == 0 {
				first = encoded
				continue
			}
			if !bytes.Equal(encoded, first) {
				t.Errorf("%s run %d: report %s differs from first run %s", check.fixture, run, encoded, first)
			}
		}
	}
}

func BenchmarkAssess(b *testing.B) {
	_, evaluator := newEvaluator(b)
	doc, err := flags.DecodePayload(bytes.NewReader(loadFixture(b, "consolidated_then_standalone.json")))
	if err != nil {
		b.Fatalf("DecodePayload() error = %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := evaluator.Assess(doc); err != nil {
			b.Fatal(err)
		}
	}
}
