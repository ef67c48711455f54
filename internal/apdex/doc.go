// Package apdex implements the Application Performance Index as defined by
// the Apdex Technical Specification v1.1.
//
// The central [Accumulator] type classifies response-time samples into the
// three Apdex zones and derives the score on demand:
//
//	acc, err := apdex.New(0.5) // threshold T in seconds
//	if err != nil {
//		return err
//	}
//	_ = acc.Record(0.42)  // satisfied  (<= T)
//	_ = acc.Record(1.3)   // tolerated  (<= 4T)
//	_ = acc.Record(9.0)   // frustrated (> 4T)
//
//	if score, ok := acc.Score(); ok {
//		fmt.Printf("apdex %.2f (%s)\n", score, acc.Rating())
//	}
//
// # Classification
//
// A sample s is satisfied when s <= T, tolerated when T < s <= 4T, and
// frustrated when s > 4T. Both comparisons are inclusive on their upper
// bound: a sample exactly at T is satisfied and a sample exactly at 4T is
// tolerated. Failed tasks (errors detected by the measuring tool) count as
// frustrated samples via [Accumulator.RecordFailure].
//
// # Score
//
// score = (satisfied + tolerated/2) / total, always within [0, 1]. With no
// samples recorded the score is undefined; [Accumulator.Score] reports this
// with ok=false rather than a numeric default, and the uniform output
// renders it as "NS".
//
// # Concurrency
//
// An Accumulator is a plain value with no internal locking. Concurrent
// producers should each own a private Accumulator and combine results with
// [Accumulator.Merge] at aggregation boundaries; this is how the ingestion
// runner uses the package.
package apdex
