// Package analysis turns a parameter record into a short verdict.
//
// Five ladders are evaluated independently and their sentences joined in a
// fixed order:
//
//   - coherence percent: >=80, >=55, >=35, below
//   - chaos load (Chaos_Load/5): <=0.2, <=0.45, <=0.7, above
//   - D: <0.4, <0.9, above
//   - λ: >1.1, >0.5, below
//   - μ: >1.0, >0.5, below
//
// Each ladder is a table of rungs read top-down; the first matching rung
// wins, so boundaries are exactly as listed.
//
//	verdict := analysis.Classify(record, state)
//	fmt.Println(verdict.Text())
package analysis
