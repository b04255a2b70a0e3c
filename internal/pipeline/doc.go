// Package pipeline orchestrates one build of the question bank.
//
// Types:
//   - Result: everything one build produced in memory (catalog, tables,
//     questions, merge and override reports).
//   - RunStats: counters for the summary.
//
// Functions:
//   - Build(ctx, cfg, log) → *Result
//     Discover images and read both tables concurrently, then classify →
//     assemble → apply overrides in file order → inject default answers.
//   - Run(ctx, cfg, log) → RunStats
//     Build, then write questions.json atomically, the optional version file
//     and the optional SQLite export. Dry runs only compute the digest.
package pipeline
