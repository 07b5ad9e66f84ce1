// Package gate turns a rule configuration into check executions and a single
// pass/fail decision.
//
// A run goes through these stages, in order:
//
//  1. Skip gate: the skip flag or a non-checkable build unit ends the run with
//     one debug log line and no error, before anything is validated.
//  2. Rule set: at least one pre-configured or configurable rule is required.
//  3. Resolution: pre-configured identifiers resolve to single-check rules;
//     configurable identifiers resolve to check providers whose catalog is
//     filtered by the requested check names. Every problem is collected and
//     reported before any type is loaded.
//  4. Execution: the universe is loaded once; each rule sees it narrowed by
//     its scope. Checks run sequentially in declaration order.
//  5. Aggregation: violations are concatenated in execution order and the
//     failure policy decides between failing and logging.
//
// The same configuration against the same code always produces the same
// report, byte for byte.
package gate
