// Package analytics holds the arithmetic core of WealthTracker: derived
// investment metrics, portfolio aggregation, expense aggregation, the
// dashboard composition and the financial health score.
//
// Every function here is pure. Callers fetch an owner-scoped snapshot of
// records from the store and pass it in together with the reference date;
// nothing is cached and nothing is written back. Money and quantities stay in
// decimal.Decimal through every sum; only ratios are reported as float64.
// Divisions by zero never raise: they resolve to a zero result.
package analytics
