// Package batch runs independent analyses in parallel and aggregates them.
//
// This package includes helpers for:
//   - Parsing parameters that accept both single values and arrays
//   - Running items with bounded parallelism while keeping input order
//   - Reporting partial failures in a consistent JSON structure
package batch
