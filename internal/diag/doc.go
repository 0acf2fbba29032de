// Package diag defines the diagnostic model shared by the document loader,
// the lowering driver and the CLI.
//
// A Diagnostic carries a Severity, a stable Code (rendered as HIR1001,
// MON2001 and so on), a short message, a primary source.Span and optional
// notes. Producers emit through a Reporter, usually a BagReporter writing
// into a Bag; ReportBuilder assembles notes before Emit.
//
// Package diag does no I/O; rendering lives in package diagfmt.
package diag
