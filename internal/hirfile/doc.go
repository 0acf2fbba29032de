// Package hirfile reads and writes HIR documents: typed, generic programs
// serialized as TOML, YAML or msgpack.
//
// A document is decoded into a Document, checked, and built into a
// hir.Program. Problems are reported into a diag.Bag with HIR1xxx codes;
// Load fails when any of them is an error, so the lowering pass only ever
// sees structurally valid programs.
//
// Documents carry no source positions. Every node gets a one-byte span at
// its pre-order index within the document, so spans are stable across
// codecs.
package hirfile
