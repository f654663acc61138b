// Package nature provides:
//
// - Fields: named, typed slots that coerce assigned values and recompute their validity on every change
// - Schemas: ordered Field collections with aliases, groups, live filtered views, mix-ins and clones
// - Bulk ingestion from maps, from other Schemas and from command-line style token vectors
// - A single failure model (Issues) covering structural errors and field validation failures
//
// Design policy:
// - Bad input never fails a call by default; inspect Valid, ValidationMessages or Issues.
// - InvalidRaise turns field validation failures into returned *ValidationFailure errors.
// - Structural errors (unknown names, alias conflicts) are always recorded and returned
//   unless an error listener is attached with WithErrorListener.
// - Keep the public API in the root package; value helpers live under internal/.
//
// Typical usage:
//
//	s := nature.New()
//	_ = s.Define(
//	    nature.Definition{Name: "verbose", Type: nature.BooleanType},
//	    nature.Definition{Name: "colour", Alias: "c", Type: nature.StringType},
//	    nature.Definition{Name: "files", Type: nature.CollectionType, DefaultOption: true},
//	)
//	_ = s.SetArgs([]string{"--verbose", "-c", "red", "file1.txt", "file2.txt"})
//	if !s.Valid() {
//	    fmt.Print(s.ValidationMessages())
//	}
package nature
