// Package catalog defines the external collaborators of the rewrite
// pipeline: enumerating candidate source units and reading/writing their
// definitions. The engine and controllers depend only on the interfaces
// here; concrete backends are the SQL Server catalog (production) and the
// in-memory catalog (tests and file mode).
package catalog
