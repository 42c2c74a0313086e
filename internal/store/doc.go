// Package store is the data-access layer between the UI surface and
// the backing collections. It exposes one CRUD contract per resource
// kind and two interchangeable strategies behind it:
//
//   - remote: one HTTP exchange per operation against the collection
//     endpoints (/pacientes, /materiais, /procedimentos), no retries,
//     no caching.
//   - local: a persisted SQLite key-value side-store holding one
//     JSON-serialized array per resource kind, seeded with placeholder
//     records on first use. Intended for offline/demo runs.
//
// Exactly one strategy is active per process; Open selects it once
// from configuration. Procedure reads are enriched with resolved
// material snapshots here and only here; the UI layer never joins.
package store
