// Package records provides the local key/value store that holds every
// persisted QuizKeeper record.
//
// # Overview
//
// The namespace is flat: one value per fixed key (see the Record* constants in
// internal/common). The vault envelope, the device key and the optional
// remembered password each live under their own key. Writes are last-write-wins;
// there is no versioning because a single user and a single process own the
// store.
//
// Key Types
//
//   - Repository: interface used by higher-level services
//   - SQLiteRepository: SQLite implementation (table "records")
//   - MemoryRepository: in-process implementation for tests and :memory:
//
// Typical Usage
//
//	db, _ := records.Open(ctx, "vault.db")
//	repo := records.NewSQLiteRepository(db)
//	_ = repo.Set(ctx, common.RecordVault, envelope)
//	v, _ := repo.Get(ctx, common.RecordVault) // (nil, nil) when absent
//
// All errors from the backing store wrap common.ErrStorage.
package records
