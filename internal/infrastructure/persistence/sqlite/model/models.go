package model

// All lists every persisted table for schema migration.
func All() []any {
	return []any{
		&Customer{},
		&Interview{},
		&Manuscript{},
		&Deliverable{},
		&Feedback{},
		&CacheEntry{},
	}
}
