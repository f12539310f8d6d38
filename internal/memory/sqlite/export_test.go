package sqlite

// ClobberSlot writes a raw value into a slot, bypassing serialization.
// Test-only hook for exercising the fail-open read path.
func (s *Store) ClobberSlot(key, value string) error {
	return s.saveSlot(key, value)
}
