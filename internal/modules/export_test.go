package modules

import "sync"

// resetForTest swaps the kind table and forces the catalog to rebuild.
// It returns a func restoring the previous table.
func resetForTest(table []Kind) func() {
	kindsMu.Lock()
	prev := kinds
	kinds = table
	kindsMu.Unlock()
	catalogOnce = sync.Once{}
	catalog = nil
	catalogByID = nil

	return func() {
		kindsMu.Lock()
		kinds = prev
		kindsMu.Unlock()
		catalogOnce = sync.Once{}
		catalog = nil
		catalogByID = nil
	}
}
