package lifecycle

import "github.com/shopfront/fulfillment/internal/storage"

// AppendOnce returns history with entry appended unless some existing entry
// already carries the same stage. This no-duplicate rule is the only
// de-duplication guard in the engine and is what makes repeated advancement
// idempotent: the caller offers candidates in ascending threshold order, so
// "no stage twice" plus "offered in order" yields a strictly increasing log
// by construction. Existing entries are never touched.
func AppendOnce(history []storage.HistoryEntry, entry storage.HistoryEntry) ([]storage.HistoryEntry, bool) {
	for _, h := range history {
		if h.Stage == entry.Stage {
			return history, false
		}
	}
	return append(history, entry), true
}
