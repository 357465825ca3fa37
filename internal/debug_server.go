package internal

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/dgraph-io/badger/v4"
)

// InspectRow is one badger entry as the inspector renders it.
type InspectRow struct {
	Key    string `json:"key"`
	Detail string `json:"detail"`
}

// RowMapper turns a raw key/value pair into a display row.
type RowMapper func(key string, val []byte) InspectRow

// StatsProvider feeds the dashboard header.
type StatsProvider func() map[string]any

// DefaultMapper shows the key and the value size.
func DefaultMapper(key string, val []byte) InspectRow {
	return InspectRow{Key: key, Detail: fmt.Sprintf("%d bytes", len(val))}
}

// StartDebugServer exposes the badger store and live stats as JSON on
// the given endpoint. Read-only; intended for local debugging of the
// friend-card store, never for production exposure.
func StartDebugServer(log *slog.Logger, db *badger.DB, port int, endpoint string,
	mapper RowMapper, statsProvider StatsProvider) {
	if mapper == nil {
		mapper = DefaultMapper
	}

	mux := http.NewServeMux()
	mux.HandleFunc(endpoint, func(w http.ResponseWriter, r *http.Request) {
		prefix := r.URL.Query().Get("prefix")
		if prefix == "" {
			prefix = "item:"
		}

		payload := struct {
			Prefix string         `json:"prefix"`
			Stats  map[string]any `json:"stats"`
			Items  []InspectRow   `json:"items"`
		}{Prefix: prefix, Stats: map[string]any{}}

		if statsProvider != nil {
			payload.Stats = statsProvider()
		}

		_ = db.View(func(txn *badger.Txn) error {
			it := txn.NewIterator(badger.DefaultIteratorOptions)
			defer it.Close()
			for it.Seek([]byte(prefix)); it.ValidForPrefix([]byte(prefix)); it.Next() {
				item := it.Item()
				err := item.Value(func(val []byte) error {
					payload.Items = append(payload.Items, mapper(string(item.Key()), val))
					return nil
				})
				if err != nil {
					return err
				}
			}
			return nil
		})

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	})

	go func() {
		addr := fmt.Sprintf("localhost:%d", port)
		log.Info("Debug inspector listening", "addr", addr, "endpoint", endpoint)
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Warn("Debug inspector stopped", "error", err)
		}
	}()
}
