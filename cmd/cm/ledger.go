package main

import (
	"encoding/json"
	"fmt"

	"github.com/ledgrid/confmigrate/internal/migrate"
)

// recordCustomEntries merges entries into the custom ledger through a
// transaction, so a crash mid-write cannot leave a torn ledger behind.
func recordCustomEntries(ws *migrate.Workspace, entries map[string][]string) error {
	return ws.RunTransaction(func(txn *migrate.Transaction) error {
		return txn.Update(ws.CustomLedgerPath(), func(doc []byte) ([]byte, error) {
			all := make(map[string][]string)
			if err := json.Unmarshal(doc, &all); err != nil {
				return nil, fmt.Errorf("parsing custom ledger: %w", err)
			}
			for p, versions := range entries {
				all[p] = versions
			}
			out, err := json.MarshalIndent(all, "", "  ")
			if err != nil {
				return nil, err
			}
			return append(out, '\n'), nil
		})
	})
}
