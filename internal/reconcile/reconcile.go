// Package reconcile merges freshly imported accounts into an existing ledger.
//
// Candidates are matched to the ledger by business key (entity, code). A
// match refreshes only the balance of the stored record; every other field,
// including the external ID, is kept so manual edits survive a re-import.
// Unmatched candidates become inserts under a fresh external ID.
package reconcile

import (
	"github.com/anggaran-dev/anggaran/internal/id"
	"github.com/anggaran-dev/anggaran/internal/model"
)

// Result is the outcome of one reconciliation pass.
type Result struct {
	ToInsert []model.Account
	ToUpdate []model.Account
	// Records holds inserts and updates in candidate order, ready for upsert.
	Records       []model.Account
	InsertedCount int
	UpdatedCount  int
}

// Reconcile decides insert or update for every candidate. All candidates
// are resolved against the ledger snapshot as passed in; a candidate never
// sees the outcome of an earlier candidate in the same batch.
func Reconcile(candidates, existing []model.Account) Result {
	snapshot := make(map[model.BusinessKey]model.Account, len(existing))
	for _, a := range existing {
		k := a.BusinessKey()
		if _, dup := snapshot[k]; dup {
			continue
		}
		snapshot[k] = a
	}

	var res Result
	for _, cand := range candidates {
		if stored, ok := snapshot[cand.BusinessKey()]; ok {
			rec := stored
			rec.Balance = cand.Balance
			res.ToUpdate = append(res.ToUpdate, rec)
			res.Records = append(res.Records, rec)
			continue
		}

		rec := cand
		rec.ID = 0
		if rec.ExternalID == "" {
			rec.ExternalID = id.NewExternalID(rec.EntityID, rec.Code)
		}
		res.ToInsert = append(res.ToInsert, rec)
		res.Records = append(res.Records, rec)
	}

	res.InsertedCount = len(res.ToInsert)
	res.UpdatedCount = len(res.ToUpdate)
	return res
}
