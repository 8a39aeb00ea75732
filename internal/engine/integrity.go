package engine

import (
	"fmt"

	"github.com/google/uuid"

	"timecafe/internal/model"
)

// Finding is one structural anomaly found in the ledger. Findings are
// informational: they are surfaced persistently to the operator, they never
// block further operations, since they reflect historical drift rather than
// an in-flight failure.
type Finding struct {
	EntryID uuid.UUID `json:"entry_id"`
	Kind    string    `json:"kind"`
	Detail  string    `json:"detail"`
}

const (
	FindingDuplicateID     = "duplicate_id"
	FindingNegativeAmount  = "negative_amount"
	FindingMissingAccount  = "missing_account"
	FindingDanglingAccount = "dangling_account"
	FindingDanglingParent  = "dangling_parent"
)

// ScanLedger walks the full entry log looking for duplicate ids, negative
// amounts and dangling references. knownAccounts and knownParents are the id
// sets of the entities entries may reference.
func ScanLedger(entries []model.LedgerEntry, knownAccounts, knownParents map[uuid.UUID]bool) []Finding {
	var findings []Finding
	seen := make(map[uuid.UUID]bool, len(entries))

	for _, e := range entries {
		if seen[e.ID] {
			findings = append(findings, Finding{
				EntryID: e.ID,
				Kind:    FindingDuplicateID,
				Detail:  fmt.Sprintf("entry id %s appears more than once", e.ID),
			})
		}
		seen[e.ID] = true

		if e.Amount.IsNegative() {
			findings = append(findings, Finding{
				EntryID: e.ID,
				Kind:    FindingNegativeAmount,
				Detail:  fmt.Sprintf("entry %s has negative amount %s", e.ID, e.Amount.StringFixed(2)),
			})
		}

		if e.Channel == model.ChannelBank && e.AccountID == nil {
			findings = append(findings, Finding{
				EntryID: e.ID,
				Kind:    FindingMissingAccount,
				Detail:  fmt.Sprintf("bank entry %s has no account reference", e.ID),
			})
		}
		if e.AccountID != nil && !knownAccounts[*e.AccountID] {
			findings = append(findings, Finding{
				EntryID: e.ID,
				Kind:    FindingDanglingAccount,
				Detail:  fmt.Sprintf("entry %s references unknown account %s", e.ID, *e.AccountID),
			})
		}
		if e.ParentID != nil && !knownParents[*e.ParentID] {
			findings = append(findings, Finding{
				EntryID: e.ID,
				Kind:    FindingDanglingParent,
				Detail:  fmt.Sprintf("entry %s references deleted parent %s", e.ID, *e.ParentID),
			})
		}
	}

	return findings
}
