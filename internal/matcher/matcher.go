package matcher

import (
	"monocle-reconciliation-service/internal/models"
	"monocle-reconciliation-service/pkg/logger"
)

// MatchResult partitions the filtered bank records by whether their
// normalized description key appears anywhere in the lender ledger. Every
// bank record lands in exactly one of the two slices, in input order.
type MatchResult struct {
	MatchingRecords   []*models.BankRecord `json:"matching_records"`
	MissingFromLender []*models.BankRecord `json:"missing_from_lender"`

	// DistinctLenderKeys is the size of the key set built from the
	// ledger, useful for gauging key collisions.
	DistinctLenderKeys int `json:"distinct_lender_keys"`
}

// Matcher performs key presence matching between bank and lender records.
// Matching is not one-to-one: a single ledger entry can account for any
// number of bank records sharing its key.
type Matcher struct {
	logger logger.Logger
}

// NewMatcher creates a matcher.
func NewMatcher(log logger.Logger) *Matcher {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &Matcher{logger: log.WithComponent("matcher")}
}

// Match partitions bankRecords against the lender key set.
func (m *Matcher) Match(bankRecords []*models.BankRecord, lenderRecords []*models.LenderRecord) *MatchResult {
	keys := make(map[string]struct{}, len(lenderRecords))
	for _, lr := range lenderRecords {
		keys[lr.NormalizedDescription] = struct{}{}
	}

	result := &MatchResult{DistinctLenderKeys: len(keys)}
	for _, br := range bankRecords {
		if _, ok := keys[br.NormalizedDescription]; ok {
			result.MatchingRecords = append(result.MatchingRecords, br)
		} else {
			result.MissingFromLender = append(result.MissingFromLender, br)
		}
	}

	m.logger.WithFields(logger.Fields{
		"bank_records":        len(bankRecords),
		"distinct_keys":       result.DistinctLenderKeys,
		"matching":            len(result.MatchingRecords),
		"missing_from_lender": len(result.MissingFromLender),
	}).Info("Completed key presence matching")

	return result
}
