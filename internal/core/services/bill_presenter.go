package services

import (
	"sort"

	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/billed-app/billed-backend/internal/dto"
	"github.com/billed-app/billed-backend/internal/utils"
)

// PresentBills transforms a raw bill collection into a display-ready
// sequence ordered by date descending (most recent first).
//
// Dates are compared as plain strings, which is correct for the canonical
// YYYY-MM-DD form; malformed dates sort wherever string comparison puts
// them. Known limitation, kept on purpose so display ordering matches the
// stored representation. The sort is stable: equal dates retain their
// relative input order.
//
// Malformed records (unparsable date, unknown status) are formatted
// best-effort, never dropped. An empty collection yields an empty sequence.
func PresentBills(bills []domain.Bill) []dto.DisplayBill {
	ordered := make([]domain.Bill, len(bills))
	copy(ordered, bills)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date > ordered[j].Date
	})

	display := make([]dto.DisplayBill, len(ordered))
	for i := range ordered {
		display[i] = dto.DisplayBill{
			BillResponse:  dto.ToBillResponse(&ordered[i]),
			FormattedDate: utils.FormatBillDate(ordered[i].Date),
			StatusLabel:   utils.StatusLabel(ordered[i].Status),
		}
	}
	return display
}
