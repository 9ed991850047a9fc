package utils

import (
	"fmt"
	"time"

	"github.com/billed-app/billed-backend/internal/core/domain"
)

// French short month names as the original UI renders them ("4 Avr. 04").
// Juin and Juillet both shorten to "Jui"; kept as-is to match the existing
// display output.
var frenchShortMonths = [12]string{
	"Jan", "Fév", "Mar", "Avr", "Mai", "Jui",
	"Jui", "Aoû", "Sep", "Oct", "Nov", "Déc",
}

// FormatBillDate renders a YYYY-MM-DD date as a short French date string.
// A date that does not parse is returned unchanged so that one malformed
// record never breaks the whole list.
func FormatBillDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s. %02d", t.Day(), frenchShortMonths[t.Month()-1], t.Year()%100)
}

// StatusLabel humanizes a bill status for display. Unknown statuses pass
// through raw rather than erroring.
func StatusLabel(status domain.BillStatus) string {
	switch status {
	case domain.StatusPending:
		return "En attente"
	case domain.StatusAccepted:
		return "Accepté"
	case domain.StatusRefused:
		return "Refusé"
	default:
		return string(status)
	}
}
