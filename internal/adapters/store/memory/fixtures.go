package memory

import (
	"github.com/billed-app/billed-backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FixtureBills returns the four canonical sample bills used by the demo
// backend and the test suites.
func FixtureBills() []domain.Bill {
	return []domain.Bill{
		{
			BillID:       "47qAXb6fIm2zOKkLzMro",
			Type:         "Hôtel et logement",
			Name:         "encore",
			Date:         "2004-04-04",
			Amount:       decimal.NewFromInt(400),
			VAT:          "80",
			Pct:          20,
			Commentary:   "séminaire billed",
			FileURL:      "https://test.storage.tld/v0/b/billable-677b6.a…f-1.jpg",
			FileName:     "preview-facture-free-201801-pdf-1.jpg",
			Status:       domain.StatusPending,
			CommentAdmin: "ok",
			Email:        "a@a",
		},
		{
			BillID:       "BeKy5Mo4jkmdfPGYpTxZ",
			Type:         "Transports",
			Name:         "test1",
			Date:         "2001-01-01",
			Amount:       decimal.NewFromInt(100),
			VAT:          "",
			Pct:          20,
			Commentary:   "plop",
			FileURL:      "https://test.storage.tld/v0/b/billable-677b6.a…61.jpeg",
			FileName:     "billed-201.jpeg",
			Status:       domain.StatusRefused,
			CommentAdmin: "en fait non",
			Email:        "a@a",
		},
		{
			BillID:     "UIUZtnPQvnbFnB0ozvJh",
			Type:       "Services en ligne",
			Name:       "test3",
			Date:       "2003-03-03",
			Amount:     decimal.NewFromInt(300),
			VAT:        "60",
			Pct:        20,
			Commentary: "",
			FileURL:    "https://test.storage.tld/v0/b/billable-677b6.a…66.png",
			FileName:   "facture-client-php-exportee-dans-document-pdf.png",
			Status:     domain.StatusAccepted,
			Email:      "a@a",
		},
		{
			BillID:     "qcCK3SzECmaZAGRrHjaC",
			Type:       "Restaurants et bars",
			Name:       "test2",
			Date:       "2002-02-02",
			Amount:     decimal.NewFromInt(200),
			VAT:        "40",
			Pct:        20,
			Commentary: "test2",
			FileURL:    "https://test.storage.tld/v0/b/billable-677b6.a…e732.jpg",
			FileName:   "justificatif-restaurant.jpg",
			Status:     domain.StatusRefused,
			Email:      "a@a",
		},
	}
}
