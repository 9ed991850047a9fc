package apperrors

import "net/http"

// DisplayError is a store failure reduced to a banner text the view can
// render as-is. Classification is purely presentational.
type DisplayError struct {
	Summary string `json:"summary"`
}

const (
	summaryNotFound = "Erreur 404 - la ressource demandée est introuvable"
	summaryServer   = "Erreur 500 - le service est momentanément indisponible"
	summaryGeneric  = "Une erreur est survenue, veuillez réessayer"
)

// Classify maps a store failure into a user-facing DisplayError. It
// recognizes 404 and 500 store statuses and falls back to a generic
// message for anything else, including nil.
func Classify(err error) DisplayError {
	storeErr, ok := AsStoreError(err)
	if !ok {
		return DisplayError{Summary: summaryGeneric}
	}
	switch storeErr.StatusCode {
	case http.StatusNotFound:
		return DisplayError{Summary: summaryNotFound}
	case http.StatusInternalServerError:
		return DisplayError{Summary: summaryServer}
	default:
		return DisplayError{Summary: summaryGeneric}
	}
}
