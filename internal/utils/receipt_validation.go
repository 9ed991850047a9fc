package utils

import (
	"strings"

	"github.com/billed-app/billed-backend/internal/apperrors"
)

// Receipt images must be jpg, jpeg or png; anything else is rejected before
// staging. Content is never inspected, only the file name.
var allowedReceiptExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

// ValidateReceiptFileName checks the extension of an uploaded receipt file
// name, case-insensitively. Only the substring after the final dot counts;
// a name without a dot has no extension and is rejected. Returns
// apperrors.ErrInvalidExtension on rejection, nil otherwise.
func ValidateReceiptFileName(fileName string) error {
	dot := strings.LastIndex(fileName, ".")
	if dot < 0 || dot == len(fileName)-1 {
		return apperrors.ErrInvalidExtension
	}
	ext := strings.ToLower(fileName[dot+1:])
	if _, ok := allowedReceiptExtensions[ext]; !ok {
		return apperrors.ErrInvalidExtension
	}
	return nil
}
