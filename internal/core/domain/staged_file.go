package domain

// StagedFile is a receipt image held in memory pending upload. It is
// replaced wholesale when the user picks a new file and consumed into
// FileURL/FileName on a successful submission.
type StagedFile struct {
	Name        string
	ContentType string
	Content     []byte
}
