package domain

import "strings"

// SkipMarker is the submission recorded for a player the admin skipped.
// It cannot be typed by a player (see ValidateWord), so it never collides
// with a real completion.
const SkipMarker = "\x00skipped"

// LastSubmission records what a player wrote in the previous round
type LastSubmission struct {
	Stem               string `json:"stem"`
	Submission         string `json:"submission"`
	IsSubmissionPrefix bool   `json:"isSubmissionPrefix"`
}

// NewLastSubmission archives a submission against the stem it completed.
// The blank marker is removed from the stem for display.
func NewLastSubmission(stem, submission string, isSubmissionPrefix bool) *LastSubmission {
	return &LastSubmission{
		Stem:               StripBlank(stem),
		Submission:         submission,
		IsSubmissionPrefix: isSubmissionPrefix,
	}
}

// ValidateWord checks that a player-supplied word can be recorded as a submission.
// The word itself is kept verbatim; matching is exact.
func ValidateWord(word string) error {
	if strings.TrimSpace(word) == "" {
		return ErrEmptyWord
	}
	if word == SkipMarker || strings.ContainsRune(word, '\x00') {
		return ErrReservedWord
	}
	return nil
}
