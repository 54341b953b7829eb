package strategies

import (
	"strings"
	"unicode/utf8"

	"crowdfund/backend/models"
)

func validateComment(text, authorID string) error {
	if strings.TrimSpace(text) == "" {
		return models.ErrEmptyComment
	}
	if authorID == "" {
		return models.ErrEmptyAuthor
	}
	if utf8.RuneCountInString(text) > models.MaxCommentLength {
		return models.ErrCommentTooLong
	}
	return nil
}

func isCommentAuthor(commentAuthorID, callerID string) bool {
	return callerID != "" && commentAuthorID == callerID
}
