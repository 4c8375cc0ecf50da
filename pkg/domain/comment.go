package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

const maxCommentLength = 4000

type Comment struct {
	ID        int64
	PhotoID   int64
	AuthorID  int64
	Body      string
	CreatedAt time.Time
}

func NormalizeCommentBody(body string) (string, error) {
	b := strings.TrimSpace(body)
	if b == "" {
		return "", fmt.Errorf("%w: comment is empty", domerr.ErrInvalidArgument)
	}
	if maxCommentLength < utf8.RuneCountInString(b) {
		return "", fmt.Errorf("%w: comment is too long (max %d)", domerr.ErrInvalidArgument, maxCommentLength)
	}
	return b, nil
}
