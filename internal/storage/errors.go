package storage

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// Kind classifies storage errors so handlers can branch on intent instead of
// sniffing driver error codes or message strings.
type Kind int

const (
	// KindTransient covers everything we cannot name: connection trouble,
	// unexpected driver errors. Callers report a generic failure.
	KindTransient Kind = iota
	// KindConflict means a uniqueness constraint rejected the write.
	KindConflict
	// KindNotFound means the requested row does not exist.
	KindNotFound
)

// Classify maps a gorm/driver error to its Kind. gorm's TranslateError gives
// us ErrDuplicatedKey on most paths; the raw sqlite message is matched as a
// fallback for the paths gorm does not translate.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindTransient
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return KindConflict
	case errors.Is(err, gorm.ErrRecordNotFound):
		return KindNotFound
	case strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return KindConflict
	default:
		return KindTransient
	}
}

// IsConflict reports whether err is a uniqueness violation.
func IsConflict(err error) bool {
	return err != nil && Classify(err) == KindConflict
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return err != nil && Classify(err) == KindNotFound
}
