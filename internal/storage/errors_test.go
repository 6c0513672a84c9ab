package storage

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"
)

func TestClassifyConflict(t *testing.T) {
	cases := []error{
		gorm.ErrDuplicatedKey,
		fmt.Errorf("create category: %w", gorm.ErrDuplicatedKey),
		errors.New("UNIQUE constraint failed: categories.user_id, categories.name, categories.type"),
	}
	for _, err := range cases {
		if Classify(err) != KindConflict {
			t.Errorf("Classify(%v) = %v, want KindConflict", err, Classify(err))
		}
		if !IsConflict(err) {
			t.Errorf("IsConflict(%v) = false, want true", err)
		}
	}
}

func TestClassifyNotFound(t *testing.T) {
	err := fmt.Errorf("load cycle: %w", gorm.ErrRecordNotFound)
	if Classify(err) != KindNotFound {
		t.Errorf("Classify(%v) = %v, want KindNotFound", err, Classify(err))
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false, want true", err)
	}
}

func TestClassifyTransient(t *testing.T) {
	cases := []error{
		errors.New("database is locked"),
		errors.New("driver: bad connection"),
	}
	for _, err := range cases {
		if Classify(err) != KindTransient {
			t.Errorf("Classify(%v) = %v, want KindTransient", err, Classify(err))
		}
	}
}

func TestClassifyNil(t *testing.T) {
	if IsConflict(nil) || IsNotFound(nil) {
		t.Error("nil error must not classify as conflict or not-found")
	}
}
