package db

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/gorm"

	"horse.fit/intel/internal/apperr"
)

func TestTranslateConflict(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("connection reset")

	tests := []struct {
		name        string
		err         error
		wantIgnored bool
	}{
		{name: "nil passes through", err: nil},
		{name: "gorm duplicated key", err: gorm.ErrDuplicatedKey, wantIgnored: true},
		{name: "wrapped gorm duplicated key", err: fmt.Errorf("exec: %w", gorm.ErrDuplicatedKey), wantIgnored: true},
		{name: "raw sqlstate message", err: errors.New("ERROR: duplicate key value violates unique constraint \"facts_company_id_content_fingerprint_key\" (SQLSTATE 23505)"), wantIgnored: true},
		{name: "unrelated error passes through", err: sentinel},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := TranslateConflict(tt.err)
			if tt.err == nil {
				if got != nil {
					t.Fatalf("TranslateConflict(nil) = %v, want nil", got)
				}
				return
			}
			if ignored := errors.Is(got, apperr.ErrConflictIgnored); ignored != tt.wantIgnored {
				t.Errorf("errors.Is(ErrConflictIgnored) = %v, want %v for %v", ignored, tt.wantIgnored, tt.err)
			}
			if !tt.wantIgnored && got != tt.err {
				t.Errorf("TranslateConflict() = %v, want the original error", got)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	t.Parallel()

	if IsUniqueViolation(nil) {
		t.Error("IsUniqueViolation(nil) = true")
	}
	if !IsUniqueViolation(gorm.ErrDuplicatedKey) {
		t.Error("gorm.ErrDuplicatedKey was not recognized")
	}
	if IsUniqueViolation(errors.New("ERROR: null value in column (SQLSTATE 23502)")) {
		t.Error("not-null violation was misclassified as unique violation")
	}
}
