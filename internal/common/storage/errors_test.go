package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

func TestMapErrorNotFound(t *testing.T) {
	if err := MapError(gorm.ErrRecordNotFound); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := MapError(fmt.Errorf("wrap: %w", gorm.ErrRecordNotFound)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped ErrNotFound, got %v", err)
	}
}

func TestMapErrorDuplicateEntry(t *testing.T) {
	src := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'eq-1' for key 'equipo_activo_id'"}
	err := MapError(src)
	if !IsConstraintViolation(err) {
		t.Fatalf("expected constraint violation, got %v", err)
	}
	var cv *ConstraintViolationError
	if !errors.As(err, &cv) || cv.Constraint == "" {
		t.Fatalf("expected constraint detail, got %v", err)
	}
}

func TestMapErrorForeignKey(t *testing.T) {
	for _, code := range []uint16{1451, 1452} {
		err := MapError(&mysql.MySQLError{Number: code, Message: "fk"})
		var ri *ReferentialIntegrityError
		if !errors.As(err, &ri) {
			t.Fatalf("code %d: expected ReferentialIntegrityError, got %v", code, err)
		}
	}
}

func TestMapErrorPassthrough(t *testing.T) {
	if err := MapError(nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	src := errors.New("connection refused")
	if err := MapError(src); !errors.Is(err, src) {
		t.Fatalf("expected passthrough, got %v", err)
	}

	other := &mysql.MySQLError{Number: 1040, Message: "too many connections"}
	if err := MapError(other); !errors.Is(err, other) {
		t.Fatalf("expected unmapped mysql error passthrough, got %v", err)
	}
}
