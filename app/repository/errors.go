package repository

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Jenis pelanggaran constraint yang dikenali adapter store.
const (
	ViolationUnique     = "unique"
	ViolationForeignKey = "foreign_key"
)

// ErrNotFound adalah sentinel "baris tidak ada" milik layer repository.
// Service menerjemahkannya ke sentinel domain masing-masing aggregate.
var ErrNotFound = errors.New("record tidak ditemukan")

// ConstraintViolation adalah error terstruktur pengganti pattern-matching
// string pesan database: membawa jenis pelanggaran + nama constraint logisnya,
// sehingga layer atas cukup dispatch berdasarkan Constraint.
type ConstraintViolation struct {
	Kind       string // ViolationUnique / ViolationForeignKey
	Constraint string // nama constraint di database, mis. "idx_attachment_hash"
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("pelanggaran constraint %s (%s)", e.Constraint, e.Kind)
}

// IsUniqueViolation melaporkan apakah err adalah pelanggaran unique constraint,
// opsional dibatasi pada nama constraint tertentu.
func IsUniqueViolation(err error, constraint string) bool {
	var cv *ConstraintViolation
	if !errors.As(err, &cv) || cv.Kind != ViolationUnique {
		return false
	}
	return constraint == "" || cv.Constraint == constraint
}

// IsForeignKeyViolation melaporkan apakah err adalah pelanggaran foreign key.
func IsForeignKeyViolation(err error) bool {
	var cv *ConstraintViolation
	return errors.As(err, &cv) && cv.Kind == ViolationForeignKey
}

// translateError memetakan error GORM/pgx ke error layer repository.
// Kode SQLSTATE: 23505 = unique_violation, 23503 = foreign_key_violation.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return &ConstraintViolation{Kind: ViolationUnique, Constraint: pgErr.ConstraintName}
		case "23503":
			return &ConstraintViolation{Kind: ViolationForeignKey, Constraint: pgErr.ConstraintName}
		}
	}
	return err
}
