package postgres

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jhoicas/retail-pos-api/internal/domain"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return strings.Contains(err.Error(), "23505")
}

// violatedConstraint nombre del constraint violado, vacío si no es un error de Postgres.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

// isConcurrencyError: serialization_failure (40001), deadlock_detected (40P01), lock_not_available (55P03).
func isConcurrencyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
	}
	return false
}

// wrap antepone la operación al error y traduce los conflictos de concurrencia a ErrConcurrencyConflict.
func wrap(op string, err error) error {
	if isConcurrencyError(err) {
		return fmt.Errorf("%s: %w", op, domain.ErrConcurrencyConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// likePattern escapa comodines de LIKE y envuelve el término en %...%.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
