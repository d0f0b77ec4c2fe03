package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=./mocks/repository_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"poolbook/infras/otel"
	"poolbook/infras/postgres"
	"poolbook/shared"
	"poolbook/shared/constant"
	"poolbook/shared/dto"
	"poolbook/shared/logger"
	"slices"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const setArgPrefix = "set_"

var (
	errRequiredFilter = errors.New("required filter")
	errRequiredFields = errors.New("required fields")

	// ErrUniqueViolation marks a write rejected by a unique constraint.
	ErrUniqueViolation = errors.New("unique constraint violated")
)

// Transactor opens a database transaction around fn.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context, tx *sqlx.Tx) error) error
}

// Table is a row gateway over one relation whose columns are only known at
// runtime. Methods taking a tx run on the write connection when tx is nil.
type Table interface {
	Name() string
	InsertTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any) (int64, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) (int64, error)
	DeleteTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) (int64, error)
	Count(ctx context.Context, filter dto.FilterGroup) (int, error)
	CountTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) (int, error)
	Select(ctx context.Context, filter dto.FilterGroup, columns ...string) ([]map[string]any, error)
}

type tableImpl struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	primaryColumn string
}

// NewTable returns a gateway for table. primaryColumn is returned by inserts
// and may be empty for tables without a generated key.
func NewTable(table, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Table {
	return &tableImpl{
		db:            dbConnection,
		otel:          otl,
		table:         table,
		primaryColumn: primaryColumn,
	}
}

func (repo *tableImpl) Name() string {
	return repo.table
}

func (repo *tableImpl) writer(tx *sqlx.Tx) sqlx.ExtContext {
	if tx != nil {
		return tx
	}

	return repo.db.Write
}

func (repo *tableImpl) InsertTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.InsertTx", constant.OtelRepositoryScopeName, repo.table))
	defer scope.End()

	query, err := BuildInsertQuery(repo.table, fields, repo.primaryColumn)
	if err != nil {
		return 0, fmt.Errorf("failed to insert data (%s): %w", repo.table, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	exec := repo.writer(tx)

	bound, args, err := exec.BindNamed(query, fields)
	if err != nil {
		return 0, fmt.Errorf("failed to bind insert (%s): %w", repo.table, err)
	}

	var id int64
	if repo.primaryColumn != "" {
		err = sqlx.GetContext(ctx, exec, &id, bound, args...)
	} else {
		_, err = exec.ExecContext(ctx, bound, args...)
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to insert data (%s): %w", repo.table, mapDriverError(err))
	}

	return id, nil
}

func (repo *tableImpl) UpdateTx(ctx context.Context, tx *sqlx.Tx, fields map[string]any, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.UpdateTx", constant.OtelRepositoryScopeName, repo.table))
	defer scope.End()

	query, args, err := BuildUpdateQuery(repo.table, fields, filter)
	if err != nil {
		return 0, fmt.Errorf("failed to update data (%s): %w", repo.table, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	affected, err := repo.namedExec(ctx, repo.writer(tx), query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to update data (%s): %w", repo.table, mapDriverError(err))
	}

	return affected, nil
}

func (repo *tableImpl) DeleteTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.DeleteTx", constant.OtelRepositoryScopeName, repo.table))
	defer scope.End()

	where, args := filter.GetWhereClause()
	if where == "" {
		return 0, errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s", repo.table, where)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	affected, err := repo.namedExec(ctx, repo.writer(tx), query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to delete data (%s): %w", repo.table, err)
	}

	return affected, nil
}

func (repo *tableImpl) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Count", constant.OtelRepositoryScopeName, repo.table))
	defer scope.End()

	return repo.count(ctx, repo.db.Read, filter)
}

func (repo *tableImpl) CountTx(ctx context.Context, tx *sqlx.Tx, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.CountTx", constant.OtelRepositoryScopeName, repo.table))
	defer scope.End()

	return repo.count(ctx, repo.writer(tx), filter)
}

func (repo *tableImpl) count(ctx context.Context, exec sqlx.ExtContext, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.count", constant.OtelRepositoryScopeName, repo.table))
	defer scope.End()

	query, args := BuildCountQuery(repo.table, filter)
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	bound, values, err := exec.BindNamed(query, args)
	if err != nil {
		return 0, fmt.Errorf("failed to bind count (%s): %w", repo.table, err)
	}

	var count int

	if err = sqlx.GetContext(ctx, exec, &count, bound, values...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to count data (%s): %w", repo.table, err)
	}

	return count, nil
}

func (repo *tableImpl) Select(ctx context.Context, filter dto.FilterGroup, columns ...string) ([]map[string]any, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.Select", constant.OtelRepositoryScopeName, repo.table))
	defer scope.End()

	query, args, err := BuildSelectQuery(repo.table, filter, columns...)
	if err != nil {
		return nil, fmt.Errorf("failed to select data (%s): %w", repo.table, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	rows, err := sqlx.NamedQueryContext(ctx, repo.db.Read, query, args)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to select data (%s): %w", repo.table, err)
	}
	defer rows.Close()

	result := []map[string]any{}

	for rows.Next() {
		row := map[string]any{}
		if err = rows.MapScan(row); err != nil {
			scope.TraceError(err)

			return nil, fmt.Errorf("failed to scan row (%s): %w", repo.table, err)
		}

		for key, value := range row {
			if raw, ok := value.([]byte); ok {
				row[key] = string(raw)
			}
		}

		result = append(result, row)
	}

	if err = rows.Err(); err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to iterate rows (%s): %w", repo.table, err)
	}

	return result, nil
}

func (repo *tableImpl) namedExec(ctx context.Context, exec sqlx.ExtContext, query string, args map[string]any) (int64, error) {
	res, err := sqlx.NamedExecContext(ctx, exec, query, args)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	return affected, nil
}

// BuildInsertQuery renders a named INSERT for fields, optionally returning
// the generated key.
func BuildInsertQuery(table string, fields map[string]any, returning string) (string, error) {
	if len(fields) == 0 {
		return "", errRequiredFields
	}

	columns := slices.Sorted(maps.Keys(fields))
	placeholders := make([]string, 0, len(columns))

	for _, col := range columns {
		if !shared.IsIdentifier(col) {
			return "", fmt.Errorf("invalid column name %q", col)
		}

		placeholders = append(placeholders, ":"+col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if returning != "" {
		query += " RETURNING " + returning
	}

	return query, nil
}

// BuildUpdateQuery renders a named UPDATE. Set arguments are prefixed so a
// column can be both assigned and filtered on.
func BuildUpdateQuery(table string, fields map[string]any, filter dto.FilterGroup) (string, map[string]any, error) {
	if len(fields) == 0 {
		return "", nil, errRequiredFields
	}

	where, args := filter.GetWhereClause()
	if where == "" {
		return "", nil, errRequiredFilter
	}

	columns := slices.Sorted(maps.Keys(fields))
	assignments := make([]string, 0, len(columns))

	for _, col := range columns {
		if !shared.IsIdentifier(col) {
			return "", nil, fmt.Errorf("invalid column name %q", col)
		}

		assignments = append(assignments, fmt.Sprintf("%s = :%s%s", col, setArgPrefix, col))
		args[setArgPrefix+col] = fields[col]
	}

	return fmt.Sprintf("UPDATE %s SET %s WHERE %s", table, strings.Join(assignments, ", "), where), args, nil
}

func BuildCountQuery(table string, filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "SELECT COUNT(*) FROM " + table, args
	}

	return fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", table, where), args
}

func BuildSelectQuery(table string, filter dto.FilterGroup, columns ...string) (string, map[string]any, error) {
	selected := "*"

	if len(columns) > 0 {
		for _, col := range columns {
			if !shared.IsIdentifier(col) {
				return "", nil, fmt.Errorf("invalid column name %q", col)
			}
		}

		selected = strings.Join(columns, ", ")
	}

	where, args := filter.GetWhereClause()
	if where == "" {
		return fmt.Sprintf("SELECT %s FROM %s", selected, table), args, nil
	}

	return fmt.Sprintf("SELECT %s FROM %s WHERE %s", selected, table, where), args, nil
}

func mapDriverError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation {
		return fmt.Errorf("%w: %w", ErrUniqueViolation, err)
	}

	return err
}
