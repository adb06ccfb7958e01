package queries

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"evoluflow-core/internal/infrastructure/database/postgres"
	"evoluflow-core/internal/modules/referentiel/descriptor"
	"evoluflow-core/internal/modules/referentiel/dto"
	"evoluflow-core/internal/modules/referentiel/services"
)

// PostgresResourceStore implémente services.ResourceStore avec du SQL
// dérivé des descripteurs. Les identifiants (tables, colonnes) proviennent
// exclusivement du catalogue validé au démarrage, jamais du client.
type PostgresResourceStore struct {
	db *postgres.Client
}

func NewPostgresResourceStore(db *postgres.Client) *PostgresResourceStore {
	return &PostgresResourceStore{db: db}
}

func (s *PostgresResourceStore) List(ctx context.Context, d descriptor.ResourceDescriptor) ([]dto.Record, error) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s ORDER BY reference",
		columnList(d), d.TableName(),
	)

	rows, err := s.db.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("lecture liste %s: %w", d.Name, err)
	}
	defer rows.Close()

	records := []dto.Record{}
	for rows.Next() {
		record, err := scanRecord(d, rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func (s *PostgresResourceStore) GetByReference(ctx context.Context, d descriptor.ResourceDescriptor, reference string) (dto.Record, error) {
	sql := fmt.Sprintf(
		"SELECT %s FROM %s WHERE reference = $1",
		columnList(d), d.TableName(),
	)

	rows, err := s.db.Query(ctx, sql, reference)
	if err != nil {
		return nil, fmt.Errorf("lecture %s %s: %w", d.Name, reference, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	return scanRecord(d, rows)
}

func (s *PostgresResourceStore) Exists(ctx context.Context, d descriptor.ResourceDescriptor, reference string) (bool, error) {
	sql := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE reference = $1)", d.TableName())

	var exists bool
	if err := s.db.QueryRow(ctx, sql, reference).Scan(&exists); err != nil {
		return false, fmt.Errorf("vérification %s %s: %w", d.Name, reference, err)
	}
	return exists, nil
}

func (s *PostgresResourceStore) Insert(ctx context.Context, d descriptor.ResourceDescriptor, record dto.Record) error {
	fields := d.AllFields()
	columns := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	values := make([]any, len(fields))
	for i, f := range fields {
		columns[i] = f.Key
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		values[i] = record[f.Key]
	}

	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		d.TableName(), strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)

	if err := s.db.Exec(ctx, sql, values...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return services.ErrDuplicateReference
		}
		return fmt.Errorf("insertion %s: %w", d.Name, err)
	}
	return nil
}

func (s *PostgresResourceStore) Update(ctx context.Context, d descriptor.ResourceDescriptor, reference string, record dto.Record) (bool, error) {
	var assignments []string
	var values []any
	i := 1
	for _, f := range d.AllFields() {
		if f.Key == descriptor.KeyReference {
			continue
		}
		assignments = append(assignments, fmt.Sprintf("%s = $%d", f.Key, i))
		values = append(values, record[f.Key])
		i++
	}
	values = append(values, reference)

	sql := fmt.Sprintf(
		"UPDATE %s SET %s WHERE reference = $%d",
		d.TableName(), strings.Join(assignments, ", "), i,
	)

	tag, err := s.db.Pool().Exec(ctx, sql, values...)
	if err != nil {
		return false, fmt.Errorf("modification %s %s: %w", d.Name, reference, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresResourceStore) Delete(ctx context.Context, d descriptor.ResourceDescriptor, reference string) (bool, error) {
	sql := fmt.Sprintf("DELETE FROM %s WHERE reference = $1", d.TableName())

	tag, err := s.db.Pool().Exec(ctx, sql, reference)
	if err != nil {
		return false, fmt.Errorf("suppression %s %s: %w", d.Name, reference, err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *PostgresResourceStore) Count(ctx context.Context, d descriptor.ResourceDescriptor) (int, error) {
	sql := fmt.Sprintf("SELECT COUNT(*) FROM %s", d.TableName())

	var count int
	if err := s.db.QueryRow(ctx, sql).Scan(&count); err != nil {
		return 0, fmt.Errorf("comptage %s: %w", d.Name, err)
	}
	return count, nil
}

// CreateTableSQL dérive le DDL d'une entité de son descripteur.
// Appelé par le bootstrap au démarrage, idempotent.
func CreateTableSQL(d descriptor.ResourceDescriptor) string {
	var columns []string
	for _, f := range d.AllFields() {
		columns = append(columns, fmt.Sprintf("%s %s", f.Key, columnType(f)))
	}
	return fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)",
		d.TableName(), strings.Join(columns, ",\n\t"),
	)
}

func columnType(f descriptor.FieldDescriptor) string {
	switch f.Key {
	case descriptor.KeyReference:
		return "TEXT PRIMARY KEY"
	case descriptor.KeyLibelle:
		return "TEXT NOT NULL"
	case descriptor.KeyUtilisateur:
		return "TEXT"
	case descriptor.KeyHeure:
		return "TIMESTAMPTZ"
	}

	switch f.Type {
	case descriptor.TypeEntier:
		return "INTEGER"
	case descriptor.TypeBooleen:
		// drapeau 0/1 sur le fil, contrainte portée par la validation applicative
		return "INTEGER"
	case descriptor.TypeDate:
		return "TIMESTAMPTZ"
	default:
		return "TEXT"
	}
}

// scanRecord reconstruit un Record depuis la ligne courante en suivant
// l'ordre des colonnes du descripteur
func scanRecord(d descriptor.ResourceDescriptor, rows pgx.Rows) (dto.Record, error) {
	values, err := rows.Values()
	if err != nil {
		return nil, fmt.Errorf("lecture valeurs %s: %w", d.Name, err)
	}

	fields := d.AllFields()
	if len(values) != len(fields) {
		return nil, fmt.Errorf("entité %s: %d colonnes lues, %d attendues", d.Name, len(values), len(fields))
	}

	record := make(dto.Record, len(fields))
	for i, f := range fields {
		record[f.Key] = values[i]
	}
	return record, nil
}

func columnList(d descriptor.ResourceDescriptor) string {
	fields := d.AllFields()
	keys := make([]string, len(fields))
	for i, f := range fields {
		keys[i] = f.Key
	}
	return strings.Join(keys, ", ")
}
