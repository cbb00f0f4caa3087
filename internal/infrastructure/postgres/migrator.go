package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	migrationsGlob    = "sql/migrations/*.sql"
	migrationLockKey  = int64(51207733)
	migrationTableDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

var (
	//go:embed sql/migrations/*.sql
	migrationsFS embed.FS

	migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)
)

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrator aplica el esquema embebido en sql/migrations.
type Migrator struct {
	pool *pgxpool.Pool
}

// NewMigrator construye el migrador sobre el pool.
func NewMigrator(pool *pgxpool.Pool) *Migrator {
	return &Migrator{pool: pool}
}

// Up aplica migraciones pendientes; steps=0 aplica todas.
func (m *Migrator) Up(ctx context.Context, steps int) error {
	return m.withLock(ctx, func(conn *pgxpool.Conn, all []migration) error {
		applied, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		done := 0
		for _, mg := range all {
			if applied[mg.Version] {
				continue
			}
			if err := runMigration(ctx, conn, mg.UpSQL, func(tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mg.Version, mg.Name)
				return err
			}); err != nil {
				return fmt.Errorf("migración up %d_%s: %w", mg.Version, mg.Name, err)
			}
			done++
			if steps > 0 && done >= steps {
				break
			}
		}
		return nil
	})
}

// Down revierte las últimas migraciones; steps<=0 revierte una.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return m.withLock(ctx, func(conn *pgxpool.Conn, all []migration) error {
		byVersion := make(map[int64]migration, len(all))
		for _, mg := range all {
			byVersion[mg.Version] = mg
		}
		rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`, steps)
		if err != nil {
			return fmt.Errorf("consultar migraciones aplicadas: %w", err)
		}
		versions, err := pgx.CollectRows(rows, pgx.RowTo[int64])
		if err != nil {
			return fmt.Errorf("leer migraciones aplicadas: %w", err)
		}
		for _, v := range versions {
			mg, ok := byVersion[v]
			if !ok {
				return fmt.Errorf("no se puede revertir la versión desconocida %d", v)
			}
			if err := runMigration(ctx, conn, mg.DownSQL, func(tx pgx.Tx) error {
				_, err := tx.Exec(ctx, `DELETE FROM schema_migrations WHERE version = $1`, mg.Version)
				return err
			}); err != nil {
				return fmt.Errorf("migración down %d_%s: %w", mg.Version, mg.Name, err)
			}
		}
		return nil
	})
}

// Status devuelve la versión actual y la cantidad de migraciones aplicadas.
func (m *Migrator) Status(ctx context.Context) (int64, int, error) {
	if _, err := m.pool.Exec(ctx, migrationTableDDL); err != nil {
		return 0, 0, fmt.Errorf("crear tabla de migraciones: %w", err)
	}
	var (
		version int64
		count   int
	)
	err := m.pool.QueryRow(ctx, `SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`).Scan(&version, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("consultar estado de migraciones: %w", err)
	}
	return version, count, nil
}

// withLock toma un advisory lock en una conexión dedicada para que dos procesos no migren a la vez.
func (m *Migrator) withLock(ctx context.Context, fn func(conn *pgxpool.Conn, all []migration) error) error {
	all, err := loadMigrations(migrationsFS)
	if err != nil {
		return err
	}
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("obtener conexión: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, migrationLockKey); err != nil {
		return fmt.Errorf("tomar lock de migración: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, migrationLockKey)
	}()

	if _, err := conn.Exec(ctx, migrationTableDDL); err != nil {
		return fmt.Errorf("crear tabla de migraciones: %w", err)
	}
	return fn(conn, all)
}

func runMigration(ctx context.Context, conn *pgxpool.Conn, body string, record func(tx pgx.Tx) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	if _, err := tx.Exec(ctx, body); err != nil {
		return err
	}
	if err := record(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func appliedVersions(ctx context.Context, conn *pgxpool.Conn) (map[int64]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("consultar migraciones aplicadas: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("leer migraciones aplicadas: %w", err)
	}
	out := make(map[int64]bool, len(versions))
	for _, v := range versions {
		out[v] = true
	}
	return out, nil
}

// loadMigrations agrupa archivos NNNN_nombre.{up,down}.sql por versión, ordenados ascendente.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, migrationsGlob)
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no hay archivos de migración")
	}

	byVersion := make(map[int64]*migration)
	for _, file := range files {
		base := path.Base(file)
		match := migrationFilePattern.FindStringSubmatch(base)
		if len(match) != 4 {
			return nil, fmt.Errorf("nombre de migración inválido: %s", base)
		}
		version, err := strconv.ParseInt(match[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("versión inválida en %s: %w", base, err)
		}
		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migración vacía: %s", base)
		}

		mg, ok := byVersion[version]
		if !ok {
			mg = &migration{Version: version, Name: match[2]}
			byVersion[version] = mg
		} else if mg.Name != match[2] {
			return nil, fmt.Errorf("nombres distintos para la versión %d: %s vs %s", version, mg.Name, match[2])
		}

		target := &mg.UpSQL
		if match[3] == "down" {
			target = &mg.DownSQL
		}
		if *target != "" {
			return nil, fmt.Errorf("migración %s duplicada para la versión %d", match[3], version)
		}
		*target = body
	}

	out := make([]migration, 0, len(byVersion))
	for _, mg := range byVersion {
		if mg.UpSQL == "" || mg.DownSQL == "" {
			return nil, fmt.Errorf("la migración %d_%s requiere archivos up y down", mg.Version, mg.Name)
		}
		out = append(out, *mg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
