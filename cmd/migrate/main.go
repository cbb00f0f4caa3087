// migrate aplica el esquema embebido de PostgreSQL.
//
// Uso: go run ./cmd/migrate -direction up|down|status [-steps N] [-dsn postgres://...]
// Sin -dsn usa DATABASE_URL o DB_HOST/DB_PORT/... (misma configuración que el API).
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/sucursales-api/internal/infrastructure/postgres"
	"github.com/jhoicas/sucursales-api/pkg/config"
)

const defaultTimeout = 60 * time.Second

type options struct {
	direction string
	steps     int
	dsn       string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("migrate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.direction, "direction", "up", "dirección: up|down|status")
	fs.IntVar(&o.steps, "steps", 0, "migraciones a aplicar/revertir (0 = todas en up, 1 en down)")
	fs.StringVar(&o.dsn, "dsn", "", "DSN de PostgreSQL (por defecto DATABASE_URL / DB_*)")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.direction = strings.ToLower(strings.TrimSpace(o.direction))
	switch o.direction {
	case "up", "down", "status":
	default:
		return o, fmt.Errorf("dirección no soportada: %s (use up|down|status)", o.direction)
	}
	if o.steps < 0 {
		return o, fmt.Errorf("steps no puede ser negativo")
	}
	return o, nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	o, err := parseFlags(args, stderr)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "cargar configuración: %v\n", err)
		return 1
	}
	if o.dsn != "" {
		cfg.DB.DatabaseURL = o.dsn
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(stderr, "conexión a PostgreSQL: %v\n", err)
		return 1
	}
	defer pool.Close()

	m := postgres.NewMigrator(pool)
	switch o.direction {
	case "up":
		err = m.Up(ctx, o.steps)
	case "down":
		err = m.Down(ctx, o.steps)
	}
	if err != nil {
		fmt.Fprintf(stderr, "migrate %s: %v\n", o.direction, err)
		return 1
	}

	version, count, err := m.Status(ctx)
	if err != nil {
		fmt.Fprintf(stderr, "estado de migraciones: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "migrate %s ok: version=%d applied=%d\n", o.direction, version, count)
	return 0
}
