// seed genera un script SQL que carga el catálogo de productos de una sucursal
// a partir de la exportación CSV del sistema anterior (separador ';', ISO-8859-1 por defecto).
//
// Columnas esperadas: sku;nombre;unidad;precio;costo[;codigo_barras]
// La primera fila se toma como encabezado si su columna de precio no es numérica.
//
// Uso: go run ./cmd/seed -branch <id> [-charset latin1|utf8] [-out catalogo.sql] catalogo.csv
package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type catalogRow struct {
	SKU     string
	Name    string
	Unit    string
	Price   decimal.Decimal
	Cost    decimal.Decimal
	Barcode string
}

func main() {
	branchID := flag.String("branch", "", "ID de la sucursal destino (requerido)")
	charset := flag.String("charset", "latin1", "codificación del CSV: latin1|utf8")
	outPath := flag.String("out", "", "archivo de salida (por defecto stdout)")
	flag.Parse()

	if *branchID == "" || flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed -branch <id> [-charset latin1|utf8] [-out archivo.sql] catalogo.csv")
		os.Exit(2)
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	in, err := decodeReader(f, *charset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	rows, err := parseCatalog(in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		file, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer file.Close()
		out = file
	}
	bw := bufio.NewWriter(out)
	writeSQL(bw, *branchID, rows, uuid.NewString)
	if err := bw.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generados %d productos para la sucursal %s\n", len(rows), *branchID)
}

// decodeReader convierte la entrada a UTF-8 según charset.
func decodeReader(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToLower(charset) {
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "windows-1252", "cp1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "utf8", "utf-8":
		return r, nil
	}
	return nil, fmt.Errorf("charset no soportado: %s", charset)
}

func parseCatalog(r io.Reader) ([]catalogRow, error) {
	cr := csv.NewReader(r)
	cr.Comma = ';'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []catalogRow
	seen := map[string]bool{}
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(rec) < 5 {
			return nil, fmt.Errorf("línea %d: se esperaban al menos 5 columnas, hay %d", line, len(rec))
		}
		price, perr := parseAmount(rec[3])
		if perr != nil && line == 1 {
			continue // encabezado
		}
		if perr != nil {
			return nil, fmt.Errorf("línea %d: precio %q: %w", line, rec[3], perr)
		}
		cost, err := parseAmount(rec[4])
		if err != nil {
			return nil, fmt.Errorf("línea %d: costo %q: %w", line, rec[4], err)
		}
		row := catalogRow{
			SKU:   strings.TrimSpace(rec[0]),
			Name:  strings.TrimSpace(rec[1]),
			Unit:  strings.TrimSpace(rec[2]),
			Price: price,
			Cost:  cost,
		}
		if len(rec) > 5 {
			row.Barcode = strings.TrimSpace(rec[5])
		}
		if row.SKU == "" || row.Name == "" {
			return nil, fmt.Errorf("línea %d: sku y nombre son requeridos", line)
		}
		if row.Unit == "" {
			row.Unit = "und"
		}
		if price.IsNegative() || cost.IsNegative() {
			return nil, fmt.Errorf("línea %d: montos negativos", line)
		}
		// La última aparición de un SKU gana.
		if seen[row.SKU] {
			for i := range rows {
				if rows[i].SKU == row.SKU {
					rows[i] = row
				}
			}
			continue
		}
		seen[row.SKU] = true
		rows = append(rows, row)
	}
	return rows, nil
}

// parseAmount acepta "1234.50" y el formato local "1.234,50".
func parseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return decimal.Zero, nil
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// writeSQL el costo solo se fija al insertar: en productos existentes lo mantienen las compras.
func writeSQL(w io.Writer, branchID string, rows []catalogRow, newID func() string) {
	fmt.Fprintf(w, "-- Catálogo de productos para la sucursal %s\n", branchID)
	fmt.Fprintf(w, "-- %d productos\n\n", len(rows))
	for _, r := range rows {
		fmt.Fprintf(w, "INSERT INTO products (id, branch_id, name, sku, barcode, price, cost, unit)\n")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', '%s', '%s', %s, %s, '%s')\n",
			newID(), escapeSQL(branchID), escapeSQL(r.Name), escapeSQL(r.SKU), escapeSQL(r.Barcode),
			r.Price.String(), r.Cost.String(), escapeSQL(r.Unit))
		fmt.Fprintf(w, "ON CONFLICT (branch_id, sku) DO UPDATE SET name = EXCLUDED.name, barcode = EXCLUDED.barcode,\n")
		fmt.Fprintf(w, "  price = EXCLUDED.price, unit = EXCLUDED.unit, updated_at = NOW();\n")
	}
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
