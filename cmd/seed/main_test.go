package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCatalog_Latin1(t *testing.T) {
	// "Café" y "Azúcar" en ISO-8859-1
	raw := []byte("sku;nombre;unidad;precio;costo;barras\n" +
		"CAF-01;Caf\xe9 molido;und;12.500,00;9000;7701234\n" +
		"AZU-01;Az\xfacar 1kg;;4200.5;3100\n")

	in, err := decodeReader(bytes.NewReader(raw), "latin1")
	require.NoError(t, err)
	rows, err := parseCatalog(in)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Café molido", rows[0].Name)
	assert.True(t, rows[0].Price.Equal(decimal.NewFromInt(12500)), rows[0].Price.String())
	assert.True(t, rows[0].Cost.Equal(decimal.NewFromInt(9000)))
	assert.Equal(t, "7701234", rows[0].Barcode)

	assert.Equal(t, "Azúcar 1kg", rows[1].Name)
	assert.Equal(t, "und", rows[1].Unit)
	assert.True(t, rows[1].Price.Equal(decimal.RequireFromString("4200.5")))
}

func TestParseCatalog_Errors(t *testing.T) {
	_, err := parseCatalog(strings.NewReader("A;B;und;x;1\nC;D;und;abc;1\n"))
	assert.Error(t, err)

	_, err = parseCatalog(strings.NewReader("A;B;und\n"))
	assert.Error(t, err)

	_, err = parseCatalog(strings.NewReader("A;B;und;1;-2\n"))
	assert.Error(t, err)

	_, err = decodeReader(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

func TestParseCatalog_DuplicateSKULastWins(t *testing.T) {
	rows, err := parseCatalog(strings.NewReader("A;Primero;und;1;1\nA;Segundo;und;2;1\n"))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Segundo", rows[0].Name)
}

func TestWriteSQL(t *testing.T) {
	var buf bytes.Buffer
	rows := []catalogRow{{SKU: "A-1", Name: "Maní 'tostado'", Unit: "und", Price: decimal.NewFromInt(5), Cost: decimal.NewFromInt(3)}}
	writeSQL(&buf, "b1", rows, func() string { return "id-1" })

	out := buf.String()
	assert.Contains(t, out, "VALUES ('id-1', 'b1', 'Maní ''tostado''', 'A-1', '', 5, 3, 'und')")
	assert.Contains(t, out, "ON CONFLICT (branch_id, sku)")
	assert.NotContains(t, out, "cost = EXCLUDED.cost")
}
