package importer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbenali/autostock/internal/catalog"
	"github.com/sbenali/autostock/internal/importer"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("skips preamble rows and parses data below the header", func(t *testing.T) {
		t.Parallel()

		input := strings.Join([]string{
			"Catalogue export;;;;;;",
			"Généré le 12/03/2024;;;;;;",
			"Référence;Désignation;Famille;TVA (%);Prix Achat HT (DZD);Prix Vente Détail HT (DZD);Stock Disponible;Unité;Périssable",
			"FLT-001;Filtre à huile;Filtration;19;450,00;780,50;12;Pièce;NON",
			"PLQ-204;Plaquettes avant;Freinage;;1.250,00;1.890,00;4;Jeu;OUI",
			";;;;;;;;",
		}, "\n")

		got, err := importer.NewService().Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, got, 2)

		assert.Equal(t, "FLT-001", got[0].Reference)
		assert.Equal(t, "Filtre à huile", got[0].Designation)
		assert.Equal(t, "Filtration", got[0].Family)
		assert.Equal(t, float64(19), got[0].VATRate)
		assert.Equal(t, int64(45000), got[0].PurchasePriceHT)
		assert.Equal(t, int64(78050), got[0].RetailPriceHT)
		assert.Equal(t, 12, got[0].Quantity)
		assert.Equal(t, catalog.UnitPiece, got[0].Unit)
		assert.False(t, got[0].Perishable)

		assert.Equal(t, "PLQ-204", got[1].Reference)
		assert.Equal(t, float64(19), got[1].VATRate, "blank VAT falls back to the default rate")
		assert.Equal(t, int64(125000), got[1].PurchasePriceHT, "thousand separators are stripped")
		assert.Equal(t, catalog.UnitSet, got[1].Unit)
		assert.True(t, got[1].Perishable)
	})

	t.Run("accepts comma-delimited files", func(t *testing.T) {
		t.Parallel()

		input := strings.Join([]string{
			"Référence,Désignation,Stock Disponible",
			"BAT-12V,Batterie 12V 60Ah,7",
		}, "\n")

		got, err := importer.NewService().Parse(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, got, 1)

		assert.Equal(t, "BAT-12V", got[0].Reference)
		assert.Equal(t, "Batterie 12V 60Ah", got[0].Designation)
		assert.Equal(t, 7, got[0].Quantity)
	})

	t.Run("decodes legacy windows-1252 exports", func(t *testing.T) {
		t.Parallel()

		// "Référence;Désignation" with 0xE9 for the accented e.
		header := []byte("R\xe9f\xe9rence;D\xe9signation\n")
		row := []byte("AMT-7;Amortisseur arri\xe8re\n")

		got, err := importer.NewService().Parse(strings.NewReader(string(header) + string(row)))
		require.NoError(t, err)
		require.Len(t, got, 1)

		assert.Equal(t, "AMT-7", got[0].Reference)
		assert.Equal(t, "Amortisseur arrière", got[0].Designation)
	})

	t.Run("rejects files without the expected columns", func(t *testing.T) {
		t.Parallel()

		_, err := importer.NewService().Parse(strings.NewReader("foo;bar\n1;2\n"))
		assert.ErrorContains(t, err, "no header row found")
	})
}
