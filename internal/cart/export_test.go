package cart

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []Line{
	{Name: "Salt", Unit: "g", Total: 15},
	{Name: "Milk, whole", Unit: "ml", Total: 500},
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "txt": FormatText, "TEXT": FormatText, "csv": FormatCSV} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("pdf")
	assert.Error(t, err)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sample))
	assert.Equal(t, "Shopping list:\nSalt (g) - 15\nMilk, whole (ml) - 500\n", buf.String())
	assert.Equal(t, "shopping_cart.txt", FormatText.Filename())
	assert.Equal(t, "text/plain; charset=utf-8", FormatText.ContentType())
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatCSV, sample))
	assert.Equal(t, "name,measurement_unit,amount\nSalt,g,15\n\"Milk, whole\",ml,500\n", buf.String())
	assert.Equal(t, "shopping_cart.csv", FormatCSV.Filename())
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, nil))
	assert.Equal(t, "Shopping list:\n", buf.String())
}
