package filestore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractTextMarkdown(t *testing.T) {
	source := "# Cronograma\n\nSemana 1: *introducción*\n\n- examen parcial\n- examen final\n"
	text := ExtractText("cronograma.md", []byte(source))
	require.Contains(t, text, "Cronograma")
	require.Contains(t, text, "Semana 1: introducción")
	require.Contains(t, text, "examen parcial")
	require.NotContains(t, text, "#")
	require.NotContains(t, text, "*")
}

func TestExtractTextPlain(t *testing.T) {
	text := ExtractText("notas.txt", []byte("  contenido simple  "))
	require.Equal(t, "contenido simple", text)
}

func TestExtractTextRejectsBinaryInPlainFile(t *testing.T) {
	require.Empty(t, ExtractText("datos.csv", []byte{0xff, 0xfe, 0x00}))
}

func TestExtractTextUnsupportedFormat(t *testing.T) {
	require.Empty(t, ExtractText("silabo.pdf", []byte("%PDF-1.4")))
	require.Empty(t, ExtractText("tarea.docx", []byte("PK")))
	require.Empty(t, ExtractText("sinextension", []byte("hola")))
}
