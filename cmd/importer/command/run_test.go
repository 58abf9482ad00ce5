package command

import (
	"bytes"
	"testing"

	"reviewhub/internal/importer"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestPrintSummary(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	printSummary(cmd, importer.Summary{
		Counts:  map[string]int{importer.GenreFile: 2, importer.CategoryFile: 3},
		Skipped: []string{importer.CommentsFile},
	})

	out := buf.String()
	assert.Contains(t, out, "Import complete")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("category.csv")), bytes.Index(buf.Bytes(), []byte("genre.csv")))
	assert.Contains(t, out, "comments.csv     skipped (not found)")
	assert.Contains(t, out, "total            5 rows")
}

func TestRunCommand_Flags(t *testing.T) {
	flag := runCmd.Flags().Lookup("dir")
	if assert.NotNil(t, flag) {
		assert.Equal(t, "d", flag.Shorthand)
	}
	assert.Contains(t, rootCmd.Commands(), runCmd)
}
