package cli

import (
	"testing"

	"github.com/pfrederiksen/showlist-watch/internal/pipeline"
	"github.com/pfrederiksen/showlist-watch/internal/show"
	"github.com/stretchr/testify/assert"
)

func TestPreviewRows(t *testing.T) {
	known := mustShow(t, "20250115", "Known", "Mohawk")
	fresh := mustShow(t, "20250116", "Fresh", "Parish")
	result := &pipeline.Result{
		All: []show.Show{fresh, known},
		New: []show.Show{fresh},
	}

	rows := previewRows(result, SortByDate, false)
	if assert.Len(t, rows, 2) {
		assert.Equal(t, "Known", rows[0].Title)
		assert.False(t, rows[0].New)
		assert.Equal(t, "Fresh", rows[1].Title)
		assert.True(t, rows[1].New)
	}

	rows = previewRows(result, SortByDate, true)
	if assert.Len(t, rows, 1) {
		assert.Equal(t, "Fresh", rows[0].Title)
	}
}
