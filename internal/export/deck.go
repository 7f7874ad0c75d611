// Package export reads and writes flashcard decks as .xlsx workbooks, so a
// learner can move cards between installations or touch them up in a
// spreadsheet before importing.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"hangul-ai/internal/models"
)

const sheetName = "Flashcards"

var header = []string{"Topic", "Front", "Back", "Example"}

// Entry is one deck row: the card content plus the topic it belongs to.
type Entry struct {
	Topic string
	Card  models.CardContent
}

// WriteDeck writes the cards to a new workbook in dir and returns its path.
// File names get a random suffix so repeated exports never collide.
func WriteDeck(dir string, cards []models.Flashcard) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return "", fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return "", fmt.Errorf("write header: %w", err)
	}
	for i, card := range cards {
		cell := fmt.Sprintf("A%d", i+2)
		row := []string{card.Topic, card.Front, card.Back, card.Example}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return "", fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	path := filepath.Join(dir, fmt.Sprintf("deck-%s.xlsx", uuid.NewString()))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save deck %s: %w", path, err)
	}
	return path, nil
}

// ReadDeck parses a workbook written by WriteDeck (or edited by hand). Rows
// without a front or back are skipped; a header row is detected and ignored.
func ReadDeck(path string) ([]Entry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open deck %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		// Fall back to the first sheet for hand-made workbooks.
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("deck %s has no sheets", path)
		}
		rows, err = f.GetRows(sheets[0])
		if err != nil {
			return nil, fmt.Errorf("read deck rows: %w", err)
		}
	}

	var entries []Entry
	for i, row := range rows {
		if i == 0 && isHeader(row) {
			continue
		}
		entry := Entry{Topic: cell(row, 0)}
		entry.Card = models.CardContent{
			Front:   cell(row, 1),
			Back:    cell(row, 2),
			Example: cell(row, 3),
		}
		if entry.Card.Front == "" || entry.Card.Back == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func isHeader(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), header[0])
}

func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
