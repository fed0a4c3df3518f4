/*
csv.go - Flat tabular import/export codec

SCHEMA (exact column order):
  TYPE,ID,DATE,NAME,CYCLE,PLANNED,STATUS,AMOUNT,NOTE

QUOTING:
  Text fields (NAME, NOTE) are always wrapped in double quotes with embedded
  quotes doubled. Numeric and enum fields are never quoted. That is the
  entire escaping rule.

EXPORT:
  One CATEGORY row per category; one TRANSACTION row per transaction, joined
  with its category's CURRENT name/cycle/planned/status (not a stored
  snapshot). A transaction whose category was removed exports blank category
  fields.

IMPORT:
  Best-effort, row by row; a malformed row never aborts the import.
  - CATEGORY rows upsert by id (replace-if-exists, else append) and ensure
    the id appears in its cycle's order sequence. Imported categories get a
    fresh random color and forced type "variable".
  - TRANSACTION rows resolve the category by exact NAME match; with no match
    the raw name is used as a literal (likely dangling) categoryId. Rows
    whose id already exists are skipped, so transaction re-import is
    idempotent. Category re-import is NOT: categories are always overwritten.
*/
package budget

import "strings"

// CSVHeader is the fixed 9-column schema.
var CSVHeader = []string{"TYPE", "ID", "DATE", "NAME", "CYCLE", "PLANNED", "STATUS", "AMOUNT", "NOTE"}

// =============================================================================
// EXPORT
// =============================================================================

// ExportCSV serializes the state to CSV text.
func ExportCSV(s State) string {
	var b strings.Builder
	b.WriteString(strings.Join(CSVHeader, ","))
	for _, c := range s.Categories {
		b.WriteByte('\n')
		writeRow(&b, []string{
			"CATEGORY", c.ID, "", escapeCSV(c.Name), string(c.Cycle), c.Planned.String(), string(c.Status), "", "",
		})
	}
	for _, t := range s.Transactions {
		name, cycle, planned, status := "", "", "", ""
		if c := s.CategoryByID(t.CategoryID); c != nil {
			name, cycle, planned, status = c.Name, string(c.Cycle), c.Planned.String(), string(c.Status)
		}
		b.WriteByte('\n')
		writeRow(&b, []string{
			"TRANSACTION", t.ID, t.Date, escapeCSV(name), cycle, planned, status, t.Amount.String(), escapeCSV(t.Note),
		})
	}
	return b.String()
}

func writeRow(b *strings.Builder, fields []string) {
	b.WriteString(strings.Join(fields, ","))
}

// escapeCSV quote-wraps a text field, doubling embedded quotes.
func escapeCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// =============================================================================
// IMPORT
// =============================================================================

// ImportCSV merges CSV text into the state and returns the merged snapshot.
// The whole import is one logical mutation; the caller pushes a single undo
// entry for it.
func ImportCSV(s State, text string) State {
	lines := splitLines(text)
	if len(lines) == 0 {
		return s
	}
	idx := columnIndex(lines[0])
	next := s.Clone()
	for _, line := range lines[1:] {
		parts := splitCSVLine(line)
		switch field(parts, idx["TYPE"]) {
		case "CATEGORY":
			next = importCategory(next, parts, idx)
		case "TRANSACTION":
			next = importTransaction(next, parts, idx)
		}
	}
	return next
}

func importCategory(s State, parts []string, idx map[string]int) State {
	id := field(parts, idx["ID"])
	if id == "" {
		return s
	}
	cycle := Cycle(field(parts, idx["CYCLE"]))
	if cycle == "" {
		cycle = CycleFirst
	}
	status := Status(field(parts, idx["STATUS"]))
	if status == "" {
		status = StatusActive
	}
	cat := Category{
		ID:      id,
		Name:    field(parts, idx["NAME"]),
		Cycle:   cycle,
		Planned: ParseAmount(field(parts, idx["PLANNED"])),
		Status:  status,
		Color:   RandomColor(), // import never preserves color
		Type:    TypeVariable,  // import never preserves type
	}
	replaced := false
	for i := range s.Categories {
		if s.Categories[i].ID == id {
			s.Categories[i] = cat
			replaced = true
			break
		}
	}
	if !replaced {
		s.Categories = append(s.Categories, cat)
	}
	if indexOf(s.Order[cat.Cycle], id) < 0 {
		s.Order[cat.Cycle] = append(s.Order[cat.Cycle], id)
	}
	return s
}

func importTransaction(s State, parts []string, idx map[string]int) State {
	id := field(parts, idx["ID"])
	if id == "" {
		return s
	}
	for _, t := range s.Transactions {
		if t.ID == id {
			return s // idempotent re-import
		}
	}
	name := field(parts, idx["NAME"])
	categoryID := name // dangling fallback when no category matches
	for _, c := range s.Categories {
		if c.Name == name {
			categoryID = c.ID
			break
		}
	}
	tx := Transaction{
		ID:         id,
		Date:       field(parts, idx["DATE"]),
		CategoryID: categoryID,
		Amount:     ParseAmount(field(parts, idx["AMOUNT"])),
		Note:       field(parts, idx["NOTE"]),
	}
	s.Transactions = append([]Transaction{tx}, s.Transactions...)
	return s
}

// =============================================================================
// LOW-LEVEL PARSING
// =============================================================================

func splitLines(text string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// columnIndex maps header names to positions so column order never has to be
// assumed on import.
func columnIndex(header string) map[string]int {
	idx := make(map[string]int)
	for _, name := range CSVHeader {
		idx[name] = -1
	}
	for i, col := range strings.Split(header, ",") {
		idx[strings.TrimSpace(col)] = i
	}
	return idx
}

// field fetches a column, tolerating short rows: an absent value is an empty
// string, never an error.
func field(parts []string, i int) string {
	if i < 0 || i >= len(parts) {
		return ""
	}
	return parts[i]
}

// splitCSVLine splits one row on unquoted commas, stripping quote wrapping
// and collapsing doubled quotes.
func splitCSVLine(line string) []string {
	var out []string
	var curr strings.Builder
	inQuotes := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case ch == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				curr.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case ch == ',' && !inQuotes:
			out = append(out, curr.String())
			curr.Reset()
		default:
			curr.WriteByte(ch)
		}
	}
	out = append(out, curr.String())
	return out
}
