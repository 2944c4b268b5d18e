package pipeline

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"cargue/internal"
	"cargue/internal/util"
)

// preferredSheet is the canonical structures sheet name. Workbooks that
// renamed it are scored by their header keywords instead.
const preferredSheet = "Estructuras_N1-N2-N3"

// Header keyword groups that identify a structures sheet. A group
// counts once when any of its words appears in the candidate headers.
var sheetKeywordGroups = [][]string{
	{"norma"},
	{"poblacion", "municipio"},
	{"unidad constructiva"},
	{"codigo inventario", "codigo de inventario"},
	{"material"},
	{"altura"},
}

var (
	reLinkCell   = regexp.MustCompile(`^P\d+$`)
	reOpCodeCell = regexp.MustCompile(`Z-?\d{5,}`)
)

// Extraction is the raw content pulled from one workbook: the selected
// sheet, its data rows flattened to header-keyed maps, and the
// link-to-operational-code pairs found anywhere on the sheet.
type Extraction struct {
	Sheet     string
	HeaderRow int
	Rows      []internal.RawRow
	OpCodes   map[string]string
}

// ExtractWorkbook opens an xlsx file and pulls the structures sheet.
func ExtractWorkbook(path string) (*Extraction, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	return extractFile(f)
}

func extractFile(f *excelize.File) (*Extraction, error) {
	sheet, err := selectSheet(f)
	if err != nil {
		return nil, err
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}

	headerRow := detectHeaderRow(rows)
	if headerRow < 0 {
		return nil, fmt.Errorf("sheet %s: no header row in the first three rows", sheet)
	}

	headers := rows[headerRow]
	out := &Extraction{
		Sheet:     sheet,
		HeaderRow: headerRow,
		OpCodes:   map[string]string{},
	}

	for _, row := range rows[headerRow+1:] {
		raw := internal.RawRow{}
		empty := true
		for i, h := range headers {
			h = strings.TrimSpace(h)
			if h == "" {
				continue
			}
			cell := ""
			if i < len(row) {
				cell = util.CleanCell(row[i])
			}
			raw[h] = cell
			if cell != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		out.Rows = append(out.Rows, raw)
	}

	collectOpCodes(rows, out.OpCodes)
	return out, nil
}

// selectSheet prefers the canonical structures sheet and otherwise
// scores every sheet by its identifying header keywords.
func selectSheet(f *excelize.File) (string, error) {
	sheets := f.GetSheetList()
	for _, s := range sheets {
		if s == preferredSheet {
			return s, nil
		}
	}

	bestSheet := ""
	bestScore := 0
	for _, s := range sheets {
		rows, err := f.GetRows(s)
		if err != nil {
			continue
		}
		score := scoreSheet(rows)
		if score > bestScore {
			bestScore = score
			bestSheet = s
		}
	}
	if bestSheet == "" {
		return "", fmt.Errorf("no structures sheet among %v", sheets)
	}
	return bestSheet, nil
}

func scoreSheet(rows [][]string) int {
	headers := []string{}
	for i := 0; i < len(rows) && i < 3; i++ {
		for _, h := range rows[i] {
			headers = append(headers, util.NormalizeKey(h))
		}
	}

	score := 0
	for _, group := range sheetKeywordGroups {
		for _, kw := range group {
			if containsKeyword(headers, kw) {
				score++
				break
			}
		}
	}
	return score
}

func containsKeyword(headers []string, kw string) bool {
	for _, h := range headers {
		if strings.Contains(h, kw) {
			return true
		}
	}
	return false
}

// detectHeaderRow finds the header among the first three rows: the
// first row with more than three usable header cells wins. Exported
// spreadsheets often carry a title row and unnamed filler columns.
func detectHeaderRow(rows [][]string) int {
	for i := 0; i < len(rows) && i < 3; i++ {
		valid := 0
		for _, cell := range rows[i] {
			c := strings.TrimSpace(cell)
			if c == "" || strings.HasPrefix(c, "Unnamed") || strings.EqualFold(c, "nan") {
				continue
			}
			valid++
		}
		if valid > 3 {
			return i
		}
	}
	return -1
}

// collectOpCodes scans every cell for link identifiers and operational
// codes that share a row, independent of column layout.
func collectOpCodes(rows [][]string, out map[string]string) {
	for _, row := range rows {
		link := ""
		code := ""
		for _, cell := range row {
			c := strings.TrimSpace(cell)
			if link == "" && reLinkCell.MatchString(c) {
				link = c
			}
			if code == "" {
				if m := reOpCodeCell.FindString(c); m != "" {
					code = ExtractOpCode(m)
				}
			}
		}
		if link != "" && code != "" {
			out[link] = code
		}
	}
}

// BuildRecords maps extracted rows to pipeline records and attaches the
// operational code found on the same sheet row as the record's link.
func BuildRecords(ex *Extraction) []*internal.Record {
	records := make([]*internal.Record, 0, len(ex.Rows))
	for i, row := range ex.Rows {
		r := buildRecord(row, i)
		if r.Marcacion == "" && r.Enlace != "" {
			if code, ok := ex.OpCodes[r.Enlace]; ok {
				r.Marcacion = code
			}
		}
		records = append(records, r)
	}
	return records
}
