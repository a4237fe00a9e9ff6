package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"cordoba/internal/domain"
)

// AllowedExtensions lists the accepted upload extensions.
var AllowedExtensions = []string{".csv", ".xlsx", ".xls"}

var byteOrderMark = []byte{0xEF, 0xBB, 0xBF}

// oleContainer is the compound document format of Excel 97-2003 workbooks.
const oleContainer = "application/x-ole-storage"

// decoder turns raw CSV bytes into UTF-8 text; ok is false when the bytes
// are not plausible in that encoding.
type decoder struct {
	name   string
	decode func([]byte) (string, bool)
}

var csvDecoders = []decoder{
	{name: "utf-8", decode: func(b []byte) (string, bool) {
		return string(b), utf8.Valid(b)
	}},
	{name: "iso-8859-1", decode: func(b []byte) (string, bool) {
		// C1 control bytes almost always mean the file is really cp1252.
		for _, c := range b {
			if c >= 0x80 && c <= 0x9F {
				return "", false
			}
		}
		out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
		return string(out), err == nil
	}},
	{name: "windows-1252", decode: func(b []byte) (string, bool) {
		out, err := charmap.Windows1252.NewDecoder().Bytes(b)
		return string(out), err == nil
	}},
}

// CheckExtension validates the file name against AllowedExtensions.
func CheckExtension(fileName string) error {
	ext := strings.ToLower(filepath.Ext(fileName))
	for _, allowed := range AllowedExtensions {
		if ext == allowed {
			return nil
		}
	}
	return &domain.UnsupportedFileError{
		Reason: fmt.Sprintf("tipo de arquivo %q não permitido; use: %s", ext, strings.Join(AllowedExtensions, ", ")),
	}
}

// ReadTable parses an uploaded spreadsheet into a batch. The first non-blank
// row is the header; blank rows are dropped and short rows are padded.
func ReadTable(fileName string, payload []byte) (*domain.Batch, error) {
	if err := CheckExtension(fileName); err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil, domain.ErrEmptyFile
	}

	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		return readCSV(payload)
	case ".xls":
		if isLegacyWorkbook(payload) {
			return nil, &domain.UnsupportedFileError{
				Reason: "arquivos .xls (Excel 97-2003) não são suportados; salve a planilha como .xlsx ou .csv",
			}
		}
		return readExcel(payload)
	default:
		return readExcel(payload)
	}
}

// isLegacyWorkbook reports whether payload is an OLE compound document,
// such as a BIFF .xls workbook.
func isLegacyWorkbook(payload []byte) bool {
	for m := mimetype.Detect(payload); m != nil; m = m.Parent() {
		if m.Is(oleContainer) {
			return true
		}
	}
	return false
}

func readCSV(payload []byte) (*domain.Batch, error) {
	payload = bytes.TrimPrefix(payload, byteOrderMark)

	var lastErr error
	for _, dec := range csvDecoders {
		text, ok := dec.decode(payload)
		if !ok {
			lastErr = fmt.Errorf("content is not valid %s", dec.name)
			continue
		}
		lines, err := parseCSVText(text)
		if err != nil {
			lastErr = fmt.Errorf("%s: %w", dec.name, err)
			continue
		}
		return buildBatch(domain.SourceCSV, lines)
	}
	return nil, &domain.UnsupportedFileError{
		Reason: fmt.Sprintf("não foi possível ler o arquivo CSV: %v", lastErr),
	}
}

type numberedLine struct {
	line  int
	cells []string
}

func parseCSVText(text string) ([]numberedLine, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = sniffDelimiter(text)
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var out []numberedLine
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		line, _ := r.FieldPos(0)
		out = append(out, numberedLine{line: line, cells: record})
	}
	return out, nil
}

// sniffDelimiter picks ';' or tab over ',' when the first non-blank line
// contains more of them.
func sniffDelimiter(text string) rune {
	first := text
	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) != "" {
			first = l
			break
		}
	}
	best, bestCount := ',', strings.Count(first, ",")
	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(first, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

func readExcel(payload []byte) (*domain.Batch, error) {
	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		return nil, &domain.UnsupportedFileError{Reason: fmt.Sprintf("não foi possível abrir a planilha: %v", err)}
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.ErrEmptyFile
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("reading rows from %s: %w", sheets[0], err)
	}

	lines := make([]numberedLine, len(rows))
	for i, r := range rows {
		lines[i] = numberedLine{line: i + 1, cells: r}
	}
	return buildBatch(domain.SourceXLSX, lines)
}

func buildBatch(src domain.SourceFormat, lines []numberedLine) (*domain.Batch, error) {
	batch := &domain.Batch{Source: src}
	for _, l := range lines {
		if isBlank(l.cells) {
			continue
		}
		if batch.Headers == nil {
			batch.Headers = make([]string, len(l.cells))
			for i, h := range l.cells {
				batch.Headers[i] = strings.TrimSpace(h)
			}
			continue
		}
		batch.Rows = append(batch.Rows, domain.BatchRow{
			Line:  l.line,
			Cells: padRow(l.cells, len(batch.Headers)),
		})
	}
	if batch.Headers == nil || len(batch.Rows) == 0 {
		return nil, domain.ErrEmptyFile
	}
	return batch, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func padRow(cells []string, n int) []string {
	if len(cells) >= n {
		return cells
	}
	out := make([]string, n)
	copy(out, cells)
	return out
}
