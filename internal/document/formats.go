package document

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// Gap between two text runs, relative to font size, that counts as a space.
const wordGapRatio = 0.15

var xmlTag = regexp.MustCompile(`<[^>]+>`)

var docxBreaks = strings.NewReplacer(
	"</w:p>", "\n",
	"<w:br/>", "\n",
	"<w:cr/>", "\n",
	"<w:tab/>", "\t",
)

func decodePDF(data []byte) (text string, err error) {
	// The pdf reader panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		b.WriteString(pageText(page))
		b.WriteString("\n")
	}

	return b.String(), nil
}

func pageText(page pdf.Page) string {
	rows, err := page.GetTextByRow()
	if err != nil {
		plain, plainErr := page.GetPlainText(nil)
		if plainErr != nil {
			return ""
		}
		return plain
	}

	var b strings.Builder
	for _, row := range rows {
		prevEnd := -1.0
		for _, run := range row.Content {
			if prevEnd >= 0 && run.X-prevEnd > run.FontSize*wordGapRatio && !strings.HasPrefix(run.S, " ") {
				b.WriteByte(' ')
			}
			b.WriteString(run.S)
			prevEnd = run.X + run.W
		}
		b.WriteString("\n")
	}

	return b.String()
}

func decodeDOCX(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	return docxText(doc.Editable().GetContent()), nil
}

// docxText flattens WordprocessingML into lines, one per paragraph.
func docxText(content string) string {
	content = docxBreaks.Replace(content)
	content = xmlTag.ReplaceAllString(content, "")

	return html.UnescapeString(content)
}
