package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// PDF emits the laid-out document as PDF bytes. Every page is replayed from
// its buffer and then stamped with a footer carrying the final page count,
// which is only known here, after layout completed.
func (d *Document) PDF() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(d.Title, false)
	pdf.SetAutoPageBreak(false, 0)

	total := len(d.pages)
	for i, p := range d.pages {
		pdf.AddPage()
		for _, o := range p.ops {
			applyOp(pdf, o)
		}
		stampFooter(pdf, i+1, total, d)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to emit PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func applyOp(pdf *gofpdf.Fpdf, o op) {
	switch v := o.(type) {
	case textOp:
		pdf.SetFont("Helvetica", v.style, v.size)
		pdf.SetTextColor(v.col.r, v.col.g, v.col.b)
		pdf.Text(v.x, v.y, v.text)
	case rectOp:
		if v.fill {
			pdf.SetFillColor(v.col.r, v.col.g, v.col.b)
			pdf.Rect(v.x, v.y, v.w, v.h, "F")
		} else {
			pdf.SetDrawColor(v.col.r, v.col.g, v.col.b)
			pdf.Rect(v.x, v.y, v.w, v.h, "D")
		}
	}
}

func stampFooter(pdf *gofpdf.Fpdf, pageNum, total int, d *Document) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(colorGray.r, colorGray.g, colorGray.b)
	pdf.Text(margin, footerY,
		fmt.Sprintf("Generated by Tenant Rights Platform - Page %d of %d", pageNum, total))
	pdf.Text(pageWidth-margin-40, footerY, d.GeneratedAt.Format("1/2/2006"))
}
