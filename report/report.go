// Package report renders a persisted analysis record into a paginated PDF
// document. Layout runs first into an intermediate list of page buffers;
// footers are stamped during emission, once the total page count is known.
package report

import (
	"fmt"
	"strings"
	"time"

	"leaseguard-backend/models"
)

const (
	pageWidth  = 210.0
	pageHeight = 297.0
	margin     = 20.0
	footerY    = pageHeight - 10
)

type color struct {
	r, g, b int
}

var (
	colorBlack  = color{0, 0, 0}
	colorWhite  = color{255, 255, 255}
	colorGray   = color{100, 100, 100}
	colorBorder = color{200, 200, 200}
	colorGreen  = color{34, 197, 94}
	colorYellow = color{234, 179, 8}
	colorRed    = color{239, 68, 68}
	colorBand   = color{3, 2, 19}
)

// op is a single drawing command on a page
type op interface{}

type textOp struct {
	x, y  float64
	size  float64
	style string
	col   color
	text  string
}

type rectOp struct {
	x, y, w, h float64
	col        color
	fill       bool
}

type page struct {
	ops []op
}

// Document is the rendered report: an ordered list of page buffers plus the
// metadata needed to emit and name the artifact
type Document struct {
	pages       []*page
	Title       string
	GeneratedAt time.Time
}

// PageCount returns the number of laid-out pages
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Render lays out the full report for a record. It is a pure function of the
// record and the generation time.
func Render(record *models.AnalysisRecord, generatedAt time.Time) *Document {
	r := &renderer{doc: &Document{
		Title:       "Lease Analysis Report",
		GeneratedAt: generatedAt,
	}}
	r.addPage()

	r.titleBand(record)
	r.documentInfo(record)
	r.overallScore(record)
	r.authenticity(record)
	r.riskAssessment(record)
	r.issues(record)
	r.locationAdvice(record)
	r.recommendations(record)
	r.verificationNotes(record)

	return r.doc
}

// FileName derives the artifact name from the analyzed document's name and
// the generation date
func FileName(record *models.AnalysisRecord, generatedAt time.Time) string {
	normalized := strings.Map(func(c rune) rune {
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			return c
		}
		return '_'
	}, record.FileName)
	return fmt.Sprintf("lease-analysis-%s-%s.pdf",
		strings.ToLower(normalized), generatedAt.Format("2006-01-02"))
}

// renderer accumulates pages behind a single vertical layout cursor
type renderer struct {
	doc *Document
	y   float64
}

func (r *renderer) addPage() {
	r.doc.pages = append(r.doc.pages, &page{})
	r.y = margin
}

func (r *renderer) cur() *page {
	return r.doc.pages[len(r.doc.pages)-1]
}

// ensure inserts a page break when the estimated height no longer fits.
// One break policy for the whole document.
func (r *renderer) ensure(needed float64) {
	if r.y+needed > pageHeight-margin {
		r.addPage()
	}
}

func (r *renderer) text(x, y, size float64, style string, col color, s string) {
	r.cur().ops = append(r.cur().ops, textOp{x: x, y: y, size: size, style: style, col: col, text: s})
}

func (r *renderer) rect(x, y, w, h float64, col color, fill bool) {
	r.cur().ops = append(r.cur().ops, rectOp{x: x, y: y, w: w, h: h, col: col, fill: fill})
}

// wrapped writes word-wrapped text and advances the cursor past it
func (r *renderer) wrapped(s string, x, maxWidth, size float64, col color) {
	lineHeight := size * 0.42
	for _, line := range wrapText(s, maxWidth, size) {
		r.text(x, r.y, size, "", col, line)
		r.y += lineHeight
	}
}

func (r *renderer) sectionHeader(title string) {
	r.text(margin, r.y, 16, "B", colorBlack, title)
	r.y += 15
}

func (r *renderer) titleBand(record *models.AnalysisRecord) {
	r.rect(0, 0, pageWidth, 40, colorBand, true)
	r.text(margin, 25, 24, "B", colorWhite, r.doc.Title)
	if record.AIPowered {
		r.text(margin, 35, 12, "", colorWhite, "AI-Powered Analysis with Gemini")
	}
	r.y = 60
}

func (r *renderer) documentInfo(record *models.AnalysisRecord) {
	r.sectionHeader("Document Information")

	r.text(margin, r.y, 12, "", colorBlack, fmt.Sprintf("File Name: %s", record.FileName))
	r.y += 10
	r.text(margin, r.y, 12, "", colorBlack,
		fmt.Sprintf("Analysis Date: %s", record.AnalysisDate.Format("January 2, 2006")))
	r.y += 10
	if record.Location != "" {
		r.text(margin, r.y, 12, "", colorBlack, fmt.Sprintf("Location: %s", record.Location))
		r.y += 10
	}
	r.y += 10
}

func (r *renderer) overallScore(record *models.AnalysisRecord) {
	r.ensure(50)
	r.sectionHeader("Overall Assessment")

	barWidth := float64(record.OverallScore) / 100 * 100
	r.rect(margin, r.y, barWidth, 8, scoreColor(record.OverallScore), true)
	r.rect(margin, r.y, 100, 8, colorBorder, false)
	r.text(margin+110, r.y+6, 14, "", colorBlack, fmt.Sprintf("%d%%", record.OverallScore))
	r.y += 25
}

func (r *renderer) authenticity(record *models.AnalysisRecord) {
	auth := record.DocumentAuthenticity

	r.ensure(60)
	r.sectionHeader("Document Verification")

	verdict := "Document Appears Legitimate"
	verdictColor := colorGreen
	if !auth.IsLegitimate {
		verdict = "Document Verification Failed"
		verdictColor = colorRed
	}
	r.text(margin, r.y, 12, "", verdictColor, verdict)
	r.y += 10

	r.text(margin, r.y, 12, "", colorBlack, fmt.Sprintf("Confidence: %d%%", auth.Confidence))
	r.y += 15

	if len(auth.Concerns) > 0 {
		r.text(margin, r.y, 12, "", colorBlack, "Verification Concerns:")
		r.y += 10
		for _, concern := range auth.Concerns {
			r.wrapped(fmt.Sprintf("- %s", concern), margin+10, pageWidth-margin*2-10, 10, colorBlack)
			r.y += 5
		}
	}
	r.y += 10
}

func (r *renderer) riskAssessment(record *models.AnalysisRecord) {
	risk := record.RiskAssessment

	r.ensure(70)
	r.sectionHeader("Risk Assessment")

	r.text(margin, r.y, 12, "", colorBlack, fmt.Sprintf("High Risk Issues: %d", risk.HighRisk))
	r.y += 10
	r.text(margin, r.y, 12, "", colorBlack, fmt.Sprintf("Medium Risk Issues: %d", risk.MediumRisk))
	r.y += 10
	r.text(margin, r.y, 12, "", colorBlack, fmt.Sprintf("Low Risk Issues: %d", risk.LowRisk))
	r.y += 10

	r.text(margin, r.y, 12, "B", riskColor(risk.OverallRiskLevel),
		fmt.Sprintf("Overall Risk Level: %s", strings.ToUpper(string(risk.OverallRiskLevel))))
	r.y += 20
}

func (r *renderer) issues(record *models.AnalysisRecord) {
	if len(record.Issues) == 0 {
		return
	}

	r.ensure(40)
	r.sectionHeader("Issues Identified")

	for i, issue := range record.Issues {
		r.ensure(60)

		r.text(margin, r.y, 12, "B", colorBlack, fmt.Sprintf("%d. %s", i+1, issue.Title))
		r.text(margin+120, r.y, 12, "B", severityColor(issue.Severity),
			fmt.Sprintf("[%s]", strings.ToUpper(string(issue.Severity))))
		r.y += 10

		r.wrapped(issue.Description, margin+5, pageWidth-margin*2-5, 10, colorBlack)
		r.y += 5

		if issue.ClauseReference != "" {
			r.wrapped(fmt.Sprintf("Clause Reference: %s", issue.ClauseReference),
				margin+5, pageWidth-margin*2-5, 10, colorGray)
			r.y += 3
		}

		r.wrapped(fmt.Sprintf("Suggestion: %s", issue.Suggestion),
			margin+5, pageWidth-margin*2-5, 11, colorBlack)
		r.y += 5

		if issue.LegalBasis != "" {
			r.wrapped(fmt.Sprintf("Legal Basis: %s", issue.LegalBasis),
				margin+5, pageWidth-margin*2-5, 10, colorGray)
			r.y += 5
		}

		r.y += 10
	}
}

func (r *renderer) locationAdvice(record *models.AnalysisRecord) {
	if len(record.LocationSpecificAdvice) == 0 {
		return
	}

	r.ensure(40)
	r.text(margin, r.y, 16, "B", colorBlack, "Location-Specific Advice")
	if record.Location != "" {
		r.text(margin+120, r.y, 12, "", colorGray, fmt.Sprintf("(%s)", record.Location))
	}
	r.y += 15

	for i, advice := range record.LocationSpecificAdvice {
		r.ensure(20)
		r.wrapped(fmt.Sprintf("%d. %s", i+1, advice), margin, pageWidth-margin*2, 12, colorBlack)
		r.y += 8
	}
	r.y += 10
}

// recommendations always renders, even when empty: an empty list is an empty
// section, not an omitted one
func (r *renderer) recommendations(record *models.AnalysisRecord) {
	r.ensure(40)
	r.sectionHeader("General Recommendations")

	for i, rec := range record.Recommendations {
		r.ensure(20)
		r.wrapped(fmt.Sprintf("%d. %s", i+1, rec), margin, pageWidth-margin*2, 12, colorBlack)
		r.y += 8
	}
}

func (r *renderer) verificationNotes(record *models.AnalysisRecord) {
	if len(record.VerificationNotes) == 0 {
		return
	}

	r.y += 10
	r.ensure(40)
	r.sectionHeader("Verification Notes")

	for _, note := range record.VerificationNotes {
		r.ensure(15)
		r.wrapped(fmt.Sprintf("- %s", note), margin, pageWidth-margin*2, 11, colorGray)
		r.y += 8
	}
}

// scoreColor keys the three-tier palette off the tenant-friendliness score
func scoreColor(score int) color {
	switch {
	case score >= 80:
		return colorGreen
	case score >= 60:
		return colorYellow
	default:
		return colorRed
	}
}

func severityColor(severity models.Severity) color {
	switch severity {
	case models.SeverityHigh:
		return colorRed
	case models.SeverityMedium:
		return colorYellow
	default:
		return colorGreen
	}
}

func riskColor(level models.RiskLevel) color {
	switch level {
	case models.RiskLevelHigh:
		return colorRed
	case models.RiskLevelMedium:
		return colorYellow
	default:
		return colorGreen
	}
}

// wrapText breaks text into lines that fit maxWidth at the given font size,
// using an average glyph width. Layout stays deterministic and independent
// of the PDF backend's font metrics.
func wrapText(text string, maxWidth, fontSize float64) []string {
	charWidth := fontSize * 0.1764
	limit := int(maxWidth / charWidth)
	if limit < 1 {
		limit = 1
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > limit {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)
	return lines
}
