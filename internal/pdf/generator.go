package pdf

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"github.com/jung-kurt/gofpdf/contrib/barcode"

	"github.com/fasalrakshak/backend/pkg/model"
	"go.uber.org/zap"
)

const (
	margin        = 15.0
	watermarkSize = 110.0
)

// Assets names the files the generator renders with. Both must exist; a
// report without the official logo or the Devanagari font is not a report.
type Assets struct {
	LogoPath           string
	DevanagariFontPath string
}

// Generator renders bilingual plant disease reports. Each report carries an
// English page set followed by a Hindi page set with identical layout.
type Generator struct {
	assets  Assets
	siteURL string
	logger  *zap.Logger
}

// NewGenerator creates a Generator after verifying both assets exist
func NewGenerator(assets Assets, siteURL string, logger *zap.Logger) (*Generator, error) {
	for _, path := range []string{assets.LogoPath, assets.DevanagariFontPath} {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("report asset unavailable: %w", err)
		}
	}

	return &Generator{
		assets:  assets,
		siteURL: siteURL,
		logger:  logger,
	}, nil
}

// sanitize fills missing fields so the layout never renders blanks, and
// clamps confidence into the displayable 0-100 range.
func sanitize(input model.ReportInput) model.ReportInput {
	if strings.TrimSpace(input.ReportID) == "" {
		input.ReportID = "N/A"
	}
	if strings.TrimSpace(input.Plant) == "" {
		input.Plant = "Unknown"
	}
	if strings.TrimSpace(input.Disease) == "" {
		input.Disease = "No disease detected"
	}
	if strings.TrimSpace(input.Severity) == "" {
		input.Severity = "Medium"
	}
	if strings.TrimSpace(input.Description) == "" {
		input.Description = "Plant disease analysis"
	}

	input.Confidence = math.Round(input.Confidence)
	if input.Confidence < 0 {
		input.Confidence = 0
	}
	if input.Confidence > 100 {
		input.Confidence = 100
	}

	for i, r := range input.Recommendations {
		input.Recommendations[i] = strings.TrimSpace(r)
	}

	return input
}

// Generate renders the report and returns the PDF bytes
func (g *Generator) Generate(input model.ReportInput) ([]byte, error) {
	data := sanitize(input)

	g.logger.Info("rendering report PDF",
		zap.String("report_id", data.ReportID),
		zap.String("plant", data.Plant),
	)

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetAutoPageBreak(false, 0)
	doc.AddUTF8Font(devanagariFamily, "", g.assets.DevanagariFontPath)
	doc.AddUTF8Font(devanagariFamily, "B", g.assets.DevanagariFontPath)

	qrKey := barcode.RegisterQR(doc, g.siteURL, qr.M, qr.Unicode)

	imageName := g.registerScanImage(doc, data.Image)

	p := &page{
		doc:       doc,
		data:      data,
		qrKey:     qrKey,
		imageName: imageName,
		logoPath:  g.assets.LogoPath,
		translate: doc.UnicodeTranslatorFromDescriptor(""),
	}
	p.pageW, p.pageH = doc.GetPageSize()
	p.contentW = p.pageW - margin*2

	for _, lang := range pageOrder {
		doc.AddPage()
		p.render(translations[lang])
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}

	return buf.Bytes(), nil
}

// registerScanImage decodes the optional scan photo and registers it with
// the document. An undecodable image is dropped rather than failing the
// whole report.
func (g *Generator) registerScanImage(doc *gofpdf.Fpdf, dataURI string) string {
	if dataURI == "" {
		return ""
	}

	img, err := model.ParseImageDataURI(dataURI)
	if err != nil {
		g.logger.Warn("scan image unusable, rendering report without it", zap.Error(err))
		return ""
	}

	imageType := "JPEG"
	if img.IsPNG() {
		imageType = "PNG"
	}

	name := "scan"
	doc.RegisterImageOptionsReader(name,
		gofpdf.ImageOptions{ImageType: imageType},
		bytes.NewReader(img.Data),
	)
	if doc.Err() {
		g.logger.Warn("scan image rejected by renderer, rendering report without it",
			zap.Error(doc.Error()))
		doc.ClearError()
		return ""
	}

	return name
}

// page renders one language's page set. It carries the per-document state
// the layout helpers need.
type page struct {
	doc       *gofpdf.Fpdf
	data      model.ReportInput
	qrKey     string
	imageName string
	logoPath  string
	translate func(string) string
	pageW     float64
	pageH     float64
	contentW  float64
}

// text places s at the baseline position, translating to the core font's
// codepage when the page uses a non-UTF8 font.
func (p *page) text(font string, x, y float64, s string) {
	if font == "Arial" {
		s = p.translate(s)
	}
	p.doc.Text(x, y, s)
}

func (p *page) textCentered(font string, cx, y float64, s string) {
	if font == "Arial" {
		s = p.translate(s)
	}
	p.doc.Text(cx-p.doc.GetStringWidth(s)/2, y, s)
}

func (p *page) setFont(family, style string, size float64) {
	p.doc.SetFont(family, style, size)
}

// drawDecorations draws the double border and the centered watermark
func (p *page) drawDecorations() {
	doc := p.doc

	doc.SetDrawColor(46, 125, 50)
	doc.SetLineWidth(0.5)
	doc.Rect(5, 5, p.pageW-10, p.pageH-10, "D")
	doc.SetLineWidth(0.1)
	doc.Rect(6.5, 6.5, p.pageW-13, p.pageH-13, "D")

	doc.SetAlpha(0.4, "Normal")
	doc.ImageOptions(p.logoPath,
		(p.pageW-watermarkSize)/2, (p.pageH-watermarkSize)/2,
		watermarkSize, watermarkSize,
		false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	doc.SetAlpha(1, "Normal")
}

// drawConfidenceBar draws the filled percentage bar with its label
func (p *page) drawConfidenceBar(x, y float64) {
	doc := p.doc
	const barW, barH = 50.0, 5.0

	doc.SetFillColor(230, 230, 230)
	doc.Rect(x, y, barW, barH, "F")

	doc.SetFillColor(46, 125, 50)
	doc.Rect(x, y, barW*p.data.Confidence/100, barH, "F")

	p.setFont("Arial", "", 8)
	doc.SetTextColor(0, 0, 0)
	p.text("Arial", x+barW+2, y+4, fmt.Sprintf("%.0f%%", p.data.Confidence))
}

func (p *page) render(t pageText) {
	doc := p.doc
	y := 25.0

	p.drawDecorations()

	// Header
	doc.ImageOptions(p.logoPath, margin, 12, 22, 22, false,
		gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	p.setFont(t.font, "B", 14)
	doc.SetTextColor(20, 60, 20)
	p.textCentered(t.font, p.pageW/2+10, y, t.title)
	p.setFont(t.font, "", 7.5)
	p.textCentered(t.font, p.pageW/2+10, y+5, t.subtitle)

	y = 42
	doc.SetDrawColor(200, 200, 200)
	doc.SetLineWidth(0.2)
	doc.Line(margin, y, p.pageW-margin, y)

	// Details table
	p.setFont(t.font, "B", 11)
	doc.SetTextColor(20, 60, 20)
	p.text(t.font, margin, y+8, t.details)

	values := [5]string{p.data.ReportID, p.data.Date, p.data.Plant, p.data.Disease, p.data.Severity}
	tableEnd := p.drawDetailsTable(t, y+10, values)

	// Confidence and scan image beside the table
	sideX := margin + p.contentW/1.6 + 5
	p.setFont(t.font, "B", 9)
	doc.SetTextColor(0, 0, 0)
	p.text(t.font, sideX, y+20, t.conf)
	p.drawConfidenceBar(sideX, y+22)

	if p.imageName != "" {
		doc.SetDrawColor(46, 125, 50)
		doc.SetLineWidth(0.2)
		doc.Rect(sideX, y+33, 48, 38, "D")
		doc.ImageOptions(p.imageName, sideX+1, y+34, 46, 36, false,
			gofpdf.ImageOptions{}, 0, "")
	}

	y = tableEnd + 15

	// Disease analysis
	p.setFont(t.font, "B", 11)
	doc.SetTextColor(20, 60, 20)
	p.text(t.font, margin, y, t.analysis)

	p.setFont(t.font, "", 9.5)
	doc.SetTextColor(50, 50, 50)
	desc := p.data.Description
	if t.font == "Arial" {
		desc = p.translate(desc)
	}
	lines := doc.SplitText(desc, p.contentW)
	for i, line := range lines {
		doc.Text(margin, y+6+float64(i)*5, line)
	}
	y += float64(len(lines))*5 + 10

	if y > p.pageH-110 {
		doc.AddPage()
		p.drawDecorations()
		y = 20
	}

	// Recommendations
	p.setFont(t.font, "B", 11)
	doc.SetTextColor(20, 60, 20)
	p.text(t.font, margin, y, t.remedies)
	p.drawRecommendations(t, y+3)

	p.drawFooter(t)
}

// drawDetailsTable renders the label/value grid and returns its bottom edge
func (p *page) drawDetailsTable(t pageText, startY float64, values [5]string) float64 {
	doc := p.doc
	const rowH = 7.0
	labelW := p.contentW / 1.6 * 0.45
	valueW := p.contentW/1.6 - labelW

	doc.SetTextColor(0, 0, 0)
	for i := range t.labels {
		doc.SetXY(margin, startY+float64(i)*rowH)
		p.setFont(t.font, "B", 9)
		p.cell(t.font, labelW, rowH, t.labels[i])
		p.setFont(t.font, "", 9)
		p.cell(t.font, valueW, rowH, values[i])
	}

	return startY + rowH*float64(len(t.labels))
}

func (p *page) cell(font string, w, h float64, s string) {
	if font == "Arial" {
		s = p.translate(s)
	}
	p.doc.CellFormat(w, h, s, "", 0, "L", false, 0, "")
}

// drawRecommendations renders the numbered striped table, breaking to a new
// page before it runs into the footer band.
func (p *page) drawRecommendations(t pageText, startY float64) {
	doc := p.doc
	const numW = 12.0
	const rowPad = 2.0
	textW := p.contentW - numW
	bottom := p.pageH - 65

	y := startY

	drawHead := func() {
		doc.SetFillColor(46, 125, 50)
		doc.SetTextColor(255, 255, 255)
		p.setFont(t.font, "B", 9)
		doc.SetXY(margin, y)
		p.cellFill(t.font, numW, 8, t.tableHead[0])
		p.cellFill(t.font, textW, 8, t.tableHead[1])
		y += 8
	}

	drawHead()

	p.setFont(t.font, "", 9)
	for i, rec := range p.data.Recommendations {
		body := rec
		if t.font == "Arial" {
			body = p.translate(rec)
		}
		lines := doc.SplitText(body, textW-4)
		rowH := float64(len(lines))*5 + rowPad

		if y+rowH > bottom {
			doc.AddPage()
			p.drawDecorations()
			y = 20
			drawHead()
			p.setFont(t.font, "", 9)
		}

		if i%2 == 1 {
			doc.SetFillColor(240, 245, 240)
			doc.Rect(margin, y, p.contentW, rowH, "F")
		}

		doc.SetTextColor(0, 0, 0)
		doc.Text(margin+2, y+5, fmt.Sprintf("%d", i+1))
		for j, line := range lines {
			doc.Text(margin+numW+2, y+5+float64(j)*5, line)
		}

		y += rowH
	}
}

func (p *page) cellFill(font string, w, h float64, s string) {
	if font == "Arial" {
		s = p.translate(s)
	}
	p.doc.CellFormat(w, h, s, "", 0, "L", true, 0, "")
}

// drawFooter renders the fixed disclaimer band. The band is cleared with an
// opaque rectangle first so the watermark and any table overrun never bleed
// into it.
func (p *page) drawFooter(t pageText) {
	doc := p.doc
	footerY := p.pageH - 45

	doc.SetFillColor(255, 255, 255)
	doc.Rect(margin, footerY-5, p.contentW, 42, "F")

	doc.SetDrawColor(200, 200, 200)
	doc.SetLineWidth(0.2)
	doc.Line(margin, footerY, p.pageW-margin, footerY)

	p.setFont(t.font, "B", 9.5)
	doc.SetTextColor(20, 60, 20)
	p.text(t.font, margin, footerY+7, t.disclaimer)

	p.setFont(t.font, "", 8)
	doc.SetTextColor(80, 80, 80)
	disclaimer := t.disclaimerText
	if t.font == "Arial" {
		disclaimer = p.translate(disclaimer)
	}
	doc.SetXY(margin, footerY+9)
	doc.MultiCell(p.contentW-45, 4, disclaimer, "", "L", false)

	barcode.Barcode(doc, p.qrKey, p.pageW-margin-25, footerY+5, 25, 25, false)
	p.setFont(t.font, "", 7)
	doc.SetTextColor(80, 80, 80)
	p.textCentered(t.font, p.pageW-margin-12.5, footerY+33, t.qrText)

	p.setFont("Arial", "", 7)
	doc.SetTextColor(150, 150, 150)
	p.text("Arial", margin, p.pageH-8,
		fmt.Sprintf("Ref: FR-%s | System AI Report | Page %d", p.data.ReportID, doc.PageNo()))
}
