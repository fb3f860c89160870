package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"maintenance/models"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// RenderRequestSummary builds the HTML email body describing a maintenance
// request. Used for both the new-request notification to approvers and the
// decision notification to the HOD. Items that fail to parse render as an
// empty table rather than failing the notification.
func RenderRequestSummary(req *models.MaintenanceRequest) string {
	var b strings.Builder

	b.WriteString("<h2>Maintenance Request #" + fmt.Sprintf("%d", req.ID) + "</h2>")
	b.WriteString("<p>Title: " + req.Title + "</p>")
	b.WriteString("<p>Submitted by: " + req.HODName + " (" + req.Branch + ")</p>")
	if req.LabName != "" {
		b.WriteString("<p>Lab: " + req.LabName + "</p>")
	}
	b.WriteString("<p>Status: " + req.Status + "</p>")
	if req.AdminRemark != "" {
		b.WriteString("<p>Remark: " + req.AdminRemark + "</p>")
	}
	if req.Description != "" {
		b.WriteString("<p>" + req.Description + "</p>")
	}

	items := models.ItemsOrEmpty(req.SelectedItems)
	if len(items) > 0 {
		b.WriteString("<table><tr><th>Device</th><th>Brand</th><th>Qty</th><th>Price</th></tr>")
		for _, item := range items {
			b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td><td>%d</td><td>%.2f</td></tr>",
				item.Device, item.Brand, item.Quantity, item.Price))
		}
		b.WriteString("</table>")
	}
	b.WriteString(fmt.Sprintf("<p>Total amount: %.2f</p>", req.TotalAmount))

	return b.String()
}

// RenderRequestLetter renders the approval letter PDF for a request. The
// letter is attached to the approval email and also served from the PDF
// download endpoint.
func RenderRequestLetter(req *models.MaintenanceRequest) ([]byte, error) {
	titleCaser := cases.Title(language.Und)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetMargins(10, 10, 10)

	// Header band
	pdf.SetFont("Arial", "B", 24)
	pdf.SetFillColor(240, 240, 240)
	pdf.Rect(10, 10, 190, 15, "F")
	pdf.SetXY(10, 12)
	pdf.Cell(190, 10, "Maintenance Request Letter")
	pdf.Ln(20)

	// Request information box
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(245, 245, 245)
	pdf.Rect(10, pdf.GetY(), 190, 10, "F")
	pdf.SetXY(10, pdf.GetY()+2)
	pdf.Cell(190, 8, "Request Details")
	pdf.Ln(12)

	writeField := func(label, value string) {
		pdf.SetFont("Arial", "", 11)
		pdf.SetXY(10, pdf.GetY())
		pdf.Cell(40, 7, label)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(150, 7, value)
		pdf.Ln(7)
	}

	writeField("Request ID:", fmt.Sprintf("%d", req.ID))
	writeField("Title:", req.Title)
	writeField("Submitted by:", req.HODName)
	writeField("Branch:", req.Branch)
	if req.LabName != "" {
		writeField("Lab:", req.LabName)
	}
	writeField("Status:", req.Status)
	if req.AdminRemark != "" {
		writeField("Remark:", req.AdminRemark)
	}
	writeField("Submitted on:", req.CreatedAt.Format("2006-01-02 15:04:05"))
	writeField("Generated on:", time.Now().Format("2006-01-02 15:04:05"))
	pdf.Ln(5)

	items := models.ItemsOrEmpty(req.SelectedItems)
	if len(items) > 0 {
		// Items table header (shaded)
		pdf.SetFillColor(230, 230, 230)
		pdf.SetFont("Arial", "B", 10)
		pdf.Rect(10, pdf.GetY(), 190, 8, "F")
		pdf.SetXY(10, pdf.GetY())
		pdf.Cell(70, 8, "Device")
		pdf.Cell(50, 8, "Brand")
		pdf.Cell(20, 8, "Qty")
		pdf.Cell(25, 8, "Price")
		pdf.Cell(25, 8, "Subtotal")
		pdf.Ln(8)

		pdf.SetFont("Arial", "", 9)
		for _, item := range items {
			qty := item.Quantity
			if qty < 1 {
				qty = 1
			}
			pdf.Cell(70, 6, titleCaser.String(item.Device))
			pdf.Cell(50, 6, item.Brand)
			pdf.Cell(20, 6, fmt.Sprintf("%d", qty))
			pdf.Cell(25, 6, fmt.Sprintf("%.2f", item.Price))
			pdf.Cell(25, 6, fmt.Sprintf("%.2f", item.Subtotal()))
			pdf.Ln(6)
		}
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(190, 8, fmt.Sprintf("Total Amount: %.2f", req.TotalAmount))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
