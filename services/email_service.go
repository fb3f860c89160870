package services

import (
	"encoding/base64"
	"fmt"
	"net/smtp"
	"os"
	"strings"

	"golang.org/x/net/html"
)

// Attachment is a file sent alongside an email body.
type Attachment struct {
	Filename string
	MIMEType string
	Data     []byte
}

// Notifier delivers workflow notifications. Handlers treat delivery failures
// as non-fatal: the persisted state change already happened by the time Send
// runs, so errors are logged and surfaced separately, never rolled back.
type Notifier interface {
	Send(recipients []string, subject, htmlBody string, attachment *Attachment) error
}

// EmailService sends notification emails over SMTP. Configuration comes from
// the environment: SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, SMTP_FROM.
type EmailService struct {
	host     string
	port     string
	username string
	password string
	from     string
}

// NewEmailService builds an EmailService from environment settings.
func NewEmailService() *EmailService {
	from := os.Getenv("SMTP_FROM")
	if from == "" {
		from = os.Getenv("SMTP_USER")
	}
	return &EmailService{
		host:     os.Getenv("SMTP_HOST"),
		port:     os.Getenv("SMTP_PORT"),
		username: os.Getenv("SMTP_USER"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     from,
	}
}

// Send delivers one email to all recipients. The HTML body is converted to
// plain text before sending; an optional attachment goes out as a base64 MIME
// part. An empty recipient list is a no-op, not an error.
func (es *EmailService) Send(recipients []string, subject, htmlBody string, attachment *Attachment) error {
	if len(recipients) == 0 {
		return nil
	}
	if es.host == "" {
		return fmt.Errorf("smtp not configured: SMTP_HOST is empty")
	}

	body := convertHTMLToText(htmlBody)
	msg := es.buildMessage(recipients, subject, body, attachment)

	auth := smtp.PlainAuth("", es.username, es.password, es.host)
	addr := es.host + ":" + es.port

	return smtp.SendMail(addr, auth, es.from, recipients, msg)
}

func (es *EmailService) buildMessage(recipients []string, subject, body string, attachment *Attachment) []byte {
	var msg strings.Builder

	msg.WriteString("From: " + es.from + "\r\n")
	msg.WriteString("To: " + strings.Join(recipients, ", ") + "\r\n")
	msg.WriteString("Subject: " + subject + "\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")

	if attachment == nil {
		msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
		msg.WriteString("\r\n")
		msg.WriteString(body)
		msg.WriteString("\r\n")
		return []byte(msg.String())
	}

	const boundary = "MAINTENANCE-MAIL-BOUNDARY"
	msg.WriteString("Content-Type: multipart/mixed; boundary=\"" + boundary + "\"\r\n")
	msg.WriteString("\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	msg.WriteString("--" + boundary + "\r\n")
	msg.WriteString("Content-Type: " + attachment.MIMEType + "; name=\"" + attachment.Filename + "\"\r\n")
	msg.WriteString("Content-Transfer-Encoding: base64\r\n")
	msg.WriteString("Content-Disposition: attachment; filename=\"" + attachment.Filename + "\"\r\n")
	msg.WriteString("\r\n")

	encoded := base64.StdEncoding.EncodeToString(attachment.Data)
	// 76-char lines per RFC 2045
	for len(encoded) > 76 {
		msg.WriteString(encoded[:76] + "\r\n")
		encoded = encoded[76:]
	}
	msg.WriteString(encoded + "\r\n")

	msg.WriteString("--" + boundary + "--\r\n")
	return []byte(msg.String())
}

// convertHTMLToText flattens an HTML body into readable plain text for the
// email payload.
func convertHTMLToText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// If parsing fails, return the original content
		return htmlContent
	}

	var text strings.Builder
	var extractText func(*html.Node)
	extractText = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			// Add line breaks for block elements
			switch n.Data {
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6":
				text.WriteString("\n")
			case "li":
				text.WriteString("- ")
			case "table", "tr":
				text.WriteString("\n")
			case "td", "th":
				text.WriteString(" | ")
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			extractText(child)
		}
	}

	extractText(doc)

	result := text.String()
	result = strings.ReplaceAll(result, "\n\n\n", "\n\n")
	return strings.TrimSpace(result)
}
