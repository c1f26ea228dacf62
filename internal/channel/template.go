package channel

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"bansos-dispatch/internal/model"
)

var complaintTemplate = template.Must(template.New("complaint").Parse(
	`Yth. {{.Department}},

Berikut pengaduan masyarakat yang diteruskan untuk ditindaklanjuti:

No. Tiket : {{.Ticket}}
Judul     : {{.Title}}
Kategori  : {{.Category}}
Prioritas : {{.Priority}}
Status    : {{.Status}}
Pelapor   : {{.Reporter}}
Tanggal   : {{.Date}}

Uraian:
{{.Description}}
{{- if .ImageURL}}

Lampiran foto: {{.ImageURL}}
{{- end}}

Mohon konfirmasi tindak lanjut melalui dashboard admin.
`))

var alertTemplate = template.Must(template.New("alert").Parse(
	`[PERINGATAN {{.Severity}}] Pengaduan prioritas tinggi

No. Tiket : {{.Ticket}}
Judul     : {{.Title}}
Kategori  : {{.Category}}
Diteruskan ke: {{.Department}}

{{.Description}}
`))

type complaintView struct {
	Department  string
	Ticket      string
	Title       string
	Category    string
	Priority    string
	Status      string
	Reporter    string
	Date        string
	Description string
	ImageURL    string
	Severity    string
}

func viewOf(c model.Complaint, departmentName string) complaintView {
	v := complaintView{
		Department:  orDash(departmentName),
		Ticket:      orDash(c.TicketNumber),
		Title:       orDash(c.Title),
		Category:    orDash(c.Category),
		Priority:    orDash(c.Priority),
		Status:      orDash(string(c.Status)),
		Reporter:    orDash(c.ReporterName),
		Description: orDash(strings.TrimSpace(c.Description)),
		ImageURL:    c.ImageURL,
		Date:        "-",
	}
	if v.Reporter == "-" && c.ReporterID != "" {
		v.Reporter = c.ReporterID
	}
	if !c.CreatedAt.IsZero() {
		v.Date = c.CreatedAt.Format("02/01/2006 15:04")
	}
	return v
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func complaintSubject(c model.Complaint) string {
	if c.TicketNumber == "" {
		return fmt.Sprintf("[Pengaduan] %s", c.Title)
	}
	return fmt.Sprintf("[Pengaduan #%s] %s", c.TicketNumber, c.Title)
}

func metadataOf(c model.Complaint, departmentName string) Metadata {
	return Metadata{
		ComplaintID:    c.ID,
		DepartmentName: departmentName,
		Priority:       c.Priority,
	}
}

// RenderComplaint builds the forward message for a department. A non-empty
// custom body replaces the template.
func RenderComplaint(c model.Complaint, d model.Department, custom string) Message {
	msg := Message{
		Subject:  complaintSubject(c),
		Metadata: metadataOf(c, d.Name),
	}
	if strings.TrimSpace(custom) != "" {
		msg.Body = custom
		return msg
	}

	var buf bytes.Buffer
	// the view only holds strings, so Execute cannot fail
	_ = complaintTemplate.Execute(&buf, viewOf(c, d.Name))
	msg.Body = buf.String()
	return msg
}

// RenderAdminAlert builds the administrator alert for a high priority complaint
func RenderAdminAlert(c model.Complaint, departmentName, severity string) Message {
	v := viewOf(c, departmentName)
	v.Severity = strings.ToUpper(orDash(severity))

	var buf bytes.Buffer
	_ = alertTemplate.Execute(&buf, v)
	return Message{
		Subject:  fmt.Sprintf("[%s] %s", v.Severity, complaintSubject(c)),
		Body:     buf.String(),
		Metadata: metadataOf(c, departmentName),
	}
}
