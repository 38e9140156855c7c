// Package pdf renders the summary documents attached to case mutations: the
// claim summary on submission and the application/response summaries for the
// TSE workflow. Output is a minimal single-page PDF; the tribunal's document
// pipeline only needs a readable record of what the citizen submitted.
package pdf

import (
	"fmt"
	"time"

	"github.com/hmcts/et-case-api/internal/cases/models"
	"github.com/hmcts/et-case-api/internal/docstore"
)

// Renderer builds summary documents. The clock is injectable for tests.
type Renderer struct {
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{now: time.Now}
}

// ClaimSummary renders the check-your-answers record of a submitted claim.
func (r *Renderer) ClaimSummary(data models.CaseData, caseID string) (docstore.File, error) {
	lines := []string{
		"Employment Tribunal claim",
		"",
		"Case number: " + caseID,
		"Claimant: " + data.ClaimantIndType.FullName(),
		"Respondents: " + data.RespondentNames(),
		"Managing office: " + data.ManagingOffice,
		"Submitted: " + models.FormatDate(r.now()),
	}
	return render("ET1 - "+caseID+".pdf", lines)
}

// ApplicationSummary renders the check-your-answers record of a TSE
// application before it is committed to the case.
func (r *Renderer) ApplicationSummary(data models.CaseData, app models.ClaimantTse, caseID string) (docstore.File, error) {
	if app.ContactApplicationType == "" {
		return docstore.File{}, fmt.Errorf("application has no type")
	}
	label := models.ShortText[app.ContactApplicationType]
	lines := []string{
		"Application to the tribunal",
		"",
		"Case number: " + caseID,
		"Claimant: " + data.ClaimantIndType.FullName(),
		"Application type: " + label,
		"Details: " + app.ContactApplicationText,
		"Copy to other party: " + app.CopyToOtherPartyYesOrNo,
		"Date: " + models.FormatDate(r.now()),
	}
	return render(fmt.Sprintf("Application %s - %s.pdf", caseID, label), lines)
}

// ResponseSummary renders a claimant's response to an existing application.
func (r *Renderer) ResponseSummary(data models.CaseData, appType, response, caseID string) (docstore.File, error) {
	lines := []string{
		"Response to an application",
		"",
		"Case number: " + caseID,
		"Claimant: " + data.ClaimantIndType.FullName(),
		"Application: " + appType,
		"Response: " + response,
		"Date: " + models.FormatDate(r.now()),
	}
	return render(fmt.Sprintf("Response %s - %s.pdf", caseID, appType), lines)
}

func render(name string, lines []string) (docstore.File, error) {
	return docstore.File{
		Name:        name,
		ContentType: "application/pdf",
		Data:        document(lines),
	}, nil
}

// document assembles a one-page PDF with the given text lines. Offsets in
// the cross-reference table are computed from the actual object positions.
func document(lines []string) []byte {
	content := "BT\n/F1 11 Tf\n50 780 Td\n14 TL\n"
	for _, line := range lines {
		content += fmt.Sprintf("(%s) Tj\nT*\n", escape(line))
	}
	content += "ET\n"

	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%sendstream\nendobj\n", len(content), content),
	}

	out := "%PDF-1.4\n"
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = len(out)
		out += obj
	}

	xrefAt := len(out)
	out += fmt.Sprintf("xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		out += fmt.Sprintf("%010d 00000 n \n", off)
	}
	out += fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xrefAt)
	return []byte(out)
}

func escape(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', ')', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
