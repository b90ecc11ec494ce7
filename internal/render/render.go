// Package render builds the self-contained printable HTML document for a
// record's editable fields. The document triggers the browser's native print
// dialog once it finishes loading.
package render

import (
	"fmt"
	"html/template"
	"io"

	"pdf_record_service/internal/domain"
)

// printSettleDelayMS gives the layout time to settle before the print dialog
// opens.
const printSettleDelayMS = 250

// All interpolated values pass through html/template's contextual escaping, so
// markup in a field is shown literally instead of being interpreted.
const documentTemplate = `<!DOCTYPE html>
<html>
  <head>
    <title>User Details - {{.Name}}</title>
    <style>
      body {
        font-family: Arial, sans-serif;
        margin: 40px;
        line-height: 1.6;
        color: #333;
      }
      .container {
        max-width: 800px;
        margin: 0 auto;
        border: 2px solid #ccc;
        padding: 40px;
        border-radius: 8px;
      }
      .field {
        margin-bottom: 20px;
        display: flex;
        align-items: flex-start;
      }
      .label {
        font-weight: bold;
        min-width: 150px;
        margin-right: 20px;
        color: #000;
      }
      .value {
        flex: 1;
        color: #666;
        word-wrap: break-word;
      }
      .description .value {
        white-space: pre-wrap;
      }
      h1 {
        text-align: center;
        color: #333;
        margin-bottom: 40px;
        border-bottom: 2px solid #eee;
        padding-bottom: 20px;
      }
      @media print {
        body { margin: 20px; }
        .container { border: 1px solid #000; }
      }
    </style>
  </head>
  <body>
    <div class="container">
      <h1>User Details</h1>

      <div class="field">
        <div class="label">Name:</div>
        <div class="value">{{.Name}}</div>
      </div>

      <div class="field">
        <div class="label">Email:</div>
        <div class="value">{{.Email}}</div>
      </div>

      <div class="field">
        <div class="label">Phone Number:</div>
        <div class="value">{{.Phone}}</div>
      </div>

      <div class="field">
        <div class="label">Position:</div>
        <div class="value">{{.Position}}</div>
      </div>

      <div class="field description">
        <div class="label">Description:</div>
        <div class="value">{{.Description}}</div>
      </div>
    </div>
    <script>
      window.onload = function () {
        setTimeout(function () {
          window.print();
          window.close();
        }, {{.SettleDelayMS}});
      };
    </script>
  </body>
</html>
`

type documentData struct {
	domain.Draft
	SettleDelayMS int
}

// Renderer produces printable documents from drafts.
type Renderer struct {
	tmpl *template.Template
}

// New parses the document template.
func New() (*Renderer, error) {
	tmpl, err := template.New("document").Parse(documentTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse document template: %w", err)
	}

	return &Renderer{tmpl: tmpl}, nil
}

// Document writes the printable document for the draft to w. Newlines in the
// description survive rendering; the document's CSS shows them as separate
// lines.
func (r *Renderer) Document(w io.Writer, d domain.Draft) error {
	if r == nil || r.tmpl == nil {
		return fmt.Errorf("renderer is not initialized")
	}

	data := documentData{
		Draft:         d,
		SettleDelayMS: printSettleDelayMS,
	}

	if err := r.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("render document: %w", err)
	}

	return nil
}
