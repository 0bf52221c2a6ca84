package sink

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dgallion1/cvoutline/internal/outline"
	"github.com/dgallion1/cvoutline/internal/style"
	"github.com/fumiama/go-docx"
)

// maxHeading is the deepest built-in Word heading style.
const maxHeading = 9

// DOCX writes a Word document. Heading styles become Title/HeadingN
// paragraphs so the document outline mirrors tree depth; every paragraph
// also carries direct formatting from its style.
type DOCX struct {
	Sheet style.Sheet
}

func (s *DOCX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (s *DOCX) Ext() string { return ".docx" }

func (s *DOCX) Write(w io.Writer, ins []outline.Instruction) error {
	doc := docx.New().WithDefaultTheme()

	for _, in := range ins {
		st := resolve(s.Sheet, in.Style)

		para := doc.AddParagraph()
		if st.Align != "" {
			para.Justification(st.Align)
		}
		if st.Heading {
			para.Style(headingStyle(in.Level))
		}

		run := para.AddText(in.Text).Size(st.HalfPoints())
		if st.Bold {
			run.Bold()
		}
		if st.Italic {
			run.Italic()
		}
		if st.Color != "" {
			run.Color(strings.TrimPrefix(st.Color, "#"))
		}
	}

	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("write docx: %w", err)
	}
	return nil
}

func headingStyle(level int) string {
	if level == 0 {
		return "Title"
	}
	return "Heading" + strconv.Itoa(min(level, maxHeading))
}
