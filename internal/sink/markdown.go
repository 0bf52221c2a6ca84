package sink

import (
	"bufio"
	"io"
	"strings"
	"unicode"

	"github.com/dgallion1/cvoutline/internal/outline"
	"github.com/dgallion1/cvoutline/internal/style"
)

// Markdown writes heading styles as ATX headings (level 0 is "#") and other
// styles as paragraphs.
type Markdown struct {
	Sheet style.Sheet
}

func (s *Markdown) ContentType() string { return "text/markdown; charset=utf-8" }

func (s *Markdown) Ext() string { return ".md" }

func (s *Markdown) Write(w io.Writer, ins []outline.Instruction) error {
	bw := bufio.NewWriter(w)
	for i, in := range ins {
		if i > 0 {
			bw.WriteString("\n")
		}
		st := resolve(s.Sheet, in.Style)
		text := escapeMarkdown(strings.TrimSpace(in.Text))
		switch {
		case st.Heading:
			bw.WriteString(strings.Repeat("#", min(in.Level+1, 6)))
			bw.WriteString(" ")
			bw.WriteString(strings.ReplaceAll(text, "\n", " "))
		case st.Bold:
			bw.WriteString("**" + text + "**")
		case st.Italic:
			bw.WriteString("*" + text + "*")
		default:
			bw.WriteString(text)
		}
		bw.WriteString("\n")
	}
	return bw.Flush()
}

// inlineMarkup lists characters that start emphasis, code, links or
// escapes anywhere in a line.
const inlineMarkup = "\\*_`[]<"

// escapeMarkdown backslash-escapes record text so it stays literal: inline
// markup everywhere, and block markers (headings, quotes, lists, rules,
// ordered list numbers) at the start of each line.
func escapeMarkdown(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		var b strings.Builder
		for _, r := range line {
			if strings.ContainsRune(inlineMarkup, r) {
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		lines[i] = escapeBlockMarker(b.String())
	}
	return strings.Join(lines, "\n")
}

func escapeBlockMarker(line string) string {
	body := strings.TrimLeft(line, " \t")
	indent := line[:len(line)-len(body)]
	if body == "" {
		return line
	}
	switch body[0] {
	case '#', '>', '-', '+', '=', '|', '~':
		return indent + "\\" + body
	}
	digits := strings.IndexFunc(body, func(r rune) bool { return !unicode.IsDigit(r) })
	if digits > 0 && (body[digits] == '.' || body[digits] == ')') {
		return indent + body[:digits] + "\\" + body[digits:]
	}
	return line
}
