package main

import (
	"html"
	"os/exec"
	"runtime"
	"strconv"
	"strings"
	"unicode"

	"github.com/atotto/clipboard"

	"labelforge/internal/engine"
	"labelforge/internal/interaction"
)

func (m *model) getCurrentBuffer() *Buffer {
	if len(m.buffers) == 0 {
		return nil
	}
	return &m.buffers[m.currentBufferIndex]
}

func (m *model) controller() *interaction.Controller {
	if buf := m.getCurrentBuffer(); buf != nil {
		return buf.ctl
	}
	return nil
}

func (m *model) engine() *engine.Engine {
	if ctl := m.controller(); ctl != nil {
		return ctl.Engine()
	}
	return nil
}

func (m *model) newController() *interaction.Controller {
	eng := engine.New(
		engine.WithLogger(m.log),
		engine.WithHistoryLimit(m.config.HistoryLimit),
	)
	return interaction.New(eng, interaction.WithLogger(m.log))
}

func (m *model) addNewBuffer(ctl *interaction.Controller, labelID, name, sizeKey string) {
	m.buffers = append(m.buffers, Buffer{
		ctl:     ctl,
		labelID: labelID,
		name:    name,
		sizeKey: sizeKey,
	})
	m.currentBufferIndex = len(m.buffers) - 1
}

func (m *model) closeCurrentBuffer() {
	if len(m.buffers) <= 1 {
		m.buffers = nil
		m.currentBufferIndex = 0
		return
	}
	m.buffers = append(m.buffers[:m.currentBufferIndex], m.buffers[m.currentBufferIndex+1:]...)
	if m.currentBufferIndex >= len(m.buffers) {
		m.currentBufferIndex = len(m.buffers) - 1
	}
}

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<p"))
}

// rtfDestinations are groups whose content is metadata, not text.
var rtfDestinations = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true,
	"pict": true, "header": true, "footer": true, "*": true,
}

func extractTextFromRTF(rtf string) string {
	var out strings.Builder
	// skip[i] is true when group depth i is a metadata destination
	skip := []bool{false}
	src := []byte(rtf)

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '{':
			skip = append(skip, skip[len(skip)-1])
			continue
		case '}':
			if len(skip) > 1 {
				skip = skip[:len(skip)-1]
			}
			continue
		case '\r', '\n':
			continue
		case '\\':
		default:
			if !skip[len(skip)-1] {
				out.WriteByte(c)
			}
			continue
		}

		if i+1 >= len(src) {
			break
		}
		next := src[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			if !skip[len(skip)-1] {
				out.WriteByte(next)
			}
			i++
		case next == '\'' && i+3 < len(src):
			if v, err := strconv.ParseUint(string(src[i+2:i+4]), 16, 8); err == nil && !skip[len(skip)-1] {
				out.WriteRune(rune(v))
			}
			i += 3
		case next == '*':
			skip[len(skip)-1] = true
			i++
		case next == '~':
			out.WriteByte(' ')
			i++
		case isASCIILetter(next):
			j := i + 1
			for j < len(src) && isASCIILetter(src[j]) {
				j++
			}
			word := string(src[i+1 : j])
			for j < len(src) && (src[j] == '-' || (src[j] >= '0' && src[j] <= '9')) {
				j++
			}
			if j < len(src) && src[j] == ' ' {
				j++
			}
			i = j - 1
			if rtfDestinations[word] {
				skip[len(skip)-1] = true
				continue
			}
			if skip[len(skip)-1] {
				continue
			}
			switch word {
			case "par", "line":
				out.WriteByte('\n')
			case "tab":
				out.WriteByte('\t')
			}
		default:
			i++
		}
	}
	return out.String()
}

func isASCIILetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func extractTextFromHTML(s string) string {
	var out strings.Builder
	inTag := false
	var tag strings.Builder
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			fields := strings.Fields(tag.String())
			if len(fields) == 0 {
				continue
			}
			name := strings.ToLower(fields[0])
			switch strings.TrimPrefix(name, "/") {
			case "br", "p", "div", "li", "tr", "h1", "h2", "h3":
				if strings.HasPrefix(name, "/") || name == "br" || name == "br/" {
					out.WriteByte('\n')
				}
			}
		case inTag:
			tag.WriteRune(r)
		default:
			out.WriteRune(r)
		}
	}
	return html.UnescapeString(out.String())
}

// cleanClipboardText turns OS clipboard content into plain label text:
// rich formats are flattened, line endings normalized, control characters
// dropped and surrounding blank lines trimmed.
func cleanClipboardText(text string) string {
	switch {
	case text == "":
		return ""
	case isRTF(text):
		text = extractTextFromRTF(text)
	case isHTML(text):
		text = extractTextFromHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || !unicode.IsControl(r) {
			return r
		}
		return -1
	}, text)
	return strings.Trim(text, "\n ")
}
