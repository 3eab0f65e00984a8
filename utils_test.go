package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanClipboardText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Strawberry Jam\n", "Strawberry Jam"},
		{"crlf", "Line one\r\nLine two\rLine three", "Line one\nLine two\nLine three"},
		{"control", "a\x07b\tc", "ab\tc"},
		{"empty", "", ""},
		{
			"rtf",
			`{\rtf1\ansi{\fonttbl\f0\fswiss Helvetica;}{\colortbl;\red255\green0\blue0;}\f0\pard Hello\par World}`,
			"Hello\nWorld",
		},
		{"rtf escapes", `{\rtf1 Caf\'e9 \{x\}}`, "Café {x}"},
		{"html", "<div><p>Salt &amp; Pepper</p><br>Jar</div>", "Salt & Pepper\n\nJar"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanClipboardText(tt.in))
		})
	}
}

func TestDetectRichText(t *testing.T) {
	assert.True(t, isRTF(`{\rtf1\ansi hi}`))
	assert.False(t, isRTF("plain"))
	assert.True(t, isHTML("<html><body>x</body></html>"))
	assert.True(t, isHTML("  <p>x</p>"))
	assert.False(t, isHTML("a < b"))
}

func TestSafeFilename(t *testing.T) {
	assert.Equal(t, "Grandmas-Jam_2", safeFilename("Grandma's Jam_2"))
	assert.Equal(t, "label", safeFilename("///"))
}
