package render

import (
	"encoding/base64"
	"sync"

	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family of the embedded Go font.
const FontFamily = "Go"

// FallbackFontFamily applies when the font is not embedded.
const FallbackFontFamily = `'Go', 'DejaVu Sans', 'Helvetica Neue', Arial, sans-serif`

var (
	goBase64     string
	goBase64Once sync.Once
)

// goFontBase64 returns the Go Regular TTF as base64, computed once.
func goFontBase64() string {
	goBase64Once.Do(func() {
		goBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return goBase64
}
