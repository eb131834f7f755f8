// Package views holds the page templates and the Go rendered components
// shared between them.
package views

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"

	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
)

// Toast renders a flash message. It renders nothing without a message.
func Toast(msg fiber.Map) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		text, _ := msg["message"].(string)
		if text == "" {
			return nil
		}
		kind, _ := msg["type"].(string)
		if kind == "" {
			kind = "info"
		}
		_, err := fmt.Fprintf(w,
			`<div class="toast toast-%s" role="status" aria-live="polite">%s</div>`,
			templ.EscapeString(kind), templ.EscapeString(text))
		return err
	})
}

// ToastHTML renders Toast for html/template pages.
func ToastHTML(ctx context.Context, msg fiber.Map) template.HTML {
	var buf bytes.Buffer
	if err := Toast(msg).Render(ctx, &buf); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
