package notify

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sujit-baniya/flash"
)

// Flash stores the last visible message of buf as a flash message for the
// next request. It returns c so callers can chain Redirect.
func Flash(c *fiber.Ctx, buf *Buffer) *fiber.Ctx {
	msg, ok := Last(buf.Drain())
	if !ok {
		return c
	}
	data := fiber.Map{"type": string(msg.Kind), "message": msg.Text}
	switch msg.Kind {
	case KindError:
		return flash.WithError(c, data)
	case KindSuccess:
		return flash.WithSuccess(c, data)
	default:
		return flash.WithInfo(c, data)
	}
}
