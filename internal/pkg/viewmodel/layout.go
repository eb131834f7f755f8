package viewmodel

import (
	"html/template"

	"github.com/gofiber/fiber/v2"
)

type Layout struct {
	Page          string
	Title         string
	FromProtected bool
	Msg           fiber.Map
	Toast         template.HTML
	FirstName     string
	Plan          string
	CSRF          string
	Providers     []string
}
