package usercontext

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserContextRoundTrip(t *testing.T) {
	app := fiber.New()
	var anonymous, got UserContext
	app.Get("/", func(c *fiber.Ctx) error {
		anonymous = GetUserContext(c)
		SetUserContext(c, UserContext{UserID: 3, PublicID: "p", FirstName: "Ada", IsLoggedIn: true})
		got = GetUserContext(c)
		assert.True(t, IsLoggedIn(c))
		assert.Equal(t, uint(3), GetUserID(c))
		assert.Equal(t, true, c.Locals(KeyFromProtected))
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.False(t, anonymous.IsLoggedIn)
	assert.Equal(t, "Ada", got.FirstName)
}
