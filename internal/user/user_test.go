package user

import (
	"io"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// claimApp routes a request through a fake middleware that stores the given
// claim value the way the JWT middleware would, then echoes the extracted id.
func claimApp(claim interface{}) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", func(c *fiber.Ctx) error {
		if claim != nil {
			tok := jwt.New(jwt.SigningMethodHS256)
			tok.Claims = jwt.MapClaims{"user_id": claim}
			c.Locals("user", tok)
		}
		id, err := GetUserIDFromCtx(c)
		if err != nil {
			return err
		}
		return c.SendString("user " + strconv.Itoa(id))
	})
	return app
}

func TestGetUserIDFromCtx_ValidClaims(t *testing.T) {
	// JSON numbers arrive as float64, but string and int claims occur too
	for _, claim := range []interface{}{float64(7), 7, int64(7), "7"} {
		app := claimApp(claim)
		resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		if resp.StatusCode != fiber.StatusOK {
			t.Fatalf("claim %v (%T): expected 200, got %d", claim, claim, resp.StatusCode)
		}
		body, _ := io.ReadAll(resp.Body)
		if string(body) != "user 7" {
			t.Fatalf("claim %v (%T): unexpected body %q", claim, claim, body)
		}
	}
}

func TestGetUserIDFromCtx_Rejects(t *testing.T) {
	cases := map[string]interface{}{
		"missing token":   nil,
		"zero id":         float64(0),
		"negative id":     float64(-3),
		"non-numeric":     "abc",
		"unexpected type": true,
	}
	for name, claim := range cases {
		app := claimApp(claim)
		resp, err := app.Test(httptest.NewRequest("GET", "/whoami", nil))
		if err != nil {
			t.Fatalf("%s: request failed: %v", name, err)
		}
		if resp.StatusCode != fiber.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, resp.StatusCode)
		}
	}
}
