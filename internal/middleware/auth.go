package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func ServerKey(expectedKey string) fiber.Handler {
	return headerKey("X-Server-Key", expectedKey, "invalid server key")
}

func AdminKey(expectedKey string) fiber.Handler {
	return headerKey("X-Admin-Key", expectedKey, "invalid admin key")
}

func headerKey(header, expectedKey, message string) fiber.Handler {
	expected := []byte(expectedKey)
	return func(c *fiber.Ctx) error {
		key := c.Get(header)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), expected) != 1 {
			return c.Status(403).JSON(fiber.Map{"error": message})
		}
		return c.Next()
	}
}

// GitHubSignature verifies the X-Hub-Signature-256 header GitHub sends with
// every webhook delivery. An empty secret disables the check.
func GitHubSignature(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		if len(key) == 0 {
			return c.Next()
		}

		sig, ok := strings.CutPrefix(c.Get("X-Hub-Signature-256"), "sha256=")
		if !ok {
			return c.Status(401).JSON(fiber.Map{"error": "missing signature"})
		}
		got, err := hex.DecodeString(sig)
		if err != nil || !hmac.Equal(got, SignBody(key, c.Body())) {
			return c.Status(401).JSON(fiber.Map{"error": "invalid signature"})
		}
		return c.Next()
	}
}

// SignBody returns the HMAC-SHA256 of body under key.
func SignBody(key, body []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(body)
	return mac.Sum(nil)
}
