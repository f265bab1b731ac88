package handlers

import (
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"

	"teamup/internal/config"
)

func TestMergeBranding(t *testing.T) {
	cfg := &config.Config{
		SiteTitle:   "TeamUp",
		SiteTagline: "Find people",
		SiteFooter:  "footer",
		OIDCIssuer:  "https://id.example.com",
	}

	t.Run("fills site values", func(t *testing.T) {
		data := MergeBranding(fiber.Map{"Title": "Welcome"}, cfg)
		assert.Equal(t, "Welcome", data["Title"])
		assert.Equal(t, "TeamUp", data["SiteTitle"])
		assert.Equal(t, "Find people", data["SiteTagline"])
		assert.Equal(t, "footer", data["SiteFooter"])
		assert.Equal(t, true, data["OIDCEnabled"])
	})

	t.Run("page values win", func(t *testing.T) {
		data := MergeBranding(fiber.Map{"SiteTitle": "Admin"}, cfg)
		assert.Equal(t, "Admin", data["SiteTitle"])
	})

	t.Run("nil map", func(t *testing.T) {
		data := MergeBranding(nil, &config.Config{SiteTitle: "TeamUp"})
		assert.Equal(t, "TeamUp", data["SiteTitle"])
		assert.Equal(t, false, data["OIDCEnabled"])
	})
}
