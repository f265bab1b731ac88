package handlers

import (
	"github.com/gofiber/fiber/v3"

	"teamup/internal/config"
)

// MergeBranding fills in the site-wide values every view reads: site
// title, tagline and footer, and whether single sign-on is offered.
// Values the page already set are left alone.
func MergeBranding(data fiber.Map, cfg *config.Config) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}
	site := fiber.Map{
		"SiteTitle":   cfg.SiteTitle,
		"SiteTagline": cfg.SiteTagline,
		"SiteFooter":  cfg.SiteFooter,
		"OIDCEnabled": cfg.IsOIDCEnabled(),
	}
	for key, value := range site {
		if _, set := data[key]; !set {
			data[key] = value
		}
	}
	return data
}
