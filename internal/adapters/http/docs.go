package http

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
)

const docsTitle = "TrailMatch API | Swagger UI"

var swaggerUIHTML = fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>%s</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body style="margin:0">
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({url: '/docs/openapi.yaml', dom_id: '#swagger-ui', deepLinking: true});
  </script>
</body>
</html>`, docsTitle)

// SetupDocs serves Swagger UI at /docs and the OpenAPI document at
// /docs/openapi.yaml. The document is read once; when it is missing only
// the UI is served and the YAML route answers 404.
func SetupDocs(app *fiber.App, specPath string) {
	if specPath == "" {
		specPath = "api/openapi.yaml"
	}

	doc, err := os.ReadFile(specPath)
	if err != nil {
		slog.Warn("openapi document unavailable", "path", specPath, "error", err)
	}

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(swaggerUIHTML)
	})

	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		if doc == nil {
			return newError(c, fiber.StatusNotFound, "not_found", "openapi document not found")
		}
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(doc)
	})
}
