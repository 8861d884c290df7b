package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/anyulbade/affiliate-analytics-dashboard/docs"
)

// SetupSwagger serves the embedded OpenAPI document and a Swagger UI page
// that loads it.
func SetupSwagger(router gin.IRoutes) {
	router.GET("/swagger/*any", func(c *gin.Context) {
		switch c.Param("any") {
		case "/doc.json":
			c.Data(http.StatusOK, "application/json; charset=utf-8", docs.SwaggerJSON)
		case "/", "/index.html":
			c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerPage))
		default:
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		}
	})
}

const swaggerPage = `<!DOCTYPE html>
<html lang="pt-BR">
<head>
  <meta charset="UTF-8">
  <title>Affiliate Analytics API</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui.css">
</head>
<body>
  <div id="docs"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5.17.14/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: "/swagger/doc.json",
      dom_id: "#docs",
      deepLinking: true,
      docExpansion: "list",
      defaultModelsExpandDepth: 0
    });
  </script>
</body>
</html>`
