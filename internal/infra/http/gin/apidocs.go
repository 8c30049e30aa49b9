package ginserver

import (
	_ "embed"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

const (
	apiDocsPath     = "/api/docs"
	apiDocumentPath = apiDocsPath + "/openapi.json"
)

// openAPIDocument describes the forms, products, finance, calendar and
// payments routes.
//
//go:embed apidocs/openapi.json
var openAPIDocument []byte

//go:embed apidocs/index.html
var apiDocsTemplate string

// apiDocsPage is the Swagger UI shell pointed at openAPIDocument.
var apiDocsPage = []byte(strings.ReplaceAll(apiDocsTemplate, "{{DOCUMENT_URL}}", apiDocumentPath))

func registerAPIDocs(router gin.IRoutes) {
	router.GET(apiDocumentPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", openAPIDocument)
	})
	router.GET(apiDocsPath, func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", apiDocsPage)
	})
}
