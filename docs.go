package crossbind

import (
	"html/template"
	"strings"
)

// SwaggerUIHTML renders a Swagger UI page pointing at the given OpenAPI
// document URL. It is a pure function of the URL: the only dynamic content is
// the substituted address.
func SwaggerUIHTML(specURL string) string {
	return renderDocs(swaggerTmpl, specURL)
}

// RedocHTML renders a Redoc page pointing at the given OpenAPI document URL.
func RedocHTML(specURL string) string {
	return renderDocs(redocTmpl, specURL)
}

func renderDocs(tmpl *template.Template, specURL string) string {
	var b strings.Builder
	//nolint:errcheck,gosec // template over a strings.Builder cannot fail
	tmpl.Execute(&b, struct{ SpecURL string }{SpecURL: specURL})
	return b.String()
}

var swaggerTmpl = template.Must(template.New("swagger").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Swagger UI</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      SwaggerUIBundle({
        url: "{{.SpecURL}}",
        dom_id: "#swagger-ui",
        deepLinking: true
      });
    };
  </script>
</body>
</html>`))

var redocTmpl = template.Must(template.New("redoc").Parse(`<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>API Reference</title>
</head>
<body>
  <redoc spec-url="{{.SpecURL}}"></redoc>
  <script src="https://cdn.redoc.ly/redoc/latest/bundles/redoc.standalone.js"></script>
</body>
</html>`))
