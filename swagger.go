package RangeGo

import (
	"net/http"

	"github.com/swaggo/swag"
)

// SwaggerHandler 处理 Swagger UI 请求
// 文档内容从 swag 注册表读取（见 docs 包的 init 注册）
func SwaggerHandler() HandlerFunc {
	return func(c *Context) {
		switch c.Path() {
		case "/swagger/doc.json":
			doc, err := swag.ReadDoc()
			if err != nil {
				c.InternalServerError(err.Error())
				return
			}
			c.Data(http.StatusOK, "application/json", []byte(doc))

		case "/swagger", "/swagger/":
			c.Redirect(http.StatusFound, "/swagger/index.html")

		case "/swagger/index.html":
			c.Data(http.StatusOK, "text/html", []byte(swaggerIndexHTML))

		default:
			c.NotFound("404 Not Found")
		}
	}
}

// swaggerIndexHTML Swagger UI 页面
const swaggerIndexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Swagger UI</title>
    <link rel="stylesheet" type="text/css" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
    <style>
        html {
            box-sizing: border-box;
            overflow: -moz-scrollbars-vertical;
            overflow-y: scroll;
        }
        *, *:before, *:after {
            box-sizing: inherit;
        }
        body {
            margin: 0;
            background: #fafafa;
        }
    </style>
</head>
<body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-standalone-preset.js"></script>
    <script>
        window.onload = function() {
            const ui = SwaggerUIBundle({
                url: "/swagger/doc.json",
                dom_id: '#swagger-ui',
                deepLinking: true,
                presets: [
                    SwaggerUIBundle.presets.apis,
                    SwaggerUIStandalonePreset
                ],
                plugins: [
                    SwaggerUIBundle.plugins.DownloadUrl
                ],
                layout: "StandaloneLayout"
            });
            window.ui = ui;
        };
    </script>
</body>
</html>`
