package RangeGo

import (
	"html/template"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// listingTemplate 目录索引页模板
var listingTemplate = template.Must(template.New("listing").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>Index of {{.Path}}</title></head>
<body>
<h1>Index of {{.Path}}</h1>
<hr>
<ul>
{{- range .Entries}}
<li><a href="{{.Href}}">{{.Name}}</a></li>
{{- end}}
</ul>
<hr>
</body>
</html>
`))

type listingEntry struct {
	Name string
	Href string
}

type listingPage struct {
	Path    string
	Entries []listingEntry
}

// StaticHandler 静态文件处理器
// 把请求路径解析到根目录下的文件，普通文件交给 ServeRange 流式写出，
// 目录优先回落 index.html，否则渲染索引页
type StaticHandler struct {
	root           string
	bandwidthLimit int
}

// NewStaticHandler 创建静态文件处理器
// root 为服务根目录；bandwidthLimit 为单请求带宽上限（字节每秒，0不限）
func NewStaticHandler(root string, bandwidthLimit int) *StaticHandler {
	return &StaticHandler{
		root:           root,
		bandwidthLimit: bandwidthLimit,
	}
}

// Handle 处理一次静态文件请求
func (s *StaticHandler) Handle(c *Context) {
	fsPath, ok := s.resolve(c.Path())
	if !ok {
		c.NotFound("404 File not found")
		return
	}

	info, err := os.Stat(fsPath)
	if err != nil {
		c.NotFound("404 File not found")
		return
	}

	if info.IsDir() {
		// 目录下存在 index.html 则直接作为文件服务
		index := filepath.Join(fsPath, "index.html")
		if fi, err := os.Stat(index); err == nil && !fi.IsDir() {
			s.serveFile(c, index)
			return
		}
		s.serveListing(c, fsPath)
		return
	}

	s.serveFile(c, fsPath)
}

// resolve 把URL路径映射到根目录下的文件系统路径
// 以"/"为锚点Clean，天然挡掉 ".." 逃逸；路径已由net/http解码过
func (s *StaticHandler) resolve(urlPath string) (string, bool) {
	cleaned := path.Clean("/" + urlPath)
	if strings.Contains(cleaned, "..") {
		return "", false
	}
	return filepath.Join(s.root, filepath.FromSlash(cleaned)), true
}

func (s *StaticHandler) serveFile(c *Context, fsPath string) {
	reader, err := NewFileRangeReader(fsPath)
	if err != nil {
		c.NotFound("404 File not found")
		return
	}
	defer reader.Close()

	c.ServeRange(c.Request.Context(), Throttle(reader, s.bandwidthLimit))
}

func (s *StaticHandler) serveListing(c *Context, fsPath string) {
	dirEntries, err := os.ReadDir(fsPath)
	if err != nil {
		c.InternalServerError(err.Error())
		return
	}

	page := listingPage{Path: c.Path()}
	for _, entry := range dirEntries {
		name := entry.Name()
		if entry.IsDir() {
			name += "/"
		}
		page.Entries = append(page.Entries, listingEntry{
			Name: name,
			Href: (&url.URL{Path: path.Join(c.Path(), entry.Name())}).EscapedPath(),
		})
	}
	sort.Slice(page.Entries, func(i, j int) bool {
		return page.Entries[i].Name < page.Entries[j].Name
	})

	c.SetHeader("Content-Type", "text/html; charset=utf-8")
	c.WriteHeader(http.StatusOK)
	if err := listingTemplate.Execute(c, page); err != nil {
		defaultLogger.WithError(err).Debug("listing write interrupted")
	}
}
