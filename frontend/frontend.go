// Package frontend holds the server-rendered pages: HTML templates, static
// assets and markdown rendering for recommendation text.
package frontend

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templatesFs embed.FS

//go:embed static/*
var staticFs embed.FS

var StaticSubdirFs = SubdirEmbedFS{Subdir: "static/", FS: staticFs}

// SubdirEmbedFS serves one subdirectory of an embedded filesystem.
type SubdirEmbedFS struct {
	Subdir string
	FS     embed.FS
}

func (s SubdirEmbedFS) Open(name string) (fs.File, error) {
	return s.FS.Open(s.Subdir + name)
}

// Templates parses the page templates. It panics if they are malformed,
// which can only happen at build time.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templatesFs, "templates/*.html"))
}

var (
	markdownInstance goldmark.Markdown
	markdownOnce     sync.Once
)

func getMarkdown() goldmark.Markdown {
	markdownOnce.Do(func() {
		// raw HTML in the source is omitted, never passed through
		markdownInstance = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownInstance
}

// RenderMarkdown converts model output to HTML for display.
func RenderMarkdown(source string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := getMarkdown().Convert([]byte(source), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}
