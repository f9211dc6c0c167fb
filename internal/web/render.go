// Package web はサーバー側で描画するHTMLテンプレートを持つ。
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var files embed.FS

const layoutFile = "templates/layout.html"

// 画面共通のデータ
type Page struct {
	Title    string
	Operator string // 未ログインなら空
	CSRF     string
	Flash    *Flash
	Error    string // フォームの再表示で出すエラー
	Data     any
}

type Flash struct {
	Kind    string // success/danger/warning/info
	Message string
}

// Renderer はecho.Rendererの実装。ページごとにlayoutと組み合わせたテンプレートを持つ。
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(Funcs()).ParseFS(files, layoutFile)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	paths, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(map[string]*template.Template, len(paths))
	for _, p := range paths {
		if p == layoutFile {
			continue
		}
		t, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(files, p); err != nil {
			return nil, fmt.Errorf("parse %s: %w", p, err)
		}
		pages[strings.TrimSuffix(path.Base(p), ".html")] = t
	}
	return &Renderer{pages: pages}, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Has はテスト用
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
