package mailer

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// ButtonNode is a call-to-action link written as [!button|Label](url).
type ButtonNode struct {
	ast.BaseInline
	URL   []byte
	Label []byte
}

// KindButton identifies ButtonNode in the AST.
var KindButton = ast.NewNodeKind("Button")

func (n *ButtonNode) Kind() ast.NodeKind { return KindButton }

func (n *ButtonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"URL": string(n.URL)}, nil)
}

var buttonPrefix = []byte("[!button|")

type buttonParser struct{}

func (buttonParser) Trigger() []byte { return []byte{'['} }

func (buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, buttonPrefix) {
		return nil
	}
	rest := line[len(buttonPrefix):]

	label, after, ok := bytes.Cut(rest, []byte("]("))
	if !ok || bytes.IndexByte(label, ']') >= 0 {
		return nil
	}
	url, _, ok := bytes.Cut(after, []byte(")"))
	if !ok {
		return nil
	}

	block.Advance(len(buttonPrefix) + len(label) + 2 + len(url) + 1)
	return &ButtonNode{URL: url, Label: label}
}

type buttonRenderer struct{}

func (buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindButton, func(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		n := node.(*ButtonNode)
		_, _ = w.WriteString(`<a href="`)
		_, _ = w.Write(util.EscapeHTML(util.URLEscape(n.URL, true)))
		_, _ = w.WriteString(`" class="btn">`)
		_, _ = w.Write(util.EscapeHTML(n.Label))
		_, _ = w.WriteString(`</a>`)
		return ast.WalkContinue, nil
	})
}

type buttonExtension struct{}

func (buttonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(util.Prioritized(buttonParser{}, 50)))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(util.Prioritized(buttonRenderer{}, 50)))
}

// NewButtonExtension enables [!button|Label](url) in mail templates.
func NewButtonExtension() goldmark.Extender { return buttonExtension{} }
