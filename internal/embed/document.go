package embed

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/plotset/plotembed/internal/embederr"
)

// document owns a parsed template for the length of one Generate call.
// render consumes it; no node escapes the call.
type document struct {
	root *html.Node
}

func parseDocument(markup string) (*document, error) {
	root, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, embederr.Parsef("template: %v", err)
	}
	return &document{root: root}, nil
}

// rewriteScriptSources makes every relative <script src> absolute against
// base and returns how many were changed. A nil base changes nothing.
func (d *document) rewriteScriptSources(base *url.URL) (int, error) {
	if base == nil {
		return 0, nil
	}
	n := 0
	var walkErr error
	walk(d.root, func(node *html.Node) bool {
		if node.Type != html.ElementNode || node.DataAtom != atom.Script {
			return true
		}
		for i, attr := range node.Attr {
			if attr.Namespace != "" || attr.Key != "src" || attr.Val == "" {
				continue
			}
			ref, err := url.Parse(strings.TrimSpace(attr.Val))
			if err != nil {
				walkErr = embederr.Parsef("script src %q: %v", attr.Val, err)
				return false
			}
			if isAbsolute(ref) {
				continue
			}
			node.Attr[i].Val = base.ResolveReference(ref).String()
			n++
		}
		return true
	})
	return n, walkErr
}

// isAbsolute reports whether ref needs no base: it carries a scheme, or is
// protocol-relative.
func isAbsolute(ref *url.URL) bool {
	return ref.Scheme != "" || ref.Host != ""
}

// appendScript adds one inline script element holding src to the body.
func (d *document) appendScript(src string) {
	script := &html.Node{
		Type:     html.ElementNode,
		DataAtom: atom.Script,
		Data:     "script",
		Attr:     []html.Attribute{{Key: "type", Val: "text/javascript"}},
	}
	script.AppendChild(&html.Node{Type: html.TextNode, Data: src})
	d.body().AppendChild(script)
}

// body returns the <body> element. The HTML parser always synthesizes one
// for non-frameset documents; for framesets the script goes on <html>.
func (d *document) body() *html.Node {
	var body, htmlEl *html.Node
	walk(d.root, func(node *html.Node) bool {
		if node.Type != html.ElementNode {
			return true
		}
		switch node.DataAtom {
		case atom.Body:
			body = node
			return false
		case atom.Html:
			if htmlEl == nil {
				htmlEl = node
			}
		}
		return true
	})
	switch {
	case body != nil:
		return body
	case htmlEl != nil:
		return htmlEl
	default:
		return d.root
	}
}

// render serializes the tree and releases it.
func (d *document) render() (string, error) {
	var b strings.Builder
	err := html.Render(&b, d.root)
	d.root = nil
	if err != nil {
		return "", embederr.Serializationf("rendering document: %v", err)
	}
	return b.String(), nil
}

// walk visits nodes depth first until visit returns false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}
