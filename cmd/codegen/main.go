package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/delaneyj/renderparty/cmd/codegen/templates"
	"github.com/urfave/cli/v3"
)

const outKey = "out"

// htmlTags and svgTags are the reserved element names a component may
// not shadow. The lists here are the source of truth; the generated
// file under vdom is just their rendering.
var htmlTags = []string{
	"html", "body", "base", "head", "link", "meta", "style", "title",
	"address", "article", "aside", "footer", "header", "h1", "h2", "h3",
	"h4", "h5", "h6", "hgroup", "nav", "section", "div", "dd", "dl", "dt",
	"figcaption", "figure", "picture", "hr", "img", "li", "main", "ol",
	"p", "pre", "ul", "a", "b", "abbr", "bdi", "bdo", "br", "cite", "code",
	"data", "dfn", "em", "i", "kbd", "mark", "q", "rp", "rt", "rtc", "ruby",
	"s", "samp", "small", "span", "strong", "sub", "sup", "time", "u",
	"var", "wbr", "area", "audio", "map", "track", "video", "embed",
	"object", "param", "source", "canvas", "script", "noscript", "del",
	"ins", "caption", "col", "colgroup", "table", "thead", "tbody", "td",
	"th", "tr", "button", "datalist", "fieldset", "form", "input", "label",
	"legend", "meter", "optgroup", "option", "output", "progress", "select",
	"textarea", "details", "dialog", "menu", "menuitem", "summary",
	"content", "element", "shadow", "template", "blockquote", "iframe", "tfoot",
}

var svgTags = []string{
	"svg", "animate", "circle", "clippath", "cursor", "defs", "desc",
	"ellipse", "filter", "font-face", "foreignobject", "g", "glyph",
	"image", "line", "marker", "mask", "missing-glyph", "path", "pattern",
	"polygon", "polyline", "rect", "switch", "symbol", "text", "textpath",
	"tspan", "use", "view",
}

// helperTags get a typed constructor each. Kept to the elements that
// show up in everyday trees; anything else goes through H directly.
var helperTags = []string{
	"div", "span", "p", "a", "button", "input", "label", "form", "select",
	"option", "textarea", "ul", "ol", "li", "table", "thead", "tbody",
	"tr", "td", "th", "header", "footer", "nav", "section", "article",
	"aside", "main", "h1", "h2", "h3", "h4", "h5", "h6", "img", "pre",
	"code", "strong", "em", "br", "hr", "svg",
}

func main() {
	cmd := &cli.Command{
		Name:  "generate",
		Usage: "Generate the vdom element helpers",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  outKey,
				Usage: "Path of the generated file",
				Value: "vdom/elements.go",
			},
		},
		Action: generate,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func generate(ctx context.Context, cmd *cli.Command) error {
	start := time.Now()
	log.Printf("Codegen for vdom elements started")
	defer func() {
		log.Printf("Codegen for vdom elements finished in %v", time.Since(start))
	}()

	contents := templates.ElementsGen(htmlTags, svgTags, helperTags)
	return os.WriteFile(cmd.String(outKey), []byte(contents), 0644)
}
