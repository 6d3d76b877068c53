package posts

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const ExcerptRunes = 100

// inspect recorre el HTML y devuelve el src de la primera imagen y el texto plano.
func inspect(content string) (thumb, text string) {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return "", strings.Join(strings.Fields(content), " ")
	}

	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style:
				return
			case atom.Img:
				if thumb == "" {
					for _, a := range n.Attr {
						if a.Key == "src" && strings.TrimSpace(a.Val) != "" {
							thumb = strings.TrimSpace(a.Val)
							break
						}
					}
				}
			}
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return thumb, strings.Join(strings.Fields(b.String()), " ")
}

// IsBlankHTML: sin texto visible ni imágenes (p.ej. "<p><br></p>").
func IsBlankHTML(content string) bool {
	if strings.TrimSpace(content) == "" {
		return true
	}
	thumb, text := inspect(content)
	return thumb == "" && text == ""
}

func Summarize(p Post) Summary {
	thumb, text := inspect(p.Content)
	return Summary{
		Post:      p,
		Thumbnail: thumb,
		Excerpt:   truncate(text, ExcerptRunes),
	}
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return strings.TrimSpace(string(r[:n])) + "..."
}
