package md2html_test

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-md2html"
)

// Example converts Markdown into a branded HTML document.
// PDF output requires Chrome; set Input.PDF to enable it.
func Example() {
	conv, err := md2html.NewConverter(
		md2html.WithClock(func() time.Time { return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC) }),
	)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), md2html.Input{
		Markdown: "# Manual\n\nOBS: feche o sistema antes de atualizar.",
		Version:  "2.3.0",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := string(result.HTML)
	fmt.Println(strings.Contains(html, "Versão: 2.3.0 | Última atualização: 05/03/2024"))
	fmt.Println(strings.Count(html, "<hr"))
	// Output:
	// true
	// 2
}

// Example_branding replaces the default header and footer logos.
func Example_branding() {
	conv, err := md2html.NewConverter()
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), md2html.Input{
		Markdown: "## Passo 1",
		Branding: &md2html.Branding{PrimaryLogo: "assets/header.png"},
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	html := string(result.HTML)
	fmt.Println(strings.Contains(html, `src="assets/header.png"`))
	fmt.Println(strings.Contains(html, md2html.DefaultSecondaryLogo))
	// Output:
	// true
	// true
}

// Example_imageEmbeds rewrites Obsidian embeds against a base URL.
func Example_imageEmbeds() {
	conv, err := md2html.NewConverter(md2html.WithImageBaseURL("https://cdn.example.com/img/"))
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	defer conv.Close()

	result, err := conv.Convert(context.Background(), md2html.Input{
		Markdown: "![[tela inicial.png]]",
	})
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(strings.Contains(string(result.HTML), "https://cdn.example.com/img/tela%20inicial.png"))
	// Output: true
}

// ExampleRestyle restyles HTML produced elsewhere.
func ExampleRestyle() {
	out := md2html.Restyle("<h1>Título</h1><p>OBS: atenção</p>", "1.0.0", "a.png", "b.png")

	fmt.Println(strings.Contains(out, `<img src="a.png"`))
	fmt.Println(strings.Contains(out, "<footer"))
	// Output:
	// true
	// true
}
