package document

import (
	"net/url"
	"reflect"
	"testing"
)

const page = `<!DOCTYPE html>
<html>
<head>
  <title>  Леопарды
     и гепарды </title>
  <style>body { color: red }</style>
</head>
<body>
  <h1>Заголовок</h1>
  <p>Первый <b>абзац</b></p><p>Второй абзац</p><p>Lon<b>don</b></p>
  <script>var leopard = 1;</script>
  <a href="/catalog/1">one</a>
  <a href=" catalog/2 ">two</a>
  <a href="https://other.org/x">three</a>
  <a href="">empty</a>
  <a>no href</a>
</body>
</html>`

func TestParse(t *testing.T) {
	d, err := Parse(page)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if got, want := d.Title(), "Леопарды и гепарды"; got != want {
		t.Errorf("Title() = %q, want %q", got, want)
	}

	want := "Заголовок Первый абзац Второй абзац London one two three empty no href"
	if got := d.Text(); got != want {
		t.Errorf("Text() = %q, want %q", got, want)
	}

	base, _ := url.Parse("https://example.com/news/")
	links := d.Links(base)
	wantLinks := []string{
		"https://example.com/catalog/1",
		"https://example.com/news/catalog/2",
		"https://other.org/x",
	}
	if !reflect.DeepEqual(links, wantLinks) {
		t.Errorf("Links() = %v, want %v", links, wantLinks)
	}
}

func TestTitleFallsBackToHeading(t *testing.T) {
	d, err := Parse(`<html><body><h1> Only heading </h1><p>text</p></body></html>`)
	if err != nil {
		t.Fatal(err)
	}
	if d.Title() != "Only heading" {
		t.Errorf("Title() = %q, want %q", d.Title(), "Only heading")
	}
}

func TestParseTolerates(t *testing.T) {
	d, err := Parse(`<p>unclosed <div>markup`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if d.Text() != "unclosed markup" {
		t.Errorf("Text() = %q", d.Text())
	}
}
