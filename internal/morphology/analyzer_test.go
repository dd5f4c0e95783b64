package morphology

import (
	"sync"
	"testing"
)

func TestRussianAnalyze(t *testing.T) {
	a, err := New("russian")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	text := "Повторное появление леопарда в Осетии позволяет предположить, " +
		"что леопард постоянно обитает в некоторых районах Северного Кавказа."
	got := a.Analyze(text)

	if got["леопард"] != 2 {
		t.Errorf("леопард = %d, want 2 (got %v)", got["леопард"], got)
	}
	for _, fw := range []string{"в", "что"} {
		if _, ok := got[fw]; ok {
			t.Errorf("function word %q must be excluded", fw)
		}
	}
}

func TestRussianWordFormsShareLemma(t *testing.T) {
	a, _ := New("russian")

	want, ok := a.Lemma("леопард")
	if !ok {
		t.Fatal("Lemma(леопард) not resolved")
	}
	for _, form := range []string{"Леопарда", "леопарды", "леопард,"} {
		got, ok := a.Lemma(form)
		if !ok || got != want {
			t.Errorf("Lemma(%q) = %q, %v; want %q", form, got, ok, want)
		}
	}
}

func TestYoFolding(t *testing.T) {
	a, _ := New("russian")
	withYo, _ := a.Lemma("ёлка")
	withE, _ := a.Lemma("елка")
	if withYo != withE {
		t.Errorf("ё and е forms differ: %q vs %q", withYo, withE)
	}
}

func TestEnglishAnalyze(t *testing.T) {
	a, err := New("english")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	got := a.Analyze("The cats and the dogs are running to the park! Running, 42 times.")
	if got["run"] != 2 {
		t.Errorf("run = %d, want 2 (got %v)", got["run"], got)
	}
	if got["cat"] != 1 || got["dog"] != 1 {
		t.Errorf("cat/dog counts wrong: %v", got)
	}
	for _, fw := range []string{"the", "and", "to"} {
		if _, ok := got[fw]; ok {
			t.Errorf("function word %q must be excluded", fw)
		}
	}
	for lemma := range got {
		for _, r := range lemma {
			if r < 'a' || r > 'z' {
				t.Errorf("lemma %q contains non-alphabet rune %q", lemma, r)
			}
		}
	}
}

func TestOnlyFunctionWords(t *testing.T) {
	a, _ := New("english")
	if got := a.Analyze("and the of 123 !!!"); len(got) != 0 {
		t.Errorf("Analyze() = %v, want empty", got)
	}
	if _, ok := a.Lemma("the"); ok {
		t.Error("Lemma(the) should not resolve")
	}
	if _, ok := a.Lemma("---"); ok {
		t.Error("Lemma(---) should not resolve")
	}
}

func TestForeignAlphabetIgnored(t *testing.T) {
	a, _ := New("russian")
	if got := a.Analyze("hello world"); len(got) != 0 {
		t.Errorf("Latin text produced lemmas for russian analyzer: %v", got)
	}
}

func TestUnsupportedLanguage(t *testing.T) {
	if _, err := New("klingon"); err == nil {
		t.Error("New(klingon) expected error")
	}
}

func TestConcurrentAnalyze(t *testing.T) {
	a, _ := New("english")
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if got := a.Analyze("searching searched searches"); got["search"] != 3 {
				t.Errorf("search = %d, want 3", got["search"])
			}
		}()
	}
	wg.Wait()
}
