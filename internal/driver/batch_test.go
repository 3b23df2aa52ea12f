package driver_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"langid/internal/config"
	"langid/internal/driver"
	"langid/internal/modelstore"
	"langid/internal/viterbi"
)

func writeProject(t *testing.T) *config.Manifest {
	t.Helper()
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "corpora"), 0o755); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}
	files := map[string]string{
		"corpora/en.txt": "the 100\nof 50\nname 30\n",
		"corpora/ga.txt": "agus 80\nan 60\ndul 20\n",
	}
	for name, contents := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(contents), 0o644); err != nil {
			t.Fatalf("WriteFile(%s) failed: %v", name, err)
		}
	}
	manifest := `
[[languages]]
tag = "en"
lexicon = "corpora/en.txt"

[[languages]]
tag = "ga"
lexicon = "corpora/ga.txt"
`
	path := filepath.Join(dir, config.ManifestName)
	if err := os.WriteFile(path, []byte(manifest), 0o644); err != nil {
		t.Fatalf("WriteFile manifest failed: %v", err)
	}
	m, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m
}

func TestTrainAllWritesModels(t *testing.T) {
	manifest := writeProject(t)
	results, err := driver.TrainAll(context.Background(), manifest, 2)
	if err != nil {
		t.Fatalf("TrainAll failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("TrainAll returned %d results, want 2", len(results))
	}
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("%s failed to train: %v", res.Tag, res.Err)
		}
		if res.Words == 0 || res.Ngrams == 0 {
			t.Errorf("%s: empty model (%d words, %d ngrams)", res.Tag, res.Words, res.Ngrams)
		}
	}

	store, err := modelstore.Open(manifest.ModelDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	langs, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(langs) != 2 {
		t.Errorf("List = %v, want en and ga", langs)
	}
}

func TestTrainAllIsolatesPerLanguageFailure(t *testing.T) {
	manifest := writeProject(t)
	manifest.Config.Languages[1].Lexicon = "corpora/does-not-exist.txt"

	results, err := driver.TrainAll(context.Background(), manifest, 0)
	if err != nil {
		t.Fatalf("TrainAll failed: %v", err)
	}
	if results[0].Err != nil {
		t.Errorf("en training failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("ga training with a missing lexicon succeeded, want error in its slot")
	}
}

func trainedSet(t *testing.T) viterbi.ModelSet {
	t.Helper()
	manifest := writeProject(t)
	if _, err := driver.TrainAll(context.Background(), manifest, 0); err != nil {
		t.Fatalf("TrainAll failed: %v", err)
	}
	store, err := modelstore.Open(manifest.ModelDir())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	set, err := store.LoadSet([]string{"en", "ga"})
	if err != nil {
		t.Fatalf("LoadSet failed: %v", err)
	}
	return set
}

func TestIdentifyAllPreservesInputOrder(t *testing.T) {
	set := trainedSet(t)
	trans, err := driver.Transition(set, viterbi.DefaultStayProb, viterbi.StartLexicon)
	if err != nil {
		t.Fatalf("Transition failed: %v", err)
	}
	var sentences []string
	for i := 0; i < 50; i++ {
		sentences = append(sentences, fmt.Sprintf("the agus sentence%d", i))
	}
	results, err := driver.IdentifyAll(context.Background(), set, trans, sentences, driver.IdentifyOptions{Jobs: 8})
	if err != nil {
		t.Fatalf("IdentifyAll failed: %v", err)
	}
	if len(results) != len(sentences) {
		t.Fatalf("got %d results, want %d", len(results), len(sentences))
	}
	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("sentence %d failed: %v", i, res.Err)
		}
		if res.Input != sentences[i] {
			t.Errorf("result %d is for %q, want %q", i, res.Input, sentences[i])
		}
		if len(res.Result.Tags) != 3 {
			t.Errorf("result %d has %d tags, want 3", i, len(res.Result.Tags))
		}
	}
}

func TestIdentifyAllIndependentMethod(t *testing.T) {
	set := trainedSet(t)
	results, err := driver.IdentifyAll(context.Background(), set, nil, []string{"the agus"}, driver.IdentifyOptions{
		Method: driver.MethodIndependent,
	})
	if err != nil {
		t.Fatalf("IdentifyAll failed: %v", err)
	}
	tags := results[0].Result.Tags
	if len(tags) != 2 || tags[0].Language != "en" || tags[1].Language != "ga" {
		t.Errorf("tags = %v, want en then ga", tags)
	}
}

func TestIdentifyAllRejectsEmptySetAndBadMethod(t *testing.T) {
	if _, err := driver.IdentifyAll(context.Background(), nil, nil, []string{"x"}, driver.IdentifyOptions{}); err == nil {
		t.Error("IdentifyAll with no models succeeded, want error")
	}
	set := trainedSet(t)
	if _, err := driver.IdentifyAll(context.Background(), set, nil, []string{"x"}, driver.IdentifyOptions{Method: "beam"}); err == nil {
		t.Error("IdentifyAll with unknown method succeeded, want error")
	}
}
