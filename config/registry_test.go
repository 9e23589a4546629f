package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sentiment-dashboard/models"
)

func TestDefaultRegistryDelimiters(t *testing.T) {
	r := DefaultRegistry("data")

	tests := []struct {
		id        models.DatasetID
		wantName  string
		wantDelim rune
	}{
		{models.DatasetID{Topic: models.TopicSTF, Source: models.SourceComment, Mode: models.ModeFull}, "stf_comentarios_sentimento.csv", ','},
		{models.DatasetID{Topic: models.TopicSTF, Source: models.SourcePost, Mode: models.ModeFull}, "stf_posts_sentimentoDeVerdade.csv", ';'},
		{models.DatasetID{Topic: models.TopicAuxilio, Source: models.SourcePost, Mode: models.ModeFull}, "dfpostsAB.csv", ','},
		{models.DatasetID{Topic: models.TopicAuxilio, Source: models.SourceComment, Mode: models.ModeSample}, "amostraCompletaABComentarios.csv", ';'},
		{models.DatasetID{Topic: models.TopicVacinacao, Source: models.SourcePost, Mode: models.ModeSample}, "amostraCompletoVSPosts1.csv", ';'},
	}

	for _, tt := range tests {
		f, err := r.File(tt.id)
		if err != nil {
			t.Fatalf("File(%s) error: %v", tt.id, err)
		}
		if f.Name != tt.wantName {
			t.Errorf("File(%s).Name = %q; want %q", tt.id, f.Name, tt.wantName)
		}
		if f.Delimiter != tt.wantDelim {
			t.Errorf("File(%s).Delimiter = %q; want %q", tt.id, f.Delimiter, tt.wantDelim)
		}
		if f.Path != filepath.Join("data", tt.wantName) {
			t.Errorf("File(%s).Path = %q", tt.id, f.Path)
		}
	}
}

func TestRegistryTopicsOrder(t *testing.T) {
	r := DefaultRegistry("data")
	got := r.Topics()
	want := []models.Topic{models.TopicSTF, models.TopicAuxilio, models.TopicVacinacao}
	if len(got) != len(want) {
		t.Fatalf("Topics len: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Topics[%d] = %q; want %q", i, got[i], want[i])
		}
	}
	if n := len(r.Datasets()); n != 12 {
		t.Errorf("Datasets: got %d, want 12", n)
	}
}

func TestRegistryUnknownTopic(t *testing.T) {
	r := DefaultRegistry("data")
	_, err := r.File(models.DatasetID{Topic: "Eleições", Source: models.SourcePost, Mode: models.ModeFull})
	if !errors.Is(err, models.ErrUnknownTopic) {
		t.Errorf("expected ErrUnknownTopic, got %v", err)
	}
}

func TestLoadRegistryYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	body := `
comma_files: [a_posts.csv]
topics:
  - name: Alpha
    posts: a_posts.csv
    comments: a_comments.csv
    posts_sample: a_posts_sample.csv
    comments_sample: a_comments_sample.csv
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	r, err := LoadRegistry(path, "/srv/data")
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	f, err := r.File(models.DatasetID{Topic: "Alpha", Source: models.SourcePost, Mode: models.ModeFull})
	if err != nil {
		t.Fatal(err)
	}
	if f.Delimiter != ',' || f.Path != filepath.Join("/srv/data", "a_posts.csv") {
		t.Errorf("unexpected corpus file %+v", f)
	}
}

func TestLoadRegistryRejectsIncompleteTopic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	body := "topics:\n  - name: Beta\n    posts: b.csv\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRegistry(path, "data"); err == nil {
		t.Error("expected error for topic missing corpora")
	}
}
