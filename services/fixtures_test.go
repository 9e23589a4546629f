package services

import (
	"os"
	"path/filepath"
	"testing"

	"sentiment-dashboard/config"
	"sentiment-dashboard/storage"
)

const stfPostsSample = `Unnamed: 0;Rótulo;Classe Sentimento;prob_NEG;prob_NEU;prob_POS
0;NEG;NEG;0.9;0.05;0.05
1;NEG;NEU;0.3;0.6;0.1
2;NEU;NEU;0.1;0.8;0.1
3;POS;POS;0.1;0.1;0.8
`

// No ground-truth column: evaluation of this sample must be skipped.
const stfCommentsSample = `Classe Sentimento;prob_NEG;prob_NEU;prob_POS
NEG;0.9;0.05;0.05
POS;0.1;0.1;0.8
`

const stfPostsFull = `Classe Sentimento;Subreddit;created_at
POS;brasil;2023-01-10
NEG;brasil;2023-07-05
NEY;brasil;2023-07-20
NEG;brasil;2023-06-30
`

// newFixtureLoader writes the STF corpora into a temp dir and returns a
// loader over the default registry. Every other topic file is missing.
func newFixtureLoader(t *testing.T) *storage.Loader {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"amostraCompletaSTFPosts.csv":       stfPostsSample,
		"amostraCompletaSTFComentarios.csv": stfCommentsSample,
		"stf_posts_sentimentoDeVerdade.csv": stfPostsFull,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	reg := config.DefaultRegistry(dir)
	logger := newTestLogger()
	return storage.NewLoader(reg, storage.NewCSVSource(reg, logger), logger)
}
