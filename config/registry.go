package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"sentiment-dashboard/models"
)

// CorpusFile is the on-disk location of one dataset.
type CorpusFile struct {
	Path      string
	Name      string
	Delimiter rune
}

// TopicFiles names the four corpora of a topic.
type TopicFiles struct {
	Name           string `yaml:"name"`
	Posts          string `yaml:"posts"`
	Comments       string `yaml:"comments"`
	PostsSample    string `yaml:"posts_sample"`
	CommentsSample string `yaml:"comments_sample"`
}

func (t TopicFiles) file(source models.SourceType, mode models.LoadMode) string {
	switch {
	case source == models.SourcePost && mode == models.ModeFull:
		return t.Posts
	case source == models.SourceComment && mode == models.ModeFull:
		return t.Comments
	case source == models.SourcePost && mode == models.ModeSample:
		return t.PostsSample
	case source == models.SourceComment && mode == models.ModeSample:
		return t.CommentsSample
	}
	return ""
}

type registryFile struct {
	DataPath   string       `yaml:"data_path"`
	CommaFiles []string     `yaml:"comma_files"`
	Topics     []TopicFiles `yaml:"topics"`
}

// Registry is the read-only topic -> corpus table. It is built once at
// startup and shared by reference.
type Registry struct {
	dataPath   string
	commaFiles map[string]struct{}
	topics     []TopicFiles
}

// DefaultRegistry returns the built-in corpus table rooted at dataPath.
func DefaultRegistry(dataPath string) *Registry {
	r, _ := newRegistry(registryFile{
		DataPath:   dataPath,
		CommaFiles: []string{"stf_comentarios_sentimento.csv", "dfpostsAB.csv", "dfcomentariosAB.csv"},
		Topics: []TopicFiles{
			{
				Name:           string(models.TopicSTF),
				Posts:          "stf_posts_sentimentoDeVerdade.csv",
				Comments:       "stf_comentarios_sentimento.csv",
				PostsSample:    "amostraCompletaSTFPosts.csv",
				CommentsSample: "amostraCompletaSTFComentarios.csv",
			},
			{
				Name:           string(models.TopicAuxilio),
				Posts:          "dfpostsAB.csv",
				Comments:       "dfcomentariosAB.csv",
				PostsSample:    "amostraCompletaABPosts.csv",
				CommentsSample: "amostraCompletaABComentarios.csv",
			},
			{
				Name:           string(models.TopicVacinacao),
				Posts:          "PostsVacinacaoSaude_final.csv",
				Comments:       "ComentariosVacinacaoSaude_final.csv",
				PostsSample:    "amostraCompletoVSPosts1.csv",
				CommentsSample: "amostraCompletoVSComentarios1.csv",
			},
		},
	})
	return r
}

// LoadRegistry parses a YAML corpus table. An empty data_path in the file
// falls back to fallbackDataPath.
func LoadRegistry(path, fallbackDataPath string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %q: %w", path, err)
	}
	var rf registryFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("registry: parse %q: %w", path, err)
	}
	if rf.DataPath == "" {
		rf.DataPath = fallbackDataPath
	}
	return newRegistry(rf)
}

func newRegistry(rf registryFile) (*Registry, error) {
	if len(rf.Topics) == 0 {
		return nil, fmt.Errorf("registry: no topics defined")
	}
	seen := make(map[string]struct{}, len(rf.Topics))
	for _, t := range rf.Topics {
		if t.Name == "" {
			return nil, fmt.Errorf("registry: topic without name")
		}
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("registry: duplicate topic %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		if t.Posts == "" || t.Comments == "" || t.PostsSample == "" || t.CommentsSample == "" {
			return nil, fmt.Errorf("registry: topic %q must name posts, comments, posts_sample and comments_sample", t.Name)
		}
	}

	comma := make(map[string]struct{}, len(rf.CommaFiles))
	for _, f := range rf.CommaFiles {
		comma[f] = struct{}{}
	}
	topics := make([]TopicFiles, len(rf.Topics))
	copy(topics, rf.Topics)

	return &Registry{dataPath: rf.DataPath, commaFiles: comma, topics: topics}, nil
}

// Topics returns the registered topics in declaration order.
func (r *Registry) Topics() []models.Topic {
	out := make([]models.Topic, len(r.topics))
	for i, t := range r.topics {
		out[i] = models.Topic(t.Name)
	}
	return out
}

// HasTopic reports whether topic is registered.
func (r *Registry) HasTopic(topic models.Topic) bool {
	_, ok := r.topic(topic)
	return ok
}

func (r *Registry) topic(topic models.Topic) (TopicFiles, bool) {
	for _, t := range r.topics {
		if t.Name == string(topic) {
			return t, true
		}
	}
	return TopicFiles{}, false
}

// Delimiter returns the field separator for a file name: comma for the
// listed files, semicolon otherwise.
func (r *Registry) Delimiter(name string) rune {
	if _, ok := r.commaFiles[name]; ok {
		return ','
	}
	return ';'
}

// File resolves a dataset identifier to its file and delimiter.
func (r *Registry) File(id models.DatasetID) (CorpusFile, error) {
	t, ok := r.topic(id.Topic)
	if !ok {
		return CorpusFile{}, fmt.Errorf("%w: %q", models.ErrUnknownTopic, id.Topic)
	}
	name := t.file(id.Source, id.Mode)
	if name == "" {
		return CorpusFile{}, fmt.Errorf("%w: %s", models.ErrUnknownDataset, id)
	}
	return CorpusFile{
		Path:      filepath.Join(r.dataPath, name),
		Name:      name,
		Delimiter: r.Delimiter(name),
	}, nil
}

// Datasets lists every registered dataset identifier, topics first, then
// source type, then full before sample.
func (r *Registry) Datasets() []models.DatasetID {
	var out []models.DatasetID
	for _, t := range r.topics {
		for _, src := range models.SourceTypes {
			for _, mode := range []models.LoadMode{models.ModeFull, models.ModeSample} {
				out = append(out, models.DatasetID{Topic: models.Topic(t.Name), Source: src, Mode: mode})
			}
		}
	}
	return out
}
