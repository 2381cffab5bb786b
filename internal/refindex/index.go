package refindex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
	bquery "github.com/blevesearch/bleve/v2/search/query"
)

// Snippet is a scored search hit: a window of lines from one reference file.
type Snippet struct {
	ID        string
	FilePath  string
	Lang      string
	StartLine int
	EndLine   int
	Text      string
	Score     float64
}

const (
	chunkWindow  = 40 // lines per indexed chunk
	chunkOverlap = 10
)

// Index is a bleve-backed full-text index over a reference codebase.
type Index struct {
	index  bleve.Index
	walker *Walker
	root   string

	mu         sync.Mutex
	fileChunks map[string][]string // relative path -> chunk IDs
}

// Open creates or opens an index for the reference tree at root. An empty
// indexPath keeps the index in memory, which tests rely on.
func Open(root, indexPath string) (*Index, error) {
	walker, err := NewWalker(root)
	if err != nil {
		return nil, err
	}

	var index bleve.Index
	if indexPath == "" {
		index, err = bleve.NewMemOnly(buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("failed to create in-memory index: %w", err)
		}
	} else {
		index, err = bleve.Open(indexPath)
		if err == bleve.ErrorIndexPathDoesNotExist {
			index, err = bleve.New(indexPath, buildIndexMapping())
			if err != nil {
				return nil, fmt.Errorf("failed to create index: %w", err)
			}
		} else if err != nil {
			// Corrupted on disk, recreate from scratch.
			os.RemoveAll(indexPath)
			index, err = bleve.New(indexPath, buildIndexMapping())
			if err != nil {
				return nil, fmt.Errorf("failed to recreate index: %w", err)
			}
		}
	}

	return &Index{
		index:      index,
		walker:     walker,
		root:       root,
		fileChunks: make(map[string][]string),
	}, nil
}

func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	chunkMapping := bleve.NewDocumentMapping()

	filePathField := bleve.NewTextFieldMapping()
	filePathField.Analyzer = keyword.Name
	filePathField.Store = true
	chunkMapping.AddFieldMappingsAt("file_path", filePathField)

	langField := bleve.NewTextFieldMapping()
	langField.Analyzer = keyword.Name
	langField.Store = true
	chunkMapping.AddFieldMappingsAt("lang", langField)

	textField := bleve.NewTextFieldMapping()
	textField.Analyzer = standard.Name
	textField.Store = true
	chunkMapping.AddFieldMappingsAt("text", textField)

	lineField := bleve.NewNumericFieldMapping()
	lineField.Store = true
	lineField.Index = false
	chunkMapping.AddFieldMappingsAt("start_line", lineField)
	chunkMapping.AddFieldMappingsAt("end_line", lineField)

	indexMapping.DefaultMapping = chunkMapping
	return indexMapping
}

// Rebuild walks the reference tree and re-indexes everything. Returns the
// number of files indexed.
func (ix *Index) Rebuild() (int, error) {
	files, err := ix.walker.Walk()
	if err != nil {
		return 0, err
	}

	batch := ix.index.NewBatch()
	for _, f := range files {
		if err := ix.addFileToBatch(batch, f); err != nil {
			// A single unreadable file must not abort the rebuild.
			continue
		}
	}
	if err := ix.index.Batch(batch); err != nil {
		return 0, fmt.Errorf("failed to apply index batch: %w", err)
	}
	return len(files), nil
}

// UpdateFiles re-indexes the given root-relative paths. Deleted files are
// purged from the index.
func (ix *Index) UpdateFiles(relPaths []string) error {
	batch := ix.index.NewBatch()
	for _, rel := range relPaths {
		lang := detectLang(rel)
		if lang == "" {
			continue
		}
		abs := filepath.Join(ix.root, rel)
		if _, err := os.Stat(abs); err != nil {
			ix.deleteFileChunks(batch, rel)
			continue
		}
		ix.deleteFileChunks(batch, rel)
		if err := ix.addFileToBatch(batch, SourceFile{Path: rel, AbsPath: abs, Lang: lang}); err != nil {
			continue
		}
	}
	return ix.index.Batch(batch)
}

func (ix *Index) addFileToBatch(batch *bleve.Batch, f SourceFile) error {
	data, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return err
	}

	var ids []string
	lines := strings.Split(string(data), "\n")
	for start := 0; start < len(lines); start += chunkWindow - chunkOverlap {
		end := start + chunkWindow
		if end > len(lines) {
			end = len(lines)
		}
		id := fmt.Sprintf("%s:%d", f.Path, start+1)
		doc := map[string]interface{}{
			"file_path":  f.Path,
			"lang":       f.Lang,
			"text":       strings.Join(lines[start:end], "\n"),
			"start_line": start + 1,
			"end_line":   end,
		}
		if err := batch.Index(id, doc); err != nil {
			return err
		}
		ids = append(ids, id)
		if end == len(lines) {
			break
		}
	}

	ix.mu.Lock()
	ix.fileChunks[f.Path] = ids
	ix.mu.Unlock()
	return nil
}

func (ix *Index) deleteFileChunks(batch *bleve.Batch, relPath string) {
	ix.mu.Lock()
	ids := ix.fileChunks[relPath]
	delete(ix.fileChunks, relPath)
	ix.mu.Unlock()

	for _, id := range ids {
		batch.Delete(id)
	}
}

// Search runs a full-text query and returns the top k snippets. Optional
// globs restrict hits to matching file paths.
func (ix *Index) Search(query string, globs []string, k int) ([]Snippet, error) {
	if k <= 0 {
		k = 5
	}

	matchQuery := bleve.NewMatchQuery(query)
	var combined bquery.Query = matchQuery

	if len(globs) > 0 {
		disjunction := bleve.NewDisjunctionQuery()
		for _, glob := range globs {
			pattern := strings.ReplaceAll(glob, "**", "*")
			if !strings.HasPrefix(pattern, "*") {
				pattern = "*" + pattern
			}
			wildcard := bleve.NewWildcardQuery(pattern)
			wildcard.SetField("file_path")
			disjunction.AddQuery(wildcard)
		}
		combined = bleve.NewConjunctionQuery(matchQuery, disjunction)
	}

	req := bleve.NewSearchRequest(combined)
	req.Size = k
	req.Fields = []string{"file_path", "lang", "text", "start_line", "end_line"}

	res, err := ix.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("reference search failed: %w", err)
	}

	snippets := make([]Snippet, 0, len(res.Hits))
	for _, hit := range res.Hits {
		s := Snippet{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["file_path"].(string); ok {
			s.FilePath = v
		}
		if v, ok := hit.Fields["lang"].(string); ok {
			s.Lang = v
		}
		if v, ok := hit.Fields["text"].(string); ok {
			s.Text = v
		}
		if v, ok := hit.Fields["start_line"].(float64); ok {
			s.StartLine = int(v)
		}
		if v, ok := hit.Fields["end_line"].(float64); ok {
			s.EndLine = int(v)
		}
		snippets = append(snippets, s)
	}
	return snippets, nil
}

// Close closes the underlying bleve index.
func (ix *Index) Close() error {
	return ix.index.Close()
}
