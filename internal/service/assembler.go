package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"go.uber.org/zap"

	"github.com/calarcon/aulabot/internal/ai"
	"github.com/calarcon/aulabot/internal/filestore"
	"github.com/calarcon/aulabot/internal/model"
	appErr "github.com/calarcon/aulabot/internal/pkg/errors"
	"github.com/calarcon/aulabot/internal/pkg/logutil"
	"github.com/calarcon/aulabot/internal/repo"
	"github.com/calarcon/aulabot/internal/search"
)

// ResultLimit is how many nearest fragments a query retrieves.
const ResultLimit = 5

// UnknownCourseError reports a query against a course without a record,
// carrying the names the data store does know.
type UnknownCourseError struct {
	Course string
	Known  []string
}

func (e *UnknownCourseError) Error() string {
	return fmt.Sprintf("no record for course %q", e.Course)
}

func (e *UnknownCourseError) Unwrap() error {
	return appErr.ErrNotFound
}

// Bundle is everything Assemble gathered for one question: the course read
// model, the offering-scoped updates and documents, and the ranked search
// results over their fragments.
type Bundle struct {
	Record    *model.CourseRecord
	Updates   []model.CourseUpdate
	Documents []model.CourseDocument
	Results   []model.SearchResult
}

// Assembler builds the retrieval context for a single question. Each call
// constructs a fresh index; nothing is shared between queries.
type Assembler struct {
	repo     *repo.CourseRepo
	store    filestore.Store
	embedder ai.IEmbedder
}

func NewAssembler(courseRepo *repo.CourseRepo, store filestore.Store, embedder ai.IEmbedder) *Assembler {
	return &Assembler{repo: courseRepo, store: store, embedder: embedder}
}

// Assemble fetches the course record, narrows it to the cycle and module,
// pulls document texts from storage and runs the semantic search for query.
// Only the record fetch is fatal; storage and embedding problems are logged
// and degrade to fewer fragments or empty results.
func (a *Assembler) Assemble(ctx context.Context, course, cycle, module, section, query string) (*Bundle, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("course", course), zap.String("cycle", cycle), zap.String("module", module))

	record, err := a.repo.GetRecord(ctx, course)
	if err != nil {
		if appErr.IsNotFound(err) {
			names, listErr := a.repo.ListNames(ctx)
			if listErr != nil {
				logger.Warn("course listing failed", zap.Error(listErr))
			}
			return nil, &UnknownCourseError{Course: course, Known: names}
		}
		return nil, err
	}

	bundle := &Bundle{Record: record}
	fragments := make([]model.Fragment, 0, len(record.Updates)+len(record.Documents))

	for _, update := range record.Updates {
		if !offeringMatch(update.Cycle, update.Module, cycle, module) {
			continue
		}
		bundle.Updates = append(bundle.Updates, update)
		fragments = append(fragments, model.Fragment{
			Text:      update.Content,
			Type:      model.FragmentUpdate,
			Category:  update.Category,
			Timestamp: update.Timestamp,
		})
	}

	catalogued := make(map[string]struct{})
	for _, doc := range record.Documents {
		if !offeringMatch(doc.Cycle, doc.Module, cycle, module) {
			continue
		}
		bundle.Documents = append(bundle.Documents, doc)
		if doc.Locator == "" {
			continue
		}
		catalogued[objectKey(doc.Locator)] = struct{}{}
		text, err := a.store.FetchText(ctx, doc.Locator)
		if err != nil {
			logger.Warn("document fetch failed", zap.String("locator", doc.Locator), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		fragments = append(fragments, model.Fragment{
			Text:     text,
			Type:     model.FragmentDocument,
			Category: doc.Category,
			Title:    doc.Title,
			Source:   doc.Locator,
		})
	}

	fragments = append(fragments, a.discoverDocuments(ctx, logger, course, cycle, module, section, catalogued)...)

	index := search.New(a.embedder)
	index.Clear()
	if err := index.Add(ctx, fragments); err != nil {
		logger.Warn("fragment indexing failed", zap.Error(err))
		bundle.Results = []model.SearchResult{}
		return bundle, nil
	}
	results, err := index.Search(ctx, query, ResultLimit)
	if err != nil {
		logger.Warn("semantic search failed", zap.Error(err))
		results = []model.SearchResult{}
	}
	bundle.Results = results
	return bundle, nil
}

// discoverDocuments lists the offering's storage prefix and pulls in any
// object the catalogue does not know about yet.
func (a *Assembler) discoverDocuments(ctx context.Context, logger *zap.Logger, course, cycle, module, section string, catalogued map[string]struct{}) []model.Fragment {
	prefix := filestore.DocumentPrefix(course, cycle, module, section)
	keys, err := a.store.List(ctx, prefix)
	if err != nil {
		logger.Warn("storage listing failed", zap.String("prefix", prefix), zap.Error(err))
		return nil
	}

	fragments := make([]model.Fragment, 0, len(keys))
	for _, key := range keys {
		if _, ok := catalogued[key]; ok {
			continue
		}
		text, err := a.store.FetchText(ctx, key)
		if err != nil {
			logger.Warn("discovered object fetch failed", zap.String("key", key), zap.Error(err))
			continue
		}
		if text == "" {
			continue
		}
		fragments = append(fragments, model.Fragment{
			Text:     text,
			Type:     model.FragmentDocument,
			Category: "S3_DOCUMENT",
			Title:    path.Base(key),
			Source:   key,
		})
	}
	return fragments
}

// offeringMatch keeps a row when it targets the requested cycle and module.
// Rows that predate the cycle columns have both empty and stay visible.
func offeringMatch(rowCycle, rowModule, cycle, module string) bool {
	if rowCycle != "" && rowCycle != cycle {
		return false
	}
	if rowModule != "" && !strings.EqualFold(rowModule, module) {
		return false
	}
	return true
}

// objectKey reduces a locator to its bucket-relative key for dedup against
// discovered listings.
func objectKey(locator string) string {
	trimmed := strings.TrimSpace(locator)
	if rest, ok := strings.CutPrefix(trimmed, "s3://"); ok {
		if _, key, found := strings.Cut(rest, "/"); found {
			return key
		}
		return ""
	}
	return strings.TrimPrefix(trimmed, "/")
}
