package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/calarcon/aulabot/internal/ai"
	"github.com/calarcon/aulabot/internal/i18n"
	"github.com/calarcon/aulabot/internal/pkg/logutil"
	"github.com/calarcon/aulabot/internal/session"
)

// RelevanceFloor is the minimum score a search result needs to be quoted in
// the answer context.
const RelevanceFloor = 0.5

const fragmentPreviewLen = 200

// QueryService answers a ready session's free-text question: assemble the
// retrieval context, hand it to the assistant, keep the history consistent.
type QueryService struct {
	assembler *Assembler
	assistant *ai.Assistant
}

func NewQueryService(assembler *Assembler, assistant *ai.Assistant) *QueryService {
	return &QueryService{assembler: assembler, assistant: assistant}
}

// Answer resolves one question for a session that has a full course
// selection. The user turn is always recorded; the assistant turn only when
// generation succeeds, so a retry does not see a phantom reply.
func (s *QueryService) Answer(ctx context.Context, sess *session.Session, question string) string {
	logger := logutil.GetLogger(ctx).With(zap.String("user", sess.UserID), zap.String("course", sess.Course))

	bundle, err := s.assembler.Assemble(ctx, sess.Course, sess.Cycle, sess.Module, sess.Section, question)
	if err != nil {
		sess.Append("user", question)
		var unknown *UnknownCourseError
		if errors.As(err, &unknown) {
			reply := i18n.F(sess.Language, "no_course_info", sess.Course, sess.Cycle, sess.Module)
			if len(unknown.Known) > 0 {
				reply += i18n.T(sess.Language, "courses_header") + strings.Join(unknown.Known, "\n- ")
			}
			return reply
		}
		logger.Error("context assembly failed", zap.Error(err))
		return i18n.T(sess.Language, "error_processing")
	}

	contextText := s.formatContext(sess.Language, bundle, sess.Cycle, sess.Module)
	answer, err := s.assistant.Answer(ctx, contextText, question, sess.Language)
	if err != nil {
		logger.Error("answer generation failed", zap.Error(err))
		sess.Append("user", question)
		return i18n.T(sess.Language, "error_processing")
	}

	sess.Append("user", question)
	sess.Append("assistant", answer)
	return answer
}

func (s *QueryService) formatContext(language string, bundle *Bundle, cycle, module string) string {
	record := bundle.Record

	updatesText := i18n.T(language, "no_updates")
	if len(bundle.Updates) > 0 {
		var b strings.Builder
		for _, update := range bundle.Updates {
			fmt.Fprintf(&b, "[%s] %s: %s\n", update.Timestamp, update.Category, update.Content)
		}
		updatesText = strings.TrimRight(b.String(), "\n")
	}

	header := i18n.F(language, "course_info",
		record.Name,
		record.Section,
		cycle,
		module,
		strings.Join(record.Categories, ", "),
		record.LastUpdate,
		len(bundle.Updates),
		updatesText,
	)

	var relevant strings.Builder
	for _, result := range bundle.Results {
		if result.Score <= RelevanceFloor {
			continue
		}
		label := string(result.Fragment.Type)
		if result.Fragment.Title != "" {
			label = result.Fragment.Title
		}
		fmt.Fprintf(&relevant, "- (%.2f) [%s] %s: %s\n",
			result.Score, result.Fragment.Category, label, preview(result.Fragment.Text))
	}

	contextText := header + "\n\nRESULTADOS DE BÚSQUEDA SEMÁNTICA (ordenados por relevancia):\n"
	if relevant.Len() == 0 {
		return contextText + "No se encontró información relevante para esta consulta."
	}
	return contextText + strings.TrimRight(relevant.String(), "\n")
}

func preview(text string) string {
	runes := []rune(strings.Join(strings.Fields(text), " "))
	if len(runes) <= fragmentPreviewLen {
		return string(runes)
	}
	return string(runes[:fragmentPreviewLen]) + "..."
}
