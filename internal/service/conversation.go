package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/calarcon/aulabot/internal/ai"
	"github.com/calarcon/aulabot/internal/i18n"
	"github.com/calarcon/aulabot/internal/model"
	"github.com/calarcon/aulabot/internal/pkg/logutil"
	"github.com/calarcon/aulabot/internal/repo"
	"github.com/calarcon/aulabot/internal/session"
)

const summaryPreviewLen = 100

var yesTokens = map[string]bool{
	"sí": true, "si": true, "yes": true, "y": true,
	"arí": true, "ari": true,
}

var languageTokens = map[string]string{
	"1": "es", "es": "es", "español": "es", "espanol": "es", "spanish": "es",
	"2": "qu", "qu": "qu", "quechua": "qu", "qichwa": "qu",
}

// Conversation drives the per-user state machine: language selection, the
// course/section/cycle/module collection flow, free-text questions and the
// professor update flow. Handle is not safe for concurrent calls with the
// same user; the transport serializes them.
type Conversation struct {
	sessions  *session.Store
	repo      *repo.CourseRepo
	assistant *ai.Assistant
	gate      *Gate
	query     *QueryService
}

func NewConversation(sessions *session.Store, courseRepo *repo.CourseRepo, assistant *ai.Assistant, gate *Gate, query *QueryService) *Conversation {
	return &Conversation{
		sessions:  sessions,
		repo:      courseRepo,
		assistant: assistant,
		gate:      gate,
		query:     query,
	}
}

// Handle processes one user message and returns the reply.
func (c *Conversation) Handle(ctx context.Context, userID, text string) string {
	sess := c.sessions.Get(userID)
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)

	switch lower {
	case "/start":
		if sess.Language == "" {
			sess.Mode = session.ModeAwaitingLanguage
			return i18n.LanguagePrompt
		}
		sess.Reset()
		return c.welcome(ctx, sess)
	case "/update":
		if sess.Language == "" {
			sess.Mode = session.ModeAwaitingLanguage
			return i18n.LanguagePrompt
		}
		sess.BeginUpdate()
		return i18n.T(sess.Language, "update_welcome") + "\n\n" + i18n.T(sess.Language, "course_selection")
	}

	if sess.Mode == session.ModeAwaitingLanguage {
		return c.handleLanguage(ctx, sess, lower)
	}

	// The menu command interrupts any flow without losing language or
	// history.
	if (lower == "menu" || lower == "/menu") && sess.CanInterrupt {
		sess.Reset()
		return i18n.T(sess.Language, "return_to_menu") + "\n\n" + c.welcome(ctx, sess)
	}

	if ok, warning := c.gate.Check(ctx, trimmed); !ok {
		return warning
	}

	switch sess.Mode {
	case session.ModeCollecting:
		return c.handleCollecting(ctx, sess, trimmed)
	case session.ModeReady:
		return c.query.Answer(ctx, sess, trimmed)
	case session.ModeUpdating:
		return c.handleUpdating(ctx, sess, trimmed)
	}
	return i18n.T(sess.Language, "error_processing")
}

func (c *Conversation) handleLanguage(ctx context.Context, sess *session.Session, lower string) string {
	language, ok := languageTokens[lower]
	if !ok {
		return i18n.InvalidLanguage
	}
	sess.Language = language
	sess.Reset()
	return c.welcome(ctx, sess)
}

// welcome builds the greeting plus the course list and leaves the session
// waiting for a course name.
func (c *Conversation) welcome(ctx context.Context, sess *session.Session) string {
	var b strings.Builder
	b.WriteString(i18n.T(sess.Language, "welcome"))

	names, err := c.repo.ListNames(ctx)
	if err != nil {
		logutil.GetLogger(ctx).Error("course listing failed", zap.Error(err))
		names = nil
	}
	if len(names) > 0 {
		b.WriteString(i18n.T(sess.Language, "courses_header"))
		b.WriteString(strings.Join(names, "\n- "))
	} else {
		b.WriteString(i18n.T(sess.Language, "no_courses"))
	}
	b.WriteString(i18n.T(sess.Language, "disclaimer"))
	b.WriteString("\n\n")
	b.WriteString(i18n.T(sess.Language, "course_selection"))
	return b.String()
}

func (c *Conversation) handleCollecting(ctx context.Context, sess *session.Session, input string) string {
	switch sess.Step {
	case session.StepCourse:
		names, err := c.repo.ListNames(ctx)
		if err != nil {
			logutil.GetLogger(ctx).Error("course listing failed", zap.Error(err))
			return i18n.T(sess.Language, "error_processing")
		}
		match := c.assistant.IdentifyCourse(ctx, input, names)
		if match == model.NoMatch {
			return i18n.F(sess.Language, "course_not_found", input, "- "+strings.Join(names, "\n- "))
		}
		sess.Course = match
		sess.Step = session.StepSection
		return i18n.F(sess.Language, "course_selected", match) + "\n\n" + i18n.T(sess.Language, "section_selection")

	case session.StepSection:
		if !model.ValidSection(input) {
			return i18n.T(sess.Language, "invalid_section")
		}
		sess.Section = strings.TrimSpace(input)
		sess.Step = session.StepCycle
		return i18n.T(sess.Language, "ciclo_selection")

	case session.StepCycle:
		cycle := strings.TrimSpace(input)
		if !model.ValidCycle(cycle) {
			return i18n.T(sess.Language, "invalid_ciclo")
		}
		sess.Cycle = cycle
		sess.Step = session.StepModule
		return i18n.T(sess.Language, "modulo_selection")

	case session.StepModule:
		module := c.assistant.IdentifyModule(ctx, input)
		if module == model.NoMatch {
			return i18n.T(sess.Language, "invalid_modulo")
		}
		sess.Module = module
		sess.Mode = session.ModeReady
		sess.Step = session.StepNone
		return i18n.T(sess.Language, "ready_for_query")
	}
	return i18n.T(sess.Language, "error_processing")
}

func (c *Conversation) handleUpdating(ctx context.Context, sess *session.Session, input string) string {
	switch sess.Step {
	case session.StepUpdateCourse:
		if strings.TrimSpace(input) == "" {
			return i18n.T(sess.Language, "course_selection")
		}
		// Resolve to the canonical name when the course exists; new course
		// names pass through and get created on commit.
		course := strings.TrimSpace(input)
		if names, err := c.repo.ListNames(ctx); err == nil {
			if match := c.assistant.IdentifyCourse(ctx, course, names); match != model.NoMatch {
				course = match
			}
		}
		sess.Update.Course = course
		sess.Step = session.StepUpdateContent
		return i18n.T(sess.Language, "enter_update_content")

	case session.StepUpdateContent:
		if strings.TrimSpace(input) == "" {
			return i18n.T(sess.Language, "update_empty")
		}
		sess.Update.Content = input
		sess.Update.Category = c.assistant.SuggestCategory(ctx, input)
		sess.Step = session.StepUpdateCategoryConfirm
		return i18n.T(sess.Language, "content_received") + "\n" +
			i18n.F(sess.Language, "suggested_category", sess.Update.Category) + "\n" +
			i18n.T(sess.Language, "confirm_category")

	case session.StepUpdateCategoryConfirm:
		if yesTokens[strings.ToLower(strings.TrimSpace(input))] {
			sess.Step = session.StepUpdateCycle
			return i18n.T(sess.Language, "ciclo_selection")
		}
		sess.Step = session.StepUpdateCategoryInput
		return i18n.T(sess.Language, "enter_category")

	case session.StepUpdateCategoryInput:
		category, ok := model.NormalizeCategory(input)
		if !ok {
			return i18n.T(sess.Language, "invalid_category")
		}
		sess.Update.Category = category
		sess.Step = session.StepUpdateCycle
		return i18n.T(sess.Language, "ciclo_selection")

	case session.StepUpdateCycle:
		cycle := strings.TrimSpace(input)
		if !model.ValidCycle(cycle) {
			return i18n.T(sess.Language, "invalid_ciclo")
		}
		sess.Update.Cycle = cycle
		sess.Step = session.StepUpdateSection
		return i18n.T(sess.Language, "section_selection")

	case session.StepUpdateSection:
		if !model.ValidSection(input) {
			return i18n.T(sess.Language, "invalid_section")
		}
		sess.Update.Section = strings.TrimSpace(input)
		sess.Step = session.StepUpdateModule
		return i18n.T(sess.Language, "modulo_selection")

	case session.StepUpdateModule:
		module := c.assistant.IdentifyModule(ctx, input)
		if module == model.NoMatch {
			return i18n.T(sess.Language, "invalid_modulo")
		}
		sess.Update.Module = module
		return c.commitUpdate(ctx, sess)
	}
	return i18n.T(sess.Language, "error_processing")
}

func (c *Conversation) commitUpdate(ctx context.Context, sess *session.Session) string {
	pending := sess.Update
	err := c.repo.AddUpdate(ctx, model.UpdateInput{
		Course:   pending.Course,
		Section:  pending.Section,
		Content:  pending.Content,
		Category: pending.Category,
		Cycle:    pending.Cycle,
		Module:   pending.Module,
	})
	if err != nil {
		logutil.GetLogger(ctx).Error("update commit failed",
			zap.String("course", pending.Course), zap.Error(err))
		sess.Reset()
		return i18n.T(sess.Language, "update_error")
	}

	summary := i18n.F(sess.Language, "update_summary",
		pending.Course, pending.Section, pending.Category,
		pending.Cycle, pending.Module, preview100(pending.Content))
	sess.Reset()
	return summary + "\n\n" + i18n.T(sess.Language, "course_selection")
}

func preview100(text string) string {
	runes := []rune(text)
	if len(runes) <= summaryPreviewLen {
		return text
	}
	return string(runes[:summaryPreviewLen]) + "..."
}
