package service

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/calarcon/aulabot/internal/ai"
	"github.com/calarcon/aulabot/internal/config"
	"github.com/calarcon/aulabot/internal/filestore"
	"github.com/calarcon/aulabot/internal/i18n"
	"github.com/calarcon/aulabot/internal/model"
	"github.com/calarcon/aulabot/internal/repo"
	"github.com/calarcon/aulabot/internal/session"
)

// conversationGen routes prompts by their fixed markers so one fake can
// serve moderation, identification, category and answer calls.
type conversationGen struct {
	moderation    string
	course        string
	category      string
	answer        string
	answerCalls   int
	categoryCalls int
	answerPrompts []string
}

func (g *conversationGen) Generate(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "determina si es apropiado"):
		if g.moderation == "" {
			return "APPROPRIATE", nil
		}
		return g.moderation, nil
	case strings.Contains(prompt, "CURSOS DISPONIBLES"):
		if g.course == "" {
			return "NO_MATCH", nil
		}
		return g.course, nil
	case strings.Contains(prompt, "MÓDULOS DISPONIBLES"):
		return "NO_MATCH", nil
	case strings.Contains(prompt, "sugiere la categoría"):
		g.categoryCalls++
		if g.category == "" {
			return "TAREA", nil
		}
		return g.category, nil
	case strings.Contains(prompt, "CONSULTA DEL ALUMNO"):
		g.answerCalls++
		g.answerPrompts = append(g.answerPrompts, prompt)
		if g.answer == "" {
			return "aquí tienes la respuesta", nil
		}
		return g.answer, nil
	}
	return "NO_MATCH", nil
}

type constantEmbedder struct{}

func (constantEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (constantEmbedder) ModelName() string {
	return "constant"
}

type fixture struct {
	conv      *Conversation
	sessions  *session.Store
	repo      *repo.CourseRepo
	assembler *Assembler
	gen       *conversationGen
	docsDir   string
}

func setupConversation(t *testing.T) *fixture {
	t.Helper()

	db, err := repo.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, repo.ApplyMigrations(db, filepath.Join("..", "..", "migrations")))
	courseRepo := repo.NewCourseRepo(db)

	docsDir := t.TempDir()
	store, err := filestore.New(config.FileStoreConfig{
		Type: "local",
		Data: map[string]interface{}{"dir": docsDir},
	})
	require.NoError(t, err)

	gen := &conversationGen{}
	assistant := ai.NewAssistant(gen, time.Second)
	sessions := session.NewStore()
	gate := NewGate(gen)
	assembler := NewAssembler(courseRepo, store, constantEmbedder{})
	query := NewQueryService(assembler, assistant)
	conv := NewConversation(sessions, courseRepo, assistant, gate, query)

	return &fixture{
		conv:      conv,
		sessions:  sessions,
		repo:      courseRepo,
		assembler: assembler,
		gen:       gen,
		docsDir:   docsDir,
	}
}

func (f *fixture) seedCourse(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, f.repo.AddUpdate(context.Background(), model.UpdateInput{
		Course:   "Algoritmos",
		Section:  "G1",
		Content:  content,
		Category: "EVALUACIÓN",
		Cycle:    "20241",
		Module:   "A",
	}))
}

// selectLanguage completes language selection for a fresh user.
func (f *fixture) selectLanguage(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	f.conv.Handle(ctx, userID, "/start")
	reply := f.conv.Handle(ctx, userID, "1")
	require.Contains(t, reply, i18n.T("es", "welcome"))
}

// walkToReady drives a fresh user through language and course selection.
func (f *fixture) walkToReady(t *testing.T, userID string) {
	t.Helper()
	ctx := context.Background()
	f.conv.Handle(ctx, userID, "/start")
	f.conv.Handle(ctx, userID, "1")
	f.conv.Handle(ctx, userID, "Algoritmos")
	f.conv.Handle(ctx, userID, "G1")
	f.conv.Handle(ctx, userID, "20241")
	reply := f.conv.Handle(ctx, userID, "a")
	require.Equal(t, i18n.T("es", "ready_for_query"), reply)
}

func TestLanguageSelection(t *testing.T) {
	f := setupConversation(t)
	f.seedCourse(t, "Examen parcial el viernes")
	ctx := context.Background()

	reply := f.conv.Handle(ctx, "user-1", "/start")
	require.Equal(t, i18n.LanguagePrompt, reply)

	reply = f.conv.Handle(ctx, "user-1", "zzz")
	require.Equal(t, i18n.InvalidLanguage, reply)

	reply = f.conv.Handle(ctx, "user-1", "1")
	require.Contains(t, reply, "Algoritmos")
	require.Contains(t, reply, i18n.T("es", "course_selection"))
	require.Equal(t, "es", f.sessions.Get("user-1").Language)
}

func TestQuechuaSelection(t *testing.T) {
	f := setupConversation(t)
	ctx := context.Background()
	f.conv.Handle(ctx, "user-1", "/start")
	reply := f.conv.Handle(ctx, "user-1", "quechua")
	require.Contains(t, reply, i18n.T("qu", "welcome"))
	require.Equal(t, "qu", f.sessions.Get("user-1").Language)
}

func TestFullQueryFlow(t *testing.T) {
	f := setupConversation(t)
	f.seedCourse(t, "Examen parcial el viernes en el aula B402")

	f.walkToReady(t, "user-1")
	reply := f.conv.Handle(context.Background(), "user-1", "¿cuándo es el examen parcial?")
	require.Equal(t, "aquí tienes la respuesta", reply)

	require.Equal(t, 1, f.gen.answerCalls)
	prompt := f.gen.answerPrompts[0]
	require.Contains(t, prompt, "Examen parcial el viernes en el aula B402")
	require.Contains(t, prompt, "¿cuándo es el examen parcial?")
	require.Contains(t, prompt, "(1.00)")

	history := f.sessions.Get("user-1").History
	require.Len(t, history, 2)
	require.Equal(t, "user", history[0].Role)
	require.Equal(t, "assistant", history[1].Role)
}

func TestDiscoveredDocumentReachesContext(t *testing.T) {
	f := setupConversation(t)
	f.seedCourse(t, "Revisar el sílabo")

	docDir := filepath.Join(f.docsDir, "algoritmos", "20241", "A", "g1")
	require.NoError(t, os.MkdirAll(docDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(docDir, "silabo.md"),
		[]byte("# Sílabo\nEl curso usa Python y evaluación continua"), 0o644))

	f.walkToReady(t, "user-1")
	f.conv.Handle(context.Background(), "user-1", "¿qué lenguaje usa el curso?")

	require.Equal(t, 1, f.gen.answerCalls)
	prompt := f.gen.answerPrompts[0]
	require.Contains(t, prompt, "El curso usa Python")
	require.Contains(t, prompt, "S3_DOCUMENT")
}

func TestInvalidCycleKeepsStep(t *testing.T) {
	f := setupConversation(t)
	f.seedCourse(t, "hola")
	ctx := context.Background()

	f.conv.Handle(ctx, "user-1", "/start")
	f.conv.Handle(ctx, "user-1", "1")
	f.conv.Handle(ctx, "user-1", "Algoritmos")
	f.conv.Handle(ctx, "user-1", "G1")

	for _, bad := range []string{"2024", "202413", "19991", "20243"} {
		reply := f.conv.Handle(ctx, "user-1", bad)
		require.Equal(t, i18n.T("es", "invalid_ciclo"), reply, bad)
		require.Equal(t, session.StepCycle, f.sessions.Get("user-1").Step)
	}

	f.conv.Handle(ctx, "user-1", "20241")
	require.Equal(t, session.StepModule, f.sessions.Get("user-1").Step)
}

func TestMenuInterruptPreservesLanguageAndHistory(t *testing.T) {
	f := setupConversation(t)
	f.seedCourse(t, "Examen parcial el viernes")

	f.walkToReady(t, "user-1")
	f.conv.Handle(context.Background(), "user-1", "¿cuándo es el examen?")

	reply := f.conv.Handle(context.Background(), "user-1", "menu")
	require.Contains(t, reply, i18n.T("es", "return_to_menu"))

	sess := f.sessions.Get("user-1")
	require.Equal(t, "es", sess.Language)
	require.Equal(t, session.ModeCollecting, sess.Mode)
	require.Equal(t, session.StepCourse, sess.Step)
	require.Empty(t, sess.Course)
	require.Len(t, sess.History, 2)
}

func TestUnknownCourseNeverGenerates(t *testing.T) {
	f := setupConversation(t)

	sess := f.sessions.Get("user-1")
	sess.Language = "es"
	sess.Mode = session.ModeReady
	sess.Course = "Fantasma"
	sess.Section = "G1"
	sess.Cycle = "20241"
	sess.Module = "A"

	reply := f.conv.Handle(context.Background(), "user-1", "¿cuándo es el examen?")
	require.Contains(t, reply, "No encontré información para el curso 'Fantasma'")
	require.Zero(t, f.gen.answerCalls)
	require.Len(t, sess.History, 1)
}

func TestUpdateRequiresLanguageFirst(t *testing.T) {
	f := setupConversation(t)
	ctx := context.Background()

	reply := f.conv.Handle(ctx, "user-1", "/update")
	require.Equal(t, i18n.LanguagePrompt, reply)
	require.Equal(t, session.ModeAwaitingLanguage, f.sessions.Get("user-1").Mode)

	f.conv.Handle(ctx, "user-1", "1")
	reply = f.conv.Handle(ctx, "user-1", "/update")
	require.Contains(t, reply, i18n.T("es", "update_welcome"))
}

func TestModerationBlocksUpdateContent(t *testing.T) {
	f := setupConversation(t)
	ctx := context.Background()

	f.selectLanguage(t, "user-1")
	f.conv.Handle(ctx, "user-1", "/update")
	f.conv.Handle(ctx, "user-1", "Redes")
	require.Equal(t, session.StepUpdateContent, f.sessions.Get("user-1").Step)

	f.gen.moderation = "INAPPROPRIATE: lenguaje ofensivo"
	reply := f.conv.Handle(ctx, "user-1", "contenido ofensivo")
	require.Contains(t, reply, "ADVERTENCIA")
	require.Contains(t, reply, "lenguaje ofensivo")
	require.Equal(t, session.StepUpdateContent, f.sessions.Get("user-1").Step)
	require.Zero(t, f.gen.categoryCalls)
}

func TestUpdateFlowCommits(t *testing.T) {
	f := setupConversation(t)
	ctx := context.Background()

	f.selectLanguage(t, "user-1")
	reply := f.conv.Handle(ctx, "user-1", "/update")
	require.Contains(t, reply, i18n.T("es", "update_welcome"))

	reply = f.conv.Handle(ctx, "user-1", "Redes")
	require.Equal(t, i18n.T("es", "enter_update_content"), reply)

	reply = f.conv.Handle(ctx, "user-1", "Examen parcial el viernes")
	require.Contains(t, reply, i18n.F("es", "suggested_category", "TAREA"))
	require.Contains(t, reply, i18n.T("es", "confirm_category"))

	reply = f.conv.Handle(ctx, "user-1", "no")
	require.Equal(t, i18n.T("es", "enter_category"), reply)

	reply = f.conv.Handle(ctx, "user-1", "categoria rara")
	require.Equal(t, i18n.T("es", "invalid_category"), reply)

	reply = f.conv.Handle(ctx, "user-1", "clase")
	require.Equal(t, i18n.T("es", "ciclo_selection"), reply)

	reply = f.conv.Handle(ctx, "user-1", "20252")
	require.Equal(t, i18n.T("es", "section_selection"), reply)

	reply = f.conv.Handle(ctx, "user-1", "G2")
	require.Equal(t, i18n.T("es", "modulo_selection"), reply)

	reply = f.conv.Handle(ctx, "user-1", "b")
	require.Contains(t, reply, "Redes")
	require.Contains(t, reply, "CLASE")
	require.Contains(t, reply, "20252")
	require.Contains(t, reply, "G2")

	record, err := f.repo.GetRecord(ctx, "Redes")
	require.NoError(t, err)
	require.Len(t, record.Updates, 1)
	require.Equal(t, "CLASE", record.Updates[0].Category)
	require.Equal(t, "Examen parcial el viernes", record.Updates[0].Content)

	sess := f.sessions.Get("user-1")
	require.Equal(t, session.ModeCollecting, sess.Mode)
	require.Equal(t, session.PendingUpdate{}, sess.Update)
}

func TestCategoryConfirmAcceptsYesTokens(t *testing.T) {
	f := setupConversation(t)
	ctx := context.Background()

	f.selectLanguage(t, "user-1")
	f.conv.Handle(ctx, "user-1", "/update")
	f.conv.Handle(ctx, "user-1", "Redes")
	f.conv.Handle(ctx, "user-1", "Subir la tarea 2")

	reply := f.conv.Handle(ctx, "user-1", "Sí")
	require.Equal(t, i18n.T("es", "ciclo_selection"), reply)
	require.Equal(t, "TAREA", f.sessions.Get("user-1").Update.Category)
}
