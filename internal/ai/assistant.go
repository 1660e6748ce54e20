package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"go.uber.org/zap"

	"github.com/calarcon/aulabot/internal/model"
	"github.com/calarcon/aulabot/internal/pkg/logutil"
)

// Assistant wraps the raw generator with the fixed prompts this system
// needs: fuzzy course/module identification, category suggestion and the
// final context-bound answer. Identification results are cached so the same
// input does not hit the provider twice.
type Assistant struct {
	gen     IGenerator
	cache   *expirable.LRU[string, string]
	timeout time.Duration
}

func NewAssistant(gen IGenerator, timeout time.Duration) *Assistant {
	return &Assistant{
		gen:     gen,
		cache:   expirable.NewLRU[string, string](4096, nil, 2*time.Hour),
		timeout: timeout,
	}
}

// IdentifyCourse resolves free-form input (abbreviations, typos) against the
// candidate list. Returns the exact candidate name or NO_MATCH; provider
// failures degrade to NO_MATCH.
func (a *Assistant) IdentifyCourse(ctx context.Context, input string, candidates []string) string {
	input = strings.TrimSpace(input)
	if input == "" || len(candidates) == 0 {
		return model.NoMatch
	}
	for _, name := range candidates {
		if strings.EqualFold(input, name) {
			return name
		}
	}

	cacheKey := a.cacheKey("course", input+"|"+strings.Join(candidates, "|"))
	if cached, ok := a.cache.Get(cacheKey); ok {
		return cached
	}

	prompt := fmt.Sprintf(`Actúa como un asistente que ayuda a identificar el curso más similar.

CURSOS DISPONIBLES:
%s

INPUT DEL USUARIO: "%s"

INSTRUCCIONES:
1. Analiza el input del usuario y compáralo con la lista de cursos
2. Considera variaciones en el nombre, abreviaturas comunes y errores típicos
3. Si encuentras una coincidencia razonable, devuelve el nombre exacto del curso
4. Si no hay coincidencia clara, responde "NO_MATCH"

RESPONDE SOLO CON EL NOMBRE EXACTO DEL CURSO O "NO_MATCH":`, "- "+strings.Join(candidates, "\n- "), input)

	resp, err := a.generate(ctx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Error("course identification failed", zap.Error(err))
		return model.NoMatch
	}
	match := model.NoMatch
	for _, name := range candidates {
		if strings.EqualFold(resp, name) {
			match = name
			break
		}
	}
	a.cache.Add(cacheKey, match)
	return match
}

// IdentifyModule resolves input to "A" or "B". Unambiguous spellings
// ("a", "B", "modulo a") resolve locally; everything else goes through the
// generator. Returns NO_MATCH when neither succeeds.
func (a *Assistant) IdentifyModule(ctx context.Context, input string) string {
	if m := normalizeModule(input); m != "" {
		return m
	}
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return model.NoMatch
	}

	cacheKey := a.cacheKey("module", trimmed)
	if cached, ok := a.cache.Get(cacheKey); ok {
		return cached
	}

	prompt := fmt.Sprintf(`Actúa como un asistente que ayuda a identificar el módulo más similar.

MÓDULOS DISPONIBLES:
- A
- B

INPUT DEL USUARIO: "%s"

INSTRUCCIONES:
1. Analiza el input del usuario y compáralo con los módulos disponibles
2. Identifica el módulo que mejor coincida (A o B)
3. Si no hay coincidencia clara, responde "NO_MATCH"

RESPONDE SOLO CON "A", "B" O "NO_MATCH":`, trimmed)

	resp, err := a.generate(ctx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Error("module identification failed", zap.Error(err))
		return model.NoMatch
	}
	match := model.NoMatch
	if up := strings.ToUpper(strings.TrimSpace(resp)); up == "A" || up == "B" {
		match = up
	}
	a.cache.Add(cacheKey, match)
	return match
}

// SuggestCategory proposes one of the closed category labels for the given
// update content, falling back to GENERAL on any failure or off-list reply.
func (a *Assistant) SuggestCategory(ctx context.Context, content string) string {
	cacheKey := a.cacheKey("category", content)
	if cached, ok := a.cache.Get(cacheKey); ok {
		return cached
	}

	prompt := fmt.Sprintf(`Analiza el contenido y sugiere la categoría más apropiada entre: %s

CONTENIDO:
%s

RESPONDE SOLO CON LA CATEGORÍA MÁS APROPIADA.`, strings.Join(model.Categories, ", "), content)

	resp, err := a.generate(ctx, prompt)
	if err != nil {
		logutil.GetLogger(ctx).Error("category suggestion failed", zap.Error(err))
		return "GENERAL"
	}
	category, ok := model.NormalizeCategory(resp)
	if !ok {
		category = "GENERAL"
	}
	a.cache.Add(cacheKey, category)
	return category
}

// Answer produces the reply for a student question, constrained to the
// supplied context and the session language.
func (a *Assistant) Answer(ctx context.Context, contextText, question, language string) (string, error) {
	answerLanguage := "español"
	if language == "qu" {
		answerLanguage = "quechua"
	}
	prompt := fmt.Sprintf(`Actúa como un asistente de curso universitario. Tu tarea es responder la consulta del alumno usando la información proporcionada.

CONTEXTO:
%s

CONSULTA DEL ALUMNO: "%s"

INSTRUCCIONES PARA RESPONDER:
1. Prioriza la información de los resultados de búsqueda semántica
2. Si la consulta es sobre exámenes o evaluaciones:
   - Busca en la sección "EVALUACIÓN" y organiza la información cronológicamente
   - Incluye fechas, formato, materiales permitidos e instrucciones
3. Para otros temas:
   - Usa la información más relevante encontrada por la búsqueda semántica
   - Complementa con información adicional si es necesario
4. Formato:
   - Sé conciso y directo
   - Usa viñetas para cada punto
   - Cita las fuentes
   - Resalta fechas importantes

RESPONDE AHORA en %s. Traduce incluso la información que has encontrado:`, contextText, question, answerLanguage)

	return a.generate(ctx, prompt)
}

func (a *Assistant) generate(ctx context.Context, prompt string) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	resp, err := a.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp)
	if text == "" {
		return "", fmt.Errorf("empty ai response")
	}
	return text, nil
}

func (a *Assistant) cacheKey(feature, text string) string {
	hash := sha256.Sum256([]byte(text))
	return feature + ":" + hex.EncodeToString(hash[:])
}

func normalizeModule(input string) string {
	cleaned := strings.TrimSpace(strings.ToLower(input))
	cleaned = strings.Trim(cleaned, ".:;,!?\"'")
	for _, prefix := range []string{"módulo", "modulo", "module", "mod"} {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, prefix))
	}
	switch cleaned {
	case "a":
		return "A"
	case "b":
		return "B"
	}
	return ""
}
