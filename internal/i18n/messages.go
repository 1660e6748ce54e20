package i18n

import "fmt"

// Messages returns the message table for a language, falling back to
// Spanish. Tables are plain fmt templates; callers format with F.
func Messages(language string) map[string]string {
	if table, ok := tables[language]; ok {
		return table
	}
	return tables["es"]
}

// T looks up a single message.
func T(language, key string) string {
	return Messages(language)[key]
}

// F looks up a message and formats it.
func F(language, key string, args ...interface{}) string {
	return fmt.Sprintf(T(language, key), args...)
}

// ModerationWarning is shown whenever the moderation gate rejects input.
// Single fixed text: moderation may fire before a language is chosen.
const ModerationWarning = "⚠️ ADVERTENCIA: Tu mensaje ha sido detectado como inapropiado.\n\n" +
	"Razón: %s\n\n" +
	"🚫 Este tipo de contenido está estrictamente prohibido y será reportado " +
	"inmediatamente a las autoridades universitarias.\n\n" +
	"⚠️ Consecuencias:\n" +
	"- Reporte inmediato a la universidad\n" +
	"- Posible expulsión del curso\n" +
	"- Proceso disciplinario\n\n" +
	"Por favor, mantén un ambiente respetuoso y profesional en todas tus interacciones."

// LanguagePrompt is shown before any language is selected.
const LanguagePrompt = "Selecciona tu idioma / Simiykita akllay:\n1. Español 🇵🇪\n2. Quechua 🇵🇪"

// InvalidLanguage re-prompts an unrecognized language choice.
const InvalidLanguage = "Por favor, selecciona un idioma válido (1/2)"

var tables = map[string]map[string]string{
	"es": {
		"welcome":              "¡Bienvenido al asistente de cursos! 👋\n",
		"disclaimer":           "\n\n⚠️ Este es un asistente de IA entrenado con datos del curso. Por favor, verifica la información con tus profesores.\nPara cualquier consulta, contacta al profesor Carlos Adrian Alarcon: pciscala@upc.edu.pe",
		"courses_header":       "\nCursos disponibles:\n- ",
		"no_courses":           "\nNo hay cursos disponibles en la base de datos.",
		"course_selection":     "Por favor, selecciona un curso de la lista:\n\n(Escribe 'menu' para volver al menú principal)",
		"ciclo_selection":      "Por favor, ingresa el ciclo en formato YYYY1 o YYYY2 (ejemplo: 20241 para el primer semestre de 2024):\n\n(Escribe 'menu' para volver al menú principal)",
		"modulo_selection":     "Por favor, selecciona el módulo (A o B):\n\n(Escribe 'menu' para volver al menú principal)",
		"section_selection":    "Por favor, ingresa la sección del curso (ejemplo: G1, G2, etc.):\n\n(Escribe 'menu' para volver al menú principal)",
		"ready_for_query":      "¡Perfecto! Ahora puedes hacer preguntas sobre el curso.\n\n(Escribe 'menu' para volver al menú principal)",
		"course_not_found":     "❌ No pude encontrar el curso '%s'.\n\nCursos disponibles:\n%s\n\nPor favor, intenta escribir el nombre exacto de uno de estos cursos.",
		"invalid_ciclo":        "Por favor, ingresa un ciclo válido en formato YYYY1 o YYYY2 (ejemplo: 20241).\n\n(Escribe 'menu' para volver al menú principal)",
		"invalid_modulo":       "Por favor, selecciona un módulo válido (A o B).\n\n(Escribe 'menu' para volver al menú principal)",
		"invalid_section":      "La sección no puede estar vacía. Por favor, ingresa una sección válida.\n\n(Escribe 'menu' para volver al menú principal)",
		"error_processing":     "Lo siento, hubo un error al procesar tu mensaje. Por favor, intenta de nuevo.\n\n(Escribe 'menu' para volver al menú principal)",
		"return_to_menu":       "🔄 Volviendo al menú principal...",
		"no_course_info":       "No encontré información para el curso '%s' en el ciclo %s y módulo %s.\n\n(Escribe 'menu' para volver al menú principal)",
		"course_selected":      "✅ Curso seleccionado: %s",
		"course_info":          "Información del curso:\nNombre: %s\nSección: %s\nCiclo: %s\nMódulo: %s\nCategorías: %s\nÚltima actualización: %s\nActualizaciones disponibles: %d\n\nActualizaciones:\n%s",
		"no_updates":           "No hay actualizaciones disponibles.",
		"update_welcome":       "👋 ¡Hola profesor! Bienvenido al sistema de actualización de cursos.",
		"enter_update_content": "Por favor, ingresa el contenido de la actualización o envía el documento que deseas subir.",
		"content_received":     "📝 Contenido recibido",
		"suggested_category":   "Categoría sugerida: %s",
		"confirm_category":     "¿Deseas confirmar esta categoría? (sí/no)",
		"enter_category":       "Por favor, ingresa la categoría deseada (EVALUACIÓN, CLASE, TAREA, SÍLABO, CRONOGRAMA, GENERAL):",
		"invalid_category":     "❌ Categoría no válida. Por favor, selecciona una de las opciones disponibles.",
		"update_empty":         "❌ La actualización no puede estar vacía.\n\n(Escribe 'menu' para volver al menú principal)",
		"update_error":         "❌ Error al guardar la actualización.\n\n(Escribe 'menu' para volver al menú principal)",
		"update_summary":       "✅ ¡Actualización guardada exitosamente!\n\nResumen:\n- Curso: %s\n- Sección: %s\n- Categoría: %s\n- Ciclo: %s\n- Módulo: %s\n- Contenido: %s",
	},
	"qu": {
		"welcome":              "¡Allin hamunayki yachay yanapaqman! 👋\n",
		"disclaimer":           "\n\n⚠️ Kayqa yachay wasimanta yachachisqa IA yanapakuqmi. Ama hina kaspa, yachachiqkunawan willakuyta chiqaqchay.\nIma tapukuypaqpas, yachachiq Carlos Adrian Alarconwan rimanakuy: pciscala@upc.edu.pe",
		"courses_header":       "\nKay yachaykuna kan:\n- ",
		"no_courses":           "\nMana yachaykuna kanchu base de datospi.",
		"course_selection":     "Ama hina kaspa, huk yachayta akllay kay listamanta:\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"ciclo_selection":      "Ama hina kaspa, YYYY1 utaq YYYY2 formatupi cicloykita qillqay (ejemplopaq: 20241 ñawpaq semestrepaq 2024 watapi):\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"modulo_selection":     "Ama hina kaspa, akllay huk modulota (A utaq B):\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"section_selection":    "Ama hina kaspa, seccionniykita qillqay (ejemplopaq: G1, G2, hukniraq):\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"ready_for_query":      "¡Allinmi! Kunanqa yachaymanta tapukuyta atinki.\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"course_not_found":     "❌ Mana tarinichu yachayta '%s'.\n\nKay yachaykuna kan:\n%s\n\nAma hina kaspa, huk yachaypa sutinta allinta qillqay.",
		"invalid_ciclo":        "Ama hina kaspa, allin YYYY1 utaq YYYY2 formatupi cicloykita qillqay (ejemplopaq: 20241).\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"invalid_modulo":       "Ama hina kaspa, allin modulota akllay (A utaq B).\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"invalid_section":      "Seccionniyki mana ch'usaqchu kanan. Ama hina kaspa, allin seccionniykita qillqay.\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"error_processing":     "Pampachaway, willakuyniykita procesaypi pantay karqan. Ama hina kaspa, huktawan ruwapay.\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"return_to_menu":       "🔄 Qallariy patamanman kutispa...",
		"no_course_info":       "Mana tarinichu willakuyta kay yachaypaq '%s' kay ciclo %s kay modulo %spi.\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"course_selected":      "✅ Yachay akllasqa: %s",
		"course_info":          "Yachaymanta willakuy:\nSuti: %s\nSeccion: %s\nCiclo: %s\nModulo: %s\nCategorias: %s\nQhipa musuqyachiy: %s\nMusuqyachiykuna tarisqa: %d\n\nMusuqyachiykuna:\n%s",
		"no_updates":           "Mana musuqyachiykuna kanchu.",
		"update_welcome":       "👋 Allin hamunayki yachachiq! Yachaykuna musuqyachiy sistemaman.",
		"enter_update_content": "Ama hina kaspa, musuqyachiy willakuyta qillqay utaq documentota apachimuy.",
		"content_received":     "📝 Willakuy chaskisqa",
		"suggested_category":   "Categoria ñisqa: %s",
		"confirm_category":     "¿Kay categoriataq allinchu? (arí/mana)",
		"enter_category":       "Ama hina kaspa, munasqayki categoriataq qillqay (EVALUACIÓN, CLASE, TAREA, SÍLABO, CRONOGRAMA, GENERAL):",
		"invalid_category":     "❌ Mana allin categoria. Ama hina kaspa, huk akllasqa opcionmanta akllay.",
		"update_empty":         "❌ Musuqyachiy mana ch'usaqchu kanan atin.\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"update_error":         "❌ Musuqyachiy waqaychaypi pantay.\n\n(Qillqay 'menu' qallariy patamanman kutirinaykipaq)",
		"update_summary":       "✅ ¡Musuqyachiy allinta waqaychasqa!\n\nTukuy willakuy:\n- Yachay: %s\n- Seccion: %s\n- Categoria: %s\n- Ciclo: %s\n- Modulo: %s\n- Willakuy: %s",
	},
}
