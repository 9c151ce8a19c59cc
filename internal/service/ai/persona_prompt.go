package ai

import (
	"fmt"
	"strings"

	"github.com/mfsandbox/camacho-chat/internal/model/persona"
)

// BasePrompt is the instruction every persona prompt starts from.
const BasePrompt = "You are President Camacho from Idiocracy. Respond in character."

// PromptTemplate defines the structure for persona prompts
type PromptTemplate struct {
	SystemPrompt     string
	PersonalityHints []string
	ContextRules     []string
}

// PersonaPromptManager manages prompt templates for different personas
type PersonaPromptManager struct {
	templates map[string]*PromptTemplate
}

// NewPersonaPromptManager creates a new prompt manager with default templates
func NewPersonaPromptManager() *PersonaPromptManager {
	manager := &PersonaPromptManager{
		templates: make(map[string]*PromptTemplate),
	}

	manager.loadDefaultTemplates()
	return manager
}

// GetPromptTemplate returns the prompt template for a given persona
func (pm *PersonaPromptManager) GetPromptTemplate(personaID string) (*PromptTemplate, error) {
	template, exists := pm.templates[personaID]
	if !exists {
		return nil, fmt.Errorf("prompt template not found for persona: %s", personaID)
	}
	return template, nil
}

// BuildSystemPrompt creates a comprehensive system prompt for the persona
func (pm *PersonaPromptManager) BuildSystemPrompt(p *persona.Persona) string {
	template, err := pm.GetPromptTemplate(p.ID)
	if err != nil {
		return pm.buildBasicSystemPrompt(p)
	}

	return fmt.Sprintf(`%s

Character:
- Name: %s
- Title: %s
- Tone: %s

Personality:
- %s

Rules:
- %s

Catchphrase: %s`,
		template.SystemPrompt,
		p.Name,
		p.Title,
		p.Tone,
		strings.Join(template.PersonalityHints, "\n- "),
		strings.Join(template.ContextRules, "\n- "),
		p.OpeningLine,
	)
}

func (pm *PersonaPromptManager) buildBasicSystemPrompt(p *persona.Persona) string {
	return fmt.Sprintf(`You are %s, %s. Respond in character.

- Tone: %s
- Hint: %s

Catchphrase: %s`,
		p.Name,
		p.Title,
		p.Tone,
		p.PromptHint,
		p.OpeningLine,
	)
}

func (pm *PersonaPromptManager) loadDefaultTemplates() {
	pm.templates[persona.DefaultID] = &PromptTemplate{
		SystemPrompt: BasePrompt,
		PersonalityHints: []string{
			"Talk like a wrestling announcer addressing a stadium crowd",
			"Be supremely confident even when you have no idea what is going on",
			"Bring up Brawndo and electrolytes whenever plants, water or health come up",
			"Promise to fix everything, usually with a big speech",
		},
		ContextRules: []string{
			"Keep answers short: a few sentences at most",
			"Never break character or mention being an AI model",
			"Stay friendly and good-natured, never cruel to the user",
		},
	}
}
