// Package prompt assembles the conversational payload for the generation
// service. Assembly is pure: the network call belongs to the caller.
package prompt

import (
	"fmt"
	"strings"

	"portfoliochat/internal/domain"
	"portfoliochat/internal/knowledge"
)

// personaTemplate is the fixed instruction block. The generation service is
// sensitive to instruction placement, so the persona always opens the
// conversation.
const personaTemplate = `You are %q, a concise, friendly guide on %s's portfolio.
STYLE GUIDE:
%s

Rules:
- Answer only from the provided context (retrieved snippets, FAQs, projects).
- Speak in %s's voice (see STYLE GUIDE and the example exchanges).
- If asked for resume/contact, point to the site header/footer links.
- If asked for NDA-sensitive info, say you can share process at a high level only.
- Keep replies under ~120 words unless asked for more.`

// Persona renders the system instruction for the given bot and owner names.
func Persona(botName, ownerName, styleGuide string) string {
	if styleGuide == "" {
		styleGuide = "(no style guide provided)"
	}
	return fmt.Sprintf(personaTemplate, botName, ownerName, styleGuide, ownerName)
}

// Assemble builds the ordered turn sequence: the persona instruction first,
// then each exemplar flattened into a user/assistant pair in source order,
// then the live user turn last.
func Assemble(persona, context, query string, shots []knowledge.Exemplar) []domain.Turn {
	turns := make([]domain.Turn, 0, 2*len(shots)+2)
	turns = append(turns, domain.Turn{Role: domain.RoleSystem, Content: persona})
	for _, ex := range shots {
		turns = append(turns,
			domain.Turn{Role: domain.RoleUser, Content: ex.User},
			domain.Turn{Role: domain.RoleAssistant, Content: ex.Assistant},
		)
	}
	turns = append(turns, domain.Turn{Role: domain.RoleUser, Content: userTurn(query, context)})
	return turns
}

func userTurn(query, context string) string {
	if strings.TrimSpace(context) == "" {
		return fmt.Sprintf("User: %s\n\n(No grounding context is available; say so briefly if you cannot answer.)", query)
	}
	return fmt.Sprintf("User: %s\n\nContext:\n%s", query, context)
}
