package chat

import (
	"fmt"

	"github.com/miachat/miachat/plugin/ai"
)

// ModelProvider is the closed set of supported model backends. Values outside
// the set are rejected once, at the input boundary, before any I/O.
type ModelProvider string

const (
	ProviderOpenAI ModelProvider = "openai"
	ProviderGemini ModelProvider = "gemini"
)

// DefaultProvider is used when a request does not name a provider.
const DefaultProvider = ProviderGemini

// ParseModelProvider validates a provider name. The empty string selects the
// default; anything else outside the supported set fails with
// ErrInvalidProvider.
func ParseModelProvider(s string) (ModelProvider, error) {
	switch ModelProvider(s) {
	case "":
		return DefaultProvider, nil
	case ProviderOpenAI:
		return ProviderOpenAI, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: openai, gemini)", ErrInvalidProvider, s)
	}
}

// foldsSystemIntoFirstMessage reports whether the provider lacks a first-class
// system-role channel, requiring the persona text to be folded into the
// leading conversational entry (variant A). Providers with a system channel
// get the persona as a dedicated leading system message (variant B).
func (p ModelProvider) foldsSystemIntoFirstMessage() bool {
	return p == ProviderGemini
}

// AdaptContext converts an assembled prompt context into provider-wire
// messages. This is the single place where provider-specific prompt shaping
// happens; the assembler's output is variant-agnostic.
func AdaptContext(provider ModelProvider, entries []Message) []ai.Message {
	wire := make([]ai.Message, 0, len(entries))

	if provider.foldsSystemIntoFirstMessage() {
		var system string
		for _, entry := range entries {
			if entry.Role == RoleSystem {
				system = entry.Content
				continue
			}
			if system != "" && entry.Role == RoleHuman {
				wire = append(wire, ai.UserMessage(system+"\n\n"+entry.Content))
				system = ""
				continue
			}
			if system != "" {
				// The leading conversational entry is not human-authored;
				// emit the persona as its own user message to keep it first.
				wire = append(wire, ai.UserMessage(system))
				system = ""
			}
			wire = append(wire, wireMessage(entry))
		}
		if system != "" {
			wire = append(wire, ai.UserMessage(system))
		}
		return wire
	}

	for _, entry := range entries {
		if entry.Role == RoleSystem {
			wire = append(wire, ai.SystemMessage(entry.Content))
			continue
		}
		wire = append(wire, wireMessage(entry))
	}
	return wire
}

func wireMessage(msg Message) ai.Message {
	if msg.Role == RoleAssistant {
		return ai.AssistantMessage(msg.Content)
	}
	return ai.UserMessage(msg.Content)
}
