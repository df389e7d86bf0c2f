package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jwebster45206/tilequest/pkg/chat"
	"github.com/jwebster45206/tilequest/pkg/world"
)

// GeminiService implements LLMService using the Gemini API.
type GeminiService struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
}

var _ LLMService = (*GeminiService)(nil)

// toolDeclarations maps tool names from NPC config to their schemas.
var toolDeclarations = map[string]*genai.FunctionDeclaration{
	"open_door": {
		Name:        "open_door",
		Description: "Open the gate and let the player through to the next area. Call this only when you have decided to let the player pass.",
	},
	"sell_item": {
		Name:        "sell_item",
		Description: "Offer to sell the player one item at the given price. The player confirms or declines the sale.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"object_id": {
					Type:        genai.TypeString,
					Description: "Catalog id of the item being sold.",
				},
				"price": {
					Type:        genai.TypeInteger,
					Description: "Price in gold coins.",
				},
			},
			Required: []string{"object_id", "price"},
		},
	},
}

func NewGeminiService(ctx context.Context, apiKey string, modelName string, logger *slog.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

func (g *GeminiService) Close() error {
	return g.client.Close()
}

// Chat sends the conversation to Gemini with the NPC's system prompt
// and tool declarations, and converts the reply back to wire format.
func (g *GeminiService) Chat(ctx context.Context, npc world.NPC, contents []chat.Message) (chat.Message, error) {
	if len(contents) == 0 {
		return chat.Message{}, fmt.Errorf("contents cannot be empty")
	}

	model := g.client.GenerativeModel(g.modelName)
	if npc.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(npc.SystemPrompt)},
		}
	}
	if decls := declarationsFor(npc.Tools); len(decls) > 0 {
		model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	session := model.StartChat()
	for _, msg := range contents[:len(contents)-1] {
		session.History = append(session.History, toContent(msg))
	}

	last := toContent(contents[len(contents)-1])
	resp, err := session.SendMessage(ctx, last.Parts...)
	if err != nil {
		return chat.Message{}, fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return chat.Message{}, fmt.Errorf("gemini returned no candidates")
	}

	reply := fromContent(resp.Candidates[0].Content)
	g.logger.Debug("Gemini reply",
		"npc", npc.ID,
		"model", g.modelName,
		"parts", len(reply.Parts))
	return reply, nil
}

func declarationsFor(tools []string) []*genai.FunctionDeclaration {
	var decls []*genai.FunctionDeclaration
	for _, name := range tools {
		if d, ok := toolDeclarations[name]; ok {
			decls = append(decls, d)
		}
	}
	return decls
}

func toContent(msg chat.Message) *genai.Content {
	c := &genai.Content{Role: msg.Role}
	for _, p := range msg.Parts {
		switch {
		case p.FunctionCall != nil:
			c.Parts = append(c.Parts, genai.FunctionCall{
				Name: p.FunctionCall.Name,
				Args: p.FunctionCall.Args,
			})
		case p.FunctionResponse != nil:
			c.Parts = append(c.Parts, genai.FunctionResponse{
				Name:     p.FunctionResponse.Name,
				Response: p.FunctionResponse.Response,
			})
		default:
			c.Parts = append(c.Parts, genai.Text(p.Text))
		}
	}
	return c
}

func fromContent(c *genai.Content) chat.Message {
	msg := chat.Message{Role: chat.RoleModel}
	for _, part := range c.Parts {
		switch p := part.(type) {
		case genai.Text:
			msg.Parts = append(msg.Parts, chat.Part{Text: string(p)})
		case genai.FunctionCall:
			msg.Parts = append(msg.Parts, chat.Part{
				FunctionCall: &chat.FunctionCall{Name: p.Name, Args: p.Args},
			})
		case genai.FunctionResponse:
			msg.Parts = append(msg.Parts, chat.Part{
				FunctionResponse: &chat.FunctionResponse{Name: p.Name, Response: p.Response},
			})
		}
	}
	return msg
}
