package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/moxuz/gemchat/config"
	"github.com/moxuz/gemchat/internal/conversation"
)

// GeminiService owns the Gemini API client and opens the per-conversation
// chat sessions the store treats as opaque handles.
type GeminiService struct {
	client *genai.Client
	model  string
	logger *zap.SugaredLogger
}

// NewGeminiService constructs the service from cfg. The API key is the only
// credential; it never appears in logs.
func NewGeminiService(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.Gemini.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiService{
		client: client,
		model:  cfg.Gemini.Model,
		logger: logger,
	}, nil
}

// OpenSession starts a fresh multi-turn chat with no prior history,
// configured to produce both text and images.
func (s *GeminiService) OpenSession(ctx context.Context) (conversation.ChatSession, error) {
	chat, err := s.client.Chats.Create(ctx, s.model, &genai.GenerateContentConfig{
		ResponseModalities: []string{"TEXT", "IMAGE"},
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}

	s.logger.Debugf("opened chat session with model %s", s.model)
	return &geminiSession{chat: chat}, nil
}

type geminiSession struct {
	chat *genai.Chat
}

func (g *geminiSession) Send(ctx context.Context, text string) (*conversation.ModelReply, error) {
	resp, err := g.chat.SendMessage(ctx, genai.Part{Text: text})
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}

	reply := &conversation.ModelReply{Text: resp.Text()}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return reply, nil
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
			continue
		}
		reply.Images = append(reply.Images, conversation.InlinePayload{
			MIMEType: part.InlineData.MIMEType,
			Data:     part.InlineData.Data,
		})
	}

	return reply, nil
}
