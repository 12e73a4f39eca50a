package conversation

import (
	"context"
	"time"
)

// SendMessage runs one exchange: it ensures the conversation exists, records
// the user turn, forwards the text to the remote session, and records either
// the assistant reply (text plus any images saved to disk) or a system error
// turn. A non-nil error means the conversation could not be created at all;
// remote-call failures are folded into the result instead.
func (s *Store) SendMessage(ctx context.Context, id, text string) (ExchangeResult, error) {
	conv, effectiveID, err := s.lookup(ctx, id)
	if err != nil {
		return ExchangeResult{}, err
	}

	conv.mu.Lock()
	defer conv.mu.Unlock()

	now := time.Now().UTC()
	conv.append(Turn{Role: RoleUser, Content: &text, Timestamp: now}, s.maxHistory)
	conv.lastActive = now

	reply, err := conv.chat.Send(ctx, text)
	if err != nil {
		return s.recordFailure(conv, effectiveID, err), nil
	}

	paths, err := s.saveInlineImages(effectiveID, reply.Images)
	if err != nil {
		return s.recordFailure(conv, effectiveID, err), nil
	}

	var content *string
	if reply.Text != "" {
		replyText := reply.Text
		content = &replyText
	}

	conv.append(Turn{
		Role:      RoleAssistant,
		Content:   content,
		Images:    paths,
		Timestamp: time.Now().UTC(),
	}, s.maxHistory)

	return ExchangeResult{
		ConversationID: effectiveID,
		Text:           content,
		ImagePaths:     paths,
		Success:        true,
	}, nil
}

// recordFailure appends a system turn describing the failure and builds the
// failure result. Must be called with the conversation lock held.
func (s *Store) recordFailure(conv *state, id string, cause error) ExchangeResult {
	s.logger.Warnf("exchange failed for conversation %s: %v", id, cause)

	message := "Error: " + cause.Error()
	conv.append(Turn{
		Role:      RoleSystem,
		Content:   &message,
		Timestamp: time.Now().UTC(),
	}, s.maxHistory)

	return ExchangeResult{
		ConversationID: id,
		ImagePaths:     []string{},
		Success:        false,
		Error:          cause.Error(),
	}
}
