package chat

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/milkyai/milky-relay/internal/common"
	"github.com/milkyai/milky-relay/internal/llm"
)

// ErrNotFound covers both a missing chat and a chat owned by someone
// else; existence is not disclosed across users.
var ErrNotFound = errors.New("chat: not found")

// Store is the conversation history collaborator. The relay appends turn
// pairs and serves the retrieval endpoints; it never reads history back
// into the chat flow itself (the client resends it).
type Store struct {
	repo *Repo
}

func NewStore(db *gorm.DB) (*Store, error) {
	if err := db.AutoMigrate(&Chat{}, &Message{}); err != nil {
		return nil, err
	}
	return &Store{repo: NewRepo(db)}, nil
}

const defaultTitle = "New Chat"

// EnsureChat returns chatID if it exists and belongs to userID, creating
// a fresh chat when chatID is empty.
func (s *Store) EnsureChat(ctx context.Context, userID, chatID string) (string, error) {
	if chatID != "" {
		if err := s.authorize(ctx, userID, chatID); err != nil {
			return "", err
		}
		return chatID, nil
	}

	id, err := common.NewULID()
	if err != nil {
		return "", err
	}
	c := &Chat{ID: id, UserID: userID, Title: defaultTitle}
	if err := s.repo.CreateChat(ctx, c); err != nil {
		return "", err
	}
	return id, nil
}

// SaveTurn appends the user message and the assistant reply as two
// independent writes. The second write failing leaves an unpaired user
// turn behind; that is accepted, the reply has already been produced.
func (s *Store) SaveTurn(ctx context.Context, chatID, userInput, assistantReply string) error {
	if err := s.repo.InsertMessage(ctx, &Message{ChatID: chatID, Role: llm.RoleUser, Content: userInput}); err != nil {
		return err
	}
	if err := s.repo.InsertMessage(ctx, &Message{ChatID: chatID, Role: llm.RoleAssistant, Content: assistantReply}); err != nil {
		return err
	}
	return s.repo.TouchChat(ctx, chatID)
}

func (s *Store) ListChats(ctx context.Context, userID string) ([]Chat, error) {
	return s.repo.ListChats(ctx, userID)
}

func (s *Store) ListMessages(ctx context.Context, userID, chatID string) ([]Message, error) {
	if err := s.authorize(ctx, userID, chatID); err != nil {
		return nil, err
	}
	return s.repo.ListMessages(ctx, chatID)
}

func (s *Store) RenameChat(ctx context.Context, userID, chatID, title string) error {
	if err := s.authorize(ctx, userID, chatID); err != nil {
		return err
	}
	if title == "" {
		title = defaultTitle
	}
	return s.repo.UpdateChatTitle(ctx, chatID, title)
}

func (s *Store) DeleteChat(ctx context.Context, userID, chatID string) error {
	if err := s.authorize(ctx, userID, chatID); err != nil {
		return err
	}
	return s.repo.DeleteChat(ctx, chatID)
}

func (s *Store) authorize(ctx context.Context, userID, chatID string) error {
	c, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if c.UserID != userID {
		return ErrNotFound
	}
	return nil
}
