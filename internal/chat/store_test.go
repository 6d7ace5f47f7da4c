package chat

import (
	"context"
	"errors"
	"testing"

	gormsqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(gormsqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s, err := NewStore(db)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	return s
}

func TestEnsureChatCreatesAndReuses(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.EnsureChat(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ensure chat: %v", err)
	}
	if len(id) != 26 {
		t.Fatalf("expected ULID chat id, got %q", id)
	}

	again, err := s.EnsureChat(ctx, "user-1", id)
	if err != nil {
		t.Fatalf("ensure existing chat: %v", err)
	}
	if again != id {
		t.Fatalf("expected same chat id, got %q vs %q", again, id)
	}
}

func TestEnsureChatRejectsForeignChat(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.EnsureChat(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ensure chat: %v", err)
	}

	if _, err := s.EnsureChat(ctx, "user-2", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign chat, got %v", err)
	}
}

func TestSaveTurnWritesUserThenAssistant(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.EnsureChat(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ensure chat: %v", err)
	}
	if err := s.SaveTurn(ctx, id, "2+2?", "4"); err != nil {
		t.Fatalf("save turn: %v", err)
	}

	msgs, err := s.ListMessages(ctx, "user-1", id)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != "user" || msgs[0].Content != "2+2?" {
		t.Fatalf("unexpected user msg: role=%q content=%q", msgs[0].Role, msgs[0].Content)
	}
	if msgs[1].Role != "assistant" || msgs[1].Content != "4" {
		t.Fatalf("unexpected assistant msg: role=%q content=%q", msgs[1].Role, msgs[1].Content)
	}
}

func TestListChatsScopedToUser(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.EnsureChat(ctx, "user-1", ""); err != nil {
		t.Fatalf("ensure chat: %v", err)
	}
	if _, err := s.EnsureChat(ctx, "user-2", ""); err != nil {
		t.Fatalf("ensure chat: %v", err)
	}

	chats, err := s.ListChats(ctx, "user-1")
	if err != nil {
		t.Fatalf("list chats: %v", err)
	}
	if len(chats) != 1 {
		t.Fatalf("expected 1 chat for user-1, got %d", len(chats))
	}
	if chats[0].Title != "New Chat" {
		t.Fatalf("unexpected title %q", chats[0].Title)
	}
}

func TestRenameChat(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.EnsureChat(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ensure chat: %v", err)
	}
	if err := s.RenameChat(ctx, "user-1", id, "Homework help"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	chats, err := s.ListChats(ctx, "user-1")
	if err != nil {
		t.Fatalf("list chats: %v", err)
	}
	if chats[0].Title != "Homework help" {
		t.Fatalf("expected renamed title, got %q", chats[0].Title)
	}

	if err := s.RenameChat(ctx, "user-2", id, "hijack"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign rename, got %v", err)
	}
}

func TestDeleteChatRemovesMessages(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.EnsureChat(ctx, "user-1", "")
	if err != nil {
		t.Fatalf("ensure chat: %v", err)
	}
	if err := s.SaveTurn(ctx, id, "q", "a"); err != nil {
		t.Fatalf("save turn: %v", err)
	}
	if err := s.DeleteChat(ctx, "user-1", id); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := s.ListMessages(ctx, "user-1", id); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	var count int64
	if err := s.repo.db.Model(&Message{}).Where("chat_id = ?", id).Count(&count).Error; err != nil {
		t.Fatalf("count messages: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected orphaned messages removed, found %d", count)
	}
}
