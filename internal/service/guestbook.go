package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hyeonwook/anonboard/internal/apperror"
	"github.com/hyeonwook/anonboard/internal/auth"
	"github.com/hyeonwook/anonboard/internal/model"
	"github.com/hyeonwook/anonboard/internal/repository"
)

// GuestbookService manages the microsite guestbook. Entries are anonymous;
// an optional per-entry password (stored hashed) authorizes later edits.
type GuestbookService struct {
	entries   repository.GuestbookRepository
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewGuestbookService(
	entries repository.GuestbookRepository,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *GuestbookService {
	return &GuestbookService{
		entries:   entries,
		passwords: passwords,
		logger:    logger,
	}
}

// GuestbookInput is the payload for Create.
type GuestbookInput struct {
	Name     string `json:"name"`
	Message  string `json:"message"`
	Password string `json:"password,omitempty"`
}

// Create adds an entry. An empty password means the entry can never be
// edited or deleted through the public API.
func (s *GuestbookService) Create(ctx context.Context, in GuestbookInput) (*model.GuestbookEntry, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Message = strings.TrimSpace(in.Message)

	if in.Name == "" {
		return nil, apperror.ValidationFailed("name", "must not be empty")
	}
	if in.Message == "" {
		return nil, apperror.ValidationFailed("message", "must not be empty")
	}

	entry := &model.GuestbookEntry{
		Name:    in.Name,
		Message: in.Message,
	}
	if in.Password != "" {
		hash, err := s.passwords.Hash(in.Password)
		if err != nil {
			return nil, fmt.Errorf("service/guestbook: hashing entry password: %w", err)
		}
		entry.PasswordHash = hash
	}

	if err := s.entries.CreateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("service/guestbook: creating entry: %w", err)
	}

	s.logger.Info("guestbook entry created", slog.String("entryID", entry.ID))
	return entry, nil
}

// List returns entries newest first.
func (s *GuestbookService) List(ctx context.Context, opts repository.ListOptions) ([]model.GuestbookEntry, error) {
	entries, err := s.entries.ListEntries(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("service/guestbook: listing entries: %w", err)
	}
	return entries, nil
}

// Update rewrites an entry's message after verifying its password.
func (s *GuestbookService) Update(ctx context.Context, id, password, message string) (*model.GuestbookEntry, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, apperror.ValidationFailed("message", "must not be empty")
	}

	entry, err := s.authorize(ctx, id, password)
	if err != nil {
		return nil, err
	}

	entry.Message = message
	if err := s.entries.UpdateEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("service/guestbook: updating entry %s: %w", id, err)
	}
	return entry, nil
}

// Delete removes an entry after verifying its password.
func (s *GuestbookService) Delete(ctx context.Context, id, password string) error {
	if _, err := s.authorize(ctx, id, password); err != nil {
		return err
	}
	if err := s.entries.DeleteEntry(ctx, id); err != nil {
		return fmt.Errorf("service/guestbook: deleting entry %s: %w", id, err)
	}
	return nil
}

func (s *GuestbookService) authorize(ctx context.Context, id, password string) (*model.GuestbookEntry, error) {
	entry, err := s.entries.GetEntryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/guestbook: fetching entry %s: %w", id, err)
	}
	if entry.PasswordHash == "" {
		return nil, apperror.Forbidden("this entry cannot be modified")
	}
	if err := s.passwords.Verify(entry.PasswordHash, password); err != nil {
		return nil, apperror.Forbidden("wrong password for this entry")
	}
	return entry, nil
}
