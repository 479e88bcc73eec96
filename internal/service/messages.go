// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/olegiv/campus-site/internal/model"
	"github.com/olegiv/campus-site/internal/store"
	"github.com/olegiv/campus-site/internal/util"
)

// SubmitMessageInput is the contact form body.
type SubmitMessageInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   string  `json:"email" validate:"required,basicemail,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Subject string  `json:"subject" validate:"required,max=255"`
	Message string  `json:"message" validate:"required,max=10000"`
}

// MessageService manages contact messages.
type MessageService struct {
	queries *store.Queries
}

// NewMessageService creates a new MessageService.
func NewMessageService(db *sql.DB) *MessageService {
	return &MessageService{queries: store.New(db)}
}

// Submit stores a contact message.
func (s *MessageService) Submit(ctx context.Context, in SubmitMessageInput) (model.Message, error) {
	in.Name = util.NormalizeText(in.Name)
	in.Email = util.NormalizeEmail(in.Email)
	in.Subject = util.NormalizeText(in.Subject)
	in.Message = util.NormalizeText(in.Message)
	normalizePtr(in.Phone)
	if err := validateInput(in); err != nil {
		return model.Message{}, err
	}

	row, err := s.queries.CreateMessage(ctx, store.CreateMessageParams{
		Name:      in.Name,
		Email:     in.Email,
		Phone:     nullableText(in.Phone),
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return model.Message{}, fmt.Errorf("creating message: %w", err)
	}
	return messageFromStore(row), nil
}

// List returns every message, newest first.
func (s *MessageService) List(ctx context.Context) ([]model.Message, error) {
	rows, err := s.queries.ListMessages(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing messages: %w", err)
	}
	messages := make([]model.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, messageFromStore(row))
	}
	return messages, nil
}

// UnreadCount returns the number of unread messages.
func (s *MessageService) UnreadCount(ctx context.Context) (int64, error) {
	n, err := s.queries.CountUnreadMessages(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting unread messages: %w", err)
	}
	return n, nil
}

// GetByID returns one message.
func (s *MessageService) GetByID(ctx context.Context, id int64) (model.Message, error) {
	row, err := s.queries.GetMessageByID(ctx, id)
	if store.IsNotFound(err) {
		return model.Message{}, notFound("Message")
	}
	if err != nil {
		return model.Message{}, fmt.Errorf("getting message %d: %w", id, err)
	}
	return messageFromStore(row), nil
}

// MarkRead marks a message as read.
func (s *MessageService) MarkRead(ctx context.Context, id int64) error {
	return s.setRead(ctx, id, true)
}

// MarkUnread marks a message as unread.
func (s *MessageService) MarkUnread(ctx context.Context, id int64) error {
	return s.setRead(ctx, id, false)
}

func (s *MessageService) setRead(ctx context.Context, id int64, read bool) error {
	n, err := s.queries.SetMessageRead(ctx, store.SetMessageReadParams{IsRead: read, ID: id})
	if err != nil {
		return fmt.Errorf("updating message %d: %w", id, err)
	}
	if n == 0 {
		return notFound("Message")
	}
	return nil
}

// Delete removes a message.
func (s *MessageService) Delete(ctx context.Context, id int64) error {
	n, err := s.queries.DeleteMessage(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting message %d: %w", id, err)
	}
	if n == 0 {
		return notFound("Message")
	}
	return nil
}
