package versify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/versify/automation/pkg/automation"
	"github.com/versify/automation/pkg/models"
)

// ContactService talks to the contacts API.
type ContactService struct {
	client *Client
}

func NewContactService(client *Client) *ContactService {
	return &ContactService{client: client}
}

// Get returns automation.ErrContactNotFound when the API answers 404.
func (s *ContactService) Get(ctx context.Context, id string) (*models.Contact, error) {
	var contact models.Contact

	err := s.client.do(ctx, http.MethodGet, "/contacts/"+url.PathEscape(id), nil, "", &contact)
	if err != nil {
		return nil, contactError(id, err)
	}

	return &contact, nil
}

func (s *ContactService) Update(ctx context.Context, id string, update models.ContactUpdate) (*models.Contact, error) {
	var contact models.Contact

	err := s.client.do(ctx, http.MethodPatch, "/contacts/"+url.PathEscape(id), update, "", &contact)
	if err != nil {
		return nil, contactError(id, err)
	}

	return &contact, nil
}

func contactError(id string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s: %w", automation.ErrContactNotFound, id, err)
	}

	return err
}

// MessageService talks to the messages API.
type MessageService struct {
	client *Client
}

func NewMessageService(client *Client) *MessageService {
	return &MessageService{client: client}
}

func (s *MessageService) Create(ctx context.Context, message models.NewMessage, idempotencyKey string) (*models.Message, error) {
	var created models.Message

	err := s.client.do(ctx, http.MethodPost, "/messages", message, idempotencyKey, &created)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (s *MessageService) Send(ctx context.Context, id string, idempotencyKey string) (*models.Message, error) {
	var sent models.Message

	err := s.client.do(ctx, http.MethodPost, "/messages/"+url.PathEscape(id)+"/send", nil, idempotencyKey, &sent)
	if err != nil {
		return nil, err
	}

	return &sent, nil
}

type MintService struct {
	client *Client
}

func NewMintService(client *Client) *MintService {
	return &MintService{client: client}
}

func (s *MintService) Create(ctx context.Context, mint models.NewMint, idempotencyKey string) (*models.Mint, error) {
	var created models.Mint

	err := s.client.do(ctx, http.MethodPost, "/mints", mint, idempotencyKey, &created)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

type NoteService struct {
	client *Client
}

func NewNoteService(client *Client) *NoteService {
	return &NoteService{client: client}
}

func (s *NoteService) Create(ctx context.Context, note models.NewNote) (*models.Note, error) {
	var created models.Note

	err := s.client.do(ctx, http.MethodPost, "/notes", note, "", &created)
	if err != nil {
		return nil, err
	}

	return &created, nil
}

var (
	_ automation.ContactService = (*ContactService)(nil)
	_ automation.MessageService = (*MessageService)(nil)
	_ automation.MintService    = (*MintService)(nil)
	_ automation.NoteService    = (*NoteService)(nil)
)
