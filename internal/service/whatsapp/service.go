package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/mamadbah2/linetrack/internal/domain/models"
	client "github.com/mamadbah2/linetrack/pkg/clients/whatsapp"
)

// maxBodyLength is the WhatsApp limit for a text message body.
const maxBodyLength = 4096

// ErrNoRecipient is returned when no destination is known for a message.
var ErrNoRecipient = errors.New("whatsapp recipient is not configured")

// MessagingService describes the outbound operations used by the scheduler.
type MessagingService interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	client    client.Client
	recipient string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance. recipient is used when
// a request carries no destination of its own.
func NewMetaWhatsAppService(c client.Client, recipient string, logger *zap.Logger) *MetaWhatsAppService {
	svc := &MetaWhatsAppService{
		client:    c,
		recipient: recipient,
		timeout:   10 * time.Second,
		logger:    logger,
	}
	if svc.logger == nil {
		svc.logger = zap.NewNop()
	}
	return svc
}

// SendOutbound delivers the message, split on line boundaries when it is
// longer than one WhatsApp message allows.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	to := strings.TrimSpace(req.To)
	if to == "" {
		to = s.recipient
	}
	if to == "" {
		return ErrNoRecipient
	}

	for i, part := range split(req.Message, maxBodyLength) {
		ctxWithTimeout, cancel := context.WithTimeout(ctx, s.timeout)
		_, err := s.client.SendTextMessage(ctxWithTimeout, client.SendTextMessageRequest{
			To:         to,
			Body:       part,
			PreviewURL: req.PreviewURL,
		})
		cancel()
		if err != nil {
			return fmt.Errorf("send part %d: %w", i+1, err)
		}
	}

	s.logger.Info("outbound message sent", zap.String("to", to), zap.Int("length", len(req.Message)))
	return nil
}

// split cuts body into chunks of at most limit bytes, preferring line breaks.
func split(body string, limit int) []string {
	var parts []string
	for len(body) > limit {
		cut := strings.LastIndex(body[:limit], "\n")
		if cut <= 0 {
			cut = limit
			for cut > 0 && !utf8.RuneStart(body[cut]) {
				cut--
			}
			if cut == 0 {
				// a single rune wider than limit goes out whole
				_, cut = utf8.DecodeRuneInString(body)
			}
		}
		parts = append(parts, body[:cut])
		body = strings.TrimPrefix(body[cut:], "\n")
	}
	if body == "" && len(parts) > 0 {
		return parts
	}
	return append(parts, body)
}
