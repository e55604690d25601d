// Package mailbox polls the supervisor inbox and forwards replies into
// conversations.
package mailbox

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
)

// Reply is the part of an inbound message the poller cares about.
type Reply struct {
	MessageID string
	Subject   string
	// From is the bare sender address, lower-cased. Display names are dropped.
	From string
	Body string
}

var errStopWalk = errors.New("stop walk")

// ParseReply decodes a raw RFC 822 message. Unknown charsets and transfer
// encodings are tolerated: the undecoded bytes are used with invalid UTF-8
// replaced.
func ParseReply(raw []byte) (*Reply, error) {
	entity, err := message.Read(bytes.NewReader(raw))
	if err != nil && !tolerable(err) {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}

	header := mail.Header{Header: entity.Header}
	reply := &Reply{}

	if subject, err := header.Subject(); err == nil {
		reply.Subject = subject
	} else {
		reply.Subject = entity.Header.Get("Subject")
	}
	if id, err := header.MessageID(); err == nil {
		reply.MessageID = id
	}
	if from, err := header.AddressList("From"); err == nil && len(from) > 0 {
		reply.From = strings.ToLower(strings.TrimSpace(from[0].Address))
	}

	body, err := plainTextBody(entity)
	if err != nil {
		return nil, err
	}
	reply.Body = body

	return reply, nil
}

// plainTextBody prefers the first text/plain part that is not an attachment
// and falls back to the first non-attachment part with any text.
func plainTextBody(entity *message.Entity) (string, error) {
	var plain, fallback string
	var found bool

	err := entity.Walk(func(_ []int, part *message.Entity, err error) error {
		if err != nil && !tolerable(err) {
			return err
		}
		mediaType, _, _ := part.Header.ContentType()
		if strings.HasPrefix(mediaType, "multipart/") {
			return nil
		}
		if disposition, _, _ := part.Header.ContentDisposition(); strings.EqualFold(disposition, "attachment") {
			return nil
		}

		data, readErr := io.ReadAll(part.Body)
		if readErr != nil && !tolerable(readErr) {
			return readErr
		}
		text := strings.TrimSpace(strings.ToValidUTF8(string(data), "\uFFFD"))

		if mediaType == "text/plain" || mediaType == "" {
			plain, found = text, true
			return errStopWalk
		}
		if fallback == "" {
			fallback = text
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopWalk) {
		return "", fmt.Errorf("failed to read message body: %w", err)
	}

	if found {
		return plain, nil
	}
	return fallback, nil
}

func tolerable(err error) bool {
	return message.IsUnknownCharset(err) || message.IsUnknownEncoding(err)
}
