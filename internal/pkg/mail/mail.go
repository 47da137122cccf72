package mail

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"strings"
)

type Message struct {
	// From falls back to the sender configured on the client.
	From     string
	To       []string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mail sends messages through a provider.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}

// render returns the RFC 5322 bytes of msg. A message with both bodies is
// sent as multipart/alternative.
func (msg Message) render(from string) []byte {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", from)
	fmt.Fprintf(&sb, "To: %s\r\n", strings.Join(msg.To, ", "))
	fmt.Fprintf(&sb, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	sb.WriteString("MIME-Version: 1.0\r\n")

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		boundary := newBoundary()
		fmt.Fprintf(&sb, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)
		for _, part := range []struct{ ct, body string }{
			{"text/plain", msg.TextBody},
			{"text/html", msg.HTMLBody},
		} {
			fmt.Fprintf(&sb, "--%s\r\nContent-Type: %s; charset=UTF-8\r\n\r\n%s\r\n", boundary, part.ct, part.body)
		}
		fmt.Fprintf(&sb, "--%s--\r\n", boundary)
	case msg.HTMLBody != "":
		fmt.Fprintf(&sb, "Content-Type: text/html; charset=UTF-8\r\n\r\n%s", msg.HTMLBody)
	default:
		fmt.Fprintf(&sb, "Content-Type: text/plain; charset=UTF-8\r\n\r\n%s", msg.TextBody)
	}

	return []byte(sb.String())
}

func newBoundary() string {
	var b [12]byte
	_, _ = rand.Read(b[:])
	return "mediflow-" + hex.EncodeToString(b[:])
}
