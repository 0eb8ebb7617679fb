package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	idempotencyHeader       = "Idempotency-Key"
	idempotencyReplayHeader = "Idempotent-Replayed"
	idempotencyTTL          = 24 * time.Hour
	idempotencyMaxBody      = 64 << 10
)

// storedReply is a response kept for replay.
type storedReply struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// recordingWriter copies everything the handler writes.
type recordingWriter struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *recordingWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *recordingWriter) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Idempotency replays the stored reply when a POST repeats an Idempotency-Key with
// the same body on the same route. A different body under the same key is treated as
// a new request. Server errors are not stored so the client can retry them.
// A nil client disables the middleware.
func Idempotency(client *redis.Client, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader(idempotencyHeader)
		if client == nil || key == "" || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		body, err := readBody(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		ctx := c.Request.Context()
		log := logger.With().Str("idempotency_key", key).Logger()
		storeKey := idempotencyKey(c.FullPath(), key, body)

		reply, err := loadReply(ctx, client, storeKey)
		switch {
		case err == nil:
			c.Header(idempotencyReplayHeader, "true")
			c.Data(reply.Status, reply.ContentType, reply.Body)
			c.Abort()
			return
		case !errors.Is(err, redis.Nil):
			// Redis trouble: serve the request without replay protection.
			log.Warn().Err(err).Msg("idempotency lookup failed")
			c.Next()
			return
		}

		rec := &recordingWriter{ResponseWriter: c.Writer}
		c.Writer = rec
		c.Next()

		if rec.Status() >= http.StatusInternalServerError {
			return
		}
		reply = &storedReply{
			Status:      rec.Status(),
			ContentType: rec.Header().Get("Content-Type"),
			Body:        rec.buf.Bytes(),
		}
		if err := saveReply(ctx, client, storeKey, reply); err != nil {
			log.Warn().Err(err).Msg("idempotency store failed")
		}
	}
}

// idempotencyKey scopes a client key by route and request body digest.
func idempotencyKey(route, key string, body []byte) string {
	sum := sha256.Sum256(body)
	return "idempotency:" + route + ":" + key + ":" + hex.EncodeToString(sum[:])
}

// readBody reads up to idempotencyMaxBody bytes for the digest and hands the handler
// a body that still yields every byte.
func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}
	orig := r.Body
	body, err := io.ReadAll(io.LimitReader(orig, idempotencyMaxBody))
	if err != nil {
		return nil, err
	}
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(body), orig), orig}
	return body, nil
}

func loadReply(ctx context.Context, client *redis.Client, key string) (*storedReply, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}
	var reply storedReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

func saveReply(ctx context.Context, client *redis.Client, key string, reply *storedReply) error {
	data, err := json.Marshal(reply)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, idempotencyTTL).Err()
}
