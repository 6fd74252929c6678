package auth

import (
	"bufio"
	"context"
	"log"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/gin-gonic/gin"
)

type sessionChangesKey struct{}

// sessionChanges counts the writes made through the SessionManager helpers
// while a request is handled.
type sessionChanges struct {
	n atomic.Int64
}

// touch records a helper write. Contexts that did not come through
// SessionLoadSave are ignored.
func (sm *SessionManager) touch(ctx context.Context) {
	if changes, ok := ctx.Value(sessionChangesKey{}).(*sessionChanges); ok {
		changes.n.Add(1)
	}
}

// sessionWriter commits the session right before the response headers go out
// so the cookie can still be set. Helper writes that happen after that point,
// such as clearing the selection once a selection handler has redirected, are
// committed again when the handler chain returns. The client already holds
// the token by then, so only the store is updated.
type sessionWriter struct {
	gin.ResponseWriter
	sm      *SessionManager
	ctx     context.Context
	changes *sessionChanges

	flushed     bool   // response headers have been sent
	saved       int64  // changes.n at the last commit
	clientToken string // token the client holds, "" for a new session
}

func (w *sessionWriter) WriteHeader(code int) {
	w.beforeFlush()
	w.ResponseWriter.WriteHeader(code)
}

func (w *sessionWriter) WriteHeaderNow() {
	w.beforeFlush()
	w.ResponseWriter.WriteHeaderNow()
}

func (w *sessionWriter) Write(b []byte) (int, error) {
	w.beforeFlush()
	return w.ResponseWriter.Write(b)
}

func (w *sessionWriter) WriteString(s string) (int, error) {
	w.beforeFlush()
	return w.ResponseWriter.WriteString(s)
}

func (w *sessionWriter) Flush() {
	w.beforeFlush()
	w.ResponseWriter.Flush()
}

func (w *sessionWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	return w.ResponseWriter.Hijack()
}

func (w *sessionWriter) beforeFlush() {
	if w.flushed {
		return
	}
	w.flushed = true

	switch w.sm.Status(w.ctx) {
	case scs.Modified:
		token, expiry, ok := w.commit()
		if !ok {
			return
		}
		w.sm.WriteSessionCookie(w.ctx, w.ResponseWriter, token, expiry)
		w.clientToken = token
	case scs.Destroyed:
		w.sm.WriteSessionCookie(w.ctx, w.ResponseWriter, "", time.Time{})
		w.clientToken = ""
	}
}

// afterResponse commits helper writes made after the headers were sent.
func (w *sessionWriter) afterResponse() {
	if w.changes.n.Load() == w.saved || w.sm.Status(w.ctx) != scs.Modified {
		return
	}
	if w.clientToken == "" || w.sm.Token(w.ctx) != w.clientToken {
		log.Printf("[SESSION] Dropping session changes made after the response was sent")
		return
	}
	w.commit()
}

func (w *sessionWriter) commit() (string, time.Time, bool) {
	pending := w.changes.n.Load()
	token, expiry, err := w.sm.Commit(w.ctx)
	if err != nil {
		log.Printf("[SESSION] Failed to commit session: %v", err)
		return "", time.Time{}, false
	}
	w.saved = pending
	return token, expiry, true
}

// SessionLoadSave returns a Gin middleware that loads the session into the
// request context and saves it when the handler responds. Register it before
// any handler that touches the session, and write session values through the
// SessionManager helpers so late writes are saved too.
func (sm *SessionManager) SessionLoadSave() gin.HandlerFunc {
	return func(c *gin.Context) {
		var token string
		if cookie, err := c.Request.Cookie(sm.Cookie.Name); err == nil {
			token = cookie.Value
		}

		ctx, err := sm.Load(c.Request.Context(), token)
		if err != nil {
			log.Printf("[SESSION] Failed to load session: %v", err)
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		changes := &sessionChanges{}
		ctx = context.WithValue(ctx, sessionChangesKey{}, changes)
		c.Request = c.Request.WithContext(ctx)
		c.Header("Vary", "Cookie")

		w := &sessionWriter{
			ResponseWriter: c.Writer,
			sm:             sm,
			ctx:            ctx,
			changes:        changes,
			clientToken:    sm.Token(ctx),
		}
		c.Writer = w

		c.Next()

		if !w.flushed {
			w.beforeFlush()
			return
		}
		w.afterResponse()
	}
}
