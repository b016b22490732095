package web

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a one-shot notification shown at the top of the next page.
type Flash struct {
	Kind    FlashKind
	Message string
}

const (
	flashCookie = "tayari_flash"
	flashKey    = "flash"
)

// setFlash shows the message on the page rendered by this request.
func setFlash(c *gin.Context, kind FlashKind, message string) {
	if message == "" {
		return
	}
	c.Set(flashKey, &Flash{Kind: kind, Message: message})
}

// redirectWithFlash carries the message across a redirect in a short-lived
// cookie. gin escapes cookie values on write and unescapes them on read.
func redirectWithFlash(c *gin.Context, location string, kind FlashKind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, string(kind)+":"+message, 60, "/", "", false, true)
	c.Redirect(http.StatusSeeOther, location)
}

// takeFlash returns and clears a flash carried over a redirect.
func takeFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	kind, message, ok := strings.Cut(raw, ":")
	if !ok || (FlashKind(kind) != FlashSuccess && FlashKind(kind) != FlashError) {
		return nil
	}
	return &Flash{Kind: FlashKind(kind), Message: message}
}
