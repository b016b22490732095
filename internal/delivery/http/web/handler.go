// Package web serves the server-rendered pages: browse, share, dashboard,
// contact and the in-place auth form.
package web

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"
	"time"

	"interview-tayari/internal/delivery/http/middleware"
	"interview-tayari/internal/domain"
	"interview-tayari/internal/listing"
	"interview-tayari/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"auth", "listing", "submit", "dashboard", "contact"}

type Deps struct {
	Sessions     domain.SessionProvider
	AuthUC       domain.AuthUsecase
	SubmissionUC domain.SubmissionUsecase
	ListingUC    domain.ListingUsecase
	DashboardUC  domain.DashboardUsecase
	Listings     *listing.Registry
	Drafts       domain.DraftStore
	Cookie       middleware.CookieConfig
}

type Handler struct {
	Deps
	pages map[string]*template.Template
}

func NewHandler(deps Deps) (*Handler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s page: %w", name, err)
		}
		pages[name] = t
	}
	return &Handler{Deps: deps, pages: pages}, nil
}

func (h *Handler) Register(r *gin.Engine) {
	g := r.Group("")
	g.Use(middleware.CSRFMiddleware(h.Cookie.Secure), middleware.SessionGate(h.Sessions, h.Cookie))
	{
		g.GET("/", h.Listing)
		g.POST("/listing/retry", h.RetryListing)
		g.GET("/submit", h.SubmitForm)
		g.POST("/submit", h.Submit)
		g.GET("/dashboard", h.Dashboard)
		g.GET("/contact", h.Contact)
		g.POST("/auth", h.Auth)
		g.POST("/logout", h.Logout)
	}
}

// Page is the data every template receives.
type Page struct {
	Title string
	Path  string
	User  *domain.User
	CSRF  string
	Flash *Flash
	Data  interface{}
}

func (h *Handler) render(c *gin.Context, status int, name, title string, data interface{}) {
	p := Page{
		Title: title,
		Path:  c.Request.URL.Path,
		CSRF:  c.GetString(middleware.CSRFContextKey),
		Flash: takeFlash(c),
		Data:  data,
	}
	if s := middleware.CurrentSession(c); s != nil {
		u := s.User
		p.User = &u
	}
	if f, ok := c.Get(flashKey); ok {
		p.Flash = f.(*Flash)
	}
	c.Render(status, render.HTML{Template: h.pages[name], Name: "layout", Data: p})
}

// AuthView is the data of the auth form.
type AuthView struct {
	Mode  domain.AuthMode
	Email string
	Next  string
}

// gate returns the live session, or renders the auth form in place and
// returns nil.
func (h *Handler) gate(c *gin.Context) *domain.Session {
	if s := middleware.CurrentSession(c); s != nil {
		return s
	}
	mode, err := domain.ParseAuthMode(c.Query("mode"))
	if err != nil {
		mode = domain.AuthModeSignIn
	}
	h.render(c, http.StatusOK, "auth", "Sign in", AuthView{Mode: mode, Next: c.Request.URL.Path})
	return nil
}

// ListingView is the data of the browse page.
type ListingView struct {
	State     listing.State
	Buckets   []string
	Companies []string
}

func (h *Handler) Listing(c *gin.Context) {
	s := h.gate(c)
	if s == nil {
		return
	}

	var query domain.ListingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		setFlash(c, FlashError, "Unknown experience filter")
		query.ExperienceYears = ""
	}

	controller := h.Listings.Get(s.ID)
	var state listing.State
	if c.Request.URL.RawQuery == "" {
		// A bare visit mounts the page.
		state = controller.Load(c.Request.Context(), query)
	} else {
		state = controller.Update(c.Request.Context(), query)
	}
	h.renderListing(c, state)
}

func (h *Handler) RetryListing(c *gin.Context) {
	s := h.gate(c)
	if s == nil {
		return
	}
	state := h.Listings.Get(s.ID).Retry(c.Request.Context())
	h.renderListing(c, state)
}

func (h *Handler) renderListing(c *gin.Context, state listing.State) {
	if state.Phase == listing.PhaseFailure {
		setFlash(c, FlashError, state.Error)
	}
	h.render(c, http.StatusOK, "listing", "Interview Experiences", ListingView{
		State:     state,
		Buckets:   domain.ExperienceBuckets,
		Companies: h.ListingUC.Companies(state.Response),
	})
}

// SubmitView is the data of the share form.
type SubmitView struct {
	Draft             *domain.Draft
	ExperienceOptions []int
	CTCOptions        []int
	QuestionTypes     []domain.QuestionType
	Difficulties      []domain.Difficulty
}

func (h *Handler) renderSubmit(c *gin.Context, status int, draft *domain.Draft) {
	h.render(c, status, "submit", "Share Your Experience", SubmitView{
		Draft:             draft,
		ExperienceOptions: domain.ExperienceOptions,
		CTCOptions:        domain.CTCOptions,
		QuestionTypes:     domain.QuestionTypes,
		Difficulties:      domain.Difficulties,
	})
}

func (h *Handler) SubmitForm(c *gin.Context) {
	s := h.gate(c)
	if s == nil {
		return
	}
	draft, err := h.Drafts.Get(c.Request.Context(), s.ID)
	if err != nil {
		c.Error(err)
		return
	}
	h.renderSubmit(c, http.StatusOK, draft)
}

// Submit applies the posted form to the draft and runs the requested action:
// add, remove:<i>, toggle:<section>, submit or a plain save.
func (h *Handler) Submit(c *gin.Context) {
	s := h.gate(c)
	if s == nil {
		return
	}
	ctx := c.Request.Context()

	draft, err := h.Drafts.Get(ctx, s.ID)
	if err != nil {
		c.Error(err)
		return
	}
	if err := applyForm(c, draft); err != nil {
		setFlash(c, FlashError, apperror.Message(err, "Could not read the form"))
	}

	action, arg, _ := strings.Cut(c.PostForm("action"), ":")
	status := http.StatusOK
	switch action {
	case "add":
		draft.AddQuestion()
	case "remove":
		if err := draft.RemoveQuestion(atoi(arg)); err != nil {
			setFlash(c, FlashError, err.Error())
		}
	case "toggle":
		draft.ToggleSection(domain.ParseSection(arg))
	case "submit":
		if _, err := h.SubmissionUC.Submit(ctx, draft); err != nil {
			status = statusOf(err)
			setFlash(c, FlashError, apperror.Message(err, "Failed to share your experience"))
			break
		}
		_ = h.Drafts.Delete(ctx, s.ID)
		h.Listings.Drop(s.ID)
		redirectWithFlash(c, "/", FlashSuccess, "Experience shared successfully!")
		return
	}

	if err := h.Drafts.Save(ctx, s.ID, draft); err != nil {
		c.Error(err)
		return
	}
	h.renderSubmit(c, status, draft)
}

func (h *Handler) Dashboard(c *gin.Context) {
	s := h.gate(c)
	if s == nil {
		return
	}

	stats, err := h.DashboardUC.Stats(c.Request.Context(), s.User.ID)
	if err != nil {
		setFlash(c, FlashError, apperror.Message(err, "Failed to load dashboard"))
		empty := domain.ComputeStats(nil)
		stats = &empty
	}
	h.render(c, http.StatusOK, "dashboard", "Dashboard", stats)
}

func (h *Handler) Contact(c *gin.Context) {
	h.render(c, http.StatusOK, "contact", "Contact Us", nil)
}

func (h *Handler) Auth(c *gin.Context) {
	form := domain.AuthForm{
		Mode:     domain.AuthMode(c.PostForm("mode")),
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}
	next := safeNext(c.PostForm("next"))
	view := AuthView{Mode: form.Mode, Email: form.Email, Next: next}

	result, err := h.AuthUC.Authenticate(c.Request.Context(), form)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownAuthMode) {
			view.Mode = domain.AuthModeSignIn
		}
		setFlash(c, FlashError, apperror.Message(err, "Authentication failed"))
		h.render(c, statusOf(err), "auth", "Sign in", view)
		return
	}

	if result.Session == nil {
		// Reset link sent, or sign-up waiting for e-mail confirmation.
		setFlash(c, FlashSuccess, result.Message)
		view.Mode = domain.AuthModeSignIn
		h.render(c, http.StatusOK, "auth", "Sign in", view)
		return
	}

	h.Cookie.Set(c, result.Session.ID)
	redirectWithFlash(c, next, FlashSuccess, result.Message)
}

func (h *Handler) Logout(c *gin.Context) {
	if s := middleware.CurrentSession(c); s != nil {
		// The session is dropped locally even when the remote call fails.
		if err := h.AuthUC.SignOut(c.Request.Context(), s); err != nil {
			c.Error(err)
		}
	}
	h.Cookie.Clear(c)
	redirectWithFlash(c, "/", FlashSuccess, "Signed out")
}

func statusOf(err error) int {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && appErr.Code > 0 {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

// safeNext keeps post-login redirects on this site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	return next
}

var funcs = template.FuncMap{
	"add": func(a, b int) int { return a + b },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"difficulty": func(d *domain.Difficulty) string {
		if d == nil {
			return ""
		}
		return string(*d)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006")
	},
	"itoa": func(i int) string { return fmt.Sprint(i) },
}
