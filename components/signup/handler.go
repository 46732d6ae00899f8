package signup

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-signup/pkg/finalize"
	"github.com/goliatone/go-signup/pkg/model"
	"github.com/goliatone/go-signup/pkg/render"
	"github.com/goliatone/go-signup/pkg/renderers/vanilla"
	"github.com/goliatone/go-signup/pkg/session"
	"github.com/goliatone/go-signup/pkg/view"
	"github.com/goliatone/go-signup/pkg/wizard"
)

// CSRFHeader carries the session token on JSON event requests.
const CSRFHeader = "X-CSRF-Token"

type HTTPError interface {
	error
	StatusCode() int
}

type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.Code)
}

func (e StatusError) Unwrap() error { return e.Err }

func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

var (
	errCSRF          = StatusError{Code: http.StatusForbidden, Err: errors.New("signup: csrf token mismatch")}
	errSessionNeeded = StatusError{Code: http.StatusUnauthorized, Err: errors.New("signup: no active session")}
)

// Handler serves the page, the events endpoint and the bundled assets.
type Handler struct {
	opts     Options
	endpoint string
	assets   string
	builder  *view.Builder
	renderer render.Renderer
	theme    *theme.RendererConfig
	logger   *zap.Logger
}

// NewHandler builds a handler for a flow mounted at endpoint (the full page
// path, e.g. "/signup").
func NewHandler(endpoint string, fns ...OptionFn) (*Handler, error) {
	return HandlerWithOptions(endpoint, NewOptions(fns...))
}

// HandlerWithOptions builds a handler from a pre-constructed Options value.
func HandlerWithOptions(endpoint string, opts Options) (*Handler, error) {
	opts = NewOptions(func(o *Options) { *o = opts })
	if endpoint == "" {
		endpoint = opts.RoutePath
	}

	h := &Handler{
		opts:     opts,
		endpoint: endpoint,
		assets:   endpoint + "/assets/",
		builder:  view.NewBuilder(opts.Catalog, view.WithEndpoint(endpoint)),
		renderer: opts.Renderer,
		logger:   opts.Logger.Named("signup"),
	}

	if h.renderer == nil {
		renderer, err := vanilla.New(
			vanilla.WithTranslator(opts.Catalog),
			vanilla.WithIcons(opts.Catalog),
		)
		if err != nil {
			return nil, fmt.Errorf("signup: build renderer: %w", err)
		}
		h.renderer = renderer
	}

	if cfg := render.ThemeConfig(opts.Catalog.ThemeManifest(), opts.ThemeVariant); cfg != nil {
		assetURL := cfg.AssetURL
		cfg.AssetURL = func(key string) string {
			href := assetURL(key)
			if href == "" || strings.Contains(href, "://") {
				return href
			}
			return h.assets + path.Base(href)
		}
		h.theme = cfg
	}
	return h, nil
}

// Endpoint is the page path the handler was built for.
func (h *Handler) Endpoint() string { return h.endpoint }

// ServeHTTP handles the page route.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.guard(w, r) {
		return
	}
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		h.show(w, r)
	case http.MethodPost:
		h.submit(w, r)
	default:
		w.Header().Set("Allow", strings.Join([]string{http.MethodGet, http.MethodHead, http.MethodPost}, ", "))
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
	}
}

// Events returns the handler for JSON field events.
func (h *Handler) Events() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.guard(w, r) {
			return
		}
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		h.events(w, r)
	})
}

// Assets returns the handler serving the bundled stylesheet and script.
func (h *Handler) Assets() http.Handler {
	return http.StripPrefix(h.assets, http.FileServer(http.FS(vanilla.AssetsFS())))
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	sess, ok := h.current(r)
	if !ok {
		sess = h.opts.Store.Create()
		h.setCookie(w, sess.ID)
	}
	h.page(w, r, sess, locale, view.Feedback{Status: http.StatusOK})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	r.Body = http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.fail(w, StatusError{Code: http.StatusBadRequest, Err: err})
		return
	}

	sess, ok := h.current(r)
	if !ok {
		fresh := h.opts.Store.Create()
		h.setCookie(w, fresh.ID)
		h.page(w, r, fresh, locale, view.Feedback{
			Status: http.StatusGone,
			Form:   []string{h.opts.Catalog.T(locale, "error.session_expired")},
		})
		return
	}
	if !tokensEqual(r.PostForm.Get(render.CSRFFieldName), sess.CSRFToken) {
		h.fail(w, errCSRF)
		return
	}

	values := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}

	var out outcome
	updated, err := h.opts.Store.Update(sess.ID, func(s *session.Session) error {
		out = h.apply(r.Context(), s, values)
		return nil
	})
	if err != nil {
		h.fail(w, StatusError{Code: http.StatusGone, Err: err})
		return
	}

	if out.err != nil {
		form, buildErr := h.builder.Build(updated.State, locale)
		if buildErr != nil {
			h.fail(w, buildErr)
			return
		}
		h.page(w, r, updated, locale, h.builder.Feedback(form, out.err, locale))
		return
	}

	switch {
	case out.effect == wizard.EffectAdvance:
		http.Redirect(w, r, h.endpoint, http.StatusSeeOther)
	case out.effect.Finalizes():
		h.clearCookie(w)
		done, err := h.builder.Completion(out.effect, out.state, locale)
		if err != nil {
			h.fail(w, err)
			return
		}
		h.write(w, r, done, render.RenderOptions{Locale: locale, Theme: h.theme}, http.StatusOK)
	default:
		http.Redirect(w, r, h.endpoint, http.StatusSeeOther)
	}
}

type outcome struct {
	state  wizard.State
	effect wizard.Effect
	err    error
}

// apply runs under the session lock. Field values are kept even when the
// submit itself is rejected so the visitor does not retype them.
func (h *Handler) apply(ctx context.Context, s *session.Session, values map[string]string) outcome {
	events := wizard.EventsForView(wizard.SelectView(s.State), values)
	filled, _, err := wizard.ReduceAll(s.State, events...)
	if err != nil {
		return outcome{state: s.State, err: err}
	}
	s.State = filled

	next, effect, err := wizard.Reduce(filled, wizard.Submit{})
	if err != nil {
		return outcome{state: filled, err: err}
	}
	s.State = next

	if !effect.Finalizes() {
		if effect == wizard.EffectAdvance {
			h.logger.Debug("advanced to payment", zap.String("session", s.ID), zap.String("plan", string(next.Draft.Plan)))
		}
		return outcome{state: next, effect: effect}
	}

	submission, err := finalize.NewSubmission(effect, next)
	if err != nil {
		return outcome{state: next, err: err}
	}
	if h.opts.FinalizeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.FinalizeTimeout)
		defer cancel()
	}
	if err := h.opts.Sink.Finalize(ctx, submission); err != nil {
		h.logger.Warn("finalize failed",
			zap.String("session", s.ID),
			zap.String("submission_id", submission.ID),
			zap.Error(err),
		)
		return outcome{state: next, err: err}
	}

	h.logger.Info("signup completed",
		zap.String("session", s.ID),
		zap.String("submission_id", submission.ID),
		zap.String("kind", string(submission.Kind)),
	)
	h.opts.Store.Discard(s.ID)
	return outcome{state: next, effect: effect}
}

type eventsRequest struct {
	Events []json.RawMessage `json:"events"`
}

type eventsResponse struct {
	Step         int    `json:"step"`
	View         string `json:"view"`
	SubmitAction string `json:"submitAction"`
	SubmitLabel  string `json:"submitLabel"`
	CanSubmit    bool   `json:"canSubmit"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) events(w http.ResponseWriter, r *http.Request) {
	locale := h.locale(r)
	sess, ok := h.current(r)
	if !ok {
		h.fail(w, errSessionNeeded)
		return
	}
	if !tokensEqual(r.Header.Get(CSRFHeader), sess.CSRFToken) {
		h.fail(w, errCSRF)
		return
	}

	var req eventsRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.opts.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		h.fail(w, StatusError{Code: http.StatusBadRequest, Err: fmt.Errorf("signup: decode events: %w", err)})
		return
	}

	events := make([]wizard.Event, 0, len(req.Events))
	for _, raw := range req.Events {
		event, err := wizard.DecodeEvent(raw)
		if err != nil {
			h.fail(w, StatusError{Code: http.StatusBadRequest, Err: err})
			return
		}
		if _, isSubmit := event.(wizard.Submit); isSubmit {
			h.fail(w, StatusError{Code: http.StatusBadRequest, Err: errors.New("signup: submit is not a field event")})
			return
		}
		events = append(events, event)
	}

	// The view check runs under the session lock so a concurrent advance to
	// payment cannot let account fields through.
	updated, err := h.opts.Store.Update(sess.ID, func(s *session.Session) error {
		if err := wizard.CheckView(wizard.SelectView(s.State), events...); err != nil {
			return err
		}
		next, _, err := wizard.ReduceAll(s.State, events...)
		if err != nil {
			return err
		}
		s.State = next
		return nil
	})
	if err != nil {
		code := http.StatusBadRequest
		switch {
		case errors.Is(err, session.ErrNotFound):
			code = http.StatusGone
		case errors.Is(err, wizard.ErrInactiveField):
			code = http.StatusConflict
		}
		h.fail(w, StatusError{Code: code, Err: err})
		return
	}

	action := wizard.SubmitActionFor(updated.State)
	writeJSON(w, http.StatusOK, eventsResponse{
		Step:         updated.State.Step.Number(),
		View:         wizard.SelectView(updated.State).String(),
		SubmitAction: strings.TrimPrefix(action.Key(), "action."),
		SubmitLabel:  h.opts.Catalog.T(locale, action.Key()),
		CanSubmit:    wizard.CanSubmit(updated.State),
	})
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request, sess session.Session, locale string, feedback view.Feedback) {
	form, err := h.builder.Build(sess.State, locale)
	if err != nil {
		h.fail(w, err)
		return
	}
	status := feedback.Status
	if status == 0 {
		status = http.StatusOK
	}
	h.write(w, r, form, render.RenderOptions{
		Locale:       locale,
		Errors:       feedback.Fields,
		FormErrors:   feedback.Form,
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken(sess.CSRFToken)),
		Theme:        h.theme,
		Scripts:      []string{h.assets + vanilla.ScriptName},
	}, status)
}

func (h *Handler) write(w http.ResponseWriter, r *http.Request, form model.FormModel, opts render.RenderOptions, status int) {
	body, err := h.renderer.Render(r.Context(), form, opts)
	if err != nil {
		h.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", h.renderer.ContentType())
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = bytes.NewReader(body).WriteTo(w)
}

func (h *Handler) fail(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	var httpErr HTTPError
	if errors.As(err, &httpErr) && httpErr != nil {
		code = httpErr.StatusCode()
	}
	if code >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	} else {
		h.logger.Debug("request rejected", zap.Int("status", code), zap.Error(err))
	}
	writeJSON(w, code, errorResponse{Error: http.StatusText(code)})
}

func (h *Handler) guard(w http.ResponseWriter, r *http.Request) bool {
	if r == nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}
	if h.opts.Guard == nil {
		return true
	}
	if err := h.opts.Guard(r); err != nil {
		code := http.StatusForbidden
		var httpErr HTTPError
		if errors.As(err, &httpErr) && httpErr != nil {
			code = httpErr.StatusCode()
		}
		http.Error(w, http.StatusText(code), code)
		return false
	}
	return true
}

func (h *Handler) locale(r *http.Request) string {
	var accept []string
	if lang := strings.TrimSpace(r.URL.Query().Get("lang")); lang != "" {
		accept = append(accept, lang)
	}
	if header := r.Header.Get("Accept-Language"); header != "" {
		accept = append(accept, header)
	}
	return h.opts.Catalog.MatchLocale(accept...)
}

func (h *Handler) current(r *http.Request) (session.Session, bool) {
	cookie, err := r.Cookie(h.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return session.Session{}, false
	}
	return h.opts.Store.Get(cookie.Value)
}

func (h *Handler) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    id,
		Path:     h.endpoint,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.opts.CookieName,
		Value:    "",
		Path:     h.endpoint,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.opts.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func tokensEqual(got, want string) bool {
	if got == "" || want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(payload)
}
