package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/moura-ar/portfolio/internal/api/constants"
	"github.com/moura-ar/portfolio/internal/api/dto/common"
	"github.com/moura-ar/portfolio/internal/api/dto/v1/contact"
	"github.com/moura-ar/portfolio/internal/api/validation"
	"github.com/moura-ar/portfolio/internal/logging"
	"github.com/moura-ar/portfolio/internal/metrics"
	"github.com/moura-ar/portfolio/internal/ratelimit"
	"github.com/moura-ar/portfolio/internal/security"
	"github.com/moura-ar/portfolio/internal/service"
	"github.com/moura-ar/portfolio/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

// ContactDeps are the collaborators of the contact pipeline.
type ContactDeps struct {
	Limiter        ratelimit.Limiter
	Relay          service.Relayer
	Spam           *security.SpamDetector
	AllowedOrigins []string
	Logger         *logging.Logger
	Metrics        *metrics.Metrics
}

type ContactHandler struct {
	limiter        ratelimit.Limiter
	relay          service.Relayer
	spam           *security.SpamDetector
	allowedOrigins []string
	logger         *logging.Logger
	metrics        *metrics.Metrics
}

func NewContactHandler(deps ContactDeps) *ContactHandler {
	if deps.Spam == nil {
		deps.Spam = security.NewSpamDetector()
	}
	if deps.AllowedOrigins == nil {
		deps.AllowedOrigins = security.DefaultAllowedOrigins
	}
	if deps.Logger == nil {
		deps.Logger = logging.GetGlobalLogger()
	}
	return &ContactHandler{
		limiter:        deps.Limiter,
		relay:          deps.Relay,
		spam:           deps.Spam,
		allowedOrigins: deps.AllowedOrigins,
		logger:         deps.Logger,
		metrics:        deps.Metrics,
	}
}

// Submit handles POST /api/contact.
//
// Honeypot and spam hits get the same 200 body as a real submission so that
// automated senders cannot tell they were filtered.
func (h *ContactHandler) Submit(c *gin.Context) {
	if !h.checkOrigin(c) {
		return
	}
	origin := c.GetHeader("Origin")

	clientIP := utils.GetRealIP(c)
	c.Set(constants.ContextKeyClientIP, clientIP)

	if h.limiter != nil {
		status, err := h.limiter.Allow(c.Request.Context(), clientIP)
		if err != nil {
			// Fail open: a broken limiter backend must not take the form down.
			h.logger.Error("Rate limiter unavailable for %s: %v", clientIP, err)
		} else {
			c.Set(constants.ContextKeyRateLimit, status)
			utils.SetHeaders(c, status.Headers())

			if !status.Allowed {
				h.logger.Warn("Contact submission rate limited for %s (%d/%d)", clientIP, status.Count, status.Limit)
				h.metrics.ObserveSubmission(metrics.OutcomeRateLimited)
				retryAfter := int(status.RetryAfter(time.Now()).Seconds())
				c.Header("Retry-After", strconv.Itoa(retryAfter))
				c.JSON(http.StatusTooManyRequests, common.NewErrorResponse(common.MsgTooManyRequests))
				return
			}
		}
	}

	var form contact.SubmissionForm
	if err := c.ShouldBindWith(&form, binding.Form); err != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeError)
		utils.HandleInternalError(c, h.logger, err)
		return
	}

	honeypot := validation.HoneypotFromForm(form)
	if !validation.ValidateHoneypot(honeypot) {
		h.logger.Warn("Bot detected from %s: honeypot fields %v", clientIP, validation.FilledHoneypotFields(honeypot))
		h.metrics.ObserveSubmission(metrics.OutcomeHoneypot)
		h.respondAccepted(c)
		return
	}

	data, fieldErrs := validation.ValidateContactForm(form)
	if fieldErrs != nil {
		h.metrics.ObserveSubmission(metrics.OutcomeInvalid)
		utils.HandleValidationErrors(c, fieldErrs)
		return
	}

	if spam, reason := h.spam.Check(data.Message); spam {
		h.logger.Warn("Spam detected from %s: %s", clientIP, reason)
		h.metrics.ObserveSubmission(metrics.OutcomeSpam)
		h.respondAccepted(c)
		return
	}

	utm := ExtractUTMParams(c.Request)
	meta := service.RequestMeta{
		UserAgent: c.Request.UserAgent(),
		IP:        clientIP,
		Origin:    origin,
	}

	if h.relay == nil {
		h.metrics.ObserveSubmission(metrics.OutcomeRelayFailed)
		utils.HandleInternalError(c, h.logger, service.ErrConfiguration)
		return
	}

	start := time.Now()
	result := h.relay.Relay(c.Request.Context(), data, utm, meta)
	h.metrics.ObserveRelay(time.Since(start))
	if !result.Success {
		h.metrics.ObserveSubmission(metrics.OutcomeRelayFailed)
		utils.HandleAPIError(c, h.logger, fmt.Errorf("%w: %s", service.ErrRelay, result.Error), http.StatusInternalServerError, common.MsgInternalError)
		return
	}

	h.logger.Info("Contact submission relayed for %s", clientIP)
	h.metrics.ObserveSubmission(metrics.OutcomeAccepted)
	h.respondAccepted(c)
}

// RequireOrigin is Submit's origin check as middleware, for routes that put
// other handlers in front of Submit.
func (h *ContactHandler) RequireOrigin(c *gin.Context) {
	if !h.checkOrigin(c) {
		c.Abort()
		return
	}
	c.Next()
}

func (h *ContactHandler) checkOrigin(c *gin.Context) bool {
	origin := c.GetHeader("Origin")
	if security.ValidateOrigin(origin, h.allowedOrigins) {
		return true
	}
	h.logger.Warn("Contact submission rejected: origin %q not allowed", origin)
	h.metrics.ObserveSubmission(metrics.OutcomeOriginRejected)
	c.JSON(http.StatusForbidden, common.NewErrorResponse(common.MsgOriginRejected))
	return false
}

// MethodNotAllowed answers every non-POST method on the contact endpoint.
func (h *ContactHandler) MethodNotAllowed(c *gin.Context) {
	c.Header("Allow", http.MethodPost)
	c.JSON(http.StatusMethodNotAllowed, common.NewErrorResponse(common.MsgMethodNotAllowed))
}

func (h *ContactHandler) respondAccepted(c *gin.Context) {
	c.JSON(http.StatusOK, contact.ContactResponse{
		Success: true,
		Message: common.MsgSubmissionAccepted,
	})
}

// ExtractUTMParams reads attribution parameters from the parsed form body,
// falling back to the query string, and adds the Referer header. Values are
// trimmed only; the relay sanitizes them.
func ExtractUTMParams(r *http.Request) contact.UTMParams {
	utm := contact.UTMParams{}
	query := r.URL.Query()

	for _, key := range contact.UTMKeys {
		value := strings.TrimSpace(r.PostForm.Get(key))
		if value == "" {
			value = strings.TrimSpace(query.Get(key))
		}
		if value != "" {
			utm[key] = value
		}
	}

	if referrer := strings.TrimSpace(r.Referer()); referrer != "" {
		utm["referrer"] = referrer
	}
	return utm
}
