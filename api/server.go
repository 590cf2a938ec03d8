// Package api serves the registry of a document over HTTP
package api

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shiroyk/domevent/dom"
	"github.com/shiroyk/domevent/js"
	"github.com/shiroyk/domevent/registry"
)

// Options the api server configuration
type Options struct {
	Logger  *slog.Logger
	Token   string
	Timeout time.Duration
}

// Session the document, its registry and the VM running the listeners.
// Every call into the document runs on the VM, one at a time.
type Session struct {
	VM       js.VM
	Document *dom.Document
	Registry *registry.Registry
}

// Server the api service
func Server(opt Options, s *Session) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = errorHandler
	e.HideBanner = true
	e.HidePort = true
	e.Use(loggerMiddleware(opt), authMiddleware(opt))

	h := &handler{opt, s}
	e.Any("/ping", ping)
	e.GET("/events", h.events)
	e.GET("/events/:id", h.event)
	e.DELETE("/events/:id", h.off)
	e.POST("/events/:id/trigger", h.trigger)
	e.POST("/dispatch", h.dispatch)
	return e
}

func errorHandler(err error, c echo.Context) {
	code := http.StatusInternalServerError
	msg := err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		}
	}
	if code >= http.StatusInternalServerError {
		c.Logger().Error(err)
	}

	if err = c.JSON(code, map[string]string{"msg": msg}); err != nil {
		c.Logger().Error(err)
	}
}

func ping(ctx echo.Context) error {
	return ctx.NoContent(http.StatusOK)
}

type handler struct {
	opt     Options
	session *Session
}

func (h *handler) run(c echo.Context, fn func()) error {
	ctx := c.Request().Context()
	if h.opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opt.Timeout)
		defer cancel()
	}
	return h.session.VM.Run(ctx, func() error {
		fn()
		return nil
	})
}

func (h *handler) events(c echo.Context) error {
	return c.JSON(http.StatusOK, h.session.Registry.Snapshot())
}

func (h *handler) event(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	for _, entry := range h.session.Registry.Snapshot() {
		if entry.ID == id {
			return c.JSON(http.StatusOK, entry)
		}
	}
	return echo.NewHTTPError(http.StatusNotFound, "event not found")
}

func (h *handler) off(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err = h.run(c, func() { h.session.Registry.Unregister(id) }); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) trigger(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if _, ok := h.session.Registry.Get(id); !ok {
		return echo.NewHTTPError(http.StatusNotFound, "event not found")
	}
	if err = h.run(c, func() { h.session.Registry.Trigger(id) }); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DispatchRequest the native event to dispatch to the elements matching the selector.
type DispatchRequest struct {
	Selector   string `json:"selector"`
	Type       string `json:"type"`
	Bubbles    *bool  `json:"bubbles"`
	Cancelable *bool  `json:"cancelable"`
}

// DispatchResponse the result of a dispatch, per element.
type DispatchResponse struct {
	Elements         []string `json:"elements"`
	DefaultPrevented []bool   `json:"defaultPrevented"`
}

func (h *handler) dispatch(c echo.Context) error {
	var req DispatchRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Selector == "" || req.Type == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "selector and type are required")
	}
	init := dom.EventInit{Bubbles: true, Cancelable: true}
	if req.Bubbles != nil {
		init.Bubbles = *req.Bubbles
	}
	if req.Cancelable != nil {
		init.Cancelable = *req.Cancelable
	}

	res := DispatchResponse{Elements: []string{}, DefaultPrevented: []bool{}}
	err := h.run(c, func() {
		for _, el := range h.session.Document.Select(dom.Selector(req.Selector)) {
			res.Elements = append(res.Elements, el.String())
			res.DefaultPrevented = append(res.DefaultPrevented, !h.session.Document.Dispatch(el, dom.NewEvent(req.Type, init)))
		}
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func paramID(c echo.Context) (registry.ID, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return registry.NoID, echo.NewHTTPError(http.StatusBadRequest, "invalid event id")
	}
	return registry.ID(id), nil
}
