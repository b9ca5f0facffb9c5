// Package api implements the REST API for evaluating expressions and
// managing the calculator's variables.
package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"

	"github.com/danielb987/SuperCalculator/pkg/calculator"
	"github.com/danielb987/SuperCalculator/pkg/scope"
	"github.com/danielb987/SuperCalculator/pkg/store"
	"github.com/danielb987/SuperCalculator/pkg/types"
)

// Server is the HTTP API server.
type Server struct {
	app     *fiber.App
	calc    *calculator.Calculator
	history *store.Store
}

// New creates a new API server. When debug is set every request is logged.
func New(calc *calculator.Calculator, history *store.Store, debug bool) *Server {
	srv := &Server{
		calc:    calc,
		history: history,
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	if debug {
		app.Use(logger.New())
	}

	app.Post("/v1/evaluate", srv.evaluate)

	// History
	app.Get("/v1/evaluations", srv.listEvaluations)
	app.Get("/v1/evaluations/:id", srv.getEvaluation)
	app.Delete("/v1/evaluations", srv.clearEvaluations)

	// Variables
	app.Get("/v1/variables", srv.listVariables)
	app.Get("/v1/variables/:name", srv.getVariable)
	app.Put("/v1/variables/:name", srv.setVariable)
	app.Delete("/v1/variables/:name", srv.deleteVariable)

	app.Get("/v1/functions", srv.listFunctions)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Serve serves HTTP requests on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	return s.app.Listener(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing and for mounting
// further routes).
func (s *Server) App() *fiber.App {
	return s.app
}

// --- Evaluation Handlers ---

// evaluateRequest carries the expression and optional variables that only
// this evaluation sees.
type evaluateRequest struct {
	Expression string                 `json:"expression"`
	Variables  map[string]interface{} `json:"variables"`
}

func (s *Server) evaluate(c *fiber.Ctx) error {
	var req evaluateRequest
	if err := decodeBody(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", fmt.Sprintf("invalid request body: %v", err))
	}

	vars := make(map[string]types.Value, len(req.Variables))
	for name, raw := range req.Variables {
		v, err := types.FromGo(raw)
		if err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", fmt.Sprintf("variable %s: %v", name, err))
		}
		vars[name] = v
	}

	res, rec, err := s.calc.RecordWith(s.history, req.Expression, vars)
	if err != nil {
		if errors.Is(err, scope.ErrReadOnly) {
			return errorResponse(c, fiber.StatusBadRequest, "FAILED_PRECONDITION", err.Error())
		}
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	}
	if res.Err != nil {
		return s.calcError(c, res.Err)
	}

	body := evaluationToJSON(rec)
	body["value"] = res.Value
	return c.JSON(body)
}

func (s *Server) listEvaluations(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", fmt.Sprintf("invalid limit %q", raw))
		}
		limit = n
	}

	evaluations := s.history.List(limit)
	items := make([]fiber.Map, len(evaluations))
	for i, e := range evaluations {
		items[i] = evaluationToJSON(e)
	}

	return c.JSON(fiber.Map{
		"evaluations": items,
	})
}

func (s *Server) getEvaluation(c *fiber.Ctx) error {
	e, err := s.history.Get(c.Params("id"))
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", err.Error())
	}
	return c.JSON(evaluationToJSON(e))
}

func (s *Server) clearEvaluations(c *fiber.Ctx) error {
	s.history.Clear()
	return c.SendStatus(fiber.StatusNoContent)
}

// --- Variable Handlers ---

type setVariableRequest struct {
	Value interface{} `json:"value"`
}

func (s *Server) listVariables(c *fiber.Ctx) error {
	sc := s.calc.Scope()
	values := sc.Snapshot()

	items := make([]fiber.Map, 0, len(values))
	for _, name := range sc.Names() {
		items = append(items, variableToJSON(name, values[name], sc.IsConstant(name)))
	}

	return c.JSON(fiber.Map{
		"variables": items,
	})
}

func (s *Server) getVariable(c *fiber.Ctx) error {
	name := c.Params("name")
	sc := s.calc.Scope()

	v, err := sc.Get(name)
	if err != nil {
		return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", s.calc.Message(err))
	}
	return c.JSON(variableToJSON(name, v, sc.IsConstant(name)))
}

func (s *Server) setVariable(c *fiber.Ctx) error {
	name := c.Params("name")

	var req setVariableRequest
	if err := decodeBody(c, &req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", fmt.Sprintf("invalid request body: %v", err))
	}

	v, err := types.FromGo(req.Value)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	}

	if err := s.calc.Scope().Set(name, v); err != nil {
		if errors.Is(err, scope.ErrReadOnly) {
			return errorResponse(c, fiber.StatusBadRequest, "FAILED_PRECONDITION", err.Error())
		}
		return errorResponse(c, fiber.StatusBadRequest, "INVALID_ARGUMENT", err.Error())
	}

	log.Printf("[api] variable %s set to %s", name, v)
	return c.JSON(variableToJSON(name, v, false))
}

func (s *Server) deleteVariable(c *fiber.Ctx) error {
	name := c.Params("name")

	removed, err := s.calc.Scope().Delete(name)
	if err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "FAILED_PRECONDITION", err.Error())
	}
	if !removed {
		return errorResponse(c, fiber.StatusNotFound, "NOT_FOUND", s.calc.Message(types.NewIdentifierNotFoundError(name)))
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Server) listFunctions(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"functions": s.calc.Functions().Names(),
	})
}

// --- Helpers ---

// calcError reports a calculator failure. All calculator errors are caused
// by the submitted expression, so they map to 400.
func (s *Server) calcError(c *fiber.Ctx, err error) error {
	body := fiber.Map{
		"code":    fiber.StatusBadRequest,
		"message": s.calc.Message(err),
		"status":  "INVALID_ARGUMENT",
	}
	var e *types.Error
	if errors.As(err, &e) {
		body["kind"] = e.Kind.String()
		if e.Pos >= 0 {
			body["position"] = e.Pos
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": body})
}

// decodeBody decodes a JSON request body with UseNumber so that 3 stays an
// int and 3.0 a double.
func decodeBody(c *fiber.Ctx, out interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.UseNumber()
	return dec.Decode(out)
}

func errorResponse(c *fiber.Ctx, code int, status, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": message,
			"status":  status,
		},
	})
}

func evaluationToJSON(e *store.Evaluation) fiber.Map {
	result := fiber.Map{
		"id":         e.ID,
		"expression": e.Expression,
		"createTime": e.CreateTime.Format(time.RFC3339),
	}

	if e.Definition != "" {
		result["definition"] = e.Definition
	}
	if e.Failed() {
		result["error"] = e.Error
	} else {
		result["result"] = e.Result
		result["type"] = e.Type
	}

	return result
}

func variableToJSON(name string, v types.Value, constant bool) fiber.Map {
	return fiber.Map{
		"name":     name,
		"value":    v,
		"type":     v.Type().String(),
		"constant": constant,
	}
}
