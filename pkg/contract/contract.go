package contract

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation ids defined by the embedded contract.
const (
	OpCreateAccount      = "createAccount"
	OpCreateSubscription = "createSubscription"
)

//go:embed openapi.yaml
var embeddedContract []byte

// ErrUnknownOperation is returned for operation ids the contract lacks.
var ErrUnknownOperation = errors.New("contract: unknown operation")

// Operation is the subset of an OpenAPI operation the sink needs.
type Operation struct {
	ID     string
	Method string
	Path   string

	schema *openapi3.Schema
}

// Contract is a loaded, validated OpenAPI document indexed by operation id.
type Contract struct {
	title      string
	version    string
	operations map[string]Operation
}

// ViolationError lists schema violations keyed by JSON pointer, e.g.
// "/account/first_name". Keys "/" hold violations of the payload itself.
type ViolationError struct {
	Operation  string
	Violations map[string][]string
}

func (e *ViolationError) Error() string {
	pointers := make([]string, 0, len(e.Violations))
	for pointer := range e.Violations {
		pointers = append(pointers, pointer)
	}
	sort.Strings(pointers)
	return fmt.Sprintf("contract: %s payload invalid at %s", e.Operation, strings.Join(pointers, ", "))
}

// Load parses the embedded contract.
func Load(ctx context.Context) (*Contract, error) {
	return LoadData(ctx, embeddedContract)
}

// LoadData parses and validates an OpenAPI document.
func LoadData(ctx context.Context, data []byte) (*Contract, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("contract: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("contract: load document: %w", err)
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("contract: validate: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("contract: document does not contain any paths")
	}

	c := &Contract{operations: make(map[string]Operation)}
	if spec.Info != nil {
		c.title = spec.Info.Title
		c.version = spec.Info.Version
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil || op.OperationID == "" {
				continue
			}
			c.operations[op.OperationID] = Operation{
				ID:     op.OperationID,
				Method: strings.ToUpper(method),
				Path:   path,
				schema: requestSchema(op.RequestBody),
			}
		}
	}
	return c, nil
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	mt, ok := body.Value.Content["application/json"]
	if !ok || mt == nil || mt.Schema == nil {
		return nil
	}
	return mt.Schema.Value
}

// Title and Version describe the loaded document.
func (c *Contract) Title() string   { return c.title }
func (c *Contract) Version() string { return c.version }

// Operation looks up an operation by id.
func (c *Contract) Operation(id string) (Operation, bool) {
	op, ok := c.operations[id]
	return op, ok
}

// Validate checks a JSON-shaped payload (maps, slices, strings, bools,
// float64) against the operation's request schema. Every violation is
// collected; the result is a *ViolationError when any exist.
func (c *Contract) Validate(operationID string, payload any) error {
	op, ok := c.operations[operationID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownOperation, operationID)
	}
	if op.schema == nil {
		return nil
	}

	err := op.schema.VisitJSON(payload, openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	violations := make(map[string][]string)
	collectViolations(err, violations)
	if len(violations) == 0 {
		violations["/"] = []string{err.Error()}
	}
	return &ViolationError{Operation: operationID, Violations: violations}
}

func collectViolations(err error, out map[string][]string) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, inner := range multi {
			collectViolations(inner, out)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := "/" + strings.Join(schemaErr.JSONPointer(), "/")
		out[pointer] = append(out[pointer], schemaErr.Reason)
		return
	}
	out["/"] = append(out["/"], err.Error())
}
