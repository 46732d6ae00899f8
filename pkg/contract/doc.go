// Package contract loads the OpenAPI description of the backend that receives
// finalized sign-ups and validates outgoing payloads against it. Violations
// are reported per JSON pointer so they can be mapped back onto form fields.
package contract
