package ai

import (
	"encoding/json"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/platewise/v1/internal/domain/menu"
	"github.com/platewise/v1/internal/domain/order"
)

// DiagnosticKind classifies a non-fatal parse condition.
type DiagnosticKind string

const (
	DiagnosticCatalogMismatch DiagnosticKind = "catalog_mismatch"
	DiagnosticInvalidQuantity DiagnosticKind = "invalid_quantity"
	DiagnosticMalformedBlock  DiagnosticKind = "malformed_block"
)

// Diagnostic records a degraded-parse condition without failing the
// whole parse.
type Diagnostic struct {
	Kind   DiagnosticKind `json:"kind"`
	Item   string         `json:"item,omitempty"`
	Detail string         `json:"detail,omitempty"`
}

// ParseResult is the outcome of parsing raw model output. Intent is nil
// when no well-formed order block was found; it is non-nil with an
// empty item list when a block existed but every item was rejected.
type ParseResult struct {
	ReplyText   string
	Intent      *order.Intent
	Diagnostics []Diagnostic
}

// ResponseParser extracts the human reply and an optional structured
// order intent from free-form model output. Model output is untrusted
// by construction, so the parser never fails: anything malformed
// degrades to a plain-text reply.
type ResponseParser struct {
	logger *zap.Logger
}

// NewResponseParser creates a response parser.
func NewResponseParser(logger *zap.Logger) *ResponseParser {
	return &ResponseParser{logger: logger.Named("parser")}
}

// orderBlock is the wire shape of the embedded order JSON. Quantity is
// decoded as float so a fractional value can be rejected instead of
// silently truncated.
type orderBlock struct {
	Items []orderBlockItem `json:"items"`
}

type orderBlockItem struct {
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	Customization string  `json:"customization"`
}

// Parse scans the raw text for the sentinel-delimited order block,
// falling back to a bare JSON object carrying an "items" array. The
// block is stripped from the reply; each item is validated against the
// catalog with per-item diagnostics for rejects.
func (p *ResponseParser) Parse(raw string, catalog *menu.Catalog) ParseResult {
	reply, blockJSON := extractOrderBlock(raw)

	if blockJSON == "" {
		return ParseResult{ReplyText: strings.TrimSpace(raw)}
	}

	var block orderBlock
	if err := json.Unmarshal([]byte(blockJSON), &block); err != nil {
		p.logger.Debug("Malformed order block, degrading to plain text", zap.Error(err))
		return ParseResult{
			ReplyText: strings.TrimSpace(raw),
			Diagnostics: []Diagnostic{{
				Kind:   DiagnosticMalformedBlock,
				Detail: err.Error(),
			}},
		}
	}
	if block.Items == nil {
		// A JSON object without the order shape is not an order block.
		return ParseResult{ReplyText: strings.TrimSpace(raw)}
	}

	result := ParseResult{
		ReplyText: strings.TrimSpace(reply),
		Intent:    &order.Intent{Items: []order.Item{}},
	}

	for _, item := range block.Items {
		menuItem, ok := catalog.Lookup(item.Name)
		if !ok {
			p.logger.Debug("Order item not in catalog", zap.String("item", item.Name))
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:   DiagnosticCatalogMismatch,
				Item:   item.Name,
				Detail: "no matching menu entry",
			})
			continue
		}
		if item.Quantity < 1 || item.Quantity != math.Trunc(item.Quantity) {
			result.Diagnostics = append(result.Diagnostics, Diagnostic{
				Kind:   DiagnosticInvalidQuantity,
				Item:   item.Name,
				Detail: "quantity must be a positive integer",
			})
			continue
		}

		// The catalog price wins over whatever the model claimed.
		result.Intent.Items = append(result.Intent.Items, order.Item{
			Name:          menuItem.Name,
			Quantity:      int(item.Quantity),
			UnitPrice:     menuItem.Price,
			Customization: strings.TrimSpace(item.Customization),
		})
	}

	return result
}

// extractOrderBlock returns the reply text with the order block removed
// and the block's JSON payload. An empty payload means no block.
func extractOrderBlock(raw string) (reply, blockJSON string) {
	start := strings.Index(raw, OrderBlockStart)
	if start >= 0 {
		rest := raw[start+len(OrderBlockStart):]
		end := strings.Index(rest, OrderBlockEnd)
		if end >= 0 {
			reply = raw[:start] + rest[end+len(OrderBlockEnd):]
			return reply, strings.TrimSpace(rest[:end])
		}
		// Opening sentinel without a close: try the braces inside.
		if payload := outermostObject(rest); payload != "" {
			return raw[:start], payload
		}
		return raw, ""
	}

	// No sentinels. Accept a bare JSON object only when it carries the
	// order shape; prose with incidental braces stays prose.
	payload := outermostObject(raw)
	if payload == "" || !strings.Contains(payload, `"items"`) {
		return raw, ""
	}
	idx := strings.Index(raw, payload)
	return raw[:idx] + raw[idx+len(payload):], payload
}

// outermostObject returns the substring from the first '{' to its
// matching closing brace, tracking JSON string literals so braces in
// text content do not unbalance the scan.
func outermostObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
