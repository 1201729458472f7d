package handler

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/deskmind/deskmind/core"
)

var exprRe = regexp.MustCompile(`(-?\d+(?:\.\d+)?)\s*([-+*/x×])\s*(-?\d+(?:\.\d+)?)`)

// calculationHandler evaluates simple two-operand arithmetic found in the
// message. Anything it cannot parse defers to generation.
type calculationHandler struct{}

// NewCalculationHandler constructs the calculation handler.
func NewCalculationHandler() core.Handler { return &calculationHandler{} }

func (h *calculationHandler) Name() string { return "calculation" }

func (h *calculationHandler) Version() string { return "1.0" }

func (h *calculationHandler) Priority() int { return 80 }

func (h *calculationHandler) CanHandle(intent core.Intent) bool {
	return intent.Type == core.IntentCalculation
}

func (h *calculationHandler) Handle(ctx context.Context, message string, intent core.Intent, turnCtx *core.TurnContext) (core.Response, error) {
	m := exprRe.FindStringSubmatch(message)
	if m == nil {
		return core.DeferToGeneration(h.Name(), map[string]string{"topic": "calculation"}), nil
	}

	left, err1 := strconv.ParseFloat(m[1], 64)
	right, err2 := strconv.ParseFloat(m[3], 64)
	if err1 != nil || err2 != nil {
		return core.DeferToGeneration(h.Name(), map[string]string{"topic": "calculation"}), nil
	}

	var result float64
	switch m[2] {
	case "+":
		result = left + right
	case "-":
		result = left - right
	case "*", "x", "×":
		result = left * right
	case "/":
		if right == 0 {
			return core.Resolved(h.Name(), "I can't divide by zero. Could you check the expression?"), nil
		}
		result = left / right
	}

	return core.Resolved(h.Name(), fmt.Sprintf("%s %s %s = %s", m[1], m[2], m[3], formatNumber(result))), nil
}

// formatNumber trims trailing zeros so whole results read as integers.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strings.TrimRight(strings.TrimRight(strconv.FormatFloat(v, 'f', 6, 64), "0"), ".")
}
