package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"synapse/internal/knowledge"
	"synapse/internal/models"
)

var (
	errDivisionByZero = errors.New("division by zero")
	errNegativeRoot   = errors.New("square root of a negative number")
)

// exprPattern is one arithmetic expression form. The table is ordered
// most-specific first; the first match wins.
type exprPattern struct {
	name string
	re   *regexp.Regexp
	eval func(m []string) (expr string, value float64, err error)
}

const num = `(-?\d+(?:\.\d+)?)`

var exprPatterns = []exprPattern{
	{
		name: "chained symbols",
		re:   regexp.MustCompile(num + `\s*([+\-*×x÷/])\s*` + num + `\s*([+\-*×x÷/])\s*` + num),
		eval: func(m []string) (string, float64, error) {
			a, op1, b, op2, c := parseNum(m[1]), canonicalOp(m[2]), parseNum(m[3]), canonicalOp(m[4]), parseNum(m[5])
			expr := fmt.Sprintf("%s %s %s %s %s", m[1], op1, m[3], op2, m[5])
			// Left-to-right, no precedence: matches the source's simple
			// chained evaluation.
			partial, err := applyOp(a, op1, b)
			if err != nil {
				return expr, 0, err
			}
			value, err := applyOp(partial, op2, c)
			return expr, value, err
		},
	},
	{
		name: "square root",
		re:   regexp.MustCompile(`(?:square root of|sqrt(?: of)?\s*\(?)\s*` + num + `\)?`),
		eval: func(m []string) (string, float64, error) {
			n := parseNum(m[1])
			expr := fmt.Sprintf("sqrt(%s)", m[1])
			if n < 0 {
				return expr, 0, errNegativeRoot
			}
			return expr, math.Sqrt(n), nil
		},
	},
	{
		name: "power phrase",
		re:   regexp.MustCompile(num + `\s+to the power of\s+` + num),
		eval: func(m []string) (string, float64, error) {
			a, b := parseNum(m[1]), parseNum(m[2])
			return fmt.Sprintf("%s ^ %s", m[1], m[2]), math.Pow(a, b), nil
		},
	},
	{
		name: "phrasal words",
		re:   regexp.MustCompile(`(?:what(?:'s| is)|calculate|compute|how much is)\s+` + num + `\s+(plus|minus|times|multiplied by|divided by|over)\s+` + num),
		eval: evalWordPair,
	},
	{
		name: "operator words",
		re:   regexp.MustCompile(num + `\s+(plus|minus|times|multiplied by|divided by|over)\s+` + num),
		eval: evalWordPair,
	},
	{
		name: "operator symbols",
		re:   regexp.MustCompile(num + `\s*([+\-*×x÷/^])\s*` + num),
		eval: func(m []string) (string, float64, error) {
			a, op, b := parseNum(m[1]), canonicalOp(m[2]), parseNum(m[3])
			expr := fmt.Sprintf("%s %s %s", m[1], op, m[3])
			value, err := applyOp(a, op, b)
			return expr, value, err
		},
	},
}

func evalWordPair(m []string) (string, float64, error) {
	a, op, b := parseNum(m[1]), canonicalOp(m[2]), parseNum(m[3])
	expr := fmt.Sprintf("%s %s %s", m[1], op, m[3])
	value, err := applyOp(a, op, b)
	return expr, value, err
}

func parseNum(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func canonicalOp(op string) string {
	switch op {
	case "plus", "+":
		return "+"
	case "minus", "-":
		return "-"
	case "times", "multiplied by", "*", "×", "x":
		return "*"
	case "divided by", "over", "/", "÷":
		return "/"
	case "^":
		return "^"
	}
	return op
}

func applyOp(a float64, op string, b float64) (float64, error) {
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return 0, errDivisionByZero
		}
		return a / b, nil
	case "^":
		return math.Pow(a, b), nil
	}
	return 0, fmt.Errorf("unknown operator %q", op)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ArithmeticProcessor evaluates arithmetic expressions found in the
// message and reports the digital-root analysis of the result.
type ArithmeticProcessor struct {
	store *knowledge.Store
}

// NewArithmeticProcessor creates the arithmetic pathway.
func NewArithmeticProcessor(store *knowledge.Store) *ArithmeticProcessor {
	return &ArithmeticProcessor{store: store}
}

// Name implements Processor.
func (p *ArithmeticProcessor) Name() models.Pathway { return models.PathwayArithmetic }

// Process tries each expression pattern in order. Domain errors (division
// by zero, negative square root) come back as explicit low-confidence
// results, never as panics.
func (p *ArithmeticProcessor) Process(ctx context.Context, message string, activation float64) *models.PathwayResult {
	msg := strings.ToLower(message)

	for _, pattern := range exprPatterns {
		m := pattern.re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}

		expr, value, err := pattern.eval(m)
		reasoning := []string{fmt.Sprintf("matched %s pattern: %s", pattern.name, expr)}

		if err != nil {
			reasoning = append(reasoning, fmt.Sprintf("calculation failed: %v", err))
			return &models.PathwayResult{
				Pathway:    models.PathwayArithmetic,
				Confidence: 0.3,
				Answer:     fmt.Sprintf("%s is undefined — %v.", expr, err),
				Data:       map[string]any{"expression": expr, "error": err.Error()},
				Reasoning:  reasoning,
			}
		}

		valueStr := formatNumber(value)
		answer := fmt.Sprintf("%s = %s", expr, valueStr)
		data := map[string]any{"expression": expr, "result": value}
		reasoning = append(reasoning, fmt.Sprintf("evaluated %s = %s", expr, valueStr))

		if rounded := int64(math.Round(math.Abs(value))); rounded >= 1 {
			root := DigitalRoot(rounded)
			data["digital_root"] = root
			if IsTeslaNumber(root) {
				data["root_group"] = "tesla"
				answer += fmt.Sprintf(". Digital root %d — a Tesla number (3-6-9 group).", root)
			} else {
				data["root_group"] = "vortex"
				answer += fmt.Sprintf(". Digital root %d — part of the 1-2-4-8-7-5 vortex cycle.", root)
			}
			reasoning = append(reasoning, fmt.Sprintf("digital root of %d is %d", rounded, root))
		}

		p.store.Upsert(ctx, models.KnowledgeEntry{
			Kind:       models.KindArithmetic,
			Key:        expr,
			Value:      valueStr,
			Formula:    answer,
			Source:     models.SourceCalculated,
			Confidence: 0.95,
		})

		return &models.PathwayResult{
			Pathway:    models.PathwayArithmetic,
			Confidence: 0.95,
			Answer:     answer,
			Data:       data,
			Reasoning:  reasoning,
		}
	}

	return nil
}
