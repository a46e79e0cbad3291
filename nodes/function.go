package nodes

import (
	"regexp"
	"strings"

	"github.com/EgbertW/WASP-sub001/internal/errs"
)

var functionName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Function is a SQL function call such as COUNT(x) or LOWER(x).
type Function struct {
	Predications
	Combinable
	Name     string
	Args     []Node
	Distinct bool
}

// NewFunction creates a function call. The name must be a plain
// identifier; it is rendered upper-cased and unquoted.
func NewFunction(name string, args ...Node) (*Function, error) {
	if !functionName.MatchString(name) {
		return nil, errs.Invalid("function", "invalid function name %q", name)
	}
	for i, a := range args {
		if a == nil {
			return nil, errs.Invalid("function", "argument %d of %s is nil", i, name)
		}
	}
	return newFunction(strings.ToUpper(name), args), nil
}

func newFunction(name string, args []Node) *Function {
	n := &Function{Name: name, Args: args}
	n.Predications.self = n
	n.Combinable.self = n
	return n
}

func (n *Function) Accept(v Visitor) string { return v.VisitFunction(n) }

// Count creates COUNT(expr), or COUNT(*) when expr is nil.
func Count(expr Node) *Function {
	if expr == nil {
		expr = Star()
	}
	return newFunction("COUNT", []Node{expr})
}

// CountDistinct creates COUNT(DISTINCT expr).
func CountDistinct(expr Node) *Function {
	n := newFunction("COUNT", []Node{expr})
	n.Distinct = true
	return n
}

// Sum creates SUM(expr).
func Sum(expr Node) *Function { return newFunction("SUM", []Node{expr}) }

// Max creates MAX(expr).
func Max(expr Node) *Function { return newFunction("MAX", []Node{expr}) }

// Min creates MIN(expr).
func Min(expr Node) *Function { return newFunction("MIN", []Node{expr}) }

// Avg creates AVG(expr).
func Avg(expr Node) *Function { return newFunction("AVG", []Node{expr}) }

// Lower creates LOWER(expr).
func Lower(expr Node) *Function { return newFunction("LOWER", []Node{expr}) }

// Coalesce creates COALESCE(args...).
func Coalesce(args ...Node) *Function { return newFunction("COALESCE", args) }
