// Filter implements the scope/target filter language of SPEC_FULL.md §4.10
// (component C13): a small conjunctive/disjunctive expression language over
// `<column> <op> <literal>` predicates that compiles to a parameterized SQL
// WHERE clause. The design note in spec.md §9 ("replace ad-hoc filter
// concatenation with a parameterised builder that only accepts a closed set
// of column names per entity type") is implemented here directly: Parse
// takes the allow-list of columns for the target entity type and refuses
// anything outside it, and every literal becomes a `?` placeholder bound
// through database/sql — the SQL string itself never contains user input.
package db

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/shlex"
)

// Filter is a compiled WHERE clause plus its positional arguments.
type Filter struct {
	where string
	args  []interface{}
}

// Any returns the identity filter ("true"), matching every row.
func Any() Filter {
	return Filter{where: "1=1"}
}

// AndScoped appends `unscoped=0`, restricting the filter to in-scope rows.
// Because the store tracks `scoped` (true by default) rather than
// `unscoped`, this composes against the stored column directly.
func (f Filter) AndScoped() Filter {
	return f.and("scoped = ?", true)
}

func (f Filter) and(clause string, arg interface{}) Filter {
	where := f.where
	if where == "" {
		where = "1=1"
	}
	return Filter{
		where: fmt.Sprintf("(%s) AND (%s)", where, clause),
		args:  append(append([]interface{}{}, f.args...), arg),
	}
}

// SQL returns the WHERE-clause body (without the "WHERE " keyword) and its
// bind arguments, ready for database/sql.
func (f Filter) SQL() (string, []interface{}) {
	if f.where == "" {
		return "1=1", nil
	}
	return f.where, f.args
}

var operators = []string{">=", "<=", "!=", "<>", "=", ">", "<", "~"}

// ParseOptional parses args into a Filter; an empty args list is equivalent
// to Any(). columns is the closed set of column names permitted for the
// target entity type (spec §9's "parameterised builder").
func ParseOptional(args []string, columns map[string]bool) (Filter, error) {
	if len(args) == 0 {
		return Any(), nil
	}
	return Parse(args, columns)
}

// Parse parses args (already-tokenized CLI words, or a single string that
// will be re-tokenized with shell-word rules) into a Filter.
func Parse(args []string, columns map[string]bool) (Filter, error) {
	expr := strings.Join(args, " ")
	tokens, err := shlex.Split(expr)
	if err != nil {
		return Filter{}, fmt.Errorf("failed to tokenize filter: %w", err)
	}
	if len(tokens) == 0 {
		return Any(), nil
	}

	p := &parser{tokens: tokens, columns: columns}
	where, fargs, err := p.parseExpr()
	if err != nil {
		return Filter{}, err
	}
	if p.pos != len(p.tokens) {
		return Filter{}, fmt.Errorf("unexpected trailing token %q in filter", p.tokens[p.pos])
	}
	return Filter{where: where, args: fargs}, nil
}

type parser struct {
	tokens  []string
	pos     int
	columns map[string]bool
}

func (p *parser) peek() (string, bool) {
	if p.pos >= len(p.tokens) {
		return "", false
	}
	return p.tokens[p.pos], true
}

func (p *parser) parseExpr() (string, []interface{}, error) {
	left, largs, err := p.parsePredicate()
	if err != nil {
		return "", nil, err
	}
	where := left
	args := largs

	for {
		tok, ok := p.peek()
		if !ok {
			break
		}
		lower := strings.ToLower(tok)
		if lower != "and" && lower != "or" {
			break
		}
		p.pos++

		right, rargs, err := p.parsePredicate()
		if err != nil {
			return "", nil, err
		}
		op := "AND"
		if lower == "or" {
			op = "OR"
		}
		where = fmt.Sprintf("(%s) %s (%s)", where, op, right)
		args = append(args, rargs...)
	}

	return where, args, nil
}

// parsePredicate accepts either a single already-joined token like
// `value=foo` or three tokens `value = foo`, both of which are common
// shapes for CLI-typed filters.
func (p *parser) parsePredicate() (string, []interface{}, error) {
	tok, ok := p.peek()
	if !ok {
		return "", nil, fmt.Errorf("expected predicate, got end of filter")
	}

	for _, op := range operators {
		if idx := strings.Index(tok, op); idx > 0 {
			col := tok[:idx]
			val := tok[idx+len(op):]
			if val != "" {
				p.pos++
				return p.buildPredicate(col, op, val)
			}
		}
	}

	// three-token form: column op literal
	if p.pos+2 < len(p.tokens) {
		col := p.tokens[p.pos]
		op := p.tokens[p.pos+1]
		val := p.tokens[p.pos+2]
		for _, want := range operators {
			if op == want {
				p.pos += 3
				return p.buildPredicate(col, op, val)
			}
		}
	}

	return "", nil, fmt.Errorf("failed to parse filter predicate near %q", tok)
}

func (p *parser) buildPredicate(col, op, val string) (string, []interface{}, error) {
	col = strings.TrimSpace(col)
	if p.columns != nil && !p.columns[col] {
		return "", nil, fmt.Errorf("unknown or disallowed column %q", col)
	}

	sqlOp := op
	if op == "~" {
		sqlOp = "LIKE"
		val = "%" + val + "%"
	} else if op == "<>" {
		sqlOp = "!="
	}

	if n, err := strconv.ParseInt(val, 10, 64); err == nil {
		return fmt.Sprintf("%s %s ?", col, sqlOp), []interface{}{n}, nil
	}

	return fmt.Sprintf("%s %s ?", col, sqlOp), []interface{}{val}, nil
}
