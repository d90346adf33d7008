package gen

import (
	"fmt"
	"strings"

	"github.com/dave/jennifer/jen"
)

// goType parses the Go type expression of an extra_fields entry. Named
// types written as "import/path.Name" are qualified, and imported by the
// generated file, at any depth: "map[string][]*go/ast.Ident" imports
// go/ast. Type parameters, named func parameters and non-empty struct or
// interface literals are not supported.
func goType(s string) (jen.Code, error) {
	p := &typeParser{src: s}
	c, err := p.typ()
	if err != nil {
		return nil, err
	}
	if p.space(); p.pos < len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return c, nil
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) errorf(format string, args ...any) error {
	return fmt.Errorf("type %q: offset %d: %s", p.src, p.pos, fmt.Sprintf(format, args...))
}

func (p *typeParser) space() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

// eat consumes tok if the input continues with it.
func (p *typeParser) eat(tok string) bool {
	p.space()
	if strings.HasPrefix(p.src[p.pos:], tok) {
		p.pos += len(tok)
		return true
	}
	return false
}

func (p *typeParser) expect(tok string) error {
	if !p.eat(tok) {
		return p.errorf("expected %q", tok)
	}
	return nil
}

// keyword consumes kw when it is not the prefix of a longer name.
func (p *typeParser) keyword(kw string) bool {
	p.space()
	rest := p.src[p.pos:]
	if !strings.HasPrefix(rest, kw) || (len(rest) > len(kw) && !isDelim(rest[len(kw)])) {
		return false
	}
	p.pos += len(kw)
	return true
}

func isDelim(c byte) bool {
	return strings.IndexByte(" \t,()[]{}*<", c) >= 0
}

func (p *typeParser) typ() (jen.Code, error) {
	switch {
	case p.eat("*"):
		elem, err := p.typ()
		return jen.Op("*").Add(elem), err
	case p.eat("<-"):
		if !p.keyword("chan") {
			return nil, p.errorf("expected chan")
		}
		elem, err := p.typ()
		return jen.Op("<-").Chan().Add(elem), err
	case p.eat("["):
		return p.array()
	case p.keyword("map"):
		if err := p.expect("["); err != nil {
			return nil, err
		}
		key, err := p.typ()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		elem, err := p.typ()
		return jen.Map(key).Add(elem), err
	case p.keyword("chan"):
		dir := p.eat("<-")
		elem, err := p.typ()
		if dir {
			return jen.Chan().Op("<-").Add(elem), err
		}
		return jen.Chan().Add(elem), err
	case p.keyword("func"):
		return p.signature()
	case p.keyword("struct"):
		if err := p.empty(); err != nil {
			return nil, err
		}
		return jen.Struct(), nil
	case p.keyword("interface"):
		if err := p.empty(); err != nil {
			return nil, err
		}
		return jen.Interface(), nil
	}
	return p.name()
}

func (p *typeParser) array() (jen.Code, error) {
	if p.eat("]") {
		elem, err := p.typ()
		return jen.Index().Add(elem), err
	}
	p.space()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ']' && !isDelim(p.src[p.pos]) {
		p.pos++
	}
	n := p.src[start:p.pos]
	if n == "" {
		return nil, p.errorf("expected array length")
	}
	if err := p.expect("]"); err != nil {
		return nil, err
	}
	elem, err := p.typ()
	return jen.Index(jen.Id(n)).Add(elem), err
}

func (p *typeParser) empty() error {
	if err := p.expect("{"); err != nil {
		return err
	}
	return p.expect("}")
}

// signature parses the parameters and results that follow "func".
func (p *typeParser) signature() (jen.Code, error) {
	params, err := p.list("(", ")")
	if err != nil {
		return nil, err
	}
	fn := jen.Func().Params(params...)
	p.space()
	if p.pos == len(p.src) || strings.IndexByte(",)]}", p.src[p.pos]) >= 0 {
		return fn, nil
	}
	if strings.HasPrefix(p.src[p.pos:], "(") {
		results, err := p.list("(", ")")
		return fn.Params(results...), err
	}
	result, err := p.typ()
	return fn.Add(result), err
}

// list parses a comma separated type list between open and end. The
// last element of a parameter list may be variadic.
func (p *typeParser) list(open, end string) ([]jen.Code, error) {
	if err := p.expect(open); err != nil {
		return nil, err
	}
	var list []jen.Code
	if p.eat(end) {
		return list, nil
	}
	for {
		variadic := p.eat("...")
		c, err := p.typ()
		if err != nil {
			return nil, err
		}
		if variadic {
			c = jen.Op("...").Add(c)
		}
		list = append(list, c)
		if p.eat(end) {
			return list, nil
		}
		if variadic {
			return nil, p.errorf("variadic type must be last")
		}
		if err := p.expect(","); err != nil {
			return nil, err
		}
	}
}

// name parses a predeclared, local or qualified type name.
func (p *typeParser) name() (jen.Code, error) {
	p.space()
	start := p.pos
	for p.pos < len(p.src) && !isDelim(p.src[p.pos]) {
		p.pos++
	}
	s := p.src[start:p.pos]
	if s == "" {
		return nil, p.errorf("expected type")
	}
	i := strings.LastIndex(s, ".")
	if i < 0 {
		if !isIdent(s) {
			return nil, p.errorf("invalid type name %q", s)
		}
		return jen.Id(s), nil
	}
	path, name := s[:i], s[i+1:]
	if path == "" || strings.HasSuffix(path, "/") || !isIdent(name) {
		return nil, p.errorf("invalid qualified type %q", s)
	}
	return jen.Qual(path, name), nil
}
