// Package asp reads answer sets of logic programs written in the clingo
// input language. Programs made only of ground facts are parsed directly;
// programs with rules are handed to the clingo solver.
package asp

import (
	"strconv"
	"strings"
)

// TermKind identifies the shape of a Term.
type TermKind int

const (
	// Symbol is a constant such as sun or retrograde.
	Symbol TermKind = iota + 1
	// Number is a numeric constant.
	Number
	// String is a quoted string constant.
	String
	// Function is a compound term f(a, b). Tuples are functions with an
	// empty name.
	Function
)

// Term is a ground term of a logic program.
type Term struct {
	Kind TermKind
	Name string // symbol name, unquoted string value, or function name
	Num  float64
	Args []Term
}

// Sym returns a Symbol term.
func Sym(name string) Term { return Term{Kind: Symbol, Name: name} }

// Num returns a Number term.
func Num(v float64) Term { return Term{Kind: Number, Num: v} }

// Str returns a String term.
func Str(s string) Term { return Term{Kind: String, Name: s} }

// Fn returns a Function term.
func Fn(name string, args ...Term) Term { return Term{Kind: Function, Name: name, Args: args} }

// Tuple returns an unnamed Function term.
func Tuple(args ...Term) Term { return Fn("", args...) }

// IsFunction reports whether t is a compound term named name.
func (t Term) IsFunction(name string) bool {
	return t.Kind == Function && t.Name == name
}

// Float returns the numeric value of t. Strings holding a number, such as
// "3.4", convert too.
func (t Term) Float() (float64, bool) {
	switch t.Kind {
	case Number:
		return t.Num, true
	case String:
		f, err := strconv.ParseFloat(strings.TrimSpace(t.Name), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// Text returns t as plain text: the symbol name, the unquoted string, the
// number, or the clingo rendering of a compound term.
func (t Term) Text() string {
	switch t.Kind {
	case Symbol, String:
		return t.Name
	default:
		return t.String()
	}
}

// String renders t in clingo syntax.
func (t Term) String() string {
	switch t.Kind {
	case Symbol:
		return t.Name
	case Number:
		return strconv.FormatFloat(t.Num, 'g', -1, 64)
	case String:
		return strconv.Quote(t.Name)
	case Function:
		var b strings.Builder
		b.WriteString(t.Name)
		b.WriteByte('(')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(a.String())
		}
		if t.Name == "" && len(t.Args) == 1 {
			b.WriteByte(',')
		}
		b.WriteByte(')')
		return b.String()
	default:
		return "?"
	}
}

// AnswerSet is the set of atoms of one stable model.
type AnswerSet []Term

// ByPredicate groups the atoms of a by predicate name, keeping the argument
// lists in order. A bare symbol atom has an empty argument list.
func (a AnswerSet) ByPredicate() map[string][][]Term {
	out := make(map[string][][]Term)
	for _, atom := range a {
		switch atom.Kind {
		case Symbol:
			out[atom.Name] = append(out[atom.Name], nil)
		case Function:
			out[atom.Name] = append(out[atom.Name], atom.Args)
		}
	}
	return out
}
