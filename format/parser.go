// Package format reads the line-oriented term-file representation used
// by the psl-go CLI and by reasoner package tests. It is a convenience
// for exercising the reasoner without a real grounding layer, not a rule
// grounder: it only ever produces reasoner.TermSpec values, one per
// line.
//
// Each non-blank, non-comment line has the form:
//
//	KIND WEIGHT COMPARATOR CONSTANT coeff:index [coeff:index ...]
//
// KIND is one of HINGE, SQUAREDHINGE, EQ, LE, GE. WEIGHT should be "-"
// for the three constraint kinds: a numeric weight is parsed and passed
// on, and reasoner.TermStore.Add rejects a constraint that carries a
// weight. COMPARATOR is only meaningful for
// GE/LE and is otherwise "-". Lines beginning with '#' are comments.
package format

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/linqs/psl-go/reasoner"
)

// ParseTerms reads every term line from f and returns the resulting
// TermSpecs in file order, along with the number of global variables the
// highest referenced index implies.
func ParseTerms(f io.Reader) ([]reasoner.TermSpec, int, error) {
	scanner := bufio.NewScanner(f)
	var specs []reasoner.TermSpec
	numGlobals := 0
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		spec, err := parseLine(line)
		if err != nil {
			return nil, 0, fmt.Errorf("line %d: %w", lineNo, err)
		}

		for _, g := range spec.Variables {
			if g+1 > numGlobals {
				numGlobals = g + 1
			}
		}

		specs = append(specs, spec)
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("could not read term file: %w", err)
	}

	return specs, numGlobals, nil
}

func parseLine(line string) (reasoner.TermSpec, error) {
	fields := strings.Fields(line)
	if len(fields) < 5 {
		return reasoner.TermSpec{}, fmt.Errorf("expected at least 5 fields, got %d", len(fields))
	}

	kind, comparator, err := parseKind(fields[0])
	if err != nil {
		return reasoner.TermSpec{}, err
	}

	var weight float32
	if fields[1] != "-" {
		w, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return reasoner.TermSpec{}, fmt.Errorf("invalid weight %q: %w", fields[1], err)
		}
		weight = float32(w)
	}

	if fields[2] != "-" {
		c, err := parseComparator(fields[2])
		if err != nil {
			return reasoner.TermSpec{}, err
		}
		comparator = c
	}

	constant, err := strconv.ParseFloat(fields[3], 32)
	if err != nil {
		return reasoner.TermSpec{}, fmt.Errorf("invalid constant %q: %w", fields[3], err)
	}

	terms := fields[4:]
	coefficients := make([]float32, len(terms))
	variables := make([]int, len(terms))
	for i, tok := range terms {
		coef, idx, err := parseTerm(tok)
		if err != nil {
			return reasoner.TermSpec{}, err
		}
		coefficients[i] = coef
		variables[i] = idx
	}

	return reasoner.TermSpec{
		Kind:         kind,
		Comparator:   comparator,
		Weight:       weight,
		Coefficients: coefficients,
		Constant:     float32(constant),
		Variables:    variables,
	}, nil
}

func parseKind(tok string) (reasoner.Kind, reasoner.Comparator, error) {
	switch strings.ToUpper(tok) {
	case "HINGE":
		return reasoner.Hinge, 0, nil
	case "SQUAREDHINGE":
		return reasoner.SquaredHinge, 0, nil
	case "EQ":
		return reasoner.LinearEquality, 0, nil
	case "LE":
		return reasoner.LinearInequality, reasoner.LE, nil
	case "GE":
		return reasoner.LinearInequality, reasoner.GE, nil
	default:
		return 0, 0, fmt.Errorf("unknown term kind %q", tok)
	}
}

func parseComparator(tok string) (reasoner.Comparator, error) {
	switch tok {
	case "<=":
		return reasoner.LE, nil
	case ">=":
		return reasoner.GE, nil
	default:
		return 0, fmt.Errorf("unknown comparator %q", tok)
	}
}

func parseTerm(tok string) (coefficient float32, globalIndex int, err error) {
	parts := strings.SplitN(tok, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid coeff:index term %q", tok)
	}
	c, err := strconv.ParseFloat(parts[0], 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid coefficient in %q: %w", tok, err)
	}
	idx, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid global index in %q: %w", tok, err)
	}
	return float32(c), idx, nil
}
